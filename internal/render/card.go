// Package render builds the PNG notification card attached to buy alerts and
// formats the token amounts shown on it.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/alanyoungcy/roarwatch/internal/domain"
)

const (
	defaultWidth  = 800
	defaultHeight = 600

	headlineFontSize = 48
	detailFontSize   = 36
	captionFontSize  = 24

	bandMargin = 50
	bandHeight = 200
)

var (
	canvasFill = color.RGBA{0x1a, 0x1a, 0x2e, 0xff}
	bandFill   = color.RGBA{0, 0, 0, 180}
	textLight  = color.RGBA{238, 238, 238, 255}
	impactHot  = color.RGBA{255, 100, 100, 255}
	impactCalm = color.RGBA{100, 255, 100, 255}
)

// Config configures the Card renderer.
type Config struct {
	BackgroundPath string // optional; plain dark canvas when empty or unreadable
	Width          int
	Height         int
	Symbol         string
}

// Card renders the buy notification image: the configured background with a
// translucent band near the bottom carrying the remaining-supply headline and
// optional purchase details. All text is centered and outlined in black so it
// stays readable on any background.
type Card struct {
	backgroundPath string
	width          int
	height         int
	symbol         string

	headline font.Face
	detail   font.Face
	caption  font.Face
}

var _ domain.Renderer = (*Card)(nil)

// NewCard creates a Card renderer with the bundled Go fonts.
func NewCard(cfg Config) (*Card, error) {
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultHeight
	}
	if cfg.Symbol == "" {
		cfg.Symbol = "ROAR"
	}

	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("render: parse bold font: %w", err)
	}
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("render: parse regular font: %w", err)
	}

	c := &Card{
		backgroundPath: cfg.BackgroundPath,
		width:          cfg.Width,
		height:         cfg.Height,
		symbol:         cfg.Symbol,
	}
	if c.headline, err = newFace(bold, headlineFontSize); err != nil {
		return nil, err
	}
	if c.detail, err = newFace(regular, detailFontSize); err != nil {
		return nil, err
	}
	if c.caption, err = newFace(regular, captionFontSize); err != nil {
		return nil, err
	}
	return c, nil
}

func newFace(f *sfnt.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("render: new face size %.0f: %w", size, err)
	}
	return face, nil
}

// Render produces a status card showing only the remaining supply headline.
func (c *Card) Render(remaining float64) ([]byte, error) {
	return c.compose(cardContent{remaining: remaining})
}

// RenderEvent produces the buy alert card for a detected purchase. Zero
// amount or impact lines are omitted, mirroring the alert text.
func (c *Card) RenderEvent(ev domain.BuyEvent) ([]byte, error) {
	return c.compose(cardContent{
		remaining:  ev.Remaining,
		amount:     ev.Amount,
		impact:     ev.PriceImpact,
		showAmount: ev.Amount > 0,
		showImpact: ev.PriceImpact > 0,
	})
}

type cardContent struct {
	remaining  float64
	amount     float64
	impact     float64
	showAmount bool
	showImpact bool
}

func (c *Card) compose(content cardContent) ([]byte, error) {
	canvas := c.background()
	w := canvas.Bounds().Dx()
	h := canvas.Bounds().Dy()

	bandTop := h - bandHeight - bandMargin
	band := image.Rect(bandMargin, bandTop, w-bandMargin, bandTop+bandHeight)
	draw.Draw(canvas, band, image.NewUniform(bandFill), image.Point{}, draw.Over)

	headline := fmt.Sprintf("%s LEFT: %s", strings.ToUpper(c.symbol), FormatAmount(content.remaining))
	y := bandTop + 30
	drawCentered(canvas, c.headline, headline, y, textLight, 2)

	if content.showAmount {
		y += 60
		drawCentered(canvas, c.detail, fmt.Sprintf("Buy: %.4f %s", content.amount, c.symbol), y, textLight, 1)
	}
	if content.showImpact {
		y += 40
		col := impactCalm
		if content.impact > 5 {
			col = impactHot
		}
		drawCentered(canvas, c.caption, fmt.Sprintf("Price Impact: %.2f%%", content.impact), y, col, 1)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("render: encode card: %w", err)
	}
	return buf.Bytes(), nil
}

// background loads the configured image at its native size, or a plain dark
// canvas at the configured size when the file is missing or undecodable.
func (c *Card) background() *image.RGBA {
	if c.backgroundPath != "" {
		if f, err := os.Open(c.backgroundPath); err == nil {
			defer f.Close()
			if src, _, err := image.Decode(f); err == nil {
				b := src.Bounds()
				canvas := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
				draw.Draw(canvas, canvas.Bounds(), src, b.Min, draw.Src)
				return canvas
			}
		}
	}
	canvas := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(canvasFill), image.Point{}, draw.Src)
	return canvas
}

// drawCentered draws s horizontally centered with its top edge at top,
// outlined in black by the given radius.
func drawCentered(dst draw.Image, face font.Face, s string, top int, col color.Color, outline int) {
	width := font.MeasureString(face, s).Ceil()
	x := (dst.Bounds().Dx() - width) / 2
	y := top + face.Metrics().Ascent.Ceil()

	black := image.NewUniform(color.RGBA{0, 0, 0, 255})
	for dx := -outline; dx <= outline; dx++ {
		for dy := -outline; dy <= outline; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			d := font.Drawer{Dst: dst, Src: black, Face: face, Dot: fixed.P(x+dx, y+dy)}
			d.DrawString(s)
		}
	}
	d := font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face, Dot: fixed.P(x, y)}
	d.DrawString(s)
}
