package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/roarwatch/internal/domain"
)

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err, "renderer output must be a valid PNG")
	return img
}

func TestRenderFallbackCanvas(t *testing.T) {
	c, err := NewCard(Config{Width: 400, Height: 300})
	require.NoError(t, err)

	data, err := c.Render(2_000_000)
	require.NoError(t, err)

	img := decodePNG(t, data)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}

func TestRenderDefaultsDimensions(t *testing.T) {
	c, err := NewCard(Config{})
	require.NoError(t, err)

	data, err := c.Render(100)
	require.NoError(t, err)

	img := decodePNG(t, data)
	assert.Equal(t, defaultWidth, img.Bounds().Dx())
	assert.Equal(t, defaultHeight, img.Bounds().Dy())
}

func TestRenderEventCard(t *testing.T) {
	c, err := NewCard(Config{Symbol: "ROAR"})
	require.NoError(t, err)

	data, err := c.RenderEvent(domain.BuyEvent{
		Amount:      1234.5,
		PriceImpact: 7.2,
		Remaining:   56_780,
	})
	require.NoError(t, err)
	decodePNG(t, data)
}

func TestRenderUsesBackgroundAtNativeSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bg.png")

	bg := image.NewRGBA(image.Rect(0, 0, 640, 480))
	for y := 0; y < 480; y++ {
		for x := 0; x < 640; x++ {
			bg.Set(x, y, color.RGBA{0x20, 0x40, 0x60, 0xff})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, bg))
	require.NoError(t, f.Close())

	c, err := NewCard(Config{BackgroundPath: path, Width: 800, Height: 600})
	require.NoError(t, err)

	data, err := c.Render(42)
	require.NoError(t, err)

	img := decodePNG(t, data)
	assert.Equal(t, 640, img.Bounds().Dx(), "background sets the canvas size")
	assert.Equal(t, 480, img.Bounds().Dy())
}

func TestRenderMissingBackgroundFallsBack(t *testing.T) {
	c, err := NewCard(Config{BackgroundPath: "/does/not/exist.png", Width: 320, Height: 240})
	require.NoError(t, err)

	data, err := c.Render(1)
	require.NoError(t, err)

	img := decodePNG(t, data)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 240, img.Bounds().Dy())
}
