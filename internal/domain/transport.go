package domain

import "context"

// Transport delivers messages and photos to a chat recipient. Errors are
// classified with DeliveryKind; ErrBlocked means the recipient blocked or
// removed the bot.
type Transport interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string) error
}

// Renderer produces notification card images as encoded PNG bytes.
type Renderer interface {
	// Render draws the plain remaining-count card used for status replies.
	Render(remaining float64) ([]byte, error)
	// RenderEvent draws the buy notification card with amount and impact lines.
	RenderEvent(ev BuyEvent) ([]byte, error)
}
