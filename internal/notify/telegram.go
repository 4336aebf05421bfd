package notify

import (
	"context"
	"fmt"

	"github.com/alanyoungcy/roarwatch/internal/domain"
)

// TelegramSender posts operational alerts to the admin chat through the
// bot's own transport, so alerts and buy notifications share one token and
// one HTTP client.
type TelegramSender struct {
	transport domain.Transport
	chatID    int64
}

// NewTelegramSender creates a TelegramSender for the given admin chat.
func NewTelegramSender(transport domain.Transport, chatID int64) *TelegramSender {
	return &TelegramSender{transport: transport, chatID: chatID}
}

// Send posts the alert to the admin chat with the title in bold.
func (t *TelegramSender) Send(ctx context.Context, title, message string) error {
	text := fmt.Sprintf("*%s*\n%s", title, message)
	if err := t.transport.SendMessage(ctx, t.chatID, text); err != nil {
		return fmt.Errorf("telegram: send alert: %w", err)
	}
	return nil
}

// Name returns the sender identifier.
func (t *TelegramSender) Name() string {
	return "telegram"
}
