package telegram

import (
	"encoding/json"
	"strings"
)

// apiResponse is the standard Bot API envelope wrapping every method result.
type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
	ErrorCode   int             `json:"error_code"`
}

// Update is one inbound update from getUpdates.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message is an inbound chat message.
type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from"`
	Chat      Chat   `json:"chat"`
	Date      int64  `json:"date"`
	Text      string `json:"text"`
}

// Chat identifies the conversation a message belongs to.
type Chat struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"` // "private", "group", "supergroup", "channel"
	Title string `json:"title"`
}

// User is a Telegram account, including the bot itself via getMe.
type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

// Command splits a "/cmd@BotName args" message into the lowercase command
// (without slash or mention) and the remaining argument string. It returns
// an empty command for non-command messages.
func (m *Message) Command() (cmd, args string) {
	text := strings.TrimSpace(m.Text)
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}
	head, rest, _ := strings.Cut(text[1:], " ")
	if at := strings.IndexByte(head, '@'); at >= 0 {
		head = head[:at]
	}
	return strings.ToLower(head), strings.TrimSpace(rest)
}

// Addressed reports whether a command mention (if any) targets the given bot
// username. Messages without a mention are addressed to everyone.
func (m *Message) Addressed(botUsername string) bool {
	text := strings.TrimSpace(m.Text)
	if !strings.HasPrefix(text, "/") {
		return true
	}
	head, _, _ := strings.Cut(text[1:], " ")
	at := strings.IndexByte(head, '@')
	if at < 0 {
		return true
	}
	return strings.EqualFold(head[at+1:], botUsername)
}
