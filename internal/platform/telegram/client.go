// Package telegram implements the chat transport against the Telegram Bot
// API: outbound messages and photo cards for notifications, inbound command
// updates via long polling.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/alanyoungcy/roarwatch/internal/domain"
)

const defaultAPIBase = "https://api.telegram.org"

// Client is the Bot API client. Outbound calls use a short-timeout HTTP
// client; getUpdates long polls use a separate client whose timeout exceeds
// the poll window.
type Client struct {
	apiBase     string
	token       string
	pollTimeout time.Duration
	client      *http.Client
	pollClient  *http.Client
}

// NewClient creates a Bot API client for the given token. pollTimeout is the
// long-poll window passed to getUpdates; zero selects 50s.
func NewClient(token string, pollTimeout time.Duration) *Client {
	if pollTimeout <= 0 {
		pollTimeout = 50 * time.Second
	}
	return &Client{
		apiBase:     defaultAPIBase,
		token:       token,
		pollTimeout: pollTimeout,
		client:      &http.Client{Timeout: 10 * time.Second},
		pollClient:  &http.Client{Timeout: pollTimeout + 15*time.Second},
	}
}

var _ domain.Transport = (*Client)(nil)

// SendMessage posts a Markdown text message to the given chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	payload := map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "Markdown",
	}
	if _, err := c.doPost(ctx, "sendMessage", payload); err != nil {
		return fmt.Errorf("telegram: send message to %d: %w", chatID, err)
	}
	return nil
}

// SendPhoto uploads a PNG photo with a Markdown caption to the given chat.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return fmt.Errorf("telegram: write chat_id field: %w", err)
	}
	if caption != "" {
		if err := w.WriteField("caption", caption); err != nil {
			return fmt.Errorf("telegram: write caption field: %w", err)
		}
		if err := w.WriteField("parse_mode", "Markdown"); err != nil {
			return fmt.Errorf("telegram: write parse_mode field: %w", err)
		}
	}
	part, err := w.CreateFormFile("photo", "card.png")
	if err != nil {
		return fmt.Errorf("telegram: create photo part: %w", err)
	}
	if _, err := part.Write(photo); err != nil {
		return fmt.Errorf("telegram: write photo part: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("telegram: close multipart body: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendPhoto", c.apiBase, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return fmt.Errorf("telegram: create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: send photo to %d: %w", chatID, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return fmt.Errorf("telegram: send photo to %d: %w", chatID, err)
	}
	return nil
}

// GetUpdates long polls for new updates starting at offset. It returns an
// empty slice when the poll window elapses without traffic.
func (c *Client) GetUpdates(ctx context.Context, offset int64) ([]Update, error) {
	payload := map[string]any{
		"offset":          offset,
		"timeout":         int(c.pollTimeout.Seconds()),
		"allowed_updates": []string{"message"},
	}

	result, err := c.doPostWith(ctx, c.pollClient, "getUpdates", payload)
	if err != nil {
		return nil, fmt.Errorf("telegram: get updates: %w", err)
	}

	var updates []Update
	if err := json.Unmarshal(result, &updates); err != nil {
		return nil, fmt.Errorf("telegram: decode updates: %w", err)
	}
	return updates, nil
}

// GetMe returns the bot's own identity. Used at startup to validate the token
// and learn the username for /command@BotName addressing.
func (c *Client) GetMe(ctx context.Context) (User, error) {
	result, err := c.doPost(ctx, "getMe", map[string]any{})
	if err != nil {
		return User{}, fmt.Errorf("telegram: get me: %w", err)
	}
	var me User
	if err := json.Unmarshal(result, &me); err != nil {
		return User{}, fmt.Errorf("telegram: decode me: %w", err)
	}
	return me, nil
}

// --------------------------------------------------------------------------
// Internal helpers
// --------------------------------------------------------------------------

func (c *Client) doPost(ctx context.Context, method string, payload any) (json.RawMessage, error) {
	return c.doPostWith(ctx, c.client, method, payload)
}

// doPostWith sends a JSON POST to the given Bot API method and unwraps the
// standard {ok, result, description} envelope.
func (c *Client) doPostWith(ctx context.Context, client *http.Client, method string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.apiBase, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if err := checkHTTPStatus(resp.StatusCode, respBody); err != nil {
		return nil, err
	}

	var envelope apiResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if !envelope.OK {
		return nil, fmt.Errorf("api error %d: %s", envelope.ErrorCode, envelope.Description)
	}
	return envelope.Result, nil
}

// checkHTTPStatus maps non-2xx Bot API status codes to domain errors. 403
// means the recipient blocked or removed the bot.
func checkHTTPStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	bodyStr := string(body)
	switch statusCode {
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrBlocked, bodyStr)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, bodyStr)
	default:
		return fmt.Errorf("%w: HTTP %d: %s", domain.ErrUpstreamUnavailable, statusCode, bodyStr)
	}
}
