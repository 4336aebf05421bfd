package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/roarwatch/internal/domain"
)

func newTestClientServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("123456:TEST", time.Second)
	c.apiBase = srv.URL
	return c
}

func TestSendMessagePostsMarkdown(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	c := newTestClientServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"ok":true,"result":{}}`))
	})

	err := c.SendMessage(context.Background(), 42, "*hello*")
	require.NoError(t, err)

	assert.Equal(t, "/bot123456:TEST/sendMessage", gotPath)
	assert.Equal(t, float64(42), gotBody["chat_id"])
	assert.Equal(t, "*hello*", gotBody["text"])
	assert.Equal(t, "Markdown", gotBody["parse_mode"])
}

func TestSendMessageBlockedMapsToErrBlocked(t *testing.T) {
	c := newTestClientServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"ok":false,"error_code":403,"description":"Forbidden: bot was blocked by the user"}`))
	})

	err := c.SendMessage(context.Background(), 42, "hi")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBlocked)
	assert.Equal(t, domain.KindBlocked, domain.DeliveryKind(err))
}

func TestSendMessageRateLimited(t *testing.T) {
	c := newTestClientServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	err := c.SendMessage(context.Background(), 42, "hi")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestSendMessageAPIErrorEnvelope(t *testing.T) {
	c := newTestClientServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	})

	err := c.SendMessage(context.Background(), 42, "hi")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestSendPhotoUploadsMultipart(t *testing.T) {
	var gotContentType string
	var photo []byte
	var fields map[string]string
	c := newTestClientServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		fields = map[string]string{
			"chat_id":    r.FormValue("chat_id"),
			"caption":    r.FormValue("caption"),
			"parse_mode": r.FormValue("parse_mode"),
		}
		f, _, err := r.FormFile("photo")
		require.NoError(t, err)
		defer f.Close()
		photo, err = io.ReadAll(f)
		require.NoError(t, err)
		w.Write([]byte(`{"ok":true,"result":{}}`))
	})

	err := c.SendPhoto(context.Background(), 7, []byte{0x89, 'P', 'N', 'G'}, "caption text")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(gotContentType, "multipart/form-data"))
	assert.Equal(t, "7", fields["chat_id"])
	assert.Equal(t, "caption text", fields["caption"])
	assert.Equal(t, "Markdown", fields["parse_mode"])
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, photo)
}

func TestGetUpdatesDecodesEnvelope(t *testing.T) {
	var gotBody map[string]any
	c := newTestClientServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"ok":true,"result":[
			{"update_id":10,"message":{"message_id":1,"chat":{"id":42,"type":"private"},"text":"/subscribe"}},
			{"update_id":11,"message":{"message_id":2,"chat":{"id":43,"type":"group"},"text":"hello"}}
		]}`))
	})

	updates, err := c.GetUpdates(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, float64(10), gotBody["offset"])
	require.Len(t, updates, 2)
	assert.Equal(t, int64(10), updates[0].UpdateID)
	assert.Equal(t, int64(42), updates[0].Message.Chat.ID)
	assert.Equal(t, "/subscribe", updates[0].Message.Text)
}

func TestGetMe(t *testing.T) {
	c := newTestClientServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true,"result":{"id":99,"is_bot":true,"username":"roarwatch_bot"}}`))
	})

	me, err := c.GetMe(context.Background())
	require.NoError(t, err)

	assert.True(t, me.IsBot)
	assert.Equal(t, "roarwatch_bot", me.Username)
}
