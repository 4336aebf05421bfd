package ws

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/roarwatch/internal/bus"
	"github.com/alanyoungcy/roarwatch/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// runHub starts a hub on a live in-process bus behind an httptest server.
// It returns the server, the cancel for the hub context, and a channel that
// closes when Run has returned.
func runHub(t *testing.T, b *bus.Bus) (*httptest.Server, context.CancelFunc, chan struct{}) {
	t.Helper()

	h := NewHub(b, Config{Mode: "full", Symbol: "ROAR"}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		h.Run(ctx)
	}()

	srv := httptest.NewServer(http.HandlerFunc(h.HandleWS))
	t.Cleanup(srv.Close)
	return srv, cancel, stopped
}

func dial(t *testing.T, httpURL string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(httpURL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, frame, err := conn.ReadMessage()
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(frame, &env))
	return env
}

func waitStopped(t *testing.T, stopped chan struct{}) {
	t.Helper()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}
}

func TestHubForwardsBusFrames(t *testing.T) {
	b := bus.New()
	srv, cancel, stopped := runHub(t, b)
	defer func() {
		cancel()
		waitStopped(t, stopped)
	}()

	conn := dial(t, srv.URL)

	// The hello envelope arrives before any bus traffic.
	hello := readEnvelope(t, conn)
	assert.Equal(t, domain.BusChannelStatus, hello.Channel)
	assert.Contains(t, string(hello.Data), `"hello"`)

	require.NoError(t, b.Publish(context.Background(), domain.BusChannelBuys, []byte(`{"tx_id":"t1"}`)))

	env := readEnvelope(t, conn)
	assert.Equal(t, domain.BusChannelBuys, env.Channel)
	assert.JSONEq(t, `{"tx_id":"t1"}`, string(env.Data))
}

func TestHubConnectAfterShutdownIsClosed(t *testing.T) {
	srv, cancel, stopped := runHub(t, bus.New())

	cancel()
	waitStopped(t, stopped)

	// A client arriving after shutdown must have its connection closed, not
	// its handler parked on the register channel forever.
	conn := dial(t, srv.URL)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "server should close the connection")
}

func TestReadPumpExitsAfterHubShutdown(t *testing.T) {
	h := NewHub(bus.New(), Config{}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		h.Run(ctx)
	}()
	cancel()
	waitStopped(t, stopped)

	// Hand a real connection to a client whose read pump will try to
	// unregister against the stopped hub.
	serverConns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	peer := dial(t, srv.URL)
	conn := <-serverConns

	c := &client{hub: h, conn: conn, send: make(chan []byte, 1), subs: make(map[string]bool)}
	pumpDone := make(chan struct{})
	go func() {
		defer close(pumpDone)
		c.readPump()
	}()

	peer.Close()
	select {
	case <-pumpDone:
	case <-time.After(2 * time.Second):
		t.Fatal("read pump stayed blocked on unregister after hub shutdown")
	}
}
