// Package bus provides the in-process publish/subscribe fabric connecting
// the monitor to the alerter and the websocket hub. It keeps the same
// contract as an external broker: subscriptions live until their context is
// cancelled and slow consumers drop messages rather than stall publishers.
package bus

import (
	"context"
	"sync"

	"github.com/alanyoungcy/roarwatch/internal/domain"
)

const subscriberBuffer = 128

// Bus is an in-memory domain.EventBus for single-instance deployments.
// Published payloads are shared across subscribers and must not be mutated.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]chan []byte
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{subs: make(map[string]map[int]chan []byte)}
}

// Publish delivers the payload to every current subscriber of the channel.
// Subscribers whose buffer is full miss the message. Publishing to a channel
// with no subscribers is a no-op.
func (b *Bus) Publish(ctx context.Context, channel string, payload []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[channel] {
		select {
		case ch <- payload:
		default:
		}
	}
	return nil
}

// Subscribe returns a read-only channel emitting payloads published to the
// named channel. The subscription is removed and the channel closed when ctx
// is cancelled.
func (b *Bus) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	ch := make(chan []byte, subscriberBuffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	m := b.subs[channel]
	if m == nil {
		m = make(map[int]chan []byte)
		b.subs[channel] = m
	}
	m[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs[channel], id)
		b.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}

// Compile-time interface check.
var _ domain.EventBus = (*Bus)(nil)
