package domain

import (
	"context"
	"time"
)

// EventBus is the in-process pub/sub bridge between the monitor loop and
// streaming consumers (the websocket hub). Subscribers receive payloads on a
// channel that closes when ctx is done; slow subscribers may drop messages.
type EventBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}

// Bus channel names published by the monitor loop.
const (
	BusChannelBuys   = "buys"
	BusChannelStatus = "status"
)

// RateLimiter limits request rates per key.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
