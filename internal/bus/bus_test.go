package bus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch1, err := b.Subscribe(ctx, "buys")
	require.NoError(t, err)
	ch2, err := b.Subscribe(ctx, "buys")
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, "buys", []byte("hello")))

	assert.Equal(t, []byte("hello"), <-ch1)
	assert.Equal(t, []byte("hello"), <-ch2)
}

func TestPublishIsChannelScoped(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	buys, err := b.Subscribe(ctx, "buys")
	require.NoError(t, err)
	status, err := b.Subscribe(ctx, "status")
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, "status", []byte("tick")))

	assert.Equal(t, []byte("tick"), <-status)
	select {
	case msg := <-buys:
		t.Fatalf("unexpected message on buys: %q", msg)
	default:
	}
}

func TestPublishWithoutSubscribersIsNoOp(t *testing.T) {
	b := New()
	assert.NoError(t, b.Publish(context.Background(), "buys", []byte("x")))
}

func TestCancelClosesSubscription(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := b.Subscribe(ctx, "buys")
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok, "channel must be closed after cancel")
	case <-time.After(time.Second):
		t.Fatal("subscription channel was not closed")
	}

	// Publishing after the unsubscribe must not panic or block.
	assert.NoError(t, b.Publish(context.Background(), "buys", []byte("late")))
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := b.Subscribe(ctx, "buys")
	require.NoError(t, err)

	// Overfill the buffer; Publish must never block.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberBuffer+10; i++ {
			_ = b.Publish(ctx, "buys", []byte("m"))
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	// The buffer holds at most subscriberBuffer messages.
	count := 0
	for {
		select {
		case <-ch:
			count++
			continue
		default:
		}
		break
	}
	assert.Equal(t, subscriberBuffer, count)
}
