package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeIsIdempotent(t *testing.T) {
	r := New()

	first := r.Subscribe(42)
	second := r.Subscribe(42)

	assert.True(t, first.Active)
	assert.True(t, second.Active)
	assert.Equal(t, first.SubscribedAt, second.SubscribedAt, "re-subscribing must not reset the join time")
	assert.Equal(t, []int64{42}, r.Active())
	assert.Equal(t, 1, r.Count())
	assert.Equal(t, 1, r.ActiveCount())
}

func TestUnsubscribeDisablesWithoutDeleting(t *testing.T) {
	r := New()
	r.Subscribe(42)

	r.Unsubscribe(42)

	assert.Empty(t, r.Active())
	assert.Equal(t, 1, r.Count(), "unsubscribed chats stay known")
	assert.Zero(t, r.ActiveCount())

	all := r.All()
	require.Len(t, all, 1)
	assert.False(t, all[0].Active)
}

func TestUnsubscribeUnknownIsNoOp(t *testing.T) {
	r := New()

	r.Unsubscribe(7)
	r.Disable(7)

	assert.Zero(t, r.Count())
}

func TestResubscribeReenables(t *testing.T) {
	r := New()
	r.Subscribe(42)
	r.Disable(42)
	require.Empty(t, r.Active())

	s := r.Subscribe(42)

	assert.True(t, s.Active)
	assert.Equal(t, []int64{42}, r.Active())
}

func TestActiveIsSortedSnapshot(t *testing.T) {
	r := New()
	r.Subscribe(30)
	r.Subscribe(10)
	r.Subscribe(20)
	r.Unsubscribe(20)

	ids := r.Active()
	assert.Equal(t, []int64{10, 30}, ids)

	// Later changes must not leak into the returned slice.
	r.Subscribe(5)
	assert.Equal(t, []int64{10, 30}, ids)
}

func TestConcurrentAccess(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := int64(i % 10)
			r.Subscribe(id)
			r.Active()
			if i%3 == 0 {
				r.Unsubscribe(id)
			}
			r.ActiveCount()
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, r.Count())
}
