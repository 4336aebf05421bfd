// Package registry holds the in-memory subscriber set. State is
// process-lifetime only: subscribers re-subscribe after a restart.
package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/alanyoungcy/roarwatch/internal/domain"
)

// Registry is a mutex-guarded subscriber map shared by command handlers and
// the notifier. Entries are never removed; unsubscribing clears the Active
// flag so in-flight deliveries race against a flag check, not a deletion.
type Registry struct {
	mu   sync.RWMutex
	subs map[int64]*domain.Subscriber
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{subs: make(map[int64]*domain.Subscriber)}
}

var _ domain.Subscribers = (*Registry)(nil)

// Subscribe opts a chat into alerts. Re-subscribing an active chat is a
// no-op; re-subscribing a disabled one re-enables it. The returned copy
// reflects the stored state.
func (r *Registry) Subscribe(chatID int64) domain.Subscriber {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.subs[chatID]
	if !ok {
		s = &domain.Subscriber{
			ChatID:       chatID,
			Active:       true,
			SubscribedAt: time.Now().UTC(),
		}
		r.subs[chatID] = s
		return *s
	}
	s.Active = true
	return *s
}

// Unsubscribe opts a chat out of alerts. Unknown chats are a no-op.
func (r *Registry) Unsubscribe(chatID int64) {
	r.setActive(chatID, false)
}

// Disable flips a chat to inactive after a blocked delivery. Same state
// transition as Unsubscribe; kept separate so call sites read by intent.
func (r *Registry) Disable(chatID int64) {
	r.setActive(chatID, false)
}

func (r *Registry) setActive(chatID int64, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.subs[chatID]; ok {
		s.Active = active
	}
}

// Active returns a sorted copy of the chat IDs currently opted in. Callers
// get a snapshot: later registry changes do not affect it.
func (r *Registry) Active() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.subs))
	for id, s := range r.subs {
		if s.Active {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// All returns a copy of every known subscriber, active or not, sorted by
// chat ID.
func (r *Registry) All() []domain.Subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Subscriber, 0, len(r.subs))
	for _, s := range r.subs {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChatID < out[j].ChatID })
	return out
}

// Count returns the number of known subscribers, active or not.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}

// ActiveCount returns the number of subscribers currently opted in.
func (r *Registry) ActiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, s := range r.subs {
		if s.Active {
			n++
		}
	}
	return n
}
