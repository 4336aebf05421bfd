package domain

import "time"

// Subscriber is a recipient opted into buy alerts. Subscribers are never
// hard-deleted; unsubscribing flips Active so an in-flight notification
// races against a flag check, not a map removal.
type Subscriber struct {
	ChatID       int64
	Active       bool
	SubscribedAt time.Time
}

// Subscribers is the thread-safe registry surface shared by command handlers
// and the notifier.
type Subscribers interface {
	Subscribe(chatID int64) Subscriber
	Unsubscribe(chatID int64)
	Disable(chatID int64)
	Active() []int64
	All() []Subscriber
	Count() int
	ActiveCount() int
}
