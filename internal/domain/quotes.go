package domain

import "context"

// QuoteSource fetches the tracked asset's current market snapshot. Fetch
// must complete or fail within its client timeout and never returns a
// partially populated snapshot.
type QuoteSource interface {
	Fetch(ctx context.Context) (TokenSnapshot, error)
}
