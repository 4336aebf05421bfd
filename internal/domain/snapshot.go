package domain

import "time"

// Transaction is one recent purchase of the tracked token as reported by the
// quote source. IDs are unique per asset within the upstream window.
type Transaction struct {
	ID        string
	Amount    float64 // token amount bought
	Timestamp time.Time
}

// TokenSnapshot captures the tracked asset's observed market state at one
// poll. Snapshots are immutable; each poll cycle supersedes the previous one.
type TokenSnapshot struct {
	TokenAddress   string
	PairAddress    string
	DexID          string
	PriceUSD       float64
	Volume5m       float64
	Volume24h      float64
	PriceChange5m  float64
	PriceChange24h float64
	LiquidityUSD   float64
	MarketCapUSD   float64
	Buys24h        int64
	Sells24h       int64
	Transactions   []Transaction // recent purchases, upstream order
	TakenAt        time.Time
}

// RemainingTokens estimates the tokens left in the pool from pooled
// liquidity, assuming half the pool value sits on the token side.
func (s TokenSnapshot) RemainingTokens() float64 {
	if s.PriceUSD <= 0 {
		return 0
	}
	return (s.LiquidityUSD / 2) / s.PriceUSD
}
