package dexscreener

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alanyoungcy/roarwatch/internal/domain"
)

// flexFloat unmarshals from a JSON number or string ("123.4") so pair fields
// work whether the API sends them numerically or quoted (priceUsd is a
// string, the aggregates are numbers). Absent or empty values decode to zero;
// a present but non-numeric value is a decode error.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var x float64
	if err := json.Unmarshal(data, &x); err == nil {
		*f = flexFloat(x)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if strings.TrimSpace(s) == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// --------------------------------------------------------------------------
// Pairs endpoint DTOs
// --------------------------------------------------------------------------

// APITokenResponse is the body of /latest/dex/tokens/{address}.
type APITokenResponse struct {
	SchemaVersion string    `json:"schemaVersion"`
	Pairs         []APIPair `json:"pairs"`
}

// APIPair represents one trading pair for the token. The first entry is the
// primary pair.
type APIPair struct {
	ChainID     string         `json:"chainId"`
	DexID       string         `json:"dexId"`
	PairAddress string         `json:"pairAddress"`
	PriceUSD    flexFloat      `json:"priceUsd"`
	Txns        APITxns        `json:"txns"`
	Volume      APIVolume      `json:"volume"`
	PriceChange APIPriceChange `json:"priceChange"`
	Liquidity   APILiquidity   `json:"liquidity"`
	MarketCap   flexFloat      `json:"marketCap"`
	Trades      []APITrade     `json:"trades"`
}

// APITxnCounts holds buy/sell counters for one window.
type APITxnCounts struct {
	Buys  int64 `json:"buys"`
	Sells int64 `json:"sells"`
}

// APITxns holds per-window transaction counters.
type APITxns struct {
	M5  APITxnCounts `json:"m5"`
	H1  APITxnCounts `json:"h1"`
	H24 APITxnCounts `json:"h24"`
}

// APIVolume holds per-window USD volume.
type APIVolume struct {
	M5  flexFloat `json:"m5"`
	H1  flexFloat `json:"h1"`
	H24 flexFloat `json:"h24"`
}

// APIPriceChange holds per-window price change percentages.
type APIPriceChange struct {
	M5  flexFloat `json:"m5"`
	H1  flexFloat `json:"h1"`
	H24 flexFloat `json:"h24"`
}

// APILiquidity holds pooled liquidity figures.
type APILiquidity struct {
	USD   flexFloat `json:"usd"`
	Base  flexFloat `json:"base"`
	Quote flexFloat `json:"quote"`
}

// APITrade is one recent trade row for the pair.
type APITrade struct {
	ID          string    `json:"id"`
	Side        string    `json:"side"` // "buy" or "sell"
	AmountToken flexFloat `json:"amountToken"`
	AmountUSD   flexFloat `json:"amountUsd"`
	Timestamp   int64     `json:"ts"` // unix milliseconds
}

// ToDomainSnapshot converts the response into a domain.TokenSnapshot built
// from the primary pair. The trades list is filtered to purchases; rows
// without an id are skipped since they cannot be diffed. An empty pairs array
// is a malformed payload, optional aggregates default to zero.
func (r *APITokenResponse) ToDomainSnapshot(tokenAddress string) (domain.TokenSnapshot, error) {
	if len(r.Pairs) == 0 {
		return domain.TokenSnapshot{}, fmt.Errorf("%w: no pairs for token", domain.ErrMalformedPayload)
	}

	p := &r.Pairs[0]
	snap := domain.TokenSnapshot{
		TokenAddress:   tokenAddress,
		PairAddress:    p.PairAddress,
		DexID:          p.DexID,
		PriceUSD:       float64(p.PriceUSD),
		Volume5m:       float64(p.Volume.M5),
		Volume24h:      float64(p.Volume.H24),
		PriceChange5m:  float64(p.PriceChange.M5),
		PriceChange24h: float64(p.PriceChange.H24),
		LiquidityUSD:   float64(p.Liquidity.USD),
		MarketCapUSD:   float64(p.MarketCap),
		Buys24h:        p.Txns.H24.Buys,
		Sells24h:       p.Txns.H24.Sells,
		TakenAt:        time.Now().UTC(),
	}

	for _, t := range p.Trades {
		if t.ID == "" {
			continue
		}
		if !strings.EqualFold(t.Side, "buy") {
			continue
		}
		amount := float64(t.AmountToken)
		if amount == 0 && snap.PriceUSD > 0 {
			amount = float64(t.AmountUSD) / snap.PriceUSD
		}
		snap.Transactions = append(snap.Transactions, domain.Transaction{
			ID:        t.ID,
			Amount:    amount,
			Timestamp: time.UnixMilli(t.Timestamp).UTC(),
		})
	}

	return snap, nil
}
