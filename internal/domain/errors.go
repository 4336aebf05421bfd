package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrRateLimited         = errors.New("rate limited")
	ErrMalformedPayload    = errors.New("malformed payload")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrBlocked             = errors.New("blocked by recipient")
)

// Failure kinds as recorded in monitor state and logs.
const (
	KindTransport   = "transport"
	KindParse       = "parse"
	KindRateLimited = "rate_limited"
	KindBlocked     = "blocked"
)

// FetchKind classifies a quote-source error into its taxonomy kind. Anything
// not recognizably a parse or rate-limit failure is a transport failure.
func FetchKind(err error) string {
	switch {
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, ErrMalformedPayload):
		return KindParse
	default:
		return KindTransport
	}
}

// DeliveryKind classifies a transport delivery error.
func DeliveryKind(err error) string {
	if errors.Is(err, ErrBlocked) {
		return KindBlocked
	}
	return KindTransport
}
