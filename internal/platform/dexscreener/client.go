// Package dexscreener provides the REST client for the DexScreener token
// API, the quote source for the tracked asset.
package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alanyoungcy/roarwatch/internal/domain"
)

// Client is the REST client for the DexScreener pairs endpoint, pinned to a
// single tracked token.
type Client struct {
	baseURL      string
	tokenAddress string
	httpClient   *http.Client
}

// NewClient creates a quote client for the given token contract address.
//
// baseURL is the API root, e.g. "https://api.dexscreener.com". The address is
// lowercased because the pairs endpoint is case-sensitive about it.
func NewClient(baseURL, tokenAddress string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		tokenAddress: strings.ToLower(tokenAddress),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

var _ domain.QuoteSource = (*Client)(nil)

// Fetch retrieves the current market snapshot for the tracked token. The
// first pair in the response is the primary trading pair. Fetch never returns
// a partially populated snapshot: any required-field problem surfaces as a
// malformed-payload error.
func (c *Client) Fetch(ctx context.Context) (domain.TokenSnapshot, error) {
	path := "/latest/dex/tokens/" + c.tokenAddress

	body, err := c.doGet(ctx, path)
	if err != nil {
		return domain.TokenSnapshot{}, fmt.Errorf("dexscreener: fetch token %s: %w", c.tokenAddress, err)
	}

	var resp APITokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.TokenSnapshot{}, fmt.Errorf("dexscreener: decode response: %w: %v", domain.ErrMalformedPayload, err)
	}

	snap, err := resp.ToDomainSnapshot(c.tokenAddress)
	if err != nil {
		return domain.TokenSnapshot{}, fmt.Errorf("dexscreener: %w", err)
	}

	return snap, nil
}

// --------------------------------------------------------------------------
// Internal helpers
// --------------------------------------------------------------------------

// doGet sends an unauthenticated GET request to the DexScreener API.
func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	return body, nil
}

// checkHTTPStatus maps non-2xx status codes to appropriate domain errors.
func checkHTTPStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	bodyStr := string(body)
	switch statusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, bodyStr)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, bodyStr)
	default:
		return fmt.Errorf("%w: HTTP %d: %s", domain.ErrUpstreamUnavailable, statusCode, bodyStr)
	}
}
