package morningstar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// SecurityType is the coarse instrument classification a quote page
// declares for its security.
type SecurityType string

const (
	// SecurityTypeStock marks an equity listing.
	SecurityTypeStock SecurityType = "ST"
	// SecurityTypeETF marks a fund/ETF listing.
	SecurityTypeETF SecurityType = "FE"
)

// realtimePaths maps each supported security type to its realtime data
// path, relative to the API base URL. Types outside this map have no
// realtime endpoint.
var realtimePaths = map[SecurityType]string{
	SecurityTypeStock: "/sal-service/v1/stock/realTime/v3/%s/data",
	SecurityTypeETF:   "/sal-service/v1/etf/quote/miniChartRealTimeData/%s/data?ts=0",
}

// RealtimeEndpoint returns the realtime data URL for a security, or
// ok=false when the security type has no realtime endpoint.
func (c *Client) RealtimeEndpoint(typ SecurityType, secID string) (string, bool) {
	path, ok := realtimePaths[typ]
	if !ok {
		return "", false
	}
	return c.apiBaseURL + fmt.Sprintf(path, secID), true
}

// RealtimeQuote is the payload shape shared by both realtime endpoints.
type RealtimeQuote struct {
	LastPrice    float64 `json:"lastPrice"`
	CurrencyCode string  `json:"currencyCode"`
}

// FetchRealtime retrieves a realtime quote, authenticating with the API
// key and realtime token scraped from the quote page.
func (c *Client) FetchRealtime(ctx context.Context, endpoint, apiKey, realtimeToken string) (RealtimeQuote, error) {
	header := http.Header{}
	header.Set("apikey", apiKey)
	header.Set("x-api-realtime-e", realtimeToken)
	res, err := c.get(ctx, endpoint, header)
	if err != nil {
		return RealtimeQuote{}, err
	}
	defer res.Body.Close()

	var quote RealtimeQuote
	if err := json.NewDecoder(res.Body).Decode(&quote); err != nil {
		return RealtimeQuote{}, fmt.Errorf("decoding realtime response: %w", err)
	}
	return quote, nil
}
