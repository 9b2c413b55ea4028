package morningstar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// SecurityDetails is one candidate row from the security search endpoint.
// Field names map Morningstar's wire format.
type SecurityDetails struct {
	// Exchange is the listing venue code.
	Exchange string `json:"LS01Z"`
	// Symbol is the canonical short symbol on that venue.
	Symbol string `json:"OS001"`
	// Title is the display name of the security.
	Title string `json:"OS63I"`
	// Currency is the trading currency code.
	Currency string `json:"OS05M"`
}

type searchGroup struct {
	Rows []SecurityDetails `json:"r"`
}

type searchStatus struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

type searchResponse struct {
	Result searchStatus  `json:"result"`
	Groups []searchGroup `json:"m"`
}

// SearchFirst queries the security search endpoint and returns the first
// candidate of the first result group. A search that reports a nonzero
// status code or carries no candidates returns nil without an error; only
// transport-level faults fail the call.
func (c *Client) SearchFirst(ctx context.Context, query string) (*SecurityDetails, error) {
	u := fmt.Sprintf("%s/api/v2/search/securities/5/usquote-v2/?q=%s", c.baseURL, url.QueryEscape(query))
	res, err := c.get(ctx, u, nil)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var body searchResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	if body.Result.Code != 0 || len(body.Groups) == 0 || len(body.Groups[0].Rows) == 0 {
		return nil, nil
	}
	details := body.Groups[0].Rows[0]
	return &details, nil
}
