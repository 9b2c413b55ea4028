package morningstar

import (
	"context"
	"fmt"
	"net/http"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=morningstar_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

const (
	// defaultBaseURL is the website serving the search endpoint and the
	// quote pages that carry the embedded tokens.
	defaultBaseURL = "https://www.morningstar.com"
	// defaultAPIBaseURL is the realtime data API the tokens authenticate to.
	defaultAPIBaseURL = "https://api-global.morningstar.com"
)

// Client is a client for the Morningstar website and its realtime API.
type Client struct {
	// baseURL is the base URL of the website (search + quote pages).
	baseURL string
	// apiBaseURL is the base URL of the realtime data API.
	apiBaseURL string
	// httpClient is the HTTP client.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
}

// ClientOption is a configuration option for the Morningstar client.
type ClientOption func(*Client)

// WithBaseURL sets the base URL for the website.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithAPIBaseURL sets the base URL for the realtime data API.
func WithAPIBaseURL(apiBaseURL string) ClientOption {
	return func(c *Client) {
		c.apiBaseURL = apiBaseURL
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) ClientOption {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// NewClient creates a new Morningstar client.
func NewClient(options ...ClientOption) *Client {
	var client = &Client{
		baseURL:    defaultBaseURL,
		apiBaseURL: defaultAPIBaseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
	}
	for _, option := range options {
		option(client)
	}
	return client
}

// get performs a GET request and fails on any non-2xx status. The caller
// owns the response body.
func (c *Client) get(ctx context.Context, url string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		res.Body.Close()
		return nil, fmt.Errorf("GET %s -> %d", url, res.StatusCode)
	}
	return res, nil
}
