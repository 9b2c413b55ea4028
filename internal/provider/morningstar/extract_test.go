package morningstar

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"quoteprovider/internal/symbol"
)

// pageHandler serves a quote page with the given meta tags and a realtime
// endpoint with the given body, for exercising extractQuote directly.
func pageHandler(meta map[string]string, realtimeBody string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/stocks/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<!DOCTYPE html><html><head>")
		for name, content := range meta {
			fmt.Fprintf(w, `<meta name=%q content=%q>`, name, content)
		}
		fmt.Fprint(w, "</head><body></body></html>")
	})
	mux.HandleFunc("/sal-service/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, realtimeBody)
	})
	return mux
}

func extractWith(t *testing.T, meta map[string]string, realtimeBody string) (miss, error) {
	t.Helper()
	srv := httptest.NewServer(pageHandler(meta, realtimeBody))
	t.Cleanup(srv.Close)
	p := New(Config{}, NewClient(WithBaseURL(srv.URL), WithAPIBaseURL(srv.URL)))
	_, m, err := p.extractQuote(t.Context(), symbol.Parts{MarketCode: "XNAS", ShortSymbol: "AAPL"}, "XNAS:AAPL")
	return m, err
}

func TestExtractQuote_MissReasons(t *testing.T) {
	fullMeta := func() map[string]string {
		return map[string]string{
			"secId":         "0P000003MH",
			"securityType":  "ST",
			"realTimeToken": "tok123",
			"apigeeKey":     "key456",
		}
	}

	t.Run("empty market code", func(t *testing.T) {
		p := New(Config{}, nil)
		asset, m, err := p.extractQuote(t.Context(), symbol.Parts{ShortSymbol: "AAPL"}, "AAPL")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m != missNoMarketCode {
			t.Fatalf("want missNoMarketCode, got %d", m)
		}
		if asset.Price != nil || asset.Currency != nil {
			t.Fatalf("expected null quote: %+v", asset)
		}
	})

	t.Run("missing security id", func(t *testing.T) {
		meta := fullMeta()
		delete(meta, "secId")
		m, err := extractWith(t, meta, `{}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m != missNoSecurity {
			t.Fatalf("want missNoSecurity, got %d", m)
		}
	})

	t.Run("missing security type", func(t *testing.T) {
		meta := fullMeta()
		delete(meta, "securityType")
		m, err := extractWith(t, meta, `{}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m != missNoSecurity {
			t.Fatalf("want missNoSecurity, got %d", m)
		}
	})

	t.Run("missing realtime token", func(t *testing.T) {
		meta := fullMeta()
		delete(meta, "realTimeToken")
		m, err := extractWith(t, meta, `{}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m != missNoCredentials {
			t.Fatalf("want missNoCredentials, got %d", m)
		}
	})

	t.Run("unsupported security type", func(t *testing.T) {
		meta := fullMeta()
		meta["securityType"] = "BND"
		m, err := extractWith(t, meta, `{}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m != missUnsupportedType {
			t.Fatalf("want missUnsupportedType, got %d", m)
		}
	})

	t.Run("zero last price", func(t *testing.T) {
		m, err := extractWith(t, fullMeta(), `{"lastPrice":0,"currencyCode":"USD"}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m != missNoPrice {
			t.Fatalf("want missNoPrice, got %d", m)
		}
	})

	t.Run("usable quote", func(t *testing.T) {
		m, err := extractWith(t, fullMeta(), `{"lastPrice":150.25,"currencyCode":"USD"}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m != missNone {
			t.Fatalf("want missNone, got %d", m)
		}
	})
}

func TestRealtimeEndpoint_Dispatch(t *testing.T) {
	c := NewClient()

	url, ok := c.RealtimeEndpoint(SecurityTypeStock, "0P1")
	if !ok || url != defaultAPIBaseURL+"/sal-service/v1/stock/realTime/v3/0P1/data" {
		t.Fatalf("stock endpoint: %q ok=%v", url, ok)
	}

	url, ok = c.RealtimeEndpoint(SecurityTypeETF, "0P1")
	if !ok || url != defaultAPIBaseURL+"/sal-service/v1/etf/quote/miniChartRealTimeData/0P1/data?ts=0" {
		t.Fatalf("etf endpoint: %q ok=%v", url, ok)
	}

	if _, ok := c.RealtimeEndpoint(SecurityType("XX"), "0P1"); ok {
		t.Fatal("expected no endpoint for unknown security type")
	}
}
