// pagedump fetches a Morningstar quote page and prints the embedded
// tokens, for diagnosing upstream page drift. With -isin it first resolves
// the listing through the search endpoint.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"quoteprovider/internal/config"
	"quoteprovider/internal/httpx"
	"quoteprovider/internal/provider/morningstar"
)

func main() {
	_ = godotenv.Load()

	var (
		market     string
		symbol     string
		isin       string
		cfgPath    string
		timeoutSec int
		realtime   bool
	)
	flag.StringVar(&market, "market", "", "market code (e.g. XNAS)")
	flag.StringVar(&symbol, "symbol", "", "short symbol (e.g. AAPL)")
	flag.StringVar(&isin, "isin", "", "resolve this ISIN instead of -market/-symbol")
	flag.StringVar(&cfgPath, "config", "", "path to config.json (optional)")
	flag.IntVar(&timeoutSec, "timeout", 20, "HTTP timeout seconds")
	flag.BoolVar(&realtime, "realtime", false, "also fetch the realtime quote with the scraped tokens")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	httpClient := httpx.New(time.Duration(timeoutSec) * time.Second)
	if cfg.Morningstar.UserAgent != "" {
		httpClient.UserAgent = cfg.Morningstar.UserAgent
	}
	client := morningstar.NewClient(
		morningstar.WithBaseURL(cfg.Morningstar.BaseURL),
		morningstar.WithAPIBaseURL(cfg.Morningstar.APIBaseURL),
		morningstar.WithHTTPClient(httpClient),
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
	defer cancel()

	if isin != "" {
		details, err := client.SearchFirst(ctx, isin)
		if err != nil {
			log.Fatalf("search: %v", err)
		}
		if details == nil {
			log.Fatalf("search: no candidate for %s", isin)
		}
		log.Printf("resolved %s -> %s:%s (%s)", isin, details.Exchange, details.Symbol, details.Title)
		market = details.Exchange
		symbol = details.Symbol
	}
	if market == "" || symbol == "" {
		log.Fatal("need -market and -symbol, or -isin")
	}

	tokens, err := client.FetchPageTokens(ctx, market, symbol)
	if err != nil {
		log.Fatalf("page: %v", err)
	}
	dump(map[string]string{
		"secId":         tokens.SecID,
		"securityType":  tokens.SecurityType,
		"realTimeToken": tokens.RealtimeToken,
		"apigeeKey":     tokens.APIKey,
	})

	if !realtime {
		return
	}
	endpoint, ok := client.RealtimeEndpoint(morningstar.SecurityType(tokens.SecurityType), tokens.SecID)
	if !ok {
		log.Fatalf("no realtime endpoint for security type %q", tokens.SecurityType)
	}
	quote, err := client.FetchRealtime(ctx, endpoint, tokens.APIKey, tokens.RealtimeToken)
	if err != nil {
		log.Fatalf("realtime: %v", err)
	}
	dump(quote)
}

func dump(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}
