package main

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"quoteprovider/internal/config"
	"quoteprovider/internal/httpx"
	"quoteprovider/internal/provider"
	"quoteprovider/internal/provider/cache"
	"quoteprovider/internal/provider/morningstar"
	"quoteprovider/internal/provider/ratelimit"
)

type assetsResponse struct {
	Assets []provider.Asset `json:"assets"`
}

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_FILE")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	port := cfg.Server.Port
	timeoutSec := cfg.Server.RequestTimeoutSec

	if !cfg.Morningstar.Enabled {
		log.Fatal("morningstar.enabled=false leaves no quote source; nothing to serve")
	}

	httpClient := httpx.New(time.Duration(timeoutSec) * time.Second)
	if cfg.Morningstar.UserAgent != "" {
		httpClient.UserAgent = cfg.Morningstar.UserAgent
	}

	msClient := morningstar.NewClient(
		morningstar.WithBaseURL(cfg.Morningstar.BaseURL),
		morningstar.WithAPIBaseURL(cfg.Morningstar.APIBaseURL),
		morningstar.WithHTTPClient(httpClient),
	)
	ms := morningstar.New(morningstar.Config{Name: "Morningstar"}, msClient)

	registry := provider.NewRegistry()
	registry.Register(ms)

	// Stock fetches go through the decorated chain; other categories hit
	// the provider directly and fail fast as unsupported.
	var stocks provider.Fetcher = ms
	if cfg.Morningstar.MaxRequestsPerMinute > 0 {
		rate := float64(cfg.Morningstar.MaxRequestsPerMinute) / 60.0
		burst := cfg.Morningstar.Burst
		if burst <= 0 {
			burst = 1
		}
		stocks = &ratelimit.TokenBucketFetcher{F: stocks, TB: ratelimit.NewTokenBucket(rate, burst)}
	} else if cfg.Morningstar.MinRequestIntervalSec > 0 {
		interval := time.Duration(cfg.Morningstar.MinRequestIntervalSec) * time.Second
		stocks = &ratelimit.MinInterval{F: stocks, Interval: interval}
	}
	if cfg.Morningstar.CacheTTLSeconds > 0 {
		stocks = &cache.Fetcher{F: stocks, TTL: time.Duration(cfg.Morningstar.CacheTTLSeconds) * time.Second, MaxItems: cfg.Morningstar.CacheMaxItems}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/providers", func(w http.ResponseWriter, r *http.Request) {
		enc := json.NewEncoder(w)
		_ = enc.Encode(map[string][]string{"providers": registry.IDs()})
	})
	mux.HandleFunc("/api/quotes", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handleGetQuotes(w, r, ms, stocks)
		case http.MethodPost:
			handlePostQuotes(w, r, ms, stocks)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           withJSONHeaders(withGzip(recoverPanic(limitBody(mux)))),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func handleGetQuotes(w http.ResponseWriter, r *http.Request, qp provider.QuoteProvider, stocks provider.Fetcher) {
	q := r.URL.Query().Get("symbols")
	if strings.TrimSpace(q) == "" {
		http.Error(w, "missing symbols query param", http.StatusBadRequest)
		return
	}
	symbols := splitCSV(q)
	if len(symbols) > 1000 {
		http.Error(w, "too many symbols (max 1000)", http.StatusBadRequest)
		return
	}
	typ, ok := parseAssetType(r.URL.Query().Get("type"))
	if !ok {
		http.Error(w, "unknown asset type", http.StatusBadRequest)
		return
	}
	writeAssets(w, r.Context(), qp, stocks, typ, symbols)
}

type postBody struct {
	Symbols []string `json:"symbols"`
	Type    string   `json:"type"`
}

func handlePostQuotes(w http.ResponseWriter, r *http.Request, qp provider.QuoteProvider, stocks provider.Fetcher) {
	var b postBody
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&b); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if len(b.Symbols) == 0 {
		http.Error(w, "symbols cannot be empty", http.StatusBadRequest)
		return
	}
	if len(b.Symbols) > 1000 {
		http.Error(w, "too many symbols (max 1000)", http.StatusBadRequest)
		return
	}
	typ, ok := parseAssetType(b.Type)
	if !ok {
		http.Error(w, "unknown asset type", http.StatusBadRequest)
		return
	}
	writeAssets(w, r.Context(), qp, stocks, typ, b.Symbols)
}

func parseAssetType(s string) (provider.AssetType, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "STOCK":
		return provider.AssetTypeStock, true
	case "BOND":
		return provider.AssetTypeBond, true
	case "COMMODITY":
		return provider.AssetTypeCommodity, true
	case "CRYPTOCURRENCY":
		return provider.AssetTypeCryptoCurrency, true
	case "MUTUALFUND":
		return provider.AssetTypeMutualFund, true
	case "FOREX":
		return provider.AssetTypeForex, true
	}
	return "", false
}

func writeAssets(w http.ResponseWriter, rctx context.Context, qp provider.QuoteProvider, stocks provider.Fetcher, typ provider.AssetType, symbols []string) {
	ctx, cancel := context.WithTimeout(rctx, 15*time.Second)
	defer cancel()

	var assets []provider.Asset
	var err error
	switch typ {
	case provider.AssetTypeStock:
		assets, err = stocks.Fetch(ctx, symbols)
	case provider.AssetTypeBond:
		assets, err = qp.GetBondQuotes(ctx, symbols)
	case provider.AssetTypeCommodity:
		assets, err = qp.GetCommodityQuotes(ctx, symbols)
	case provider.AssetTypeCryptoCurrency:
		assets, err = qp.GetCryptoCurrencyQuotes(ctx, symbols)
	case provider.AssetTypeMutualFund:
		assets, err = qp.GetMutualFundQuotes(ctx, symbols)
	case provider.AssetTypeForex:
		assets, err = qp.GetForexQuotes(ctx, symbols)
	}
	if err != nil {
		var notSupported *provider.NotSupportedError
		if errors.As(err, &notSupported) {
			http.Error(w, notSupported.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	resp := assetsResponse{Assets: assets}
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(resp)
}

func withJSONHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		// Basic CORS for browser usage; adjust as needed.
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withGzip compresses response when client supports gzip.
func withGzip(next http.Handler) http.Handler {
	var gzPool = sync.Pool{New: func() any {
		// Prefer best speed to reduce CPU usage since payloads are JSON
		w, _ := gzip.NewWriterLevel(io.Discard, gzip.BestSpeed)
		return w
	}}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}
		gz := gzPool.Get().(*gzip.Writer)
		gz.Reset(w)
		defer func() {
			_ = gz.Close()
			gz.Reset(io.Discard)
			gzPool.Put(gz)
		}()
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Add("Vary", "Accept-Encoding")
		gw := gzipResponseWriter{ResponseWriter: w, Writer: gz}
		next.ServeHTTP(gw, r)
	})
}

type gzipResponseWriter struct {
	http.ResponseWriter
	Writer io.Writer
}

func (g gzipResponseWriter) Write(b []byte) (int, error) {
	return g.Writer.Write(b)
}

// limitBody caps request body size to avoid memory abuse.
func limitBody(next http.Handler) http.Handler {
	const maxBody = 1 << 20 // 1MB
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBody)
		}
		next.ServeHTTP(w, r)
	})
}

// recoverPanic protects handlers from panics.
func recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
