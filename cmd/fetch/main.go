package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"quoteprovider/internal/config"
	"quoteprovider/internal/httpx"
	"quoteprovider/internal/provider"
	"quoteprovider/internal/provider/morningstar"
)

func main() {
	_ = godotenv.Load()

	var symbolsCSV string
	var timeout int
	var configPath string

	flag.StringVar(&symbolsCSV, "symbols", getenv("SYMBOLS", "XNAS:AAPL"), "comma-separated full symbols (MARKET:SHORT or ISIN)")
	flag.IntVar(&timeout, "timeout", getenvInt("REQUEST_TIMEOUT_SEC", 15), "request timeout seconds")
	flag.StringVar(&configPath, "config", getenv("CONFIG_FILE", ""), "path to config.json (optional)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	httpClient := httpx.New(time.Duration(timeout) * time.Second)
	if cfg.Morningstar.UserAgent != "" {
		httpClient.UserAgent = cfg.Morningstar.UserAgent
	}

	msClient := morningstar.NewClient(
		morningstar.WithBaseURL(cfg.Morningstar.BaseURL),
		morningstar.WithAPIBaseURL(cfg.Morningstar.APIBaseURL),
		morningstar.WithHTTPClient(httpClient),
	)
	ms := morningstar.New(morningstar.Config{Name: "Morningstar"}, msClient)

	symbols := splitCSV(symbolsCSV)
	if len(symbols) == 0 {
		log.Fatal("no symbols provided")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	assets, err := ms.Fetch(ctx, symbols)
	if err != nil {
		log.Fatalf("%s error: %v", ms.Name(), err)
	}
	log.Printf("%s: %d assets", ms.Name(), len(assets))

	out := struct {
		Assets []provider.Asset `json:"assets"`
	}{Assets: assets}
	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
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

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var x int
		_, _ = fmt.Sscanf(v, "%d", &x)
		if x != 0 {
			return x
		}
	}
	return def
}
