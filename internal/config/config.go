package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

type Server struct {
	Port              string `json:"port"`
	RequestTimeoutSec int    `json:"request_timeout_sec"`
}

type Morningstar struct {
	Enabled               bool   `json:"enabled"`
	BaseURL               string `json:"base_url"`
	APIBaseURL            string `json:"api_base_url"`
	UserAgent             string `json:"user_agent"`
	MaxRequestsPerMinute  int    `json:"max_requests_per_minute"`
	MinRequestIntervalSec int    `json:"min_request_interval_sec"`
	Burst                 int    `json:"burst"`
	CacheTTLSeconds       int    `json:"cache_ttl_sec"`
	CacheMaxItems         int    `json:"cache_max_items"`
}

type Config struct {
	Server      Server      `json:"server"`
	Morningstar Morningstar `json:"morningstar"`
}

func Default() Config {
	return Config{
		Server: Server{Port: "8080", RequestTimeoutSec: 10},
		Morningstar: Morningstar{
			Enabled:              true,
			BaseURL:              "https://www.morningstar.com",
			APIBaseURL:           "https://api-global.morningstar.com",
			UserAgent:            "quote-provider/1.0",
			MaxRequestsPerMinute: 30,
			Burst:                5,
			CacheTTLSeconds:      15,
			CacheMaxItems:        10000,
		},
	}
}

// Load reads JSON config from path. If path is empty or file does not exist,
// it returns defaults. Environment variables override select fields for secrecy.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("REQUEST_TIMEOUT_SEC"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x > 0 {
			cfg.Server.RequestTimeoutSec = x
		}
	}
	if v := os.Getenv("MORNINGSTAR_ENABLED"); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "y":
			cfg.Morningstar.Enabled = true
		case "0", "false", "no", "n":
			cfg.Morningstar.Enabled = false
		}
	}
	if v := os.Getenv("MORNINGSTAR_BASE_URL"); v != "" {
		cfg.Morningstar.BaseURL = v
	}
	if v := os.Getenv("MORNINGSTAR_API_BASE_URL"); v != "" {
		cfg.Morningstar.APIBaseURL = v
	}
	if v := os.Getenv("MORNINGSTAR_USER_AGENT"); v != "" {
		cfg.Morningstar.UserAgent = v
	}
	if v := os.Getenv("MORNINGSTAR_MAX_RPM"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x >= 0 {
			cfg.Morningstar.MaxRequestsPerMinute = x
		}
	}
	if v := os.Getenv("MORNINGSTAR_MIN_INTERVAL_SEC"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x >= 0 {
			cfg.Morningstar.MinRequestIntervalSec = x
		}
	}
	if v := os.Getenv("MORNINGSTAR_BURST"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x > 0 {
			cfg.Morningstar.Burst = x
		}
	}
	if v := os.Getenv("MORNINGSTAR_CACHE_TTL_SEC"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x >= 0 {
			cfg.Morningstar.CacheTTLSeconds = x
		}
	}
	if v := os.Getenv("MORNINGSTAR_CACHE_MAX_ITEMS"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x > 0 {
			cfg.Morningstar.CacheMaxItems = x
		}
	}
}
