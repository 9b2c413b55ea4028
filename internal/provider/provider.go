package provider

import (
	"context"
	"fmt"
)

// Asset is the normalized quote shape returned for every requested symbol.
// Price and Currency are nil together when no usable quote could be
// produced for the symbol; there is no partial quote.
type Asset struct {
	Symbol   string   `json:"symbol"`
	Price    *float64 `json:"price"`
	Currency *string  `json:"currency"`
}

// NullAsset is the "quote unavailable" terminal value for a symbol.
func NullAsset(symbol string) Asset {
	return Asset{Symbol: symbol}
}

// AssetType is a coarse instrument category.
type AssetType string

const (
	AssetTypeStock          AssetType = "STOCK"
	AssetTypeBond           AssetType = "BOND"
	AssetTypeCommodity      AssetType = "COMMODITY"
	AssetTypeCryptoCurrency AssetType = "CRYPTOCURRENCY"
	AssetTypeMutualFund     AssetType = "MUTUALFUND"
	AssetTypeForex          AssetType = "FOREX"
)

// NotSupportedError reports a category a provider has no implementation for.
type NotSupportedError struct {
	Type AssetType
}

func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("asset type %s not supported by this provider", e.Type)
}

// QuoteProvider is the uniform per-category interface consumed by the
// registry. Unsupported categories fail with NotSupportedError before any
// network access.
type QuoteProvider interface {
	ID() string
	GetSupportedMarkets() []string
	GetStockQuotes(ctx context.Context, symbols []string) ([]Asset, error)
	GetBondQuotes(ctx context.Context, symbols []string) ([]Asset, error)
	GetCommodityQuotes(ctx context.Context, symbols []string) ([]Asset, error)
	GetCryptoCurrencyQuotes(ctx context.Context, symbols []string) ([]Asset, error)
	GetMutualFundQuotes(ctx context.Context, symbols []string) ([]Asset, error)
	GetForexQuotes(ctx context.Context, symbols []string) ([]Asset, error)
}

// Fetcher is the narrow batch-fetch surface wrapped by decorators such as
// cache and ratelimit. Fetch returns exactly one Asset per requested
// symbol, in request order.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, symbols []string) ([]Asset, error)
}
