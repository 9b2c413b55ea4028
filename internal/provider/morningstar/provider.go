// Package morningstar provides market quotes scraped from the Morningstar
// website and its embedded realtime API. Symbols that look like ISINs are
// first resolved to a listing venue through the search endpoint; the quote
// page for the listing carries the security id, security type and the
// short-lived credentials needed for the realtime data fetch.
package morningstar

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"quoteprovider/internal/provider"
	"quoteprovider/internal/symbol"
)

type Config struct {
	Name string // display name, default: Morningstar
}

// Provider resolves symbols and fetches quotes from Morningstar.
type Provider struct {
	cfg    Config
	client *Client
}

func New(cfg Config, client *Client) *Provider {
	if cfg.Name == "" {
		cfg.Name = "Morningstar"
	}
	if client == nil {
		client = NewClient()
	}
	return &Provider{cfg: cfg, client: client}
}

func (p *Provider) ID() string { return p.cfg.Name }

func (p *Provider) Name() string { return p.cfg.Name }

// GetSupportedMarkets returns an empty list; this provider does not
// self-report specific markets.
func (p *Provider) GetSupportedMarkets() []string { return []string{} }

func (p *Provider) GetStockQuotes(ctx context.Context, symbols []string) ([]provider.Asset, error) {
	return p.Fetch(ctx, symbols)
}

func (p *Provider) GetBondQuotes(ctx context.Context, symbols []string) ([]provider.Asset, error) {
	return nil, &provider.NotSupportedError{Type: provider.AssetTypeBond}
}

func (p *Provider) GetCommodityQuotes(ctx context.Context, symbols []string) ([]provider.Asset, error) {
	return nil, &provider.NotSupportedError{Type: provider.AssetTypeCommodity}
}

func (p *Provider) GetCryptoCurrencyQuotes(ctx context.Context, symbols []string) ([]provider.Asset, error) {
	return nil, &provider.NotSupportedError{Type: provider.AssetTypeCryptoCurrency}
}

// TODO: mutual fund rejections report the cryptocurrency category; confirm
// no consumer matches on the category before correcting the contract.
func (p *Provider) GetMutualFundQuotes(ctx context.Context, symbols []string) ([]provider.Asset, error) {
	return nil, &provider.NotSupportedError{Type: provider.AssetTypeCryptoCurrency}
}

// TODO: forex rejections report the commodity category; same caveat as
// mutual funds.
func (p *Provider) GetForexQuotes(ctx context.Context, symbols []string) ([]provider.Asset, error) {
	return nil, &provider.NotSupportedError{Type: provider.AssetTypeCommodity}
}

// Fetch resolves and quotes all symbols concurrently. The output order
// matches the input order regardless of completion order. A symbol that
// cannot be resolved or quoted yields a null-quote Asset; any
// transport-level fault fails the whole call with no partial results.
func (p *Provider) Fetch(ctx context.Context, symbols []string) ([]provider.Asset, error) {
	g, ctx := errgroup.WithContext(ctx)
	// sf coalesces duplicate symbols within this call so each quote page
	// is fetched once. It is scoped to the call: a shared group would run
	// flights on one caller's group context and couple concurrent calls.
	var sf singleflight.Group
	assets := make([]provider.Asset, len(symbols))
	for i, s := range symbols {
		g.Go(func() error {
			asset, err := p.assetQuote(ctx, &sf, s)
			if err != nil {
				return err
			}
			assets[i] = asset
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return assets, nil
}

func (p *Provider) assetQuote(ctx context.Context, sf *singleflight.Group, fullSymbol string) (provider.Asset, error) {
	v, err, _ := sf.Do(fullSymbol, func() (any, error) {
		parts, err := p.resolveSymbol(ctx, fullSymbol)
		if err != nil {
			return nil, err
		}
		asset, _, err := p.extractQuote(ctx, parts, fullSymbol)
		if err != nil {
			return nil, err
		}
		return asset, nil
	})
	if err != nil {
		return provider.Asset{}, err
	}
	return v.(provider.Asset), nil
}

// resolveSymbol parses fullSymbol and, for ISIN inputs, looks the listing
// venue up through the search endpoint. Only the first candidate of the
// first result group is considered. A search miss leaves the market code
// empty rather than failing.
func (p *Provider) resolveSymbol(ctx context.Context, fullSymbol string) (symbol.Parts, error) {
	parts := symbol.Parse(fullSymbol)
	if !symbol.IsValidISIN(parts.ShortSymbol) {
		return parts, nil
	}
	parts.MarketCode = ""
	details, err := p.client.SearchFirst(ctx, parts.ShortSymbol)
	if err != nil {
		return symbol.Parts{}, err
	}
	if details == nil {
		return parts, nil
	}
	return symbol.Parts{MarketCode: details.Exchange, ShortSymbol: details.Symbol}, nil
}

// miss identifies why a pipeline produced a null quote. It never leaves
// the package; callers only see the null-quote Asset.
type miss int

const (
	missNone miss = iota
	missNoMarketCode
	missNoSecurity
	missNoCredentials
	missUnsupportedType
	missNoPrice
)

// extractQuote walks the quote page and realtime endpoint for a resolved
// listing. Missing tokens, unsupported security types and unusable prices
// degrade to the null quote; only transport faults surface as errors.
func (p *Provider) extractQuote(ctx context.Context, parts symbol.Parts, fullSymbol string) (provider.Asset, miss, error) {
	if parts.MarketCode == "" {
		return provider.NullAsset(fullSymbol), missNoMarketCode, nil
	}

	tokens, err := p.client.FetchPageTokens(ctx, parts.MarketCode, parts.ShortSymbol)
	if err != nil {
		return provider.Asset{}, missNone, err
	}
	if tokens.SecID == "" || tokens.SecurityType == "" {
		return provider.NullAsset(fullSymbol), missNoSecurity, nil
	}
	if tokens.RealtimeToken == "" || tokens.APIKey == "" {
		return provider.NullAsset(fullSymbol), missNoCredentials, nil
	}

	endpoint, ok := p.client.RealtimeEndpoint(SecurityType(tokens.SecurityType), tokens.SecID)
	if !ok {
		return provider.NullAsset(fullSymbol), missUnsupportedType, nil
	}

	quote, err := p.client.FetchRealtime(ctx, endpoint, tokens.APIKey, tokens.RealtimeToken)
	if err != nil {
		return provider.Asset{}, missNone, err
	}
	if quote.LastPrice == 0 {
		return provider.NullAsset(fullSymbol), missNoPrice, nil
	}

	price := quote.LastPrice
	currency := quote.CurrencyCode
	return provider.Asset{Symbol: fullSymbol, Price: &price, Currency: &currency}, missNone, nil
}
