package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"quoteprovider/internal/provider"
	"quoteprovider/internal/provider/morningstar"
)

type fakeFetcher struct {
	assets []provider.Asset
	err    error
}

func (f fakeFetcher) Name() string { return "fake" }

func (f fakeFetcher) Fetch(_ context.Context, symbols []string) ([]provider.Asset, error) {
	if f.err != nil {
		return nil, f.err
	}
	// echo one asset per requested symbol, in order
	out := make([]provider.Asset, len(symbols))
	bySymbol := make(map[string]provider.Asset, len(f.assets))
	for _, a := range f.assets {
		bySymbol[a.Symbol] = a
	}
	for i, s := range symbols {
		if a, ok := bySymbol[s]; ok {
			out[i] = a
			continue
		}
		out[i] = provider.NullAsset(s)
	}
	return out, nil
}

func TestWriteAssets_StockOrderPreserved(t *testing.T) {
	price := 150.25
	currency := "USD"
	f := fakeFetcher{assets: []provider.Asset{
		{Symbol: "XNAS:AAPL", Price: &price, Currency: &currency},
	}}
	ms := morningstar.New(morningstar.Config{}, nil)

	rr := httptest.NewRecorder()
	writeAssets(rr, t.Context(), ms, f, provider.AssetTypeStock, []string{"UNKNOWN", "XNAS:AAPL"})
	if rr.Code != 200 {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	var resp assetsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Assets) != 2 {
		t.Fatalf("want 2 assets, got %d: %+v", len(resp.Assets), resp.Assets)
	}
	if resp.Assets[0].Symbol != "UNKNOWN" || resp.Assets[0].Price != nil || resp.Assets[0].Currency != nil {
		t.Fatalf("unexpected first asset: %+v", resp.Assets[0])
	}
	if resp.Assets[1].Symbol != "XNAS:AAPL" || *resp.Assets[1].Price != 150.25 || *resp.Assets[1].Currency != "USD" {
		t.Fatalf("unexpected second asset: %+v", resp.Assets[1])
	}
}

func TestWriteAssets_UnsupportedCategory_BadRequest(t *testing.T) {
	ms := morningstar.New(morningstar.Config{}, nil)

	rr := httptest.NewRecorder()
	writeAssets(rr, t.Context(), ms, fakeFetcher{}, provider.AssetTypeBond, []string{"X"})
	if rr.Code != 400 {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "BOND") {
		t.Fatalf("body does not name the category: %s", rr.Body.String())
	}
}

func TestWriteAssets_ForexReportsCommodityCategory(t *testing.T) {
	ms := morningstar.New(morningstar.Config{}, nil)

	rr := httptest.NewRecorder()
	writeAssets(rr, t.Context(), ms, fakeFetcher{}, provider.AssetTypeForex, []string{"X"})
	if rr.Code != 400 {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "COMMODITY") {
		t.Fatalf("body does not carry the upstream contract label: %s", rr.Body.String())
	}
}

func TestWriteAssets_TransportFault_BadGateway(t *testing.T) {
	ms := morningstar.New(morningstar.Config{}, nil)

	rr := httptest.NewRecorder()
	writeAssets(rr, t.Context(), ms, fakeFetcher{err: errors.New("boom")}, provider.AssetTypeStock, []string{"X"})
	if rr.Code != 502 {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
}

func TestParseAssetType(t *testing.T) {
	cases := map[string]provider.AssetType{
		"":               provider.AssetTypeStock,
		"stock":          provider.AssetTypeStock,
		"BOND":           provider.AssetTypeBond,
		"commodity":      provider.AssetTypeCommodity,
		"cryptocurrency": provider.AssetTypeCryptoCurrency,
		"mutualfund":     provider.AssetTypeMutualFund,
		"Forex":          provider.AssetTypeForex,
	}
	for in, want := range cases {
		got, ok := parseAssetType(in)
		if !ok || got != want {
			t.Fatalf("parseAssetType(%q) = %v %v, want %v", in, got, ok, want)
		}
	}
	if _, ok := parseAssetType("realestate"); ok {
		t.Fatal("expected unknown asset type to be rejected")
	}
}
