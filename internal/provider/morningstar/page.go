package morningstar

import (
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

// PageTokens are the machine-readable tokens embedded in a served quote
// page. Each token is extracted independently; an absent tag leaves its
// field empty rather than failing the fetch.
type PageTokens struct {
	SecID         string
	SecurityType  string
	RealtimeToken string
	APIKey        string
}

// FetchPageTokens retrieves the quote page for a listing and reads the
// embedded meta tags by attribute query.
func (c *Client) FetchPageTokens(ctx context.Context, marketCode, shortSymbol string) (PageTokens, error) {
	u := fmt.Sprintf("%s/stocks/%s/%s/quote.html", c.baseURL, url.PathEscape(marketCode), url.PathEscape(shortSymbol))
	res, err := c.get(ctx, u, nil)
	if err != nil {
		return PageTokens{}, err
	}
	defer res.Body.Close()

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return PageTokens{}, fmt.Errorf("parsing quote page: %w", err)
	}
	return PageTokens{
		SecID:         metaContent(doc, "secId"),
		SecurityType:  metaContent(doc, "securityType"),
		RealtimeToken: metaContent(doc, "realTimeToken"),
		APIKey:        metaContent(doc, "apigeeKey"),
	}, nil
}

func metaContent(doc *goquery.Document, name string) string {
	content, _ := doc.Find(fmt.Sprintf("meta[name=%q]", name)).First().Attr("content")
	return content
}
