package quote

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/simaogato/advisory-backend/internal/domain"
)

const (
	DefaultYahooBaseURL = "https://query1.finance.yahoo.com"
	DefaultYahooAuthURL = "https://fc.yahoo.com"
)

// Yahoo rejects clients that do not look like a browser
var yahooHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
	"Accept-Language": "en-US,en;q=0.9",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
}

// YahooProvider looks quotes up on Yahoo Finance.
// Each lookup obtains a session cookie and a crumb before querying.
type YahooProvider struct {
	client  *resty.Client
	baseURL string
	authURL string
}

type yahooQuoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol           string `json:"symbol"`
			ShortName        string `json:"shortName"`
			LongName         string `json:"longName"`
			FullExchangeName string `json:"fullExchangeName"`
			Market           string `json:"market"`
			Currency         string `json:"currency"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

// NewYahooProvider creates a Yahoo Finance provider.
// Empty URLs select the public endpoints.
func NewYahooProvider(baseURL, authURL string, opts ...func(*resty.Client)) (*YahooProvider, error) {
	base, err := trimBaseURL(baseURL, DefaultYahooBaseURL)
	if err != nil {
		return nil, err
	}
	auth, err := trimBaseURL(authURL, DefaultYahooAuthURL)
	if err != nil {
		return nil, err
	}

	return &YahooProvider{
		client:  newClient(yahooHeaders, opts...),
		baseURL: base,
		authURL: auth,
	}, nil
}

// Name implements domain.QuoteProvider
func (p *YahooProvider) Name() string {
	return "yahoo"
}

// FetchQuote implements domain.QuoteProvider
// Logic:
//  1. Visit the auth endpoint so the cookie jar holds a session cookie
//  2. Exchange the session for a crumb
//  3. Query the quote endpoint; 401 or an empty result means unknown ticker
func (p *YahooProvider) FetchQuote(ctx context.Context, ticker string) (*domain.Quote, error) {
	symbol := domain.NormalizeTicker(ticker)

	// 1. Session cookie; the status of this call does not matter
	if _, err := p.client.R().SetContext(ctx).Get(p.authURL); err != nil {
		return nil, fmt.Errorf("yahoo session request: %w", err)
	}

	// 2. Crumb
	resp, err := p.client.R().SetContext(ctx).Get(p.baseURL + "/v1/test/getcrumb")
	if err != nil {
		return nil, fmt.Errorf("yahoo crumb request: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return nil, fmt.Errorf("yahoo crumb responded with status %d", resp.StatusCode())
	}
	crumb := strings.TrimSpace(resp.String())
	if crumb == "" {
		return nil, fmt.Errorf("yahoo returned an empty crumb")
	}

	// 3. Quote
	var payload yahooQuoteResponse
	resp, err = p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"symbols": symbol, "crumb": crumb}).
		SetResult(&payload).
		Get(p.baseURL + "/v7/finance/quote")
	if err != nil {
		return nil, fmt.Errorf("yahoo quote request: %w", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return nil, fmt.Errorf("yahoo: %s: %w", symbol, domain.ErrQuoteNotFound)
	}
	if resp.StatusCode() >= 400 {
		return nil, fmt.Errorf("yahoo quote responded with status %d", resp.StatusCode())
	}

	results := payload.QuoteResponse.Result
	if len(results) == 0 {
		return nil, fmt.Errorf("yahoo: %s: %w", symbol, domain.ErrQuoteNotFound)
	}
	info := results[0]

	return &domain.Quote{
		Symbol:    strings.ToUpper(firstNonEmpty(info.Symbol, symbol)),
		ShortName: strings.TrimSpace(info.ShortName),
		LongName:  strings.TrimSpace(info.LongName),
		Exchange:  firstNonEmpty(info.FullExchangeName, info.Market, fallbackExchange(symbol)),
		Currency:  strings.ToUpper(firstNonEmpty(info.Currency, fallbackCurrency(symbol))),
		Source:    p.Name(),
	}, nil
}
