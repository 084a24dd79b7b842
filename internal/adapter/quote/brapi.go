package quote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/simaogato/advisory-backend/internal/domain"
)

const DefaultBrapiBaseURL = "https://brapi.dev/api/quote"

// BrapiProvider looks quotes up on brapi.dev, which lists B3 symbols without
// the ".SA" suffix
type BrapiProvider struct {
	client  *resty.Client
	baseURL string
	token   string
}

type brapiResponse struct {
	Results []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortName"`
		LongName  string `json:"longName"`
		Market    string `json:"market"`
		Currency  string `json:"currency"`
	} `json:"results"`
}

// NewBrapiProvider creates a BRAPI provider; token may be empty
func NewBrapiProvider(baseURL, token string, opts ...func(*resty.Client)) (*BrapiProvider, error) {
	base, err := trimBaseURL(baseURL, DefaultBrapiBaseURL)
	if err != nil {
		return nil, err
	}

	return &BrapiProvider{
		client:  newClient(map[string]string{"Accept": "application/json"}, opts...),
		baseURL: base,
		token:   strings.TrimSpace(token),
	}, nil
}

// Name implements domain.QuoteProvider
func (p *BrapiProvider) Name() string {
	return "brapi"
}

// FetchQuote implements domain.QuoteProvider
func (p *BrapiProvider) FetchQuote(ctx context.Context, ticker string) (*domain.Quote, error) {
	symbol := domain.NormalizeTicker(ticker)
	b3 := isB3(symbol)
	lookup := strings.TrimSuffix(symbol, ".SA")

	req := p.client.R().SetContext(ctx)
	if p.token != "" {
		req.SetQueryParam("token", p.token)
	}

	var payload brapiResponse
	resp, err := req.SetResult(&payload).Get(p.baseURL + "/" + url.PathEscape(lookup))
	if err != nil {
		return nil, fmt.Errorf("brapi quote request: %w", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return nil, fmt.Errorf("brapi refused %s: %w", symbol, domain.ErrQuoteNotFound)
	}
	if resp.StatusCode() >= 400 {
		return nil, fmt.Errorf("brapi responded with status %d", resp.StatusCode())
	}
	if len(payload.Results) == 0 {
		return nil, fmt.Errorf("brapi: %s: %w", symbol, domain.ErrQuoteNotFound)
	}
	info := payload.Results[0]

	exchange, currency := "Desconhecida", "USD"
	if b3 {
		exchange, currency = "B3", "BRL"
	}

	return &domain.Quote{
		Symbol:    strings.ToUpper(firstNonEmpty(info.Symbol, lookup)),
		ShortName: strings.TrimSpace(info.ShortName),
		LongName:  strings.TrimSpace(info.LongName),
		Exchange:  firstNonEmpty(info.Market, exchange),
		Currency:  strings.ToUpper(firstNonEmpty(info.Currency, currency)),
		Source:    p.Name(),
	}, nil
}
