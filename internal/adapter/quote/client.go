// Package quote implements domain.QuoteProvider for Yahoo Finance and BRAPI.
package quote

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const defaultTimeout = 10 * time.Second

// WithRateLimit makes every outbound request wait on limiter.
// Providers built with the same limiter share its budget.
func WithRateLimit(limiter *rate.Limiter) func(*resty.Client) {
	return func(c *resty.Client) {
		if limiter == nil {
			return
		}
		c.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			return limiter.Wait(r.Context())
		})
	}
}

// WithTimeout overrides the request timeout
func WithTimeout(d time.Duration) func(*resty.Client) {
	return func(c *resty.Client) {
		if d > 0 {
			c.SetTimeout(d)
		}
	}
}

func newClient(headers map[string]string, opts ...func(*resty.Client)) *resty.Client {
	client := resty.New().
		SetHeaders(headers).
		SetTimeout(defaultTimeout)

	for _, opt := range opts {
		opt(client)
	}
	return client
}

// isB3 reports whether symbol carries the B3 ".SA" suffix
func isB3(symbol string) bool {
	return strings.HasSuffix(symbol, ".SA")
}

func fallbackExchange(symbol string) string {
	if isB3(symbol) {
		return "B3"
	}
	return "Desconhecida"
}

func fallbackCurrency(symbol string) string {
	if isB3(symbol) {
		return "BRL"
	}
	return "USD"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func trimBaseURL(baseURL, fallback string) (string, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = fallback
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return "", fmt.Errorf("invalid base URL %q", baseURL)
	}
	return baseURL, nil
}
