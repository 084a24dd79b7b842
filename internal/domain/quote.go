package domain

import "context"

// Quote is the instrument description returned by a market data provider
type Quote struct {
	Symbol    string `json:"symbol"`
	ShortName string `json:"short_name,omitempty"`
	LongName  string `json:"long_name,omitempty"`
	Exchange  string `json:"exchange"`
	Currency  string `json:"currency"`
	Source    string `json:"source"` // provider that answered
}

// DisplayName returns the short name, the long name or fallback, in that order
func (q *Quote) DisplayName(fallback string) string {
	if q.ShortName != "" {
		return q.ShortName
	}
	if q.LongName != "" {
		return q.LongName
	}
	return fallback
}

// QuoteProvider looks up instrument data for a ticker
// Implementations return ErrQuoteNotFound (wrapped) when the ticker is unknown
type QuoteProvider interface {
	// Name identifies the provider in logs and metrics
	Name() string

	// FetchQuote retrieves the quote for ticker
	FetchQuote(ctx context.Context, ticker string) (*Quote, error)
}
