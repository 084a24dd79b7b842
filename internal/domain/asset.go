package domain

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
)

// Asset represents a tradeable instrument
type Asset struct {
	ID       uuid.UUID
	Ticker   string
	Name     string
	Exchange string
	Currency string
}

// Normalize upper-cases ticker and currency and trims surrounding blanks
func (a *Asset) Normalize() {
	a.Ticker = NormalizeTicker(a.Ticker)
	a.Name = strings.TrimSpace(a.Name)
	a.Exchange = strings.TrimSpace(a.Exchange)
	a.Currency = strings.ToUpper(strings.TrimSpace(a.Currency))
}

// Validate ensures the asset adheres to domain rules
// The currency must be an ISO 4217 code known to go-money
func (a *Asset) Validate() error {
	if a.Ticker == "" {
		return errors.New("asset ticker cannot be empty")
	}
	if utf8.RuneCountInString(a.Ticker) > 32 {
		return errors.New("asset ticker must have at most 32 characters")
	}
	if a.Name == "" {
		return errors.New("asset name cannot be empty")
	}
	if utf8.RuneCountInString(a.Name) > 255 {
		return errors.New("asset name must have at most 255 characters")
	}
	if a.Exchange == "" {
		return errors.New("asset exchange cannot be empty")
	}
	if utf8.RuneCountInString(a.Exchange) > 128 {
		return errors.New("asset exchange must have at most 128 characters")
	}
	if money.GetCurrency(a.Currency) == nil {
		return errors.New("asset currency is invalid: " + a.Currency)
	}

	return nil
}

// Label is the display label used by the allocation mix
func (a *Asset) Label() string {
	return a.Ticker + " - " + a.Name
}

// NormalizeTicker upper-cases a ticker symbol
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// AssetFilter narrows asset listings
// Search matches ticker or name; Exchange and Currency are substring matches
type AssetFilter struct {
	Search   string
	Exchange string
	Currency string
}
