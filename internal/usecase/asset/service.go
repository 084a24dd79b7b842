package asset

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/simaogato/advisory-backend/internal/domain"
)

const auditEntity = "asset"

// QuoteFetcher resolves a ticker to instrument data
type QuoteFetcher interface {
	FetchQuote(ctx context.Context, ticker string) (*domain.Quote, error)
}

// CreateAssetInput represents the input for creating an asset
type CreateAssetInput struct {
	Ticker   string
	Name     string
	Exchange string
	Currency string
}

// UpdateAssetInput represents a partial update; nil fields are left untouched
type UpdateAssetInput struct {
	Ticker   *string
	Name     *string
	Exchange *string
	Currency *string
}

// AssetService handles asset management and market imports
type AssetService struct {
	AssetRepo   domain.AssetRepository
	Quotes      QuoteFetcher
	Invalidator domain.MetricsInvalidator
	logger      zerolog.Logger
}

// NewAssetService creates a new AssetService instance
func NewAssetService(assetRepo domain.AssetRepository, quotes QuoteFetcher, invalidator domain.MetricsInvalidator, logger zerolog.Logger) *AssetService {
	return &AssetService{
		AssetRepo:   assetRepo,
		Quotes:      quotes,
		Invalidator: invalidator,
		logger:      logger.With().Str("component", "asset").Logger(),
	}
}

// List returns a page of assets matching filter
func (s *AssetService) List(ctx context.Context, filter domain.AssetFilter, req domain.PageRequest) (*domain.Page[*domain.Asset], error) {
	page, err := domain.Paginate(ctx, req,
		func(ctx context.Context) (int, error) { return s.AssetRepo.Count(ctx, filter) },
		func(ctx context.Context, limit, offset int) ([]*domain.Asset, error) {
			return s.AssetRepo.List(ctx, filter, limit, offset)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return page, nil
}

// Get retrieves an asset by ID
func (s *AssetService) Get(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	return s.AssetRepo.GetByID(ctx, id)
}

// Create validates and stores a new asset
func (s *AssetService) Create(ctx context.Context, input CreateAssetInput) (*domain.Asset, error) {
	asset := &domain.Asset{
		ID:       uuid.New(),
		Ticker:   input.Ticker,
		Name:     input.Name,
		Exchange: input.Exchange,
		Currency: input.Currency,
	}
	asset.Normalize()
	if err := asset.Validate(); err != nil {
		return nil, domain.InvalidInput(err)
	}

	audit := domain.NewAuditEntry(auditEntity, "created", asset.ID, map[string]any{
		"ticker": asset.Ticker,
		"name":   asset.Name,
	})
	if err := s.AssetRepo.Create(ctx, asset, audit); err != nil {
		return nil, err
	}

	s.Invalidator.InvalidateMetrics(ctx)
	return asset, nil
}

// Update applies a partial update to an existing asset
func (s *AssetService) Update(ctx context.Context, id uuid.UUID, input UpdateAssetInput) (*domain.Asset, error) {
	asset, err := s.AssetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var fields []string
	if input.Currency != nil {
		asset.Currency = *input.Currency
		fields = append(fields, "currency")
	}
	if input.Exchange != nil {
		asset.Exchange = *input.Exchange
		fields = append(fields, "exchange")
	}
	if input.Name != nil {
		asset.Name = *input.Name
		fields = append(fields, "name")
	}
	if input.Ticker != nil {
		asset.Ticker = *input.Ticker
		fields = append(fields, "ticker")
	}
	asset.Normalize()
	if err := asset.Validate(); err != nil {
		return nil, domain.InvalidInput(err)
	}

	var audit *domain.AuditEntry
	if len(fields) > 0 {
		audit = domain.NewAuditEntry(auditEntity, "updated", asset.ID, map[string]any{"fields": fields})
	}
	if err := s.AssetRepo.Update(ctx, asset, audit); err != nil {
		return nil, err
	}

	s.Invalidator.InvalidateMetrics(ctx)
	return asset, nil
}

// Delete removes an asset together with the allocations holding it
func (s *AssetService) Delete(ctx context.Context, id uuid.UUID) error {
	asset, err := s.AssetRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	audit := domain.NewAuditEntry(auditEntity, "deleted", asset.ID, map[string]any{
		"ticker": asset.Ticker,
		"name":   asset.Name,
	})
	if err := s.AssetRepo.Delete(ctx, id, audit); err != nil {
		return err
	}

	s.Invalidator.InvalidateMetrics(ctx)
	return nil
}

// FetchOrImport returns the asset registered under ticker, importing it from
// the market data providers when it is not registered yet.
// The boolean result reports whether a new asset was created.
// Logic:
//  1. Normalize the ticker and return the stored asset if it exists
//  2. Resolve the ticker through the providers
//  3. Store the asset with an "asset.imported" audit entry
//  4. On a concurrent import of the same ticker, return the winner's row
func (s *AssetService) FetchOrImport(ctx context.Context, ticker string) (*domain.Asset, bool, error) {
	// 1. Lookup
	ticker = domain.NormalizeTicker(ticker)
	if ticker == "" {
		return nil, false, domain.InvalidInput(errors.New("ticker cannot be empty"))
	}

	existing, err := s.AssetRepo.GetByTicker(ctx, ticker)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}

	// 2. Resolve
	quote, err := s.Quotes.FetchQuote(ctx, ticker)
	if err != nil {
		return nil, false, err
	}

	asset := &domain.Asset{
		ID:       uuid.New(),
		Ticker:   ticker,
		Name:     truncate(quote.DisplayName(ticker), 255),
		Exchange: truncate(quote.Exchange, 128),
		Currency: quote.Currency,
	}
	asset.Normalize()
	if err := asset.Validate(); err != nil {
		return nil, false, domain.InvalidInput(fmt.Errorf("provider returned unusable data for %s: %w", ticker, err))
	}

	// 3. Store
	audit := domain.NewAuditEntry(auditEntity, "imported", asset.ID, map[string]any{
		"ticker": asset.Ticker,
		"source": quote.Source,
	})
	if err := s.AssetRepo.Create(ctx, asset, audit); err != nil {
		// 4. Lost the race
		if errors.Is(err, domain.ErrConflict) {
			if winner, getErr := s.AssetRepo.GetByTicker(ctx, ticker); getErr == nil {
				return winner, false, nil
			}
		}
		return nil, false, err
	}

	s.logger.Info().Str("ticker", asset.Ticker).Str("source", quote.Source).Msg("asset imported")
	s.Invalidator.InvalidateMetrics(ctx)
	return asset, true, nil
}

// truncate keeps at most max characters of s
func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:max]))
}
