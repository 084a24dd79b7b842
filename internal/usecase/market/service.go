package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/simaogato/advisory-backend/internal/domain"
	"github.com/simaogato/advisory-backend/internal/instrumentation"
)

// QuoteCacheKeyPrefix prefixes the cache key of every stored quote
const QuoteCacheKeyPrefix = "market:quote:"

// QuoteCacheKey returns the cache key holding the quote of ticker
func QuoteCacheKey(ticker string) string {
	return QuoteCacheKeyPrefix + domain.NormalizeTicker(ticker)
}

// MarketService resolves tickers against an ordered chain of quote providers
type MarketService struct {
	Providers []domain.QuoteProvider
	Cache     domain.Cache
	TTL       time.Duration
	Metrics   *instrumentation.Metrics
	logger    zerolog.Logger
}

// NewMarketService creates a new MarketService instance
func NewMarketService(providers []domain.QuoteProvider, cache domain.Cache, ttl time.Duration, metrics *instrumentation.Metrics, logger zerolog.Logger) *MarketService {
	return &MarketService{
		Providers: providers,
		Cache:     cache,
		TTL:       ttl,
		Metrics:   metrics,
		logger:    logger.With().Str("component", "market").Logger(),
	}
}

// FetchQuote looks up ticker
// Logic:
//  1. Serve a cached quote when there is one
//  2. Ask each provider in order; the first success wins
//  3. Cache the winning quote for TTL
//  4. If every provider fails, return ErrQuoteNotFound when all of them reported
//     the ticker as unknown, otherwise the last provider error
func (s *MarketService) FetchQuote(ctx context.Context, ticker string) (*domain.Quote, error) {
	ticker = domain.NormalizeTicker(ticker)
	if ticker == "" {
		return nil, domain.InvalidInput(errors.New("ticker cannot be empty"))
	}

	// 1. Cache
	if quote, ok := s.readCache(ctx, ticker); ok {
		return quote, nil
	}

	if len(s.Providers) == 0 {
		return nil, fmt.Errorf("%w: no quote providers configured", domain.ErrQuoteNotFound)
	}

	// 2. Providers
	var lastErr error
	allNotFound := true
	for _, provider := range s.Providers {
		quote, err := provider.FetchQuote(ctx, ticker)
		if err == nil {
			s.Metrics.RecordQuoteFetch(provider.Name(), "success")
			// 3. Store
			s.writeCache(ctx, ticker, quote)
			return quote, nil
		}

		if errors.Is(err, domain.ErrQuoteNotFound) {
			s.Metrics.RecordQuoteFetch(provider.Name(), "not_found")
		} else {
			allNotFound = false
			s.Metrics.RecordQuoteFetch(provider.Name(), "error")
		}
		s.logger.Warn().Err(err).Str("provider", provider.Name()).Str("ticker", ticker).Msg("quote provider failed")
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	// 4. Exhausted
	if allNotFound {
		return nil, fmt.Errorf("%w: %s", domain.ErrQuoteNotFound, ticker)
	}
	return nil, fmt.Errorf("failed to fetch quote for %s: %w", ticker, lastErr)
}

func (s *MarketService) readCache(ctx context.Context, ticker string) (*domain.Quote, bool) {
	if s.Cache == nil || s.TTL <= 0 {
		return nil, false
	}

	raw, ok, err := s.Cache.Get(ctx, QuoteCacheKey(ticker))
	if err != nil {
		s.Metrics.RecordCacheError(instrumentation.CacheQuote)
		s.logger.Warn().Err(err).Str("ticker", ticker).Msg("quote cache read failed")
		return nil, false
	}
	if !ok {
		s.Metrics.RecordCacheMiss(instrumentation.CacheQuote)
		return nil, false
	}

	var quote domain.Quote
	if err := json.Unmarshal(raw, &quote); err != nil {
		s.Metrics.RecordCacheError(instrumentation.CacheQuote)
		s.logger.Warn().Err(err).Str("ticker", ticker).Msg("discarding undecodable cached quote")
		return nil, false
	}

	s.Metrics.RecordCacheHit(instrumentation.CacheQuote)
	return &quote, true
}

func (s *MarketService) writeCache(ctx context.Context, ticker string, quote *domain.Quote) {
	if s.Cache == nil || s.TTL <= 0 {
		return
	}

	raw, err := json.Marshal(quote)
	if err != nil {
		s.logger.Warn().Err(err).Str("ticker", ticker).Msg("failed to encode quote")
		return
	}
	if err := s.Cache.Set(ctx, QuoteCacheKey(ticker), raw, s.TTL); err != nil {
		s.Metrics.RecordCacheError(instrumentation.CacheQuote)
		s.logger.Warn().Err(err).Str("ticker", ticker).Msg("quote cache write failed")
	}
}
