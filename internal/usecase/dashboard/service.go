package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/simaogato/advisory-backend/internal/domain"
	"github.com/simaogato/advisory-backend/internal/instrumentation"
)

const invalidateTimeout = 2 * time.Second

// Snapshot is a full read of the four record collections
type Snapshot struct {
	Clients     []*domain.Client
	Assets      []*domain.Asset
	Allocations []*domain.Allocation
	Movements   []*domain.Movement
}

// MetricsService serves the dashboard MetricsReport through a read-through cache
// and discards it whenever records change.
// No lock guards the cache key: concurrent misses each recompute and the last
// write wins.
type MetricsService struct {
	ClientRepo     domain.ClientRepository
	AssetRepo      domain.AssetRepository
	AllocationRepo domain.AllocationRepository
	MovementRepo   domain.MovementRepository
	Cache          domain.Cache
	TTL            time.Duration
	Metrics        *instrumentation.Metrics

	logger zerolog.Logger
	now    func() time.Time
}

// NewMetricsService creates a new MetricsService instance
func NewMetricsService(
	clientRepo domain.ClientRepository,
	assetRepo domain.AssetRepository,
	allocationRepo domain.AllocationRepository,
	movementRepo domain.MovementRepository,
	cache domain.Cache,
	ttl time.Duration,
	metrics *instrumentation.Metrics,
	logger zerolog.Logger,
) *MetricsService {
	return &MetricsService{
		ClientRepo:     clientRepo,
		AssetRepo:      assetRepo,
		AllocationRepo: allocationRepo,
		MovementRepo:   movementRepo,
		Cache:          cache,
		TTL:            ttl,
		Metrics:        metrics,
		logger:         logger.With().Str("component", "dashboard_metrics").Logger(),
		now:            time.Now,
	}
}

// GetMetrics returns the dashboard report
// Logic:
//  1. Unless refresh is set, return the cached report on a hit
//  2. Load the full snapshot and compute a fresh report
//  3. Store it under MetricsCacheKey for TTL (also when refresh is set)
//
// Cache failures are logged and never returned.
func (s *MetricsService) GetMetrics(ctx context.Context, refresh bool) (*domain.MetricsReport, error) {
	if !refresh {
		if report, ok := s.readCache(ctx); ok {
			return report, nil
		}
	}

	report, err := s.recompute(ctx)
	if err != nil {
		return nil, err
	}

	s.writeCache(ctx, report)
	return report, nil
}

// Warm recomputes the report and stores it, bypassing the cached copy
func (s *MetricsService) Warm(ctx context.Context) error {
	_, err := s.GetMetrics(ctx, true)
	return err
}

// InvalidateMetrics deletes the cached report
// Implements domain.MetricsInvalidator
// The delete still runs when ctx is already cancelled.
func (s *MetricsService) InvalidateMetrics(ctx context.Context) {
	s.Metrics.RecordInvalidation()
	if s.Cache == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), invalidateTimeout)
	defer cancel()

	if err := s.Cache.Delete(ctx, domain.MetricsCacheKey); err != nil {
		s.Metrics.RecordCacheError(instrumentation.CacheDashboard)
		s.logger.Warn().Err(err).Str("key", domain.MetricsCacheKey).Msg("cache delete failed")
	}
}

// LoadSnapshot reads all four collections concurrently
func (s *MetricsService) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		clients, err := s.ClientRepo.ListAll(gctx)
		if err != nil {
			return fmt.Errorf("failed to list clients: %w", err)
		}
		snap.Clients = clients
		return nil
	})
	g.Go(func() error {
		assets, err := s.AssetRepo.ListAll(gctx)
		if err != nil {
			return fmt.Errorf("failed to list assets: %w", err)
		}
		snap.Assets = assets
		return nil
	})
	g.Go(func() error {
		allocations, err := s.AllocationRepo.ListAll(gctx)
		if err != nil {
			return fmt.Errorf("failed to list allocations: %w", err)
		}
		snap.Allocations = allocations
		return nil
	})
	g.Go(func() error {
		movements, err := s.MovementRepo.ListAll(gctx)
		if err != nil {
			return fmt.Errorf("failed to list movements: %w", err)
		}
		snap.Movements = movements
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *MetricsService) recompute(ctx context.Context) (*domain.MetricsReport, error) {
	start := time.Now()

	snap, err := s.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	report := ComputeAt(snap.Clients, snap.Assets, snap.Allocations, snap.Movements, s.now())

	elapsed := time.Since(start)
	s.Metrics.RecordRecompute(elapsed)
	s.logger.Debug().
		Int("clients", len(snap.Clients)).
		Int("allocations", len(snap.Allocations)).
		Int("movements", len(snap.Movements)).
		Dur("duration", elapsed).
		Msg("dashboard metrics computed")

	return report, nil
}

func (s *MetricsService) readCache(ctx context.Context) (*domain.MetricsReport, bool) {
	if s.Cache == nil {
		return nil, false
	}

	data, found, err := s.Cache.Get(ctx, domain.MetricsCacheKey)
	if err != nil {
		s.Metrics.RecordCacheError(instrumentation.CacheDashboard)
		s.logger.Warn().Err(err).Str("key", domain.MetricsCacheKey).Msg("cache get failed")
		return nil, false
	}
	if !found {
		s.Metrics.RecordCacheMiss(instrumentation.CacheDashboard)
		return nil, false
	}

	var report domain.MetricsReport
	if err := json.Unmarshal(data, &report); err != nil {
		s.Metrics.RecordCacheError(instrumentation.CacheDashboard)
		s.logger.Warn().Err(err).Str("key", domain.MetricsCacheKey).Msg("cached value is not a valid report")
		return nil, false
	}

	s.Metrics.RecordCacheHit(instrumentation.CacheDashboard)
	return &report, true
}

func (s *MetricsService) writeCache(ctx context.Context, report *domain.MetricsReport) {
	if s.Cache == nil || s.TTL <= 0 {
		return
	}

	data, err := json.Marshal(report)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", domain.MetricsCacheKey).Msg("could not serialize report")
		return
	}

	if err := s.Cache.Set(ctx, domain.MetricsCacheKey, data, s.TTL); err != nil {
		s.Metrics.RecordCacheError(instrumentation.CacheDashboard)
		s.logger.Warn().Err(err).Str("key", domain.MetricsCacheKey).Msg("cache set failed")
	}
}
