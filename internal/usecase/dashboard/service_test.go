package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	rediscache "github.com/simaogato/advisory-backend/internal/adapter/cache/redis"
	"github.com/simaogato/advisory-backend/internal/domain"
	"github.com/simaogato/advisory-backend/internal/domain/mocks"
)

const testTTL = 5 * time.Minute

// memoryCache is an in-process domain.Cache used to exercise real round trips
type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
	ttls  map[string]time.Duration
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	c.ttls[key] = ttl
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

type repos struct {
	clients     *mocks.ClientRepository
	assets      *mocks.AssetRepository
	allocations *mocks.AllocationRepository
	movements   *mocks.MovementRepository
}

func newRepos() repos {
	return repos{
		clients:     new(mocks.ClientRepository),
		assets:      new(mocks.AssetRepository),
		allocations: new(mocks.AllocationRepository),
		movements:   new(mocks.MovementRepository),
	}
}

// expectSnapshot wires a one-client/one-allocation snapshot, times calls
func (r repos) expectSnapshot(times int) {
	clientID, assetID := uuid.New(), uuid.New()
	r.clients.On("ListAll", mock.Anything).Return([]*domain.Client{{ID: clientID, IsActive: true}}, nil).Times(times)
	r.assets.On("ListAll", mock.Anything).Return([]*domain.Asset{{ID: assetID, Ticker: "PETR4", Name: "Petrobras PN"}}, nil).Times(times)
	r.allocations.On("ListAll", mock.Anything).Return([]*domain.Allocation{
		allocation(clientID, assetID, "10", "15.5", date(2024, 5, 1)),
	}, nil).Times(times)
	r.movements.On("ListAll", mock.Anything).Return([]*domain.Movement{
		movement(clientID, domain.MovementTypeDeposit, "500", date(2024, 5, 3)),
	}, nil).Times(times)
}

func (r repos) assertExpectations(t *testing.T) {
	r.clients.AssertExpectations(t)
	r.assets.AssertExpectations(t)
	r.allocations.AssertExpectations(t)
	r.movements.AssertExpectations(t)
}

func newService(r repos, cache domain.Cache) *MetricsService {
	svc := NewMetricsService(r.clients, r.assets, r.allocations, r.movements, cache, testTTL, nil, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC) }
	return svc
}

func TestGetMetrics_CacheHitSkipsRecompute(t *testing.T) {
	ctx := context.Background()
	r := newRepos()
	cache := new(mocks.Cache)

	cached := ComputeAt(nil, nil, nil, nil, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	cached.Totals.Clients = 42
	data, err := json.Marshal(cached)
	require.NoError(t, err)

	cache.On("Get", ctx, domain.MetricsCacheKey).Return(data, true, nil)

	report, err := newService(r, cache).GetMetrics(ctx, false)

	assert.NoError(t, err)
	assert.Equal(t, cached, report)
	cache.AssertExpectations(t)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	r.clients.AssertNotCalled(t, "ListAll", mock.Anything)
}

func TestGetMetrics_MissComputesAndStores(t *testing.T) {
	ctx := context.Background()
	r := newRepos()
	r.expectSnapshot(1)
	cache := new(mocks.Cache)

	cache.On("Get", ctx, domain.MetricsCacheKey).Return(nil, false, nil)
	cache.On("Set", ctx, domain.MetricsCacheKey, mock.AnythingOfType("[]uint8"), testTTL).Return(nil)

	report, err := newService(r, cache).GetMetrics(ctx, false)

	require.NoError(t, err)
	assert.Equal(t, 155.0, report.Totals.TotalInvested)
	assert.Equal(t, time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC), report.GeneratedAt)
	cache.AssertExpectations(t)
	r.assertExpectations(t)
}

func TestGetMetrics_RefreshBypassesReadButStillWrites(t *testing.T) {
	ctx := context.Background()
	r := newRepos()
	r.expectSnapshot(1)
	cache := new(mocks.Cache)

	cache.On("Set", ctx, domain.MetricsCacheKey, mock.Anything, testTTL).Return(nil)

	_, err := newService(r, cache).GetMetrics(ctx, true)

	assert.NoError(t, err)
	cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	cache.AssertExpectations(t)
}

func TestGetMetrics_CacheFailuresAreSwallowed(t *testing.T) {
	tests := []struct {
		name  string
		setup func(cache *mocks.Cache)
	}{
		{
			name: "Get error is treated as a miss",
			setup: func(cache *mocks.Cache) {
				cache.On("Get", mock.Anything, domain.MetricsCacheKey).Return(nil, false, errors.New("connection refused"))
				cache.On("Set", mock.Anything, domain.MetricsCacheKey, mock.Anything, testTTL).Return(nil)
			},
		},
		{
			name: "Malformed payload is treated as a miss",
			setup: func(cache *mocks.Cache) {
				cache.On("Get", mock.Anything, domain.MetricsCacheKey).Return([]byte("{not json"), true, nil)
				cache.On("Set", mock.Anything, domain.MetricsCacheKey, mock.Anything, testTTL).Return(nil)
			},
		},
		{
			name: "Set error does not fail the request",
			setup: func(cache *mocks.Cache) {
				cache.On("Get", mock.Anything, domain.MetricsCacheKey).Return(nil, false, nil)
				cache.On("Set", mock.Anything, domain.MetricsCacheKey, mock.Anything, testTTL).Return(errors.New("READONLY"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRepos()
			r.expectSnapshot(1)
			cache := new(mocks.Cache)
			tt.setup(cache)

			report, err := newService(r, cache).GetMetrics(context.Background(), false)

			assert.NoError(t, err)
			assert.Equal(t, 155.0, report.Totals.TotalInvested)
			cache.AssertExpectations(t)
		})
	}
}

func TestGetMetrics_RepositoryErrorIsReturned(t *testing.T) {
	ctx := context.Background()
	r := newRepos()
	cache := new(mocks.Cache)

	r.clients.On("ListAll", mock.Anything).Return(nil, errors.New("db down"))
	r.assets.On("ListAll", mock.Anything).Return([]*domain.Asset{}, nil).Maybe()
	r.allocations.On("ListAll", mock.Anything).Return([]*domain.Allocation{}, nil).Maybe()
	r.movements.On("ListAll", mock.Anything).Return([]*domain.Movement{}, nil).Maybe()
	cache.On("Get", ctx, domain.MetricsCacheKey).Return(nil, false, nil)

	report, err := newService(r, cache).GetMetrics(ctx, false)

	assert.Nil(t, report)
	assert.ErrorContains(t, err, "failed to list clients")
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetMetrics_WithoutCache(t *testing.T) {
	r := newRepos()
	r.expectSnapshot(1)

	report, err := newService(r, nil).GetMetrics(context.Background(), false)

	assert.NoError(t, err)
	assert.Equal(t, 500.0, report.MovementTotals.Deposits)
}

func TestInvalidateMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("Deletes the metrics key", func(t *testing.T) {
		cache := new(mocks.Cache)
		cache.On("Delete", mock.Anything, []string{domain.MetricsCacheKey}).Return(nil).Once()

		newService(newRepos(), cache).InvalidateMetrics(ctx)

		cache.AssertExpectations(t)
	})

	t.Run("Delete error is swallowed", func(t *testing.T) {
		cache := new(mocks.Cache)
		cache.On("Delete", mock.Anything, []string{domain.MetricsCacheKey}).Return(errors.New("timeout")).Once()

		assert.NotPanics(t, func() { newService(newRepos(), cache).InvalidateMetrics(ctx) })
		cache.AssertExpectations(t)
	})
}

func TestInvalidateMetrics_CancelledContext(t *testing.T) {
	server := miniredis.RunT(t)
	cache, err := rediscache.New("redis://"+server.Addr()+"/0", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	require.NoError(t, server.Set(domain.MetricsCacheKey, `{"kpis":[]}`))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	newService(newRepos(), cache).InvalidateMetrics(ctx)

	assert.False(t, server.Exists(domain.MetricsCacheKey))
}

func TestMetricsCache_RoundTripAndInvalidation(t *testing.T) {
	ctx := context.Background()
	r := newRepos()
	r.expectSnapshot(2)
	cache := newMemoryCache()
	svc := newService(r, cache)

	written, err := svc.GetMetrics(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, testTTL, cache.ttls[domain.MetricsCacheKey])

	read, err := svc.GetMetrics(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, written, read)

	svc.InvalidateMetrics(ctx)
	_, found, _ := cache.Get(ctx, domain.MetricsCacheKey)
	assert.False(t, found)

	_, err = svc.GetMetrics(ctx, false)
	require.NoError(t, err)

	// one load for the first miss, one after invalidation
	r.assertExpectations(t)
}

func TestWarm_StoresFreshReport(t *testing.T) {
	ctx := context.Background()
	r := newRepos()
	r.expectSnapshot(1)
	cache := newMemoryCache()

	err := newService(r, cache).Warm(ctx)

	assert.NoError(t, err)
	_, found, _ := cache.Get(ctx, domain.MetricsCacheKey)
	assert.True(t, found)
}
