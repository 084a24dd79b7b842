package http

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	rediscache "github.com/simaogato/advisory-backend/internal/adapter/cache/redis"
	"github.com/simaogato/advisory-backend/internal/domain"
	"github.com/simaogato/advisory-backend/internal/domain/mocks"
	"github.com/simaogato/advisory-backend/internal/instrumentation"
	"github.com/simaogato/advisory-backend/internal/usecase/client"
	"github.com/simaogato/advisory-backend/internal/usecase/dashboard"
)

// A mutation served by the API must make the next dashboard read recompute.
func TestDashboard_MutationInvalidatesCachedMetrics(t *testing.T) {
	server := miniredis.RunT(t)
	cache, err := rediscache.New("redis://"+server.Addr()+"/0", "")
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	clientID := uuid.New()
	assetID := uuid.New()
	existing := &domain.Client{ID: clientID, Name: "Ana", Email: "ana@example.com", IsActive: true, CreatedAt: time.Now().UTC()}
	assets := []*domain.Asset{{ID: assetID, Ticker: "PETR4.SA", Name: "Petrobras PN", Exchange: "B3", Currency: "BRL"}}
	allocations := []*domain.Allocation{{
		ID: uuid.New(), ClientID: clientID, AssetID: assetID,
		Quantity: decimal.NewFromInt(10), BuyPrice: decimal.RequireFromString("15.5"),
		BuyDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}}
	movements := []*domain.Movement{{
		ID: uuid.New(), ClientID: clientID, Type: domain.MovementTypeDeposit,
		Amount: decimal.NewFromInt(500), Date: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
	}}

	clientRepo := new(mocks.ClientRepository)
	assetRepo := new(mocks.AssetRepository)
	allocationRepo := new(mocks.AllocationRepository)
	movementRepo := new(mocks.MovementRepository)

	clientRepo.On("ListAll", mock.Anything).Return([]*domain.Client{existing}, nil).Once()
	clientRepo.On("ListAll", mock.Anything).Return([]*domain.Client{existing, {
		ID: uuid.New(), Name: "Bruno", Email: "bruno@example.com", IsActive: false, CreatedAt: time.Now().UTC(),
	}}, nil).Once()
	clientRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Client"), mock.AnythingOfType("*domain.AuditEntry")).Return(nil).Once()
	assetRepo.On("ListAll", mock.Anything).Return(assets, nil)
	allocationRepo.On("ListAll", mock.Anything).Return(allocations, nil)
	movementRepo.On("ListAll", mock.Anything).Return(movements, nil)

	registry := prometheus.NewRegistry()
	metrics := instrumentation.NewMetrics(registry)
	metricsService := dashboard.NewMetricsService(clientRepo, assetRepo, allocationRepo, movementRepo, cache, time.Minute, metrics, zerolog.Nop())
	clientService := client.NewClientService(clientRepo, metricsService)

	f := &fixture{}
	f.router = NewRouter(Services{
		Clients:   clientService,
		Dashboard: metricsService,
	}, testToken, metrics, registry, zerolog.Nop())

	readReport := func() domain.MetricsReport {
		rec := f.do(http.MethodGet, "/api/v1/dashboard/metrics", "", true)
		require.Equal(t, http.StatusOK, rec.Code)
		var report domain.MetricsReport
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		return report
	}

	// 1. First read computes and caches
	first := readReport()
	assert.Equal(t, 1, first.Totals.Clients)
	assert.Equal(t, 155.0, first.Totals.TotalInvested)
	assert.Equal(t, 500.0, first.MovementTotals.Deposits)
	require.Len(t, first.CustodySeries, 1)
	assert.Equal(t, 155.0, first.CustodySeries[0].Value)
	require.Len(t, first.FlowSeries, 1)
	assert.Equal(t, 500.0, first.FlowSeries[0].Inflow)
	assert.Len(t, first.KPIs, 4)
	require.Len(t, first.AllocationTotalsByClient, 1)
	assert.Equal(t, 155.0, first.AllocationTotalsByClient[0].Total)
	assert.True(t, server.Exists(domain.MetricsCacheKey))

	// 2. Second read is served from the cache
	second := readReport()
	assert.Equal(t, first.GeneratedAt, second.GeneratedAt)
	clientRepo.AssertNumberOfCalls(t, "ListAll", 1)

	// 3. Creating a client drops the cached report
	rec := f.do(http.MethodPost, "/api/v1/clients", `{"name":"Bruno","email":"bruno@example.com","is_active":false}`, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.False(t, server.Exists(domain.MetricsCacheKey))

	// 4. Next read recomputes
	third := readReport()
	assert.Equal(t, 2, third.Totals.Clients)
	assert.Equal(t, 1, third.Totals.ActiveClients)
	clientRepo.AssertNumberOfCalls(t, "ListAll", 2)
	clientRepo.AssertExpectations(t)
}

// A failed mutation leaves the cached report in place.
func TestDashboard_FailedMutationKeepsCache(t *testing.T) {
	server := miniredis.RunT(t)
	cache, err := rediscache.New("redis://"+server.Addr()+"/0", "")
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	require.NoError(t, server.Set(domain.MetricsCacheKey, `{"kpis":[]}`))

	clientRepo := new(mocks.ClientRepository)
	clientRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(domain.ErrConflict)

	metricsService := dashboard.NewMetricsService(clientRepo, nil, nil, nil, cache, time.Minute, nil, zerolog.Nop())
	f := &fixture{}
	f.router = NewRouter(Services{
		Clients:   client.NewClientService(clientRepo, metricsService),
		Dashboard: metricsService,
	}, testToken, nil, nil, zerolog.Nop())

	rec := f.do(http.MethodPost, "/api/v1/clients", `{"name":"Ana","email":"ana@example.com"}`, true)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.True(t, server.Exists(domain.MetricsCacheKey))
}
