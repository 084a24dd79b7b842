// Package http exposes the REST API on a chi router.
package http

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/simaogato/advisory-backend/internal/domain"
	"github.com/simaogato/advisory-backend/internal/instrumentation"
	"github.com/simaogato/advisory-backend/internal/usecase/allocation"
	"github.com/simaogato/advisory-backend/internal/usecase/asset"
	"github.com/simaogato/advisory-backend/internal/usecase/client"
	"github.com/simaogato/advisory-backend/internal/usecase/health"
	"github.com/simaogato/advisory-backend/internal/usecase/movement"
)

type ClientService interface {
	List(ctx context.Context, filter domain.ClientFilter, req domain.PageRequest) (*domain.Page[*domain.Client], error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	Create(ctx context.Context, input client.CreateClientInput) (*domain.Client, error)
	Update(ctx context.Context, id uuid.UUID, input client.UpdateClientInput) (*domain.Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type AssetService interface {
	List(ctx context.Context, filter domain.AssetFilter, req domain.PageRequest) (*domain.Page[*domain.Asset], error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Asset, error)
	Create(ctx context.Context, input asset.CreateAssetInput) (*domain.Asset, error)
	Update(ctx context.Context, id uuid.UUID, input asset.UpdateAssetInput) (*domain.Asset, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FetchOrImport(ctx context.Context, ticker string) (*domain.Asset, bool, error)
}

type AllocationService interface {
	List(ctx context.Context, filter domain.AllocationFilter, req domain.PageRequest) (*domain.Page[*domain.Allocation], error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Allocation, error)
	Create(ctx context.Context, input allocation.CreateAllocationInput) (*domain.Allocation, error)
	Update(ctx context.Context, id uuid.UUID, input allocation.UpdateAllocationInput) (*domain.Allocation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type MovementService interface {
	List(ctx context.Context, filter domain.MovementFilter, req domain.PageRequest) (*domain.Page[*domain.Movement], error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Movement, error)
	Create(ctx context.Context, input movement.CreateMovementInput) (*domain.Movement, error)
	Update(ctx context.Context, id uuid.UUID, input movement.UpdateMovementInput) (*domain.Movement, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type DashboardService interface {
	GetMetrics(ctx context.Context, refresh bool) (*domain.MetricsReport, error)
}

type ExportService interface {
	ClientsCSV(ctx context.Context, w io.Writer) error
	AllocationsCSV(ctx context.Context, w io.Writer) error
	MovementsCSV(ctx context.Context, w io.Writer) error
	DashboardWorkbook(ctx context.Context, w io.Writer) error
}

type AuditService interface {
	List(ctx context.Context, filter domain.AuditFilter, req domain.PageRequest) (*domain.Page[*domain.AuditEntry], error)
}

type HealthChecker interface {
	Check(ctx context.Context) health.Report
}

// Services groups the use cases served by the router
type Services struct {
	Clients     ClientService
	Assets      AssetService
	Allocations AllocationService
	Movements   MovementService
	Dashboard   DashboardService
	Exports     ExportService
	Audit       AuditService
	Health      HealthChecker
}

// Router serves the REST API
type Router struct {
	services Services
	logger   zerolog.Logger
	mux      chi.Router
}

// NewRouter builds the route tree.
// Everything under /api/v1 requires the bearer token; /health and /metrics do not.
func NewRouter(
	services Services,
	apiToken string,
	metrics *instrumentation.Metrics,
	gatherer prometheus.Gatherer,
	logger zerolog.Logger,
) *Router {
	rt := &Router{
		services: services,
		logger:   logger.With().Str("component", "http").Logger(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(rt.logger, metrics))
	r.Use(middleware.Recoverer)

	r.Get("/health", rt.health)
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(BearerAuth(apiToken))

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", rt.listClients)
			r.Post("/", rt.createClient)
			r.Get("/{id}", rt.getClient)
			r.Put("/{id}", rt.updateClient)
			r.Delete("/{id}", rt.deleteClient)
		})

		r.Route("/assets", func(r chi.Router) {
			r.Get("/", rt.listAssets)
			r.Post("/", rt.createAsset)
			r.Post("/fetch/{ticker}", rt.fetchAsset)
			r.Get("/{id}", rt.getAsset)
			r.Put("/{id}", rt.updateAsset)
			r.Delete("/{id}", rt.deleteAsset)
		})

		r.Route("/allocations", func(r chi.Router) {
			r.Get("/", rt.listAllocations)
			r.Post("/", rt.createAllocation)
			r.Get("/{id}", rt.getAllocation)
			r.Put("/{id}", rt.updateAllocation)
			r.Delete("/{id}", rt.deleteAllocation)
		})

		r.Route("/movements", func(r chi.Router) {
			r.Get("/", rt.listMovements)
			r.Post("/", rt.createMovement)
			r.Get("/{id}", rt.getMovement)
			r.Put("/{id}", rt.updateMovement)
			r.Delete("/{id}", rt.deleteMovement)
		})

		r.Get("/dashboard/metrics", rt.dashboardMetrics)

		r.Route("/export", func(r chi.Router) {
			r.Get("/clients", rt.exportCSV("clients", ExportService.ClientsCSV))
			r.Get("/allocations", rt.exportCSV("allocations", ExportService.AllocationsCSV))
			r.Get("/movements", rt.exportCSV("movements", ExportService.MovementsCSV))
			r.Get("/dashboard/excel", rt.exportWorkbook)
		})

		r.Get("/audit", rt.listAudit)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	rt.mux = r
	return rt
}

// ServeHTTP implements http.Handler
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.mux.ServeHTTP(w, r)
}
