package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/advisory-backend/internal/domain"
	"github.com/simaogato/advisory-backend/internal/instrumentation"
	"github.com/simaogato/advisory-backend/internal/usecase/allocation"
	"github.com/simaogato/advisory-backend/internal/usecase/client"
	"github.com/simaogato/advisory-backend/internal/usecase/health"
	"github.com/simaogato/advisory-backend/internal/usecase/movement"
)

const testToken = "test-token"

type fixture struct {
	clients     *mockClientService
	assets      *mockAssetService
	allocations *mockAllocationService
	movements   *mockMovementService
	dashboard   *mockDashboardService
	exports     *mockExportService
	audit       *mockAuditService
	registry    *prometheus.Registry
	router      *Router
}

func newFixture(t *testing.T, checker HealthChecker) *fixture {
	t.Helper()
	f := &fixture{
		clients:     new(mockClientService),
		assets:      new(mockAssetService),
		allocations: new(mockAllocationService),
		movements:   new(mockMovementService),
		dashboard:   new(mockDashboardService),
		exports:     new(mockExportService),
		audit:       new(mockAuditService),
		registry:    prometheus.NewRegistry(),
	}
	f.router = NewRouter(Services{
		Clients:     f.clients,
		Assets:      f.assets,
		Allocations: f.allocations,
		Movements:   f.movements,
		Dashboard:   f.dashboard,
		Exports:     f.exports,
		Audit:       f.audit,
		Health:      checker,
	}, testToken, instrumentation.NewMetrics(f.registry), f.registry, zerolog.Nop())
	return f
}

func (f *fixture) do(method, target, body string, authorized bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if authorized {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestBearerAuth(t *testing.T) {
	f := newFixture(t, nil)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + testToken, want: http.StatusUnauthorized},
		{name: "wrong token", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer " + testToken, want: http.StatusOK},
		{name: "scheme is case-insensitive", header: "bearer " + testToken, want: http.StatusOK},
	}

	f.dashboard.On("GetMetrics", mock.Anything, false).Return(&domain.MetricsReport{}, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/metrics", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			f.router.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestListClients_PaginationAndFilters(t *testing.T) {
	f := newFixture(t, nil)
	active := true
	c := &domain.Client{ID: uuid.New(), Name: "Ana", Email: "ana@example.com", IsActive: true, CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}

	f.clients.On("List", mock.Anything,
		domain.ClientFilter{Search: "ana", IsActive: &active},
		domain.PageRequest{Page: 2, PageSize: 200},
	).Return(&domain.Page[*domain.Client]{
		Items: []*domain.Client{c},
		Meta:  domain.PageMeta{Total: 201, Page: 2, PageSize: 200, Pages: 2},
	}, nil)

	rec := f.do(http.MethodGet, "/api/v1/clients?search=%20ana%20&is_active=true&page=2&page_size=500", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Items []clientResponse `json:"items"`
		Meta  pageMeta         `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, c.ID, body.Items[0].ID)
	assert.Equal(t, "ana@example.com", body.Items[0].Email)
	assert.Equal(t, pageMeta{Total: 201, Page: 2, PageSize: 200, Pages: 2}, body.Meta)
	f.clients.AssertExpectations(t)
}

func TestListClients_InvalidBoolean(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodGet, "/api/v1/clients?is_active=maybe", "", true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.clients.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateClient(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(m *mockClientService)
		wantStatus int
		wantError  string
	}{
		{
			name: "defaults is_active to true",
			body: `{"name":"Ana","email":"ana@example.com"}`,
			setup: func(m *mockClientService) {
				m.On("Create", mock.Anything, client.CreateClientInput{Name: "Ana", Email: "ana@example.com", IsActive: true}).
					Return(&domain.Client{ID: uuid.New(), Name: "Ana", Email: "ana@example.com", IsActive: true}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "invalid email rejected by payload validation",
			body:       `{"name":"Ana","email":"not-an-email"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Bad Request",
		},
		{
			name:       "unknown field",
			body:       `{"name":"Ana","email":"ana@example.com","role":"admin"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Bad Request",
		},
		{
			name: "duplicate email",
			body: `{"name":"Ana","email":"ana@example.com","is_active":false}`,
			setup: func(m *mockClientService) {
				m.On("Create", mock.Anything, client.CreateClientInput{Name: "Ana", Email: "ana@example.com", IsActive: false}).
					Return(nil, domain.ErrConflict)
			},
			wantStatus: http.StatusConflict,
			wantError:  "Conflict",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			if tt.setup != nil {
				tt.setup(f.clients)
			}

			rec := f.do(http.MethodPost, "/api/v1/clients", tt.body, true)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeError(t, rec).Error)
			}
			f.clients.AssertExpectations(t)
		})
	}
}

func TestGetClient_Errors(t *testing.T) {
	f := newFixture(t, nil)
	missing := uuid.New()
	broken := uuid.New()
	f.clients.On("Get", mock.Anything, missing).Return(nil, domain.ErrNotFound)
	f.clients.On("Get", mock.Anything, broken).Return(nil, errors.New("pq: connection reset"))

	rec := f.do(http.MethodGet, "/api/v1/clients/not-a-uuid", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodGet, "/api/v1/clients/"+missing.String(), "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(http.MethodGet, "/api/v1/clients/"+broken.String(), "", true)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "internal server error", body.Message)
	assert.NotContains(t, rec.Body.String(), "pq:")
}

func TestUpdateClient_PartialPayload(t *testing.T) {
	f := newFixture(t, nil)
	id := uuid.New()
	f.clients.On("Update", mock.Anything, id, mock.MatchedBy(func(in client.UpdateClientInput) bool {
		return in.Name == nil && in.Email == nil && in.IsActive != nil && !*in.IsActive
	})).Return(&domain.Client{ID: id, Name: "Ana", Email: "ana@example.com"}, nil)

	rec := f.do(http.MethodPut, "/api/v1/clients/"+id.String(), `{"is_active":false}`, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	f.clients.AssertExpectations(t)
}

func TestDeleteClient(t *testing.T) {
	f := newFixture(t, nil)
	id := uuid.New()
	f.clients.On("Delete", mock.Anything, id).Return(nil)

	rec := f.do(http.MethodDelete, "/api/v1/clients/"+id.String(), "", true)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestFetchAsset_StatusReflectsImport(t *testing.T) {
	a := &domain.Asset{ID: uuid.New(), Ticker: "PETR4.SA", Name: "PETROBRAS PN", Exchange: "B3", Currency: "BRL"}

	tests := []struct {
		name    string
		created bool
		want    int
	}{
		{name: "imported", created: true, want: http.StatusCreated},
		{name: "already known", created: false, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			f.assets.On("FetchOrImport", mock.Anything, "petr4.sa").Return(a, tt.created, nil)

			rec := f.do(http.MethodPost, "/api/v1/assets/fetch/petr4.sa", "", true)

			assert.Equal(t, tt.want, rec.Code)
			var body assetResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "PETR4.SA", body.Ticker)
		})
	}
}

func TestFetchAsset_QuoteNotFound(t *testing.T) {
	f := newFixture(t, nil)
	f.assets.On("FetchOrImport", mock.Anything, "NOPE").Return(nil, false, domain.ErrQuoteNotFound)

	rec := f.do(http.MethodPost, "/api/v1/assets/fetch/NOPE", "", true)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateAllocation_ParsesPayload(t *testing.T) {
	f := newFixture(t, nil)
	clientID, assetID := uuid.New(), uuid.New()

	f.allocations.On("Create", mock.Anything, mock.MatchedBy(func(in allocation.CreateAllocationInput) bool {
		return in.ClientID == clientID &&
			in.AssetID == assetID &&
			in.Quantity.Equal(decimal.NewFromInt(10)) &&
			in.BuyPrice.Equal(decimal.RequireFromString("15.5")) &&
			in.BuyDate.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	})).Return(&domain.Allocation{
		ID: uuid.New(), ClientID: clientID, AssetID: assetID,
		Quantity: decimal.NewFromInt(10), BuyPrice: decimal.RequireFromString("15.5"),
		BuyDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}, nil)

	body := `{"client_id":"` + clientID.String() + `","asset_id":"` + assetID.String() +
		`","quantity":10,"buy_price":"15.5","buy_date":"2024-05-01"}`
	rec := f.do(http.MethodPost, "/api/v1/allocations", body, true)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp allocationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2024-05-01", resp.BuyDate)
	f.allocations.AssertExpectations(t)
}

func TestCreateAllocation_RejectsMissingFields(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodPost, "/api/v1/allocations",
		`{"client_id":"`+uuid.NewString()+`","asset_id":"x","buy_date":"01/05/2024"}`, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	msg := decodeError(t, rec).Message
	assert.Contains(t, msg, "asset_id")
	assert.Contains(t, msg, "quantity")
	assert.Contains(t, msg, "buy_date")
	f.allocations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListMovements_Filters(t *testing.T) {
	f := newFixture(t, nil)
	clientID := uuid.New()
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)

	f.movements.On("List", mock.Anything,
		domain.MovementFilter{ClientID: &clientID, StartDate: &start, EndDate: &end},
		domain.PageRequest{Page: 1, PageSize: 20},
	).Return(&domain.Page[*domain.Movement]{Items: []*domain.Movement{}, Meta: domain.PageMeta{Page: 1, PageSize: 20}}, nil)

	rec := f.do(http.MethodGet,
		"/api/v1/movements?client_id="+clientID.String()+"&start_date=2024-05-01&end_date=2024-05-31&page=0", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[],"meta":{"total":0,"page":1,"page_size":20,"pages":0}}`, rec.Body.String())
}

func TestUpdateMovement_TypeAndNote(t *testing.T) {
	f := newFixture(t, nil)
	id := uuid.New()
	f.movements.On("Update", mock.Anything, id, mock.MatchedBy(func(in movement.UpdateMovementInput) bool {
		return in.Type != nil && *in.Type == "WITHDRAWAL" && in.Note != nil && *in.Note == "resgate" && in.Amount == nil
	})).Return(&domain.Movement{ID: id, Type: domain.MovementTypeWithdrawal, Amount: decimal.NewFromInt(50)}, nil)

	rec := f.do(http.MethodPut, "/api/v1/movements/"+id.String(), `{"type":"WITHDRAWAL","note":"resgate"}`, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	f.movements.AssertExpectations(t)
}

func TestDashboardMetrics_Refresh(t *testing.T) {
	f := newFixture(t, nil)
	f.dashboard.On("GetMetrics", mock.Anything, true).Return(&domain.MetricsReport{KPIs: []domain.KPI{}}, nil).Once()

	rec := f.do(http.MethodGet, "/api/v1/dashboard/metrics?refresh=true", "", true)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/api/v1/dashboard/metrics?refresh=yes-please", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.dashboard.AssertExpectations(t)
}

func TestExports(t *testing.T) {
	f := newFixture(t, nil)
	f.exports.On("ClientsCSV", mock.Anything).Return("id,name,email,is_active,created_at\n", nil)
	f.exports.On("DashboardWorkbook", mock.Anything).Return("PK", nil)
	f.exports.On("MovementsCSV", mock.Anything).Return("", errors.New("db down"))

	rec := f.do(http.MethodGet, "/api/v1/export/clients", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=clients.csv", rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Equal(t, "id,name,email,is_active,created_at\n", rec.Body.String())

	rec = f.do(http.MethodGet, "/api/v1/export/dashboard/excel", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=dashboard.xlsx", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, workbookContentType, rec.Header().Get("Content-Type"))

	rec = f.do(http.MethodGet, "/api/v1/export/movements", "", true)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
}

func TestListAudit_Filters(t *testing.T) {
	f := newFixture(t, nil)
	startsAt := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	entry := &domain.AuditEntry{ID: uuid.New(), Action: "client.created", Entity: "client", EntityID: uuid.NewString()}

	f.audit.On("List", mock.Anything,
		domain.AuditFilter{Action: "client.created", StartsAt: &startsAt},
		domain.PageRequest{Page: 1, PageSize: 20},
	).Return(&domain.Page[*domain.AuditEntry]{Items: []*domain.AuditEntry{entry}, Meta: domain.PageMeta{Total: 1, Page: 1, PageSize: 20, Pages: 1}}, nil)

	rec := f.do(http.MethodGet, "/api/v1/audit?action=client.created&starts_at=2024-05-01", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Items []auditResponse `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "client.created", body.Items[0].Action)
	assert.NotNil(t, body.Items[0].Metadata)

	rec = f.do(http.MethodGet, "/api/v1/audit?ends_at=yesterday", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		report     health.Report
		wantStatus int
	}{
		{name: "healthy", report: health.Report{Status: health.StatusHealthy}, wantStatus: http.StatusOK},
		{name: "degraded", report: health.Report{Status: health.StatusDegraded}, wantStatus: http.StatusOK},
		{name: "unhealthy", report: health.Report{Status: health.StatusUnhealthy}, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, stubHealth{report: tt.report})

			rec := f.do(http.MethodGet, "/health", "", false)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body health.Report
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.report.Status, body.Status)
		})
	}
}

func TestMetricsEndpoint_RecordsRoutes(t *testing.T) {
	f := newFixture(t, nil)
	f.dashboard.On("GetMetrics", mock.Anything, false).Return(&domain.MetricsReport{}, nil)

	f.do(http.MethodGet, "/api/v1/dashboard/metrics", "", true)
	rec := f.do(http.MethodGet, "/metrics", "", false)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `advisory_http_requests_total{method="GET",route="/api/v1/dashboard/metrics",status="200"} 1`)
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodGet, "/api/v1/nothing-here", "", true)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", decodeError(t, rec).Error)
}
