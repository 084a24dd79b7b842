package http

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/simaogato/advisory-backend/internal/domain"
	"github.com/simaogato/advisory-backend/internal/usecase/allocation"
	"github.com/simaogato/advisory-backend/internal/usecase/asset"
	"github.com/simaogato/advisory-backend/internal/usecase/client"
	"github.com/simaogato/advisory-backend/internal/usecase/health"
	"github.com/simaogato/advisory-backend/internal/usecase/movement"
)

type mockClientService struct{ mock.Mock }

func (m *mockClientService) List(ctx context.Context, filter domain.ClientFilter, req domain.PageRequest) (*domain.Page[*domain.Client], error) {
	args := m.Called(ctx, filter, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[*domain.Client]), args.Error(1)
}

func (m *mockClientService) Get(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *mockClientService) Create(ctx context.Context, input client.CreateClientInput) (*domain.Client, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *mockClientService) Update(ctx context.Context, id uuid.UUID, input client.UpdateClientInput) (*domain.Client, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *mockClientService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockAssetService struct{ mock.Mock }

func (m *mockAssetService) List(ctx context.Context, filter domain.AssetFilter, req domain.PageRequest) (*domain.Page[*domain.Asset], error) {
	args := m.Called(ctx, filter, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[*domain.Asset]), args.Error(1)
}

func (m *mockAssetService) Get(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *mockAssetService) Create(ctx context.Context, input asset.CreateAssetInput) (*domain.Asset, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *mockAssetService) Update(ctx context.Context, id uuid.UUID, input asset.UpdateAssetInput) (*domain.Asset, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *mockAssetService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAssetService) FetchOrImport(ctx context.Context, ticker string) (*domain.Asset, bool, error) {
	args := m.Called(ctx, ticker)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*domain.Asset), args.Bool(1), args.Error(2)
}

type mockAllocationService struct{ mock.Mock }

func (m *mockAllocationService) List(ctx context.Context, filter domain.AllocationFilter, req domain.PageRequest) (*domain.Page[*domain.Allocation], error) {
	args := m.Called(ctx, filter, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[*domain.Allocation]), args.Error(1)
}

func (m *mockAllocationService) Get(ctx context.Context, id uuid.UUID) (*domain.Allocation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Allocation), args.Error(1)
}

func (m *mockAllocationService) Create(ctx context.Context, input allocation.CreateAllocationInput) (*domain.Allocation, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Allocation), args.Error(1)
}

func (m *mockAllocationService) Update(ctx context.Context, id uuid.UUID, input allocation.UpdateAllocationInput) (*domain.Allocation, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Allocation), args.Error(1)
}

func (m *mockAllocationService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockMovementService struct{ mock.Mock }

func (m *mockMovementService) List(ctx context.Context, filter domain.MovementFilter, req domain.PageRequest) (*domain.Page[*domain.Movement], error) {
	args := m.Called(ctx, filter, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[*domain.Movement]), args.Error(1)
}

func (m *mockMovementService) Get(ctx context.Context, id uuid.UUID) (*domain.Movement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movement), args.Error(1)
}

func (m *mockMovementService) Create(ctx context.Context, input movement.CreateMovementInput) (*domain.Movement, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movement), args.Error(1)
}

func (m *mockMovementService) Update(ctx context.Context, id uuid.UUID, input movement.UpdateMovementInput) (*domain.Movement, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movement), args.Error(1)
}

func (m *mockMovementService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockDashboardService struct{ mock.Mock }

func (m *mockDashboardService) GetMetrics(ctx context.Context, refresh bool) (*domain.MetricsReport, error) {
	args := m.Called(ctx, refresh)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MetricsReport), args.Error(1)
}

type mockExportService struct{ mock.Mock }

func (m *mockExportService) write(w io.Writer, args mock.Arguments) error {
	if body, ok := args.Get(0).(string); ok {
		_, _ = io.WriteString(w, body)
	}
	return args.Error(1)
}

func (m *mockExportService) ClientsCSV(ctx context.Context, w io.Writer) error {
	return m.write(w, m.Called(ctx))
}

func (m *mockExportService) AllocationsCSV(ctx context.Context, w io.Writer) error {
	return m.write(w, m.Called(ctx))
}

func (m *mockExportService) MovementsCSV(ctx context.Context, w io.Writer) error {
	return m.write(w, m.Called(ctx))
}

func (m *mockExportService) DashboardWorkbook(ctx context.Context, w io.Writer) error {
	return m.write(w, m.Called(ctx))
}

type mockAuditService struct{ mock.Mock }

func (m *mockAuditService) List(ctx context.Context, filter domain.AuditFilter, req domain.PageRequest) (*domain.Page[*domain.AuditEntry], error) {
	args := m.Called(ctx, filter, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[*domain.AuditEntry]), args.Error(1)
}

type stubHealth struct{ report health.Report }

func (s stubHealth) Check(context.Context) health.Report { return s.report }
