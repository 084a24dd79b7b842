// Package mocks provides testify doubles for the domain interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/simaogato/advisory-backend/internal/domain"
)

// ClientRepository is a mock implementation of domain.ClientRepository
type ClientRepository struct {
	mock.Mock
}

func (m *ClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *ClientRepository) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *ClientRepository) List(ctx context.Context, filter domain.ClientFilter, limit, offset int) ([]*domain.Client, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Client), args.Error(1)
}

func (m *ClientRepository) Count(ctx context.Context, filter domain.ClientFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *ClientRepository) ListAll(ctx context.Context) ([]*domain.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Client), args.Error(1)
}

func (m *ClientRepository) Create(ctx context.Context, client *domain.Client, audit *domain.AuditEntry) error {
	args := m.Called(ctx, client, audit)
	return args.Error(0)
}

func (m *ClientRepository) Update(ctx context.Context, client *domain.Client, audit *domain.AuditEntry) error {
	args := m.Called(ctx, client, audit)
	return args.Error(0)
}

func (m *ClientRepository) Delete(ctx context.Context, id uuid.UUID, audit *domain.AuditEntry) error {
	args := m.Called(ctx, id, audit)
	return args.Error(0)
}

// AssetRepository is a mock implementation of domain.AssetRepository
type AssetRepository struct {
	mock.Mock
}

func (m *AssetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *AssetRepository) GetByTicker(ctx context.Context, ticker string) (*domain.Asset, error) {
	args := m.Called(ctx, ticker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *AssetRepository) List(ctx context.Context, filter domain.AssetFilter, limit, offset int) ([]*domain.Asset, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Asset), args.Error(1)
}

func (m *AssetRepository) Count(ctx context.Context, filter domain.AssetFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *AssetRepository) ListAll(ctx context.Context) ([]*domain.Asset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Asset), args.Error(1)
}

func (m *AssetRepository) Create(ctx context.Context, asset *domain.Asset, audit *domain.AuditEntry) error {
	args := m.Called(ctx, asset, audit)
	return args.Error(0)
}

func (m *AssetRepository) Update(ctx context.Context, asset *domain.Asset, audit *domain.AuditEntry) error {
	args := m.Called(ctx, asset, audit)
	return args.Error(0)
}

func (m *AssetRepository) Delete(ctx context.Context, id uuid.UUID, audit *domain.AuditEntry) error {
	args := m.Called(ctx, id, audit)
	return args.Error(0)
}

// AllocationRepository is a mock implementation of domain.AllocationRepository
type AllocationRepository struct {
	mock.Mock
}

func (m *AllocationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Allocation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Allocation), args.Error(1)
}

func (m *AllocationRepository) List(ctx context.Context, filter domain.AllocationFilter, limit, offset int) ([]*domain.Allocation, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Allocation), args.Error(1)
}

func (m *AllocationRepository) Count(ctx context.Context, filter domain.AllocationFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *AllocationRepository) ListAll(ctx context.Context) ([]*domain.Allocation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Allocation), args.Error(1)
}

func (m *AllocationRepository) Create(ctx context.Context, allocation *domain.Allocation, audit *domain.AuditEntry) error {
	args := m.Called(ctx, allocation, audit)
	return args.Error(0)
}

func (m *AllocationRepository) Update(ctx context.Context, allocation *domain.Allocation, audit *domain.AuditEntry) error {
	args := m.Called(ctx, allocation, audit)
	return args.Error(0)
}

func (m *AllocationRepository) Delete(ctx context.Context, id uuid.UUID, audit *domain.AuditEntry) error {
	args := m.Called(ctx, id, audit)
	return args.Error(0)
}

// MovementRepository is a mock implementation of domain.MovementRepository
type MovementRepository struct {
	mock.Mock
}

func (m *MovementRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Movement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movement), args.Error(1)
}

func (m *MovementRepository) List(ctx context.Context, filter domain.MovementFilter, limit, offset int) ([]*domain.Movement, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Movement), args.Error(1)
}

func (m *MovementRepository) Count(ctx context.Context, filter domain.MovementFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MovementRepository) ListAll(ctx context.Context) ([]*domain.Movement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Movement), args.Error(1)
}

func (m *MovementRepository) Create(ctx context.Context, movement *domain.Movement, audit *domain.AuditEntry) error {
	args := m.Called(ctx, movement, audit)
	return args.Error(0)
}

func (m *MovementRepository) Update(ctx context.Context, movement *domain.Movement, audit *domain.AuditEntry) error {
	args := m.Called(ctx, movement, audit)
	return args.Error(0)
}

func (m *MovementRepository) Delete(ctx context.Context, id uuid.UUID, audit *domain.AuditEntry) error {
	args := m.Called(ctx, id, audit)
	return args.Error(0)
}

// AuditRepository is a mock implementation of domain.AuditRepository
type AuditRepository struct {
	mock.Mock
}

func (m *AuditRepository) List(ctx context.Context, filter domain.AuditFilter, limit, offset int) ([]*domain.AuditEntry, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AuditEntry), args.Error(1)
}

func (m *AuditRepository) Count(ctx context.Context, filter domain.AuditFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

// Cache is a mock implementation of domain.Cache
type Cache struct {
	mock.Mock
}

func (m *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	var data []byte
	if args.Get(0) != nil {
		data = args.Get(0).([]byte)
	}
	return data, args.Bool(1), args.Error(2)
}

func (m *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *Cache) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

// MetricsInvalidator is a mock implementation of domain.MetricsInvalidator
type MetricsInvalidator struct {
	mock.Mock
}

func (m *MetricsInvalidator) InvalidateMetrics(ctx context.Context) {
	m.Called(ctx)
}

// QuoteProvider is a mock implementation of domain.QuoteProvider
type QuoteProvider struct {
	mock.Mock
	ProviderName string
}

func (m *QuoteProvider) Name() string {
	return m.ProviderName
}

func (m *QuoteProvider) FetchQuote(ctx context.Context, ticker string) (*domain.Quote, error) {
	args := m.Called(ctx, ticker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}
