package allocation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/advisory-backend/internal/domain"
)

const auditEntity = "allocation"

// CreateAllocationInput represents the input for recording a position
type CreateAllocationInput struct {
	ClientID uuid.UUID
	AssetID  uuid.UUID
	Quantity decimal.Decimal
	BuyPrice decimal.Decimal
	BuyDate  time.Time
}

// UpdateAllocationInput represents a partial update; nil fields are left untouched
type UpdateAllocationInput struct {
	ClientID *uuid.UUID
	AssetID  *uuid.UUID
	Quantity *decimal.Decimal
	BuyPrice *decimal.Decimal
	BuyDate  *time.Time
}

// AllocationService handles client positions
type AllocationService struct {
	AllocationRepo domain.AllocationRepository
	ClientRepo     domain.ClientRepository
	AssetRepo      domain.AssetRepository
	Invalidator    domain.MetricsInvalidator
}

// NewAllocationService creates a new AllocationService instance
func NewAllocationService(
	allocationRepo domain.AllocationRepository,
	clientRepo domain.ClientRepository,
	assetRepo domain.AssetRepository,
	invalidator domain.MetricsInvalidator,
) *AllocationService {
	return &AllocationService{
		AllocationRepo: allocationRepo,
		ClientRepo:     clientRepo,
		AssetRepo:      assetRepo,
		Invalidator:    invalidator,
	}
}

// List returns a page of allocations matching filter
func (s *AllocationService) List(ctx context.Context, filter domain.AllocationFilter, req domain.PageRequest) (*domain.Page[*domain.Allocation], error) {
	page, err := domain.Paginate(ctx, req,
		func(ctx context.Context) (int, error) { return s.AllocationRepo.Count(ctx, filter) },
		func(ctx context.Context, limit, offset int) ([]*domain.Allocation, error) {
			return s.AllocationRepo.List(ctx, filter, limit, offset)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}
	return page, nil
}

// Get retrieves an allocation by ID
func (s *AllocationService) Get(ctx context.Context, id uuid.UUID) (*domain.Allocation, error) {
	return s.AllocationRepo.GetByID(ctx, id)
}

// Create records a new position for a client
// Logic:
//  1. Validate the allocation
//  2. Verify that the client and asset exist
//  3. Persist with an audit entry, then invalidate the dashboard metrics
func (s *AllocationService) Create(ctx context.Context, input CreateAllocationInput) (*domain.Allocation, error) {
	// 1. Validate
	allocation := &domain.Allocation{
		ID:       uuid.New(),
		ClientID: input.ClientID,
		AssetID:  input.AssetID,
		Quantity: input.Quantity,
		BuyPrice: input.BuyPrice,
		BuyDate:  dateOnly(input.BuyDate),
	}
	if err := allocation.Validate(); err != nil {
		return nil, domain.InvalidInput(err)
	}

	// 2. References
	if err := s.checkReferences(ctx, allocation); err != nil {
		return nil, err
	}

	// 3. Persist
	if err := s.AllocationRepo.Create(ctx, allocation, s.audit("created", allocation)); err != nil {
		return nil, err
	}

	s.Invalidator.InvalidateMetrics(ctx)
	return allocation, nil
}

// Update applies a partial update to an existing allocation
func (s *AllocationService) Update(ctx context.Context, id uuid.UUID, input UpdateAllocationInput) (*domain.Allocation, error) {
	allocation, err := s.AllocationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var fields []string
	if input.AssetID != nil {
		allocation.AssetID = *input.AssetID
		fields = append(fields, "asset_id")
	}
	if input.BuyDate != nil {
		allocation.BuyDate = dateOnly(*input.BuyDate)
		fields = append(fields, "buy_date")
	}
	if input.BuyPrice != nil {
		allocation.BuyPrice = *input.BuyPrice
		fields = append(fields, "buy_price")
	}
	if input.ClientID != nil {
		allocation.ClientID = *input.ClientID
		fields = append(fields, "client_id")
	}
	if input.Quantity != nil {
		allocation.Quantity = *input.Quantity
		fields = append(fields, "quantity")
	}
	if err := allocation.Validate(); err != nil {
		return nil, domain.InvalidInput(err)
	}
	if input.ClientID != nil || input.AssetID != nil {
		if err := s.checkReferences(ctx, allocation); err != nil {
			return nil, err
		}
	}

	var audit *domain.AuditEntry
	if len(fields) > 0 {
		audit = domain.NewAuditEntry(auditEntity, "updated", allocation.ID, map[string]any{"fields": fields})
	}
	if err := s.AllocationRepo.Update(ctx, allocation, audit); err != nil {
		return nil, err
	}

	s.Invalidator.InvalidateMetrics(ctx)
	return allocation, nil
}

// Delete removes an allocation
func (s *AllocationService) Delete(ctx context.Context, id uuid.UUID) error {
	allocation, err := s.AllocationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.AllocationRepo.Delete(ctx, id, s.audit("deleted", allocation)); err != nil {
		return err
	}

	s.Invalidator.InvalidateMetrics(ctx)
	return nil
}

func (s *AllocationService) checkReferences(ctx context.Context, allocation *domain.Allocation) error {
	if _, err := s.ClientRepo.GetByID(ctx, allocation.ClientID); err != nil {
		return fmt.Errorf("client %s: %w", allocation.ClientID, err)
	}
	if _, err := s.AssetRepo.GetByID(ctx, allocation.AssetID); err != nil {
		return fmt.Errorf("asset %s: %w", allocation.AssetID, err)
	}
	return nil
}

func (s *AllocationService) audit(verb string, allocation *domain.Allocation) *domain.AuditEntry {
	return domain.NewAuditEntry(auditEntity, verb, allocation.ID, map[string]any{
		"client_id": allocation.ClientID.String(),
		"asset_id":  allocation.AssetID.String(),
		"quantity":  allocation.Quantity.String(),
		"buy_price": allocation.BuyPrice.String(),
	})
}

// dateOnly truncates t to its calendar date at UTC midnight
func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
