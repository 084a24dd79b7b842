package client

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/simaogato/advisory-backend/internal/domain"
)

const auditEntity = "client"

// CreateClientInput represents the input for creating a client
type CreateClientInput struct {
	Name     string
	Email    string
	IsActive bool
}

// UpdateClientInput represents a partial update; nil fields are left untouched
type UpdateClientInput struct {
	Name     *string
	Email    *string
	IsActive *bool
}

// ClientService handles client management operations
type ClientService struct {
	ClientRepo  domain.ClientRepository
	Invalidator domain.MetricsInvalidator
}

// NewClientService creates a new ClientService instance
func NewClientService(clientRepo domain.ClientRepository, invalidator domain.MetricsInvalidator) *ClientService {
	return &ClientService{
		ClientRepo:  clientRepo,
		Invalidator: invalidator,
	}
}

// List returns a page of clients matching filter
func (s *ClientService) List(ctx context.Context, filter domain.ClientFilter, req domain.PageRequest) (*domain.Page[*domain.Client], error) {
	page, err := domain.Paginate(ctx, req,
		func(ctx context.Context) (int, error) { return s.ClientRepo.Count(ctx, filter) },
		func(ctx context.Context, limit, offset int) ([]*domain.Client, error) {
			return s.ClientRepo.List(ctx, filter, limit, offset)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return page, nil
}

// Get retrieves a client by ID
func (s *ClientService) Get(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	return s.ClientRepo.GetByID(ctx, id)
}

// Create validates and stores a new client, then invalidates the dashboard metrics
func (s *ClientService) Create(ctx context.Context, input CreateClientInput) (*domain.Client, error) {
	client := &domain.Client{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.TrimSpace(input.Email),
		IsActive:  input.IsActive,
		CreatedAt: time.Now().UTC(),
	}
	if err := client.Validate(); err != nil {
		return nil, domain.InvalidInput(err)
	}

	audit := domain.NewAuditEntry(auditEntity, "created", client.ID, map[string]any{
		"email": client.Email,
		"name":  client.Name,
	})
	if err := s.ClientRepo.Create(ctx, client, audit); err != nil {
		return nil, err
	}

	s.Invalidator.InvalidateMetrics(ctx)
	return client, nil
}

// Update applies a partial update to an existing client
// Logic:
//  1. Fetch the current client
//  2. Apply the non-nil fields and validate the result
//  3. Persist, with an audit entry listing the changed fields when there are any
//  4. Invalidate the dashboard metrics
func (s *ClientService) Update(ctx context.Context, id uuid.UUID, input UpdateClientInput) (*domain.Client, error) {
	// 1. Fetch
	client, err := s.ClientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 2. Apply
	fields := make([]string, 0, 3)
	if input.Name != nil {
		client.Name = strings.TrimSpace(*input.Name)
		fields = append(fields, "name")
	}
	if input.Email != nil {
		client.Email = strings.TrimSpace(*input.Email)
		fields = append(fields, "email")
	}
	if input.IsActive != nil {
		client.IsActive = *input.IsActive
		fields = append(fields, "is_active")
	}
	if err := client.Validate(); err != nil {
		return nil, domain.InvalidInput(err)
	}

	// 3. Persist
	var audit *domain.AuditEntry
	if len(fields) > 0 {
		sort.Strings(fields)
		audit = domain.NewAuditEntry(auditEntity, "updated", client.ID, map[string]any{"fields": fields})
	}
	if err := s.ClientRepo.Update(ctx, client, audit); err != nil {
		return nil, err
	}

	// 4. Invalidate
	s.Invalidator.InvalidateMetrics(ctx)
	return client, nil
}

// Delete removes a client together with its allocations and movements
func (s *ClientService) Delete(ctx context.Context, id uuid.UUID) error {
	client, err := s.ClientRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	audit := domain.NewAuditEntry(auditEntity, "deleted", client.ID, map[string]any{
		"email": client.Email,
		"name":  client.Name,
	})
	if err := s.ClientRepo.Delete(ctx, id, audit); err != nil {
		return err
	}

	s.Invalidator.InvalidateMetrics(ctx)
	return nil
}
