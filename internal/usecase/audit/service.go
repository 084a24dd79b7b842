package audit

import (
	"context"
	"errors"
	"fmt"

	"github.com/simaogato/advisory-backend/internal/domain"
)

// AuditService exposes the audit log
type AuditService struct {
	AuditRepo domain.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(auditRepo domain.AuditRepository) *AuditService {
	return &AuditService{AuditRepo: auditRepo}
}

// List returns a page of audit entries, newest first
func (s *AuditService) List(ctx context.Context, filter domain.AuditFilter, req domain.PageRequest) (*domain.Page[*domain.AuditEntry], error) {
	if filter.StartsAt != nil && filter.EndsAt != nil && filter.EndsAt.Before(*filter.StartsAt) {
		return nil, domain.InvalidInput(errors.New("ends_at must not be before starts_at"))
	}

	page, err := domain.Paginate(ctx, req,
		func(ctx context.Context) (int, error) { return s.AuditRepo.Count(ctx, filter) },
		func(ctx context.Context, limit, offset int) ([]*domain.AuditEntry, error) {
			return s.AuditRepo.List(ctx, filter, limit, offset)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return page, nil
}
