package movement

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/advisory-backend/internal/domain"
)

const auditEntity = "movement"

// CreateMovementInput represents the input for recording a cash movement
type CreateMovementInput struct {
	ClientID uuid.UUID
	Type     domain.MovementType
	Amount   decimal.Decimal
	Date     time.Time
	Note     *string
}

// UpdateMovementInput represents a partial update; nil fields are left untouched
type UpdateMovementInput struct {
	ClientID *uuid.UUID
	Type     *domain.MovementType
	Amount   *decimal.Decimal
	Date     *time.Time
	Note     *string
}

// MovementService records client deposits and withdrawals
type MovementService struct {
	MovementRepo domain.MovementRepository
	ClientRepo   domain.ClientRepository
	Invalidator  domain.MetricsInvalidator
}

// NewMovementService creates a new MovementService instance
func NewMovementService(movementRepo domain.MovementRepository, clientRepo domain.ClientRepository, invalidator domain.MetricsInvalidator) *MovementService {
	return &MovementService{
		MovementRepo: movementRepo,
		ClientRepo:   clientRepo,
		Invalidator:  invalidator,
	}
}

// List returns a page of movements matching filter
func (s *MovementService) List(ctx context.Context, filter domain.MovementFilter, req domain.PageRequest) (*domain.Page[*domain.Movement], error) {
	page, err := domain.Paginate(ctx, req,
		func(ctx context.Context) (int, error) { return s.MovementRepo.Count(ctx, filter) },
		func(ctx context.Context, limit, offset int) ([]*domain.Movement, error) {
			return s.MovementRepo.List(ctx, filter, limit, offset)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	return page, nil
}

// Get retrieves a movement by ID
func (s *MovementService) Get(ctx context.Context, id uuid.UUID) (*domain.Movement, error) {
	return s.MovementRepo.GetByID(ctx, id)
}

// Create records a deposit or withdrawal
// Logic:
//  1. Normalize the note and date, then validate
//  2. Verify that the client exists
//  3. Persist with an audit entry, then invalidate the dashboard metrics
func (s *MovementService) Create(ctx context.Context, input CreateMovementInput) (*domain.Movement, error) {
	// 1. Validate
	movement := &domain.Movement{
		ID:       uuid.New(),
		ClientID: input.ClientID,
		Type:     domain.MovementType(strings.ToLower(string(input.Type))),
		Amount:   input.Amount,
		Date:     dateOnly(input.Date),
		Note:     normalizeNote(input.Note),
	}
	if err := movement.Validate(); err != nil {
		return nil, domain.InvalidInput(err)
	}

	// 2. Client
	if _, err := s.ClientRepo.GetByID(ctx, movement.ClientID); err != nil {
		return nil, fmt.Errorf("client %s: %w", movement.ClientID, err)
	}

	// 3. Persist
	if err := s.MovementRepo.Create(ctx, movement, s.audit("created", movement)); err != nil {
		return nil, err
	}

	s.Invalidator.InvalidateMetrics(ctx)
	return movement, nil
}

// Update applies a partial update to an existing movement
func (s *MovementService) Update(ctx context.Context, id uuid.UUID, input UpdateMovementInput) (*domain.Movement, error) {
	movement, err := s.MovementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var fields []string
	if input.Amount != nil {
		movement.Amount = *input.Amount
		fields = append(fields, "amount")
	}
	if input.ClientID != nil {
		movement.ClientID = *input.ClientID
		fields = append(fields, "client_id")
	}
	if input.Date != nil {
		movement.Date = dateOnly(*input.Date)
		fields = append(fields, "date")
	}
	if input.Note != nil {
		movement.Note = normalizeNote(input.Note)
		fields = append(fields, "note")
	}
	if input.Type != nil {
		movement.Type = domain.MovementType(strings.ToLower(string(*input.Type)))
		fields = append(fields, "type")
	}
	if err := movement.Validate(); err != nil {
		return nil, domain.InvalidInput(err)
	}
	if input.ClientID != nil {
		if _, err := s.ClientRepo.GetByID(ctx, movement.ClientID); err != nil {
			return nil, fmt.Errorf("client %s: %w", movement.ClientID, err)
		}
	}

	var audit *domain.AuditEntry
	if len(fields) > 0 {
		audit = domain.NewAuditEntry(auditEntity, "updated", movement.ID, map[string]any{"fields": fields})
	}
	if err := s.MovementRepo.Update(ctx, movement, audit); err != nil {
		return nil, err
	}

	s.Invalidator.InvalidateMetrics(ctx)
	return movement, nil
}

// Delete removes a movement
func (s *MovementService) Delete(ctx context.Context, id uuid.UUID) error {
	movement, err := s.MovementRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.MovementRepo.Delete(ctx, id, s.audit("deleted", movement)); err != nil {
		return err
	}

	s.Invalidator.InvalidateMetrics(ctx)
	return nil
}

func (s *MovementService) audit(verb string, movement *domain.Movement) *domain.AuditEntry {
	return domain.NewAuditEntry(auditEntity, verb, movement.ID, map[string]any{
		"client_id": movement.ClientID.String(),
		"type":      string(movement.Type),
		"amount":    movement.Amount.StringFixed(2),
	})
}

// normalizeNote trims the note; blank notes are stored as NULL
func normalizeNote(note *string) *string {
	if note == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
