package domain

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType represents the direction of a cash movement
type MovementType string

const (
	MovementTypeDeposit    MovementType = "deposit"
	MovementTypeWithdrawal MovementType = "withdrawal"
)

// Movement represents a cash deposit or withdrawal of a client
// Amount is always a non-negative magnitude; the sign comes from Type
type Movement struct {
	ID       uuid.UUID
	ClientID uuid.UUID
	Type     MovementType
	Amount   decimal.Decimal // NUMERIC(18,2)
	Date     time.Time       // date only, UTC midnight
	Note     *string
}

// Validate ensures the movement adheres to domain rules
func (m *Movement) Validate() error {
	if m.ClientID == uuid.Nil {
		return errors.New("movement must reference a client")
	}
	if m.Type != MovementTypeDeposit && m.Type != MovementTypeWithdrawal {
		return errors.New("movement type must be deposit or withdrawal")
	}
	if m.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("movement amount must be positive")
	}
	if !m.Amount.Equal(m.Amount.Round(2)) {
		return errors.New("movement amount supports at most 2 decimal places")
	}
	if m.Date.IsZero() {
		return errors.New("movement date is required")
	}
	if m.Note != nil && utf8.RuneCountInString(*m.Note) > 512 {
		return errors.New("movement note must have at most 512 characters")
	}

	return nil
}

// MovementFilter narrows movement listings
// StartDate and EndDate are inclusive
type MovementFilter struct {
	ClientID  *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}
