package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Allocation represents a position bought by a client
type Allocation struct {
	ID       uuid.UUID
	ClientID uuid.UUID
	AssetID  uuid.UUID
	Quantity decimal.Decimal // NUMERIC(18,4)
	BuyPrice decimal.Decimal // NUMERIC(18,4)
	BuyDate  time.Time       // date only, UTC midnight
}

// InvestedValue returns quantity x buy price rounded to 2 decimal places
func (a *Allocation) InvestedValue() decimal.Decimal {
	return a.Quantity.Mul(a.BuyPrice).Round(2)
}

// Validate ensures the allocation adheres to domain rules
func (a *Allocation) Validate() error {
	if a.ClientID == uuid.Nil {
		return errors.New("allocation must reference a client")
	}
	if a.AssetID == uuid.Nil {
		return errors.New("allocation must reference an asset")
	}
	if a.Quantity.LessThanOrEqual(decimal.Zero) {
		return errors.New("allocation quantity must be positive")
	}
	if a.BuyPrice.LessThan(decimal.Zero) {
		return errors.New("allocation buy price cannot be negative")
	}
	if !a.Quantity.Equal(a.Quantity.Round(4)) || !a.BuyPrice.Equal(a.BuyPrice.Round(4)) {
		return errors.New("allocation quantity and buy price support at most 4 decimal places")
	}
	if a.BuyDate.IsZero() {
		return errors.New("allocation buy date is required")
	}

	return nil
}

// AllocationFilter narrows allocation listings
type AllocationFilter struct {
	ClientID *uuid.UUID
	AssetID  *uuid.UUID
}
