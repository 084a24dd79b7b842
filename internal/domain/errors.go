package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by repositories, services and transports.
// Callers match them with errors.Is; messages carry the detail.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrConflict      = errors.New("conflict")
	ErrQuoteNotFound = errors.New("ticker not found")
)

// InvalidInput wraps a validation failure so that it matches ErrInvalidInput
func InvalidInput(err error) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
}
