package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// emails applies the same address grammar as the HTTP payload validation
var emails = validator.New()

// Client represents a client of the advisory firm
type Client struct {
	ID        uuid.UUID
	Name      string
	Email     string
	IsActive  bool
	CreatedAt time.Time
}

// Validate ensures the client adheres to domain rules
func (c *Client) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return errors.New("client name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 255 {
		return errors.New("client name must have at most 255 characters")
	}

	if c.Email == "" {
		return errors.New("client email cannot be empty")
	}
	if utf8.RuneCountInString(c.Email) > 255 {
		return errors.New("client email must have at most 255 characters")
	}
	if err := emails.Var(c.Email, "email"); err != nil {
		return errors.New("client email is invalid")
	}

	return nil
}

// ClientFilter narrows client listings
// Search matches name or email, case-insensitive
type ClientFilter struct {
	Search   string
	IsActive *bool
}
