package domain

import (
	"context"

	"github.com/google/uuid"
)

// Mutating repository methods take an optional *AuditEntry which, when not nil,
// is persisted in the same database transaction as the change.

// ClientRepository defines the interface for client persistence operations
type ClientRepository interface {
	// GetByID retrieves a client by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Client, error)

	// GetByEmail retrieves a client by its email address
	GetByEmail(ctx context.Context, email string) (*Client, error)

	// List retrieves a page of clients matching filter, newest first
	List(ctx context.Context, filter ClientFilter, limit, offset int) ([]*Client, error)

	// Count returns the number of clients matching filter
	Count(ctx context.Context, filter ClientFilter) (int, error)

	// ListAll retrieves every client
	ListAll(ctx context.Context) ([]*Client, error)

	// Create creates a new client
	Create(ctx context.Context, client *Client, audit *AuditEntry) error

	// Update overwrites an existing client
	Update(ctx context.Context, client *Client, audit *AuditEntry) error

	// Delete removes a client with its allocations and movements
	Delete(ctx context.Context, id uuid.UUID, audit *AuditEntry) error
}

// AssetRepository defines the interface for asset persistence operations
type AssetRepository interface {
	// GetByID retrieves an asset by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Asset, error)

	// GetByTicker retrieves an asset by its (upper-case) ticker
	GetByTicker(ctx context.Context, ticker string) (*Asset, error)

	// List retrieves a page of assets matching filter, ordered by ticker
	List(ctx context.Context, filter AssetFilter, limit, offset int) ([]*Asset, error)

	// Count returns the number of assets matching filter
	Count(ctx context.Context, filter AssetFilter) (int, error)

	// ListAll retrieves every asset
	ListAll(ctx context.Context) ([]*Asset, error)

	// Create creates a new asset
	Create(ctx context.Context, asset *Asset, audit *AuditEntry) error

	// Update overwrites an existing asset
	Update(ctx context.Context, asset *Asset, audit *AuditEntry) error

	// Delete removes an asset with its allocations
	Delete(ctx context.Context, id uuid.UUID, audit *AuditEntry) error
}

// AllocationRepository defines the interface for allocation persistence operations
type AllocationRepository interface {
	// GetByID retrieves an allocation by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Allocation, error)

	// List retrieves a page of allocations matching filter, newest buy date first
	List(ctx context.Context, filter AllocationFilter, limit, offset int) ([]*Allocation, error)

	// Count returns the number of allocations matching filter
	Count(ctx context.Context, filter AllocationFilter) (int, error)

	// ListAll retrieves every allocation
	ListAll(ctx context.Context) ([]*Allocation, error)

	// Create creates a new allocation
	Create(ctx context.Context, allocation *Allocation, audit *AuditEntry) error

	// Update overwrites an existing allocation
	Update(ctx context.Context, allocation *Allocation, audit *AuditEntry) error

	// Delete removes an allocation
	Delete(ctx context.Context, id uuid.UUID, audit *AuditEntry) error
}

// MovementRepository defines the interface for movement persistence operations
type MovementRepository interface {
	// GetByID retrieves a movement by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Movement, error)

	// List retrieves a page of movements matching filter, newest first
	List(ctx context.Context, filter MovementFilter, limit, offset int) ([]*Movement, error)

	// Count returns the number of movements matching filter
	Count(ctx context.Context, filter MovementFilter) (int, error)

	// ListAll retrieves every movement
	ListAll(ctx context.Context) ([]*Movement, error)

	// Create creates a new movement
	Create(ctx context.Context, movement *Movement, audit *AuditEntry) error

	// Update overwrites an existing movement
	Update(ctx context.Context, movement *Movement, audit *AuditEntry) error

	// Delete removes a movement
	Delete(ctx context.Context, id uuid.UUID, audit *AuditEntry) error
}

// AuditRepository defines the interface for reading the audit log
type AuditRepository interface {
	// List retrieves a page of audit entries matching filter, newest first
	List(ctx context.Context, filter AuditFilter, limit, offset int) ([]*AuditEntry, error)

	// Count returns the number of audit entries matching filter
	Count(ctx context.Context, filter AuditFilter) (int, error)
}
