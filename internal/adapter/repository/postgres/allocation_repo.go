package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/advisory-backend/internal/domain"
)

const allocationColumns = `id, client_id, asset_id, quantity, buy_price, buy_date`

// allocationRepository implements domain.AllocationRepository
type allocationRepository struct {
	db *DB
}

// NewAllocationRepository creates a new allocation repository
func NewAllocationRepository(db *DB) domain.AllocationRepository {
	return &allocationRepository{db: db}
}

func scanAllocation(row rowScanner) (*domain.Allocation, error) {
	var allocation domain.Allocation
	var quantityStr, priceStr string

	if err := row.Scan(
		&allocation.ID,
		&allocation.ClientID,
		&allocation.AssetID,
		&quantityStr,
		&priceStr,
		&allocation.BuyDate,
	); err != nil {
		return nil, err
	}

	// Parse NUMERIC columns
	quantity, err := decimal.NewFromString(quantityStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse quantity: %w", err)
	}
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse buy_price: %w", err)
	}
	allocation.Quantity = quantity
	allocation.BuyPrice = price
	allocation.BuyDate = asDate(allocation.BuyDate)

	return &allocation, nil
}

// GetByID retrieves an allocation by its ID
func (r *allocationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Allocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM allocations WHERE id = $1`

	allocation, err := scanAllocation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "allocation")
	}
	return allocation, nil
}

func allocationConditions(filter domain.AllocationFilter) *conditions {
	c := &conditions{}
	if filter.ClientID != nil {
		c.add(`client_id = $%d`, *filter.ClientID)
	}
	if filter.AssetID != nil {
		c.add(`asset_id = $%d`, *filter.AssetID)
	}
	return c
}

// List retrieves a page of allocations, most recent purchase first
func (r *allocationRepository) List(ctx context.Context, filter domain.AllocationFilter, limit, offset int) ([]*domain.Allocation, error) {
	c := allocationConditions(filter)
	pageClause, args := c.page(limit, offset)
	query := `SELECT ` + allocationColumns + ` FROM allocations` + c.where() +
		` ORDER BY buy_date DESC, id DESC` + pageClause

	return r.query(ctx, query, args...)
}

// Count returns the number of allocations matching filter
func (r *allocationRepository) Count(ctx context.Context, filter domain.AllocationFilter) (int, error) {
	c := allocationConditions(filter)
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM allocations`+c.where(), c.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count allocations: %w", err)
	}
	return total, nil
}

// ListAll retrieves every allocation ordered by purchase date
func (r *allocationRepository) ListAll(ctx context.Context) ([]*domain.Allocation, error) {
	return r.query(ctx, `SELECT `+allocationColumns+` FROM allocations ORDER BY buy_date, id`)
}

func (r *allocationRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Allocation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocations: %w", err)
	}
	defer rows.Close()

	allocations := make([]*domain.Allocation, 0)
	for rows.Next() {
		allocation, err := scanAllocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan allocation: %w", err)
		}
		allocations = append(allocations, allocation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating allocations: %w", err)
	}
	return allocations, nil
}

// Create creates a new allocation
func (r *allocationRepository) Create(ctx context.Context, allocation *domain.Allocation, audit *domain.AuditEntry) error {
	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO allocations (id, client_id, asset_id, quantity, buy_price, buy_date)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		if _, err := tx.ExecContext(ctx, query,
			allocation.ID,
			allocation.ClientID,
			allocation.AssetID,
			allocation.Quantity.String(),
			allocation.BuyPrice.String(),
			allocation.BuyDate,
		); err != nil {
			return translateError(err, "allocation")
		}
		return insertAudit(ctx, tx, audit)
	})
}

// Update overwrites an existing allocation
func (r *allocationRepository) Update(ctx context.Context, allocation *domain.Allocation, audit *domain.AuditEntry) error {
	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		query := `
			UPDATE allocations
			SET client_id = $2, asset_id = $3, quantity = $4, buy_price = $5, buy_date = $6
			WHERE id = $1
		`
		res, err := tx.ExecContext(ctx, query,
			allocation.ID,
			allocation.ClientID,
			allocation.AssetID,
			allocation.Quantity.String(),
			allocation.BuyPrice.String(),
			allocation.BuyDate,
		)
		if err != nil {
			return translateError(err, "allocation")
		}
		if err := expectOneRow(res, "allocation"); err != nil {
			return err
		}
		return insertAudit(ctx, tx, audit)
	})
}

// Delete removes an allocation
func (r *allocationRepository) Delete(ctx context.Context, id uuid.UUID, audit *domain.AuditEntry) error {
	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM allocations WHERE id = $1`, id)
		if err != nil {
			return translateError(err, "allocation")
		}
		if err := expectOneRow(res, "allocation"); err != nil {
			return err
		}
		return insertAudit(ctx, tx, audit)
	})
}
