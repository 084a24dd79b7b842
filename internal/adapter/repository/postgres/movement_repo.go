package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/advisory-backend/internal/domain"
)

const movementColumns = `id, client_id, type, amount, date, note`

// movementRepository implements domain.MovementRepository
type movementRepository struct {
	db *DB
}

// NewMovementRepository creates a new movement repository
func NewMovementRepository(db *DB) domain.MovementRepository {
	return &movementRepository{db: db}
}

func scanMovement(row rowScanner) (*domain.Movement, error) {
	var movement domain.Movement
	var amountStr string
	var note sql.NullString

	if err := row.Scan(
		&movement.ID,
		&movement.ClientID,
		&movement.Type,
		&amountStr,
		&movement.Date,
		&note,
	); err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount: %w", err)
	}
	movement.Amount = amount
	movement.Date = asDate(movement.Date)
	if note.Valid {
		movement.Note = &note.String
	}

	return &movement, nil
}

// GetByID retrieves a movement by its ID
func (r *movementRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`

	movement, err := scanMovement(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "movement")
	}
	return movement, nil
}

func movementConditions(filter domain.MovementFilter) *conditions {
	c := &conditions{}
	if filter.ClientID != nil {
		c.add(`client_id = $%d`, *filter.ClientID)
	}
	if filter.StartDate != nil {
		c.add(`date >= $%d`, asDate(*filter.StartDate))
	}
	if filter.EndDate != nil {
		c.add(`date <= $%d`, asDate(*filter.EndDate))
	}
	return c
}

// List retrieves a page of movements, newest first
func (r *movementRepository) List(ctx context.Context, filter domain.MovementFilter, limit, offset int) ([]*domain.Movement, error) {
	c := movementConditions(filter)
	pageClause, args := c.page(limit, offset)
	query := `SELECT ` + movementColumns + ` FROM movements` + c.where() +
		` ORDER BY date DESC, id DESC` + pageClause

	return r.query(ctx, query, args...)
}

// Count returns the number of movements matching filter
func (r *movementRepository) Count(ctx context.Context, filter domain.MovementFilter) (int, error) {
	c := movementConditions(filter)
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movements`+c.where(), c.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count movements: %w", err)
	}
	return total, nil
}

// ListAll retrieves every movement ordered by date
func (r *movementRepository) ListAll(ctx context.Context) ([]*domain.Movement, error) {
	return r.query(ctx, `SELECT `+movementColumns+` FROM movements ORDER BY date, id`)
}

func (r *movementRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Movement, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movements: %w", err)
	}
	defer rows.Close()

	movements := make([]*domain.Movement, 0)
	for rows.Next() {
		movement, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", err)
		}
		movements = append(movements, movement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movements: %w", err)
	}
	return movements, nil
}

func nullableNote(note *string) sql.NullString {
	if note == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *note, Valid: true}
}

// Create creates a new movement
func (r *movementRepository) Create(ctx context.Context, movement *domain.Movement, audit *domain.AuditEntry) error {
	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO movements (id, client_id, type, amount, date, note)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		if _, err := tx.ExecContext(ctx, query,
			movement.ID,
			movement.ClientID,
			string(movement.Type),
			movement.Amount.String(),
			movement.Date,
			nullableNote(movement.Note),
		); err != nil {
			return translateError(err, "movement")
		}
		return insertAudit(ctx, tx, audit)
	})
}

// Update overwrites an existing movement
func (r *movementRepository) Update(ctx context.Context, movement *domain.Movement, audit *domain.AuditEntry) error {
	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		query := `
			UPDATE movements
			SET client_id = $2, type = $3, amount = $4, date = $5, note = $6
			WHERE id = $1
		`
		res, err := tx.ExecContext(ctx, query,
			movement.ID,
			movement.ClientID,
			string(movement.Type),
			movement.Amount.String(),
			movement.Date,
			nullableNote(movement.Note),
		)
		if err != nil {
			return translateError(err, "movement")
		}
		if err := expectOneRow(res, "movement"); err != nil {
			return err
		}
		return insertAudit(ctx, tx, audit)
	})
}

// Delete removes a movement
func (r *movementRepository) Delete(ctx context.Context, id uuid.UUID, audit *domain.AuditEntry) error {
	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM movements WHERE id = $1`, id)
		if err != nil {
			return translateError(err, "movement")
		}
		if err := expectOneRow(res, "movement"); err != nil {
			return err
		}
		return insertAudit(ctx, tx, audit)
	})
}
