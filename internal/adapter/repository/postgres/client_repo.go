package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/simaogato/advisory-backend/internal/domain"
)

const clientColumns = `id, name, email, is_active, created_at`

// clientRepository implements domain.ClientRepository
type clientRepository struct {
	db *DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *DB) domain.ClientRepository {
	return &clientRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (*domain.Client, error) {
	var client domain.Client
	if err := row.Scan(
		&client.ID,
		&client.Name,
		&client.Email,
		&client.IsActive,
		&client.CreatedAt,
	); err != nil {
		return nil, err
	}
	client.CreatedAt = client.CreatedAt.UTC()
	return &client, nil
}

// GetByID retrieves a client by its ID
func (r *clientRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`

	client, err := scanClient(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "client")
	}
	return client, nil
}

// GetByEmail retrieves a client by its email address (case-insensitive)
func (r *clientRepository) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE LOWER(email) = LOWER($1)`

	client, err := scanClient(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, translateError(err, "client")
	}
	return client, nil
}

func clientConditions(filter domain.ClientFilter) *conditions {
	c := &conditions{}
	if filter.Search != "" {
		c.add(`(name ILIKE $%d OR email ILIKE $%d)`, likePattern(filter.Search))
	}
	if filter.IsActive != nil {
		c.add(`is_active = $%d`, *filter.IsActive)
	}
	return c
}

// List retrieves a page of clients, newest first
func (r *clientRepository) List(ctx context.Context, filter domain.ClientFilter, limit, offset int) ([]*domain.Client, error) {
	c := clientConditions(filter)
	pageClause, args := c.page(limit, offset)
	query := `SELECT ` + clientColumns + ` FROM clients` + c.where() +
		` ORDER BY created_at DESC, id DESC` + pageClause

	return r.query(ctx, query, args...)
}

// Count returns the number of clients matching filter
func (r *clientRepository) Count(ctx context.Context, filter domain.ClientFilter) (int, error) {
	c := clientConditions(filter)
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients`+c.where(), c.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count clients: %w", err)
	}
	return total, nil
}

// ListAll retrieves every client, oldest first
func (r *clientRepository) ListAll(ctx context.Context) ([]*domain.Client, error) {
	return r.query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY created_at, id`)
}

func (r *clientRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Client, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clients: %w", err)
	}
	return clients, nil
}

// Create creates a new client and its audit entry in one transaction
func (r *clientRepository) Create(ctx context.Context, client *domain.Client, audit *domain.AuditEntry) error {
	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO clients (id, name, email, is_active, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.ExecContext(ctx, query,
			client.ID,
			client.Name,
			client.Email,
			client.IsActive,
			client.CreatedAt,
		); err != nil {
			return translateError(err, "client")
		}
		return insertAudit(ctx, tx, audit)
	})
}

// Update overwrites an existing client
func (r *clientRepository) Update(ctx context.Context, client *domain.Client, audit *domain.AuditEntry) error {
	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		query := `
			UPDATE clients
			SET name = $2, email = $3, is_active = $4
			WHERE id = $1
		`
		res, err := tx.ExecContext(ctx, query, client.ID, client.Name, client.Email, client.IsActive)
		if err != nil {
			return translateError(err, "client")
		}
		if err := expectOneRow(res, "client"); err != nil {
			return err
		}
		return insertAudit(ctx, tx, audit)
	})
}

// Delete removes a client; allocations and movements cascade
func (r *clientRepository) Delete(ctx context.Context, id uuid.UUID, audit *domain.AuditEntry) error {
	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
		if err != nil {
			return translateError(err, "client")
		}
		if err := expectOneRow(res, "client"); err != nil {
			return err
		}
		return insertAudit(ctx, tx, audit)
	})
}
