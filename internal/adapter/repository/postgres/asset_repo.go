package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/simaogato/advisory-backend/internal/domain"
)

const assetColumns = `id, ticker, name, exchange, currency`

// assetRepository implements domain.AssetRepository
type assetRepository struct {
	db *DB
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(db *DB) domain.AssetRepository {
	return &assetRepository{db: db}
}

func scanAsset(row rowScanner) (*domain.Asset, error) {
	var asset domain.Asset
	if err := row.Scan(
		&asset.ID,
		&asset.Ticker,
		&asset.Name,
		&asset.Exchange,
		&asset.Currency,
	); err != nil {
		return nil, err
	}
	return &asset, nil
}

// GetByID retrieves an asset by its ID
func (r *assetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	asset, err := scanAsset(r.db.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = $1`, id))
	if err != nil {
		return nil, translateError(err, "asset")
	}
	return asset, nil
}

// GetByTicker retrieves an asset by its ticker
func (r *assetRepository) GetByTicker(ctx context.Context, ticker string) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE ticker = $1`

	asset, err := scanAsset(r.db.QueryRowContext(ctx, query, domain.NormalizeTicker(ticker)))
	if err != nil {
		return nil, translateError(err, "asset")
	}
	return asset, nil
}

func assetConditions(filter domain.AssetFilter) *conditions {
	c := &conditions{}
	if filter.Search != "" {
		c.add(`(ticker ILIKE $%d OR name ILIKE $%d)`, likePattern(filter.Search))
	}
	if filter.Exchange != "" {
		c.add(`exchange ILIKE $%d`, likePattern(filter.Exchange))
	}
	if filter.Currency != "" {
		c.add(`currency ILIKE $%d`, likePattern(filter.Currency))
	}
	return c
}

// List retrieves a page of assets ordered by ticker
func (r *assetRepository) List(ctx context.Context, filter domain.AssetFilter, limit, offset int) ([]*domain.Asset, error) {
	c := assetConditions(filter)
	pageClause, args := c.page(limit, offset)
	query := `SELECT ` + assetColumns + ` FROM assets` + c.where() + ` ORDER BY ticker` + pageClause

	return r.query(ctx, query, args...)
}

// Count returns the number of assets matching filter
func (r *assetRepository) Count(ctx context.Context, filter domain.AssetFilter) (int, error) {
	c := assetConditions(filter)
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assets`+c.where(), c.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count assets: %w", err)
	}
	return total, nil
}

// ListAll retrieves every asset ordered by ticker
func (r *assetRepository) ListAll(ctx context.Context) ([]*domain.Asset, error) {
	return r.query(ctx, `SELECT `+assetColumns+` FROM assets ORDER BY ticker`)
}

func (r *assetRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Asset, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	assets := make([]*domain.Asset, 0)
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assets: %w", err)
	}
	return assets, nil
}

// Create creates a new asset
func (r *assetRepository) Create(ctx context.Context, asset *domain.Asset, audit *domain.AuditEntry) error {
	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO assets (id, ticker, name, exchange, currency)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.ExecContext(ctx, query,
			asset.ID,
			asset.Ticker,
			asset.Name,
			asset.Exchange,
			asset.Currency,
		); err != nil {
			return translateError(err, "asset")
		}
		return insertAudit(ctx, tx, audit)
	})
}

// Update overwrites an existing asset
func (r *assetRepository) Update(ctx context.Context, asset *domain.Asset, audit *domain.AuditEntry) error {
	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		query := `
			UPDATE assets
			SET ticker = $2, name = $3, exchange = $4, currency = $5
			WHERE id = $1
		`
		res, err := tx.ExecContext(ctx, query, asset.ID, asset.Ticker, asset.Name, asset.Exchange, asset.Currency)
		if err != nil {
			return translateError(err, "asset")
		}
		if err := expectOneRow(res, "asset"); err != nil {
			return err
		}
		return insertAudit(ctx, tx, audit)
	})
}

// Delete removes an asset; its allocations cascade
func (r *assetRepository) Delete(ctx context.Context, id uuid.UUID, audit *domain.AuditEntry) error {
	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
		if err != nil {
			return translateError(err, "asset")
		}
		if err := expectOneRow(res, "asset"); err != nil {
			return err
		}
		return insertAudit(ctx, tx, audit)
	})
}
