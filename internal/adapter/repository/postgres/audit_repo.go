package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/simaogato/advisory-backend/internal/domain"
)

// auditRepository implements domain.AuditRepository
// Entries are written by the other repositories inside their transactions.
type auditRepository struct {
	db *DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *DB) domain.AuditRepository {
	return &auditRepository{db: db}
}

func auditConditions(filter domain.AuditFilter) *conditions {
	c := &conditions{}
	if filter.Action != "" {
		c.add(`action = $%d`, filter.Action)
	}
	if filter.Entity != "" {
		c.add(`entity = $%d`, filter.Entity)
	}
	if filter.StartsAt != nil {
		c.add(`created_at >= $%d`, *filter.StartsAt)
	}
	if filter.EndsAt != nil {
		c.add(`created_at <= $%d`, *filter.EndsAt)
	}
	return c
}

// List retrieves a page of audit entries, newest first
func (r *auditRepository) List(ctx context.Context, filter domain.AuditFilter, limit, offset int) ([]*domain.AuditEntry, error) {
	c := auditConditions(filter)
	pageClause, args := c.page(limit, offset)
	query := `SELECT id, action, entity, entity_id, metadata, created_at FROM audit_logs` + c.where() +
		` ORDER BY created_at DESC, id DESC` + pageClause

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.AuditEntry, 0)
	for rows.Next() {
		var entry domain.AuditEntry
		var metadata []byte
		if err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&entry.Entity,
			&entry.EntityID,
			&metadata,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
				return nil, fmt.Errorf("failed to decode audit metadata: %w", err)
			}
		}
		entry.CreatedAt = entry.CreatedAt.UTC()
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit entries: %w", err)
	}
	return entries, nil
}

// Count returns the number of audit entries matching filter
func (r *auditRepository) Count(ctx context.Context, filter domain.AuditFilter) (int, error) {
	c := auditConditions(filter)
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_logs`+c.where(), c.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count audit entries: %w", err)
	}
	return total, nil
}
