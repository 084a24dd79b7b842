package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditEntry records a mutation performed through the API
// Written in the same database transaction as the mutation it describes
type AuditEntry struct {
	ID        uuid.UUID
	Action    string // e.g. "client.created"
	Entity    string
	EntityID  string
	Metadata  map[string]any
	CreatedAt time.Time
}

// NewAuditEntry builds an audit entry for entity/verb
// Metadata values that are not JSON scalars are stored as their string form
func NewAuditEntry(entity, verb string, entityID uuid.UUID, metadata map[string]any) *AuditEntry {
	safe := make(map[string]any, len(metadata))
	for k, v := range metadata {
		switch v.(type) {
		case nil, string, bool, int, int64, float64:
			safe[k] = v
		case []string:
			safe[k] = v
		default:
			safe[k] = fmt.Sprint(v)
		}
	}

	return &AuditEntry{
		ID:        uuid.New(),
		Action:    entity + "." + verb,
		Entity:    entity,
		EntityID:  entityID.String(),
		Metadata:  safe,
		CreatedAt: time.Now().UTC(),
	}
}

// AuditFilter narrows audit log listings
type AuditFilter struct {
	Action   string
	Entity   string
	StartsAt *time.Time
	EndsAt   *time.Time
}
