package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditLog records who did what to which entity. Writes are fire-and-forget;
// a failed audit insert never aborts the operation that triggered it.
type AuditLog struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	UserID     *uuid.UUID      `json:"user_id,omitempty" db:"user_id"`
	Action     string          `json:"action" db:"action"`
	EntityType string          `json:"entity_type" db:"entity_type"`
	EntityID   *uuid.UUID      `json:"entity_id,omitempty" db:"entity_id"`
	Details    json.RawMessage `json:"details,omitempty" db:"details"`
	IPAddress  *string         `json:"ip_address,omitempty" db:"ip_address"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`

	UserName  *string `json:"user_name,omitempty" db:"user_name"`
	UserEmail *string `json:"user_email,omitempty" db:"user_email"`
}

type AuditFilter struct {
	UserID     *uuid.UUID
	Action     *string
	EntityType *string
}
