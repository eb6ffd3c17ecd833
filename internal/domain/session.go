package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session backs a refresh token. Only the token's SHA-256 hash is stored;
// a stolen database dump cannot mint new access tokens from it.
type Session struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	TokenHash string    `json:"-" db:"token_hash"`
	UserAgent *string   `json:"user_agent,omitempty" db:"user_agent"`
	IPAddress *string   `json:"ip_address,omitempty" db:"ip_address"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
