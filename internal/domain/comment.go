package domain

import (
	"time"

	"github.com/google/uuid"
)

// EntityType tags the polymorphic target of a comment or notification
// reference. A single resolver maps the tag to the owning project for
// access checks, instead of three parallel code paths.
type EntityType string

const (
	EntityProject  EntityType = "project"
	EntityTask     EntityType = "task"
	EntityDelivery EntityType = "delivery"
)

func (t EntityType) IsValid() bool {
	switch t {
	case EntityProject, EntityTask, EntityDelivery:
		return true
	default:
		return false
	}
}

type Comment struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	EntityType EntityType `json:"entity_type" db:"entity_type"`
	EntityID   uuid.UUID  `json:"entity_id" db:"entity_id"`
	UserID     uuid.UUID  `json:"user_id" db:"user_id"`
	Content    string     `json:"content" db:"content"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`

	UserName   *string `json:"user_name,omitempty" db:"user_name"`
	UserAvatar *string `json:"user_avatar,omitempty" db:"user_avatar"`
}

type CreateCommentInput struct {
	EntityType EntityType `json:"entity_type" validate:"required"`
	EntityID   uuid.UUID  `json:"entity_id" validate:"required"`
	Content    string     `json:"content" validate:"required"`
}
