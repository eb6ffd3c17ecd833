package domain

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	UserID        uuid.UUID        `json:"user_id" db:"user_id"`
	Type          NotificationType `json:"type" db:"type"`
	Title         string           `json:"title" db:"title"`
	Message       *string          `json:"message,omitempty" db:"message"`
	ReferenceID   *uuid.UUID       `json:"reference_id,omitempty" db:"reference_id"`
	ReferenceType *EntityType      `json:"reference_type,omitempty" db:"reference_type"`
	IsRead        bool             `json:"is_read" db:"is_read"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
}

type NotificationType string

const (
	NotifTaskAssigned      NotificationType = "task_assigned"
	NotifTaskUpdated       NotificationType = "task_updated"
	NotifDeliveryUploaded  NotificationType = "delivery_uploaded"
	NotifApprovalRequested NotificationType = "approval_requested"
	NotifApprovalResult    NotificationType = "approval_result"
	NotifComment           NotificationType = "comment"
	NotifMention           NotificationType = "mention"
	NotifProjectInvite     NotificationType = "project_invite"
)
