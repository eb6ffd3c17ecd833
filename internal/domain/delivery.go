package domain

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryJob is one versioned deliverable submission for a project.
// Versions are assigned by the insert, strictly increasing per project and
// never reused: a rejected or revised delivery is answered with a new row,
// not by mutating this one.
type DeliveryJob struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	ProjectID   uuid.UUID      `json:"project_id" db:"project_id"`
	Title       string         `json:"title" db:"title"`
	Description *string        `json:"description,omitempty" db:"description"`
	Format      *string        `json:"format,omitempty" db:"format"`
	FileURL     *string        `json:"file_url,omitempty" db:"file_url"`
	FileSize    *int64         `json:"file_size,omitempty" db:"file_size"`
	Version     int            `json:"version" db:"version"`
	Status      DeliveryStatus `json:"status" db:"status"`
	UploadedBy  uuid.UUID      `json:"uploaded_by" db:"uploaded_by"`
	ReviewedBy  *uuid.UUID     `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewNotes *string        `json:"review_notes,omitempty" db:"review_notes"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`

	UploadedByName *string `json:"uploaded_by_name,omitempty" db:"uploaded_by_name"`
	ReviewedByName *string `json:"reviewed_by_name,omitempty" db:"reviewed_by_name"`
	ProjectName    *string `json:"project_name,omitempty" db:"project_name"`
	ApprovalCount  *int    `json:"approval_count,omitempty" db:"approval_count"`
}

type DeliveryStatus string

const (
	DeliveryPending           DeliveryStatus = "pending"
	DeliveryUploaded          DeliveryStatus = "uploaded"
	DeliveryInReview          DeliveryStatus = "in_review"
	DeliveryApproved          DeliveryStatus = "approved"
	DeliveryRejected          DeliveryStatus = "rejected"
	DeliveryRevisionRequested DeliveryStatus = "revision_requested"
)

func (s DeliveryStatus) IsValid() bool {
	switch s {
	case DeliveryPending, DeliveryUploaded, DeliveryInReview,
		DeliveryApproved, DeliveryRejected, DeliveryRevisionRequested:
		return true
	default:
		return false
	}
}

// Approval is an immutable review record. The history is append-only; the
// delivery's mutable status field is a projection maintained alongside it,
// in the same transaction.
type Approval struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	DeliveryID uuid.UUID       `json:"delivery_id" db:"delivery_id"`
	Verdict    ApprovalVerdict `json:"verdict" db:"verdict"`
	ReviewerID uuid.UUID       `json:"reviewer_id" db:"reviewer_id"`
	Comments   *string         `json:"comments,omitempty" db:"comments"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`

	ReviewerName   *string `json:"reviewer_name,omitempty" db:"reviewer_name"`
	ReviewerAvatar *string `json:"reviewer_avatar,omitempty" db:"reviewer_avatar"`
}

type ApprovalVerdict string

const (
	VerdictApproved ApprovalVerdict = "approved"
	VerdictRejected ApprovalVerdict = "rejected"
	VerdictRevision ApprovalVerdict = "revision"
)

// StatusFor maps a verdict to the delivery status projection it writes.
func (v ApprovalVerdict) StatusFor() DeliveryStatus {
	switch v {
	case VerdictApproved:
		return DeliveryApproved
	case VerdictRejected:
		return DeliveryRejected
	default:
		return DeliveryRevisionRequested
	}
}

type CreateDeliveryInput struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description,omitempty"`
	Format      *string `json:"format,omitempty"`
	FileURL     *string `json:"file_url,omitempty"`
	FileSize    *int64  `json:"file_size,omitempty"`
}

type UpdateDeliveryInput struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Format      *string         `json:"format,omitempty"`
	FileURL     *string         `json:"file_url,omitempty"`
	FileSize    *int64          `json:"file_size,omitempty"`
	Status      *DeliveryStatus `json:"status,omitempty"`
}

type ReviewInput struct {
	Comments *string `json:"comments,omitempty"`
}
