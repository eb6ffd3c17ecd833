package domain

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	Name        string        `json:"name" db:"name"`
	Description *string       `json:"description,omitempty" db:"description"`
	ClientID    *uuid.UUID    `json:"client_id,omitempty" db:"client_id"`
	Status      ProjectStatus `json:"status" db:"status"`
	Deadline    *time.Time    `json:"deadline,omitempty" db:"deadline"`
	Budget      *float64      `json:"budget,omitempty" db:"budget"`
	Currency    string        `json:"currency" db:"currency"`
	CreatedBy   uuid.UUID     `json:"created_by" db:"created_by"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`

	ClientName    *string `json:"client_name,omitempty" db:"client_name"`
	CreatedByName *string `json:"created_by_name,omitempty" db:"created_by_name"`
	MemberCount   *int    `json:"member_count,omitempty" db:"member_count"`
	TaskCount     *int    `json:"task_count,omitempty" db:"task_count"`
	DoneCount     *int    `json:"done_count,omitempty" db:"done_count"`
	DeliveryCount *int    `json:"delivery_count,omitempty" db:"delivery_count"`
}

type ProjectStatus string

const (
	ProjectDraft      ProjectStatus = "draft"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectReview     ProjectStatus = "review"
	ProjectDelivered  ProjectStatus = "delivered"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectArchived   ProjectStatus = "archived"
)

func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectDraft, ProjectInProgress, ProjectReview, ProjectDelivered, ProjectCompleted, ProjectArchived:
		return true
	default:
		return false
	}
}

// ProjectRole is the per-project capability tier, independent of the
// member's global role.
type ProjectRole string

const (
	ProjectRoleFreelancer ProjectRole = "freelancer"
	ProjectRoleEditor     ProjectRole = "editor"
	ProjectRoleManager    ProjectRole = "manager"
)

var projectRoleRank = map[ProjectRole]int{
	ProjectRoleFreelancer: 1,
	ProjectRoleEditor:     2,
	ProjectRoleManager:    3,
}

func (r ProjectRole) IsValid() bool {
	_, ok := projectRoleRank[r]
	return ok
}

// AtLeast reports whether the role meets a minimum tier on the project.
func (r ProjectRole) AtLeast(min ProjectRole) bool {
	return projectRoleRank[r] >= projectRoleRank[min]
}

// ProjectMember relates a user to a project. Unique per (project, user);
// re-adding a member updates the role instead of duplicating the row.
type ProjectMember struct {
	ProjectID uuid.UUID   `json:"project_id" db:"project_id"`
	UserID    uuid.UUID   `json:"user_id" db:"user_id"`
	Role      ProjectRole `json:"role" db:"role"`
	JoinedAt  time.Time   `json:"joined_at" db:"joined_at"`

	Name       *string     `json:"name,omitempty" db:"name"`
	Email      *string     `json:"email,omitempty" db:"email"`
	AvatarURL  *string     `json:"avatar_url,omitempty" db:"avatar_url"`
	GlobalRole *GlobalRole `json:"global_role,omitempty" db:"global_role"`
}

type CreateProjectInput struct {
	Name        string     `json:"name" validate:"required"`
	Description *string    `json:"description,omitempty"`
	ClientID    *uuid.UUID `json:"client_id,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Budget      *float64   `json:"budget,omitempty"`
	Currency    *string    `json:"currency,omitempty"`
}

type UpdateProjectInput struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	ClientID    *uuid.UUID     `json:"client_id,omitempty"`
	Status      *ProjectStatus `json:"status,omitempty"`
	Deadline    *time.Time     `json:"deadline,omitempty"`
	Budget      *float64       `json:"budget,omitempty"`
	Currency    *string        `json:"currency,omitempty"`
}

type AddMemberInput struct {
	UserID *uuid.UUID  `json:"user_id,omitempty"`
	Email  *string     `json:"email,omitempty"`
	Role   ProjectRole `json:"role"`
}

// ProjectStats is the aggregate snapshot served on the project stats
// endpoint and cached on the dashboard.
type ProjectStats struct {
	Tasks      TaskStats     `json:"tasks"`
	Deliveries DeliveryStats `json:"deliveries"`
}

type TaskStats struct {
	Total      int `json:"total" db:"total"`
	Todo       int `json:"todo" db:"todo"`
	InProgress int `json:"in_progress" db:"in_progress"`
	Review     int `json:"review" db:"review"`
	Done       int `json:"done" db:"done"`
	Overdue    int `json:"overdue" db:"overdue"`
}

type DeliveryStats struct {
	Total             int `json:"total" db:"total"`
	Pending           int `json:"pending" db:"pending"`
	Uploaded          int `json:"uploaded" db:"uploaded"`
	InReview          int `json:"in_review" db:"in_review"`
	Approved          int `json:"approved" db:"approved"`
	Rejected          int `json:"rejected" db:"rejected"`
	RevisionRequested int `json:"revision_requested" db:"revision_requested"`
}
