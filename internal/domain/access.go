package domain

import "github.com/google/uuid"

// Action names an operation subject to authorization. The resolver decides
// per action which global roles pass outright, which project roles are
// required, and whether the client fallback applies.
type Action string

const (
	ActionProjectCreate  Action = "create_project"
	ActionProjectView    Action = "view_project"
	ActionProjectUpdate  Action = "update_project"
	ActionProjectArchive Action = "archive_project"
	ActionProjectMembers Action = "manage_members"

	ActionTaskView   Action = "view_task"
	ActionTaskCreate Action = "create_task"
	ActionTaskUpdate Action = "update_task"
	ActionTaskMove   Action = "move_task"
	ActionTaskDelete Action = "delete_task"

	ActionDeliveryView   Action = "view_delivery"
	ActionDeliveryUpload Action = "upload_delivery"
	ActionDeliveryUpdate Action = "update_delivery"
	ActionDeliveryReview Action = "review_delivery"

	ActionCommentView   Action = "view_comment"
	ActionCommentCreate Action = "create_comment"

	ActionClientManage Action = "manage_clients"
)

// AccessContext is the snapshot the identity layer resolves for one actor:
// global role, project role if a membership row exists, and whether the
// actor's account email matches the project's linked client.
type AccessContext struct {
	GlobalRole        GlobalRole
	ProjectRole       *ProjectRole
	IsClientOfProject bool
}

// Resource describes what an action targets. ProjectID is zero for
// project-unbound actions; OwnerID carries the entity-scoped principal
// (task assignee, delivery uploader) for self-restricted rules.
type Resource struct {
	Type      EntityType
	ID        uuid.UUID
	ProjectID uuid.UUID
	OwnerID   *uuid.UUID
}

// Verdict is the resolver's answer. Denial is a value, not an error.
type Verdict struct {
	Allowed       bool
	EffectiveRole string
}

func Allow(role string) Verdict {
	return Verdict{Allowed: true, EffectiveRole: role}
}

func Deny() Verdict {
	return Verdict{}
}
