package service

import (
	"context"

	"github.com/google/uuid"

	"studioflow/internal/domain"
	"studioflow/internal/repository"
)

type AccessService interface {
	Resolve(ctx context.Context, actorID uuid.UUID, projectID *uuid.UUID) (*domain.AccessContext, error)
	CanPerform(ctx context.Context, actor *domain.User, action domain.Action, resource domain.Resource) (domain.Verdict, error)
	Require(ctx context.Context, actor *domain.User, action domain.Action, resource domain.Resource) error
}

// accessRule is one row of the action table. Evaluation order is fixed:
// admin shortcut, then the global allow-list, then the project-role check,
// then the client fallback. First match wins.
type accessRule struct {
	// minGlobal, when set, allows the action platform-wide at that tier
	// without any project lookup.
	minGlobal *domain.GlobalRole
	// minProject, when set, allows members holding at least that project
	// role.
	minProject *domain.ProjectRole
	// selfProject, when set, lowers the project-role bar to this tier for
	// actors who own the resource (task assignee, delivery uploader).
	selfProject *domain.ProjectRole
	// clientOK extends the action to linked clients. Never set for task
	// actions.
	clientOK bool
}

func gr(r domain.GlobalRole) *domain.GlobalRole   { return &r }
func pr(r domain.ProjectRole) *domain.ProjectRole { return &r }

var accessRules = map[domain.Action]accessRule{
	domain.ActionProjectCreate:  {minGlobal: gr(domain.RoleManager)},
	domain.ActionProjectView:    {minGlobal: gr(domain.RoleManager), minProject: pr(domain.ProjectRoleFreelancer), clientOK: true},
	domain.ActionProjectUpdate:  {minProject: pr(domain.ProjectRoleManager)},
	domain.ActionProjectArchive: {minProject: pr(domain.ProjectRoleManager)},
	domain.ActionProjectMembers: {minProject: pr(domain.ProjectRoleManager)},

	domain.ActionTaskView:   {minGlobal: gr(domain.RoleManager), minProject: pr(domain.ProjectRoleFreelancer)},
	domain.ActionTaskCreate: {minProject: pr(domain.ProjectRoleEditor)},
	domain.ActionTaskUpdate: {minProject: pr(domain.ProjectRoleEditor), selfProject: pr(domain.ProjectRoleFreelancer)},
	domain.ActionTaskMove:   {minProject: pr(domain.ProjectRoleEditor), selfProject: pr(domain.ProjectRoleFreelancer)},
	domain.ActionTaskDelete: {minProject: pr(domain.ProjectRoleEditor)},

	domain.ActionDeliveryView:   {minGlobal: gr(domain.RoleManager), minProject: pr(domain.ProjectRoleFreelancer), clientOK: true},
	domain.ActionDeliveryUpload: {minProject: pr(domain.ProjectRoleEditor)},
	domain.ActionDeliveryUpdate: {minProject: pr(domain.ProjectRoleEditor)},
	domain.ActionDeliveryReview: {minProject: pr(domain.ProjectRoleManager), clientOK: true},

	domain.ActionCommentView:   {minGlobal: gr(domain.RoleManager), minProject: pr(domain.ProjectRoleFreelancer), clientOK: true},
	domain.ActionCommentCreate: {minProject: pr(domain.ProjectRoleFreelancer), clientOK: true},

	domain.ActionClientManage: {minGlobal: gr(domain.RoleManager)},
}

type accessService struct {
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
	clientRepo  repository.ClientRepository
}

func NewAccessService(userRepo repository.UserRepository, projectRepo repository.ProjectRepository, clientRepo repository.ClientRepository) AccessService {
	return &accessService{
		userRepo:    userRepo,
		projectRepo: projectRepo,
		clientRepo:  clientRepo,
	}
}

// Resolve snapshots the actor's role context for one project. Client
// linkage is derived from the email join every time, never stored as a
// membership row, so revoking a client record revokes access immediately.
// A missing project yields an empty context rather than an error; only a
// missing actor is a failure.
func (s *accessService) Resolve(ctx context.Context, actorID uuid.UUID, projectID *uuid.UUID) (*domain.AccessContext, error) {
	user, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NotFound("account not found")
	}

	rc := &domain.AccessContext{GlobalRole: user.Role}
	if projectID == nil {
		return rc, nil
	}

	role, err := s.projectRepo.GetMemberRole(ctx, *projectID, actorID)
	if err != nil {
		return nil, err
	}
	rc.ProjectRole = role

	isClient, err := s.clientRepo.IsUserClientOfProject(ctx, *projectID, actorID)
	if err != nil {
		return nil, err
	}
	rc.IsClientOfProject = isClient

	return rc, nil
}

// CanPerform answers the authorization question. Denial is a verdict, not
// an error: callers that must fail use Require. The checks run cheapest
// first; the global tiers short-circuit before any project round-trip and
// the client join runs only when everything else missed.
func (s *accessService) CanPerform(ctx context.Context, actor *domain.User, action domain.Action, resource domain.Resource) (domain.Verdict, error) {
	rule, ok := accessRules[action]
	if !ok {
		return domain.Deny(), nil
	}

	if actor.IsAdmin() {
		return domain.Allow("admin"), nil
	}

	if rule.minGlobal != nil && actor.Role.AtLeast(*rule.minGlobal) {
		return domain.Allow(string(actor.Role)), nil
	}

	if resource.ProjectID == uuid.Nil {
		return domain.Deny(), nil
	}

	projectRole, err := s.projectRepo.GetMemberRole(ctx, resource.ProjectID, actor.ID)
	if err != nil {
		return domain.Deny(), err
	}
	if projectRole != nil {
		if rule.minProject != nil && projectRole.AtLeast(*rule.minProject) {
			return domain.Allow("project:" + string(*projectRole)), nil
		}
		if rule.selfProject != nil && projectRole.AtLeast(*rule.selfProject) &&
			resource.OwnerID != nil && *resource.OwnerID == actor.ID {
			return domain.Allow("project:" + string(*projectRole)), nil
		}
		// A membership row exists but grants nothing for this action; the
		// client fallback does not apply to members.
		return domain.Deny(), nil
	}

	if rule.clientOK {
		isClient, err := s.clientRepo.IsUserClientOfProject(ctx, resource.ProjectID, actor.ID)
		if err != nil {
			return domain.Deny(), err
		}
		if isClient {
			return domain.Allow("client"), nil
		}
	}

	return domain.Deny(), nil
}

// Require wraps CanPerform for call sites where denial must abort.
func (s *accessService) Require(ctx context.Context, actor *domain.User, action domain.Action, resource domain.Resource) error {
	verdict, err := s.CanPerform(ctx, actor, action, resource)
	if err != nil {
		return err
	}
	if !verdict.Allowed {
		return domain.Forbidden("not allowed to %s", string(action))
	}
	return nil
}
