package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"studioflow/internal/domain"
	"studioflow/internal/realtime"
	"studioflow/internal/repository"
)

type ProjectService interface {
	Create(ctx context.Context, actor *domain.User, input domain.CreateProjectInput) (*domain.Project, error)
	Get(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Project, error)
	List(ctx context.Context, actor *domain.User, status *domain.ProjectStatus, params domain.PaginationParams) (domain.PaginatedResponse[domain.Project], error)
	Update(ctx context.Context, actor *domain.User, id uuid.UUID, input domain.UpdateProjectInput) (*domain.Project, error)
	Archive(ctx context.Context, actor *domain.User, id uuid.UUID) error
	AddMember(ctx context.Context, actor *domain.User, projectID uuid.UUID, input domain.AddMemberInput) error
	RemoveMember(ctx context.Context, actor *domain.User, projectID, userID uuid.UUID) error
	Members(ctx context.Context, actor *domain.User, projectID uuid.UUID) ([]domain.ProjectMember, error)
	Stats(ctx context.Context, actor *domain.User, projectID uuid.UUID) (*domain.ProjectStats, error)
}

type projectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	accessSvc   AccessService
	notifSvc    NotificationService
	emailSvc    EmailService
	auditSvc    AuditService
	hub         *realtime.Hub
	logger      *log.Logger
}

func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, accessSvc AccessService, notifSvc NotificationService, emailSvc EmailService, auditSvc AuditService, hub *realtime.Hub, logger *log.Logger) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		accessSvc:   accessSvc,
		notifSvc:    notifSvc,
		emailSvc:    emailSvc,
		auditSvc:    auditSvc,
		hub:         hub,
		logger:      logger,
	}
}

func (s *projectService) Create(ctx context.Context, actor *domain.User, input domain.CreateProjectInput) (*domain.Project, error) {
	if err := s.accessSvc.Require(ctx, actor, domain.ActionProjectCreate, domain.Resource{}); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, domain.Validation("project name is required")
	}

	currency := "USD"
	if input.Currency != nil {
		currency = *input.Currency
	}

	project := &domain.Project{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		ClientID:    input.ClientID,
		Status:      domain.ProjectDraft,
		Deadline:    input.Deadline,
		Budget:      input.Budget,
		Currency:    currency,
		CreatedBy:   actor.ID,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.hub.JoinProject(actor.ID, project.ID)
	s.auditSvc.Record(&actor.ID, "project.create", "project", &project.ID, map[string]string{"name": project.Name}, nil)

	return project, nil
}

func (s *projectService) Get(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.NotFound("project not found")
	}

	if err := s.accessSvc.Require(ctx, actor, domain.ActionProjectView, domain.Resource{
		Type: domain.EntityProject, ID: id, ProjectID: id,
	}); err != nil {
		return nil, err
	}

	return project, nil
}

// List is visibility-scoped by role: admins and managers see everything,
// clients see projects linked to their client record, everyone else sees
// projects they are a member of.
func (s *projectService) List(ctx context.Context, actor *domain.User, status *domain.ProjectStatus, params domain.PaginationParams) (domain.PaginatedResponse[domain.Project], error) {
	params.Normalize()

	filter := repository.ProjectFilter{Status: status}
	switch {
	case actor.Role.AtLeast(domain.RoleManager):
	case actor.Role == domain.RoleClient:
		filter.ScopeClientID = &actor.ID
	default:
		filter.ScopeMemberID = &actor.ID
	}

	projects, total, err := s.projectRepo.List(ctx, filter, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Project]{}, err
	}
	return domain.NewPaginatedResponse(projects, params.Page, params.PageSize, total), nil
}

func (s *projectService) Update(ctx context.Context, actor *domain.User, id uuid.UUID, input domain.UpdateProjectInput) (*domain.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.NotFound("project not found")
	}

	if err := s.accessSvc.Require(ctx, actor, domain.ActionProjectUpdate, domain.Resource{
		Type: domain.EntityProject, ID: id, ProjectID: id,
	}); err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, domain.Validation("project name cannot be empty")
		}
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = input.Description
	}
	if input.ClientID != nil {
		project.ClientID = input.ClientID
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, domain.Validation("invalid project status %q", *input.Status)
		}
		project.Status = *input.Status
	}
	if input.Deadline != nil {
		project.Deadline = input.Deadline
	}
	if input.Budget != nil {
		project.Budget = input.Budget
	}
	if input.Currency != nil {
		project.Currency = *input.Currency
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	s.hub.EmitToProject(id, "project_updated", project, &actor.ID)
	s.auditSvc.Record(&actor.ID, "project.update", "project", &id, nil, nil)

	return project, nil
}

func (s *projectService) Archive(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if project == nil {
		return domain.NotFound("project not found")
	}

	if err := s.accessSvc.Require(ctx, actor, domain.ActionProjectArchive, domain.Resource{
		Type: domain.EntityProject, ID: id, ProjectID: id,
	}); err != nil {
		return err
	}

	if err := s.projectRepo.Archive(ctx, id); err != nil {
		return err
	}

	s.auditSvc.Record(&actor.ID, "project.archive", "project", &id, nil, nil)
	return nil
}

// AddMember resolves the invitee by id or email, upserts the membership and
// notifies them. An already-connected invitee joins the project room
// immediately.
func (s *projectService) AddMember(ctx context.Context, actor *domain.User, projectID uuid.UUID, input domain.AddMemberInput) error {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return domain.NotFound("project not found")
	}

	if err := s.accessSvc.Require(ctx, actor, domain.ActionProjectMembers, domain.Resource{
		Type: domain.EntityProject, ID: projectID, ProjectID: projectID,
	}); err != nil {
		return err
	}

	if !input.Role.IsValid() {
		return domain.Validation("invalid project role %q", input.Role)
	}

	var user *domain.User
	switch {
	case input.UserID != nil:
		user, err = s.userRepo.GetByID(ctx, *input.UserID)
	case input.Email != nil:
		user, err = s.userRepo.GetByEmail(ctx, *input.Email)
	default:
		return domain.Validation("user_id or email is required")
	}
	if err != nil {
		return err
	}
	if user == nil {
		return domain.NotFound("user not found")
	}

	if err := s.projectRepo.AddMember(ctx, projectID, user.ID, input.Role); err != nil {
		return err
	}

	s.hub.JoinProject(user.ID, projectID)

	projectRef := domain.EntityProject
	if err := s.notifSvc.Notify(ctx, []uuid.UUID{user.ID}, NotifyEvent{
		Type:          domain.NotifProjectInvite,
		Title:         "Added to project " + project.Name,
		ReferenceID:   &projectID,
		ReferenceType: &projectRef,
		ProjectID:     &projectID,
		ActorID:       actor.ID,
	}); err != nil {
		s.logger.Printf("project: invite notification for %s: %v", user.ID, err)
	}

	go func() {
		if err := s.emailSvc.SendProjectInviteEmail(context.Background(), user.Email, user.Name, project.Name, string(input.Role)); err != nil {
			s.logger.Printf("project: invite email to %s: %v", user.Email, err)
		}
	}()

	s.auditSvc.Record(&actor.ID, "project.add_member", "project", &projectID,
		map[string]string{"user_id": user.ID.String(), "role": string(input.Role)}, nil)

	return nil
}

func (s *projectService) RemoveMember(ctx context.Context, actor *domain.User, projectID, userID uuid.UUID) error {
	if err := s.accessSvc.Require(ctx, actor, domain.ActionProjectMembers, domain.Resource{
		Type: domain.EntityProject, ID: projectID, ProjectID: projectID,
	}); err != nil {
		return err
	}

	removed, err := s.projectRepo.RemoveMember(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !removed {
		return domain.NotFound("member not found")
	}

	s.hub.LeaveProject(userID, projectID)
	s.auditSvc.Record(&actor.ID, "project.remove_member", "project", &projectID,
		map[string]string{"user_id": userID.String()}, nil)

	return nil
}

func (s *projectService) Members(ctx context.Context, actor *domain.User, projectID uuid.UUID) ([]domain.ProjectMember, error) {
	if err := s.accessSvc.Require(ctx, actor, domain.ActionProjectView, domain.Resource{
		Type: domain.EntityProject, ID: projectID, ProjectID: projectID,
	}); err != nil {
		return nil, err
	}
	return s.projectRepo.GetMembers(ctx, projectID)
}

func (s *projectService) Stats(ctx context.Context, actor *domain.User, projectID uuid.UUID) (*domain.ProjectStats, error) {
	if err := s.accessSvc.Require(ctx, actor, domain.ActionProjectView, domain.Resource{
		Type: domain.EntityProject, ID: projectID, ProjectID: projectID,
	}); err != nil {
		return nil, err
	}
	return s.projectRepo.Stats(ctx, projectID)
}
