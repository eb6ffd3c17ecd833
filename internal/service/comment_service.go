package service

import (
	"context"
	"log"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"studioflow/internal/domain"
	"studioflow/internal/repository"
)

type CommentService interface {
	Create(ctx context.Context, actor *domain.User, input domain.CreateCommentInput) (*domain.Comment, error)
	ListByEntity(ctx context.Context, actor *domain.User, entityType domain.EntityType, entityID uuid.UUID) ([]domain.Comment, error)
	Update(ctx context.Context, actor *domain.User, id uuid.UUID, content string) (*domain.Comment, error)
	Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error
}

// mentionPattern matches @name, @first.last and quoted @"Full Name".
var mentionPattern = regexp.MustCompile(`@"([^"]+)"|@([a-zA-Z0-9_.-]+)`)

type commentService struct {
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	accessSvc   AccessService
	notifSvc    NotificationService
	logger      *log.Logger
}

func NewCommentService(commentRepo repository.CommentRepository, userRepo repository.UserRepository, accessSvc AccessService, notifSvc NotificationService, logger *log.Logger) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		userRepo:    userRepo,
		accessSvc:   accessSvc,
		notifSvc:    notifSvc,
		logger:      logger,
	}
}

// Create attaches a comment to a project, task or delivery. The polymorphic
// target resolves to one owning project for the access check; three entity
// kinds, one code path.
func (s *commentService) Create(ctx context.Context, actor *domain.User, input domain.CreateCommentInput) (*domain.Comment, error) {
	if !input.EntityType.IsValid() {
		return nil, domain.Validation("invalid entity type %q", input.EntityType)
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, domain.Validation("comment content is required")
	}

	projectID, err := s.commentRepo.ResolveProjectID(ctx, input.EntityType, input.EntityID)
	if err != nil {
		return nil, err
	}
	if projectID == nil {
		return nil, domain.NotFound("%s not found", input.EntityType)
	}

	if err := s.accessSvc.Require(ctx, actor, domain.ActionCommentCreate, domain.Resource{
		Type: input.EntityType, ID: input.EntityID, ProjectID: *projectID,
	}); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ID:         uuid.New(),
		EntityType: input.EntityType,
		EntityID:   input.EntityID,
		UserID:     actor.ID,
		Content:    input.Content,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.UserName = &actor.Name
	comment.UserAvatar = actor.AvatarURL

	s.fanout(ctx, actor, comment, *projectID)

	return comment, nil
}

func (s *commentService) ListByEntity(ctx context.Context, actor *domain.User, entityType domain.EntityType, entityID uuid.UUID) ([]domain.Comment, error) {
	if !entityType.IsValid() {
		return nil, domain.Validation("invalid entity type %q", entityType)
	}

	projectID, err := s.commentRepo.ResolveProjectID(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}
	if projectID == nil {
		return nil, domain.NotFound("%s not found", entityType)
	}

	if err := s.accessSvc.Require(ctx, actor, domain.ActionCommentView, domain.Resource{
		Type: entityType, ID: entityID, ProjectID: *projectID,
	}); err != nil {
		return nil, err
	}

	return s.commentRepo.ListByEntity(ctx, entityType, entityID)
}

// Update is author-only; admins may edit anything.
func (s *commentService) Update(ctx context.Context, actor *domain.User, id uuid.UUID, content string) (*domain.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domain.Validation("comment content is required")
	}

	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, domain.NotFound("comment not found")
	}

	if comment.UserID != actor.ID && !actor.IsAdmin() {
		return nil, domain.Forbidden("only the author can edit a comment")
	}

	return s.commentRepo.Update(ctx, id, content)
}

func (s *commentService) Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if comment == nil {
		return domain.NotFound("comment not found")
	}

	if comment.UserID != actor.ID && !actor.IsAdmin() {
		return domain.Forbidden("only the author can delete a comment")
	}

	deleted, err := s.commentRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NotFound("comment not found")
	}
	return nil
}

// fanout notifies @mentioned users individually and broadcasts the comment
// to the project room for live viewers.
func (s *commentService) fanout(ctx context.Context, actor *domain.User, comment *domain.Comment, projectID uuid.UUID) {
	mentioned := s.resolveMentions(ctx, comment.Content)

	entityRef := comment.EntityType
	if len(mentioned) > 0 {
		if err := s.notifSvc.Notify(ctx, mentioned, NotifyEvent{
			Type:          domain.NotifMention,
			Title:         actor.Name + " mentioned you in a comment",
			Message:       &comment.Content,
			ReferenceID:   &comment.EntityID,
			ReferenceType: &entityRef,
			ActorID:       actor.ID,
		}); err != nil {
			s.logger.Printf("comment: mention notification for %s: %v", comment.ID, err)
		}
	}

	if err := s.notifSvc.Notify(ctx, nil, NotifyEvent{
		Type:          domain.NotifComment,
		Title:         actor.Name + " commented",
		Message:       &comment.Content,
		ReferenceID:   &comment.EntityID,
		ReferenceType: &entityRef,
		ProjectID:     &projectID,
		ActorID:       actor.ID,
	}); err != nil {
		s.logger.Printf("comment: broadcast for %s: %v", comment.ID, err)
	}
}

func (s *commentService) resolveMentions(ctx context.Context, content string) []uuid.UUID {
	matches := mentionPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if m[1] != "" {
			names = append(names, m[1])
		} else {
			names = append(names, m[2])
		}
	}

	users, err := s.userRepo.ResolveMentions(ctx, names)
	if err != nil {
		s.logger.Printf("comment: resolve mentions: %v", err)
		return nil
	}

	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}
