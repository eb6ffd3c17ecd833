package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"studioflow/internal/domain"
	"studioflow/internal/mocks"
	"studioflow/internal/service"
)

type commentFixture struct {
	commentRepo *mocks.CommentRepository
	userRepo    *mocks.UserRepository
	accessSvc   *mocks.AccessService
	notifSvc    *mocks.NotificationService
	svc         service.CommentService
}

func newCommentFixture() *commentFixture {
	f := &commentFixture{
		commentRepo: new(mocks.CommentRepository),
		userRepo:    new(mocks.UserRepository),
		accessSvc:   new(mocks.AccessService),
		notifSvc:    new(mocks.NotificationService),
	}
	f.svc = service.NewCommentService(f.commentRepo, f.userRepo, f.accessSvc, f.notifSvc, testLogger())
	return f
}

func TestCommentService_Create(t *testing.T) {
	ctx := context.Background()
	actor := &domain.User{ID: uuid.New(), Name: "Dana", Role: domain.RoleEditor}
	taskID := uuid.New()
	projectID := uuid.New()

	t.Run("Mentions Trigger Personal Notifications", func(t *testing.T) {
		f := newCommentFixture()
		mentioned := domain.User{ID: uuid.New(), Name: "alex"}

		f.commentRepo.On("ResolveProjectID", ctx, domain.EntityTask, taskID).Return(&projectID, nil).Once()
		f.accessSvc.On("Require", ctx, actor, domain.ActionCommentCreate, mock.Anything).Return(nil).Once()
		f.commentRepo.On("Create", ctx, mock.MatchedBy(func(c *domain.Comment) bool {
			return c.EntityID == taskID && c.UserID == actor.ID
		})).Return(nil).Once()
		f.userRepo.On("ResolveMentions", ctx, []string{"alex"}).Return([]domain.User{mentioned}, nil).Once()
		f.notifSvc.On("Notify", ctx, []uuid.UUID{mentioned.ID}, mock.MatchedBy(func(e service.NotifyEvent) bool {
			return e.Type == domain.NotifMention
		})).Return(nil).Once()
		f.notifSvc.On("Notify", ctx, []uuid.UUID(nil), mock.MatchedBy(func(e service.NotifyEvent) bool {
			return e.Type == domain.NotifComment && e.ProjectID != nil && *e.ProjectID == projectID
		})).Return(nil).Once()

		comment, err := f.svc.Create(ctx, actor, domain.CreateCommentInput{
			EntityType: domain.EntityTask,
			EntityID:   taskID,
			Content:    "@alex please check the grade",
		})

		assert.NoError(t, err)
		assert.Equal(t, "Dana", *comment.UserName)
		f.notifSvc.AssertExpectations(t)
		f.userRepo.AssertExpectations(t)
	})

	t.Run("No Mentions Only Broadcasts", func(t *testing.T) {
		f := newCommentFixture()
		f.commentRepo.On("ResolveProjectID", ctx, domain.EntityTask, taskID).Return(&projectID, nil).Once()
		f.accessSvc.On("Require", ctx, actor, domain.ActionCommentCreate, mock.Anything).Return(nil).Once()
		f.commentRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.notifSvc.On("Notify", ctx, []uuid.UUID(nil), mock.MatchedBy(func(e service.NotifyEvent) bool {
			return e.Type == domain.NotifComment
		})).Return(nil).Once()

		_, err := f.svc.Create(ctx, actor, domain.CreateCommentInput{
			EntityType: domain.EntityTask,
			EntityID:   taskID,
			Content:    "looks good to me",
		})

		assert.NoError(t, err)
		f.userRepo.AssertNotCalled(t, "ResolveMentions")
	})

	t.Run("Dangling Target", func(t *testing.T) {
		f := newCommentFixture()
		f.commentRepo.On("ResolveProjectID", ctx, domain.EntityTask, taskID).Return(nil, nil).Once()

		_, err := f.svc.Create(ctx, actor, domain.CreateCommentInput{
			EntityType: domain.EntityTask,
			EntityID:   taskID,
			Content:    "hello",
		})

		var domErr *domain.Error
		assert.ErrorAs(t, err, &domErr)
		assert.Equal(t, domain.KindNotFound, domErr.Kind)
		f.commentRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Blank Content Rejected", func(t *testing.T) {
		f := newCommentFixture()

		_, err := f.svc.Create(ctx, actor, domain.CreateCommentInput{
			EntityType: domain.EntityTask,
			EntityID:   taskID,
			Content:    "   ",
		})

		var domErr *domain.Error
		assert.ErrorAs(t, err, &domErr)
		assert.Equal(t, domain.KindValidation, domErr.Kind)
	})
}

func TestCommentService_Update(t *testing.T) {
	ctx := context.Background()
	author := &domain.User{ID: uuid.New(), Role: domain.RoleFreelancer}
	stranger := &domain.User{ID: uuid.New(), Role: domain.RoleEditor}
	admin := &domain.User{ID: uuid.New(), Role: domain.RoleAdmin}
	commentID := uuid.New()

	existing := &domain.Comment{ID: commentID, UserID: author.ID, Content: "Original"}

	t.Run("Author Edits", func(t *testing.T) {
		f := newCommentFixture()
		updated := &domain.Comment{ID: commentID, UserID: author.ID, Content: "Updated"}
		f.commentRepo.On("GetByID", ctx, commentID).Return(existing, nil).Once()
		f.commentRepo.On("Update", ctx, commentID, "Updated").Return(updated, nil).Once()

		comment, err := f.svc.Update(ctx, author, commentID, "Updated")

		assert.NoError(t, err)
		assert.Equal(t, "Updated", comment.Content)
	})

	t.Run("Non-Author Is Refused", func(t *testing.T) {
		f := newCommentFixture()
		f.commentRepo.On("GetByID", ctx, commentID).Return(existing, nil).Once()

		_, err := f.svc.Update(ctx, stranger, commentID, "Hijacked")

		var domErr *domain.Error
		assert.ErrorAs(t, err, &domErr)
		assert.Equal(t, domain.KindForbidden, domErr.Kind)
		f.commentRepo.AssertNotCalled(t, "Update")
	})

	t.Run("Admin Override", func(t *testing.T) {
		f := newCommentFixture()
		updated := &domain.Comment{ID: commentID, UserID: author.ID, Content: "Moderated"}
		f.commentRepo.On("GetByID", ctx, commentID).Return(existing, nil).Once()
		f.commentRepo.On("Update", ctx, commentID, "Moderated").Return(updated, nil).Once()

		_, err := f.svc.Update(ctx, admin, commentID, "Moderated")

		assert.NoError(t, err)
	})
}
