package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"studioflow/internal/domain"
	"studioflow/internal/mocks"
	"studioflow/internal/realtime"
	"studioflow/internal/repository"
	"studioflow/internal/service"
)

type projectFixture struct {
	projectRepo *mocks.ProjectRepository
	userRepo    *mocks.UserRepository
	accessSvc   *mocks.AccessService
	notifSvc    *mocks.NotificationService
	emailSvc    *mocks.EmailService
	auditSvc    *mocks.AuditService
	svc         service.ProjectService
}

func newProjectFixture() *projectFixture {
	f := &projectFixture{
		projectRepo: new(mocks.ProjectRepository),
		userRepo:    new(mocks.UserRepository),
		accessSvc:   new(mocks.AccessService),
		notifSvc:    new(mocks.NotificationService),
		emailSvc:    new(mocks.EmailService),
		auditSvc:    new(mocks.AuditService),
	}
	f.auditSvc.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Maybe()
	f.svc = service.NewProjectService(f.projectRepo, f.userRepo, f.accessSvc, f.notifSvc, f.emailSvc, f.auditSvc, realtime.NewHub(testLogger()), testLogger())
	return f
}

func TestProjectService_Create(t *testing.T) {
	ctx := context.Background()
	actor := &domain.User{ID: uuid.New(), Role: domain.RoleManager}

	t.Run("Defaults", func(t *testing.T) {
		f := newProjectFixture()
		f.accessSvc.On("Require", ctx, actor, domain.ActionProjectCreate, mock.Anything).Return(nil).Once()
		f.projectRepo.On("Create", ctx, mock.MatchedBy(func(p *domain.Project) bool {
			return p.Status == domain.ProjectDraft && p.Currency == "USD" && p.CreatedBy == actor.ID
		})).Return(nil).Once()

		project, err := f.svc.Create(ctx, actor, domain.CreateProjectInput{Name: "Brand film"})

		assert.NoError(t, err)
		assert.Equal(t, domain.ProjectDraft, project.Status)
		f.projectRepo.AssertExpectations(t)
	})

	t.Run("Denied Actor Creates Nothing", func(t *testing.T) {
		f := newProjectFixture()
		f.accessSvc.On("Require", ctx, actor, domain.ActionProjectCreate, mock.Anything).
			Return(domain.Forbidden("not allowed to create_project")).Once()

		_, err := f.svc.Create(ctx, actor, domain.CreateProjectInput{Name: "Brand film"})

		var domErr *domain.Error
		assert.ErrorAs(t, err, &domErr)
		assert.Equal(t, domain.KindForbidden, domErr.Kind)
		f.projectRepo.AssertNotCalled(t, "Create")
	})
}

func TestProjectService_List_Scoping(t *testing.T) {
	ctx := context.Background()
	params := domain.PaginationParams{Page: 1, PageSize: 20}

	cases := []struct {
		name  string
		role  domain.GlobalRole
		check func(t *testing.T, actorID uuid.UUID, f repository.ProjectFilter)
	}{
		{"Managers See Everything", domain.RoleManager, func(t *testing.T, actorID uuid.UUID, f repository.ProjectFilter) {
			assert.Nil(t, f.ScopeMemberID)
			assert.Nil(t, f.ScopeClientID)
		}},
		{"Clients See Linked Projects", domain.RoleClient, func(t *testing.T, actorID uuid.UUID, f repository.ProjectFilter) {
			assert.NotNil(t, f.ScopeClientID)
			assert.Equal(t, actorID, *f.ScopeClientID)
		}},
		{"Freelancers See Memberships", domain.RoleFreelancer, func(t *testing.T, actorID uuid.UUID, f repository.ProjectFilter) {
			assert.NotNil(t, f.ScopeMemberID)
			assert.Equal(t, actorID, *f.ScopeMemberID)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newProjectFixture()
			actor := &domain.User{ID: uuid.New(), Role: tc.role}

			var captured repository.ProjectFilter
			f.projectRepo.On("List", ctx, mock.MatchedBy(func(filter repository.ProjectFilter) bool {
				captured = filter
				return true
			}), params).Return([]domain.Project{}, int64(0), nil).Once()

			_, err := f.svc.List(ctx, actor, nil, params)

			assert.NoError(t, err)
			tc.check(t, actor.ID, captured)
		})
	}
}

func TestProjectService_Get(t *testing.T) {
	ctx := context.Background()
	actor := &domain.User{ID: uuid.New(), Role: domain.RoleFreelancer}
	projectID := uuid.New()

	t.Run("Missing Project Short-Circuits Before Authorization", func(t *testing.T) {
		f := newProjectFixture()
		f.projectRepo.On("GetByID", ctx, projectID).Return(nil, nil).Once()

		_, err := f.svc.Get(ctx, actor, projectID)

		var domErr *domain.Error
		assert.ErrorAs(t, err, &domErr)
		assert.Equal(t, domain.KindNotFound, domErr.Kind)
		f.accessSvc.AssertNotCalled(t, "Require")
	})
}
