package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"studioflow/internal/domain"
	"studioflow/internal/mocks"
	"studioflow/internal/service"
)

func newAccessFixture() (*mocks.UserRepository, *mocks.ProjectRepository, *mocks.ClientRepository, service.AccessService) {
	userRepo := new(mocks.UserRepository)
	projectRepo := new(mocks.ProjectRepository)
	clientRepo := new(mocks.ClientRepository)
	svc := service.NewAccessService(userRepo, projectRepo, clientRepo)
	return userRepo, projectRepo, clientRepo, svc
}

func TestAccessService_CanPerform_AdminShortcut(t *testing.T) {
	_, projectRepo, clientRepo, svc := newAccessFixture()
	ctx := context.Background()

	admin := &domain.User{ID: uuid.New(), Role: domain.RoleAdmin}

	for _, action := range []domain.Action{
		domain.ActionProjectCreate,
		domain.ActionTaskDelete,
		domain.ActionDeliveryReview,
		domain.ActionClientManage,
	} {
		verdict, err := svc.CanPerform(ctx, admin, action, domain.Resource{ProjectID: uuid.New()})
		assert.NoError(t, err)
		assert.True(t, verdict.Allowed)
		assert.Equal(t, "admin", verdict.EffectiveRole)
	}

	projectRepo.AssertNotCalled(t, "GetMemberRole")
	clientRepo.AssertNotCalled(t, "IsUserClientOfProject")
}

func TestAccessService_CanPerform_GlobalAllowList(t *testing.T) {
	_, projectRepo, _, svc := newAccessFixture()
	ctx := context.Background()

	manager := &domain.User{ID: uuid.New(), Role: domain.RoleManager}

	t.Run("Manager Creates Projects Platform Wide", func(t *testing.T) {
		verdict, err := svc.CanPerform(ctx, manager, domain.ActionProjectCreate, domain.Resource{})

		assert.NoError(t, err)
		assert.True(t, verdict.Allowed)
		assert.Equal(t, "manager", verdict.EffectiveRole)
	})

	t.Run("Manager Views Without Membership Lookup", func(t *testing.T) {
		verdict, err := svc.CanPerform(ctx, manager, domain.ActionProjectView, domain.Resource{ProjectID: uuid.New()})

		assert.NoError(t, err)
		assert.True(t, verdict.Allowed)
		projectRepo.AssertNotCalled(t, "GetMemberRole")
	})

	t.Run("Editor Is Not On The Create Allow List", func(t *testing.T) {
		editor := &domain.User{ID: uuid.New(), Role: domain.RoleEditor}

		verdict, err := svc.CanPerform(ctx, editor, domain.ActionProjectCreate, domain.Resource{})

		assert.NoError(t, err)
		assert.False(t, verdict.Allowed)
	})
}

func TestAccessService_CanPerform_ProjectRole(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()

	t.Run("Global Editor Without Membership Cannot Create Tasks", func(t *testing.T) {
		_, projectRepo, clientRepo, svc := newAccessFixture()
		editor := &domain.User{ID: uuid.New(), Role: domain.RoleEditor}
		projectRepo.On("GetMemberRole", ctx, projectID, editor.ID).Return(nil, nil).Once()

		verdict, err := svc.CanPerform(ctx, editor, domain.ActionTaskCreate, domain.Resource{ProjectID: projectID})

		assert.NoError(t, err)
		assert.False(t, verdict.Allowed)
		clientRepo.AssertNotCalled(t, "IsUserClientOfProject")
		projectRepo.AssertExpectations(t)
	})

	t.Run("Project Editor Creates Tasks", func(t *testing.T) {
		_, projectRepo, _, svc := newAccessFixture()
		actor := &domain.User{ID: uuid.New(), Role: domain.RoleFreelancer}
		role := domain.ProjectRoleEditor
		projectRepo.On("GetMemberRole", ctx, projectID, actor.ID).Return(&role, nil).Once()

		verdict, err := svc.CanPerform(ctx, actor, domain.ActionTaskCreate, domain.Resource{ProjectID: projectID})

		assert.NoError(t, err)
		assert.True(t, verdict.Allowed)
		assert.Equal(t, "project:editor", verdict.EffectiveRole)
	})

	t.Run("No Project Bound To The Resource Denies", func(t *testing.T) {
		_, projectRepo, _, svc := newAccessFixture()
		actor := &domain.User{ID: uuid.New(), Role: domain.RoleFreelancer}

		verdict, err := svc.CanPerform(ctx, actor, domain.ActionTaskCreate, domain.Resource{})

		assert.NoError(t, err)
		assert.False(t, verdict.Allowed)
		projectRepo.AssertNotCalled(t, "GetMemberRole")
	})

	t.Run("Repository Error Propagates", func(t *testing.T) {
		_, projectRepo, _, svc := newAccessFixture()
		actor := &domain.User{ID: uuid.New(), Role: domain.RoleFreelancer}
		projectRepo.On("GetMemberRole", ctx, projectID, actor.ID).Return(nil, errors.New("db down")).Once()

		verdict, err := svc.CanPerform(ctx, actor, domain.ActionTaskCreate, domain.Resource{ProjectID: projectID})

		assert.Error(t, err)
		assert.False(t, verdict.Allowed)
	})
}

func TestAccessService_CanPerform_SelfRule(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()
	role := domain.ProjectRoleFreelancer

	t.Run("Freelancer Moves Own Task", func(t *testing.T) {
		_, projectRepo, _, svc := newAccessFixture()
		actor := &domain.User{ID: uuid.New(), Role: domain.RoleFreelancer}
		projectRepo.On("GetMemberRole", ctx, projectID, actor.ID).Return(&role, nil).Once()

		verdict, err := svc.CanPerform(ctx, actor, domain.ActionTaskMove, domain.Resource{
			ProjectID: projectID, OwnerID: &actor.ID,
		})

		assert.NoError(t, err)
		assert.True(t, verdict.Allowed)
	})

	t.Run("Freelancer Cannot Move Someone Else's Task", func(t *testing.T) {
		_, projectRepo, _, svc := newAccessFixture()
		actor := &domain.User{ID: uuid.New(), Role: domain.RoleFreelancer}
		other := uuid.New()
		projectRepo.On("GetMemberRole", ctx, projectID, actor.ID).Return(&role, nil).Once()

		verdict, err := svc.CanPerform(ctx, actor, domain.ActionTaskMove, domain.Resource{
			ProjectID: projectID, OwnerID: &other,
		})

		assert.NoError(t, err)
		assert.False(t, verdict.Allowed)
	})
}

func TestAccessService_CanPerform_ClientFallback(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()

	t.Run("Linked Client Views Deliveries", func(t *testing.T) {
		_, projectRepo, clientRepo, svc := newAccessFixture()
		actor := &domain.User{ID: uuid.New(), Role: domain.RoleClient}
		projectRepo.On("GetMemberRole", ctx, projectID, actor.ID).Return(nil, nil).Once()
		clientRepo.On("IsUserClientOfProject", ctx, projectID, actor.ID).Return(true, nil).Once()

		verdict, err := svc.CanPerform(ctx, actor, domain.ActionDeliveryView, domain.Resource{ProjectID: projectID})

		assert.NoError(t, err)
		assert.True(t, verdict.Allowed)
		assert.Equal(t, "client", verdict.EffectiveRole)
	})

	t.Run("Client Never Touches Tasks", func(t *testing.T) {
		_, projectRepo, clientRepo, svc := newAccessFixture()
		actor := &domain.User{ID: uuid.New(), Role: domain.RoleClient}
		projectRepo.On("GetMemberRole", ctx, projectID, actor.ID).Return(nil, nil).Once()

		verdict, err := svc.CanPerform(ctx, actor, domain.ActionTaskView, domain.Resource{ProjectID: projectID})

		assert.NoError(t, err)
		assert.False(t, verdict.Allowed)
		clientRepo.AssertNotCalled(t, "IsUserClientOfProject")
	})

	t.Run("Membership Row Disables The Fallback", func(t *testing.T) {
		_, projectRepo, clientRepo, svc := newAccessFixture()
		actor := &domain.User{ID: uuid.New(), Role: domain.RoleFreelancer}
		role := domain.ProjectRoleFreelancer
		projectRepo.On("GetMemberRole", ctx, projectID, actor.ID).Return(&role, nil).Once()

		verdict, err := svc.CanPerform(ctx, actor, domain.ActionDeliveryReview, domain.Resource{ProjectID: projectID})

		assert.NoError(t, err)
		assert.False(t, verdict.Allowed)
		clientRepo.AssertNotCalled(t, "IsUserClientOfProject")
	})

	t.Run("Unlinked User Is Denied", func(t *testing.T) {
		_, projectRepo, clientRepo, svc := newAccessFixture()
		actor := &domain.User{ID: uuid.New(), Role: domain.RoleClient}
		projectRepo.On("GetMemberRole", ctx, projectID, actor.ID).Return(nil, nil).Once()
		clientRepo.On("IsUserClientOfProject", ctx, projectID, actor.ID).Return(false, nil).Once()

		verdict, err := svc.CanPerform(ctx, actor, domain.ActionDeliveryView, domain.Resource{ProjectID: projectID})

		assert.NoError(t, err)
		assert.False(t, verdict.Allowed)
	})
}

func TestAccessService_Require(t *testing.T) {
	ctx := context.Background()

	t.Run("Denial Becomes Forbidden", func(t *testing.T) {
		_, projectRepo, _, svc := newAccessFixture()
		actor := &domain.User{ID: uuid.New(), Role: domain.RoleFreelancer}
		projectID := uuid.New()
		projectRepo.On("GetMemberRole", ctx, projectID, actor.ID).Return(nil, nil).Once()

		err := svc.Require(ctx, actor, domain.ActionTaskCreate, domain.Resource{ProjectID: projectID})

		var domErr *domain.Error
		assert.ErrorAs(t, err, &domErr)
		assert.Equal(t, domain.KindForbidden, domErr.Kind)
	})

	t.Run("Allowance Passes Through", func(t *testing.T) {
		_, _, _, svc := newAccessFixture()
		admin := &domain.User{ID: uuid.New(), Role: domain.RoleAdmin}

		err := svc.Require(ctx, admin, domain.ActionClientManage, domain.Resource{})

		assert.NoError(t, err)
	})
}

func TestAccessService_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing Actor Fails", func(t *testing.T) {
		userRepo, _, _, svc := newAccessFixture()
		actorID := uuid.New()
		userRepo.On("GetByID", ctx, actorID).Return(nil, nil).Once()

		rc, err := svc.Resolve(ctx, actorID, nil)

		assert.Nil(t, rc)
		var domErr *domain.Error
		assert.ErrorAs(t, err, &domErr)
		assert.Equal(t, domain.KindNotFound, domErr.Kind)
	})

	t.Run("Snapshot Carries Role And Client Link", func(t *testing.T) {
		userRepo, projectRepo, clientRepo, svc := newAccessFixture()
		actorID := uuid.New()
		projectID := uuid.New()
		role := domain.ProjectRoleManager

		userRepo.On("GetByID", ctx, actorID).Return(&domain.User{ID: actorID, Role: domain.RoleEditor}, nil).Once()
		projectRepo.On("GetMemberRole", ctx, projectID, actorID).Return(&role, nil).Once()
		clientRepo.On("IsUserClientOfProject", ctx, projectID, actorID).Return(false, nil).Once()

		rc, err := svc.Resolve(ctx, actorID, &projectID)

		assert.NoError(t, err)
		assert.Equal(t, domain.RoleEditor, rc.GlobalRole)
		assert.Equal(t, domain.ProjectRoleManager, *rc.ProjectRole)
		assert.False(t, rc.IsClientOfProject)
	})
}
