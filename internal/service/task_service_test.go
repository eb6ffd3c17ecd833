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
	"studioflow/internal/service"
)

type taskFixture struct {
	taskRepo  *mocks.TaskRepository
	accessSvc *mocks.AccessService
	notifSvc  *mocks.NotificationService
	auditSvc  *mocks.AuditService
	svc       service.TaskService
}

func newTaskFixture() *taskFixture {
	f := &taskFixture{
		taskRepo:  new(mocks.TaskRepository),
		accessSvc: new(mocks.AccessService),
		notifSvc:  new(mocks.NotificationService),
		auditSvc:  new(mocks.AuditService),
	}
	f.accessSvc.On("Require", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.auditSvc.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Maybe()
	f.svc = service.NewTaskService(f.taskRepo, f.accessSvc, f.notifSvc, f.auditSvc, realtime.NewHub(testLogger()), testLogger())
	return f
}

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()
	actor := &domain.User{ID: uuid.New(), Role: domain.RoleEditor}
	projectID := uuid.New()

	t.Run("Defaults To Todo And Medium", func(t *testing.T) {
		f := newTaskFixture()
		f.taskRepo.On("Create", ctx, mock.MatchedBy(func(task *domain.Task) bool {
			return task.Status == domain.TaskTodo &&
				task.Priority == domain.PriorityMedium &&
				task.ReporterID == actor.ID
		})).Return(nil).Once()
		f.notifSvc.On("Notify", ctx, mock.Anything, mock.Anything).Return(nil).Once()

		task, err := f.svc.Create(ctx, actor, projectID, domain.CreateTaskInput{Title: "Rough cut"})

		assert.NoError(t, err)
		assert.Equal(t, domain.TaskTodo, task.Status)
		assert.Equal(t, domain.PriorityMedium, task.Priority)
		f.taskRepo.AssertExpectations(t)
	})

	t.Run("Assignee Is Notified", func(t *testing.T) {
		f := newTaskFixture()
		assigneeID := uuid.New()
		f.taskRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.notifSvc.On("Notify", ctx, []uuid.UUID{assigneeID}, mock.MatchedBy(func(e service.NotifyEvent) bool {
			return e.Type == domain.NotifTaskAssigned && e.ActorID == actor.ID
		})).Return(nil).Once()

		_, err := f.svc.Create(ctx, actor, projectID, domain.CreateTaskInput{
			Title: "Rough cut", AssigneeID: &assigneeID,
		})

		assert.NoError(t, err)
		f.notifSvc.AssertExpectations(t)
	})

	t.Run("Invalid Status Rejected", func(t *testing.T) {
		f := newTaskFixture()

		_, err := f.svc.Create(ctx, actor, projectID, domain.CreateTaskInput{
			Title: "Rough cut", Status: "parked",
		})

		var domErr *domain.Error
		assert.ErrorAs(t, err, &domErr)
		assert.Equal(t, domain.KindValidation, domErr.Kind)
		f.taskRepo.AssertNotCalled(t, "Create")
	})
}

func TestTaskService_Update(t *testing.T) {
	ctx := context.Background()
	actor := &domain.User{ID: uuid.New(), Role: domain.RoleEditor}
	taskID := uuid.New()
	projectID := uuid.New()

	existing := func() *domain.Task {
		return &domain.Task{
			ID: taskID, ProjectID: projectID, Title: "Rough cut",
			Status: domain.TaskTodo, Priority: domain.PriorityMedium,
		}
	}

	t.Run("Status Change Is Routed To Move", func(t *testing.T) {
		f := newTaskFixture()
		done := domain.TaskDone
		f.taskRepo.On("GetByID", ctx, taskID).Return(existing(), nil).Once()

		_, err := f.svc.Update(ctx, actor, taskID, domain.UpdateTaskInput{Status: &done})

		var domErr *domain.Error
		assert.ErrorAs(t, err, &domErr)
		assert.Equal(t, domain.KindValidation, domErr.Kind)
		f.taskRepo.AssertNotCalled(t, "Update")
	})

	t.Run("Same Status Value Is A No-Op", func(t *testing.T) {
		f := newTaskFixture()
		todo := domain.TaskTodo
		f.taskRepo.On("GetByID", ctx, taskID).Return(existing(), nil).Once()
		f.taskRepo.On("Update", ctx, mock.Anything).Return(nil).Once()
		f.notifSvc.On("Notify", ctx, mock.Anything, mock.Anything).Return(nil).Once()

		_, err := f.svc.Update(ctx, actor, taskID, domain.UpdateTaskInput{Status: &todo})

		assert.NoError(t, err)
	})

	t.Run("New Assignee Gets An Assignment Event", func(t *testing.T) {
		f := newTaskFixture()
		assigneeID := uuid.New()
		f.taskRepo.On("GetByID", ctx, taskID).Return(existing(), nil).Once()
		f.taskRepo.On("Update", ctx, mock.Anything).Return(nil).Once()
		f.notifSvc.On("Notify", ctx, []uuid.UUID{assigneeID}, mock.MatchedBy(func(e service.NotifyEvent) bool {
			return e.Type == domain.NotifTaskAssigned
		})).Return(nil).Once()

		_, err := f.svc.Update(ctx, actor, taskID, domain.UpdateTaskInput{AssigneeID: &assigneeID})

		assert.NoError(t, err)
		f.notifSvc.AssertExpectations(t)
	})
}

func TestTaskService_Move(t *testing.T) {
	ctx := context.Background()
	actor := &domain.User{ID: uuid.New(), Role: domain.RoleEditor}
	taskID := uuid.New()
	projectID := uuid.New()

	existing := &domain.Task{
		ID: taskID, ProjectID: projectID, Title: "Rough cut",
		Status: domain.TaskTodo, Position: 2,
	}

	t.Run("Success", func(t *testing.T) {
		f := newTaskFixture()
		moved := &domain.Task{ID: taskID, ProjectID: projectID, Status: domain.TaskInProgress, Position: 0}
		f.taskRepo.On("GetByID", ctx, taskID).Return(existing, nil).Once()
		f.taskRepo.On("Move", ctx, taskID, domain.TaskInProgress, 0).Return(moved, nil).Once()

		got, err := f.svc.Move(ctx, actor, taskID, domain.MoveTaskInput{Status: domain.TaskInProgress, Position: 0})

		assert.NoError(t, err)
		assert.Equal(t, domain.TaskInProgress, got.Status)
		assert.Equal(t, 0, got.Position)
		f.taskRepo.AssertExpectations(t)
	})

	t.Run("Negative Position Rejected", func(t *testing.T) {
		f := newTaskFixture()
		f.taskRepo.On("GetByID", ctx, taskID).Return(existing, nil).Once()

		_, err := f.svc.Move(ctx, actor, taskID, domain.MoveTaskInput{Status: domain.TaskTodo, Position: -1})

		var domErr *domain.Error
		assert.ErrorAs(t, err, &domErr)
		assert.Equal(t, domain.KindValidation, domErr.Kind)
		f.taskRepo.AssertNotCalled(t, "Move")
	})

	t.Run("Invalid Column Rejected", func(t *testing.T) {
		f := newTaskFixture()
		f.taskRepo.On("GetByID", ctx, taskID).Return(existing, nil).Once()

		_, err := f.svc.Move(ctx, actor, taskID, domain.MoveTaskInput{Status: "archive", Position: 0})

		var domErr *domain.Error
		assert.ErrorAs(t, err, &domErr)
		assert.Equal(t, domain.KindValidation, domErr.Kind)
		f.taskRepo.AssertNotCalled(t, "Move")
	})

	t.Run("Missing Task", func(t *testing.T) {
		f := newTaskFixture()
		f.taskRepo.On("GetByID", ctx, taskID).Return(nil, nil).Once()

		_, err := f.svc.Move(ctx, actor, taskID, domain.MoveTaskInput{Status: domain.TaskTodo, Position: 0})

		var domErr *domain.Error
		assert.ErrorAs(t, err, &domErr)
		assert.Equal(t, domain.KindNotFound, domErr.Kind)
	})
}
