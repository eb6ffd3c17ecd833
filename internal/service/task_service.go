package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"studioflow/internal/domain"
	"studioflow/internal/realtime"
	"studioflow/internal/repository"
)

type TaskService interface {
	Create(ctx context.Context, actor *domain.User, projectID uuid.UUID, input domain.CreateTaskInput) (*domain.Task, error)
	Get(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Task, error)
	ListByProject(ctx context.Context, actor *domain.User, projectID uuid.UUID, f domain.TaskFilter) ([]domain.Task, error)
	Board(ctx context.Context, actor *domain.User, projectID uuid.UUID) (*domain.Board, error)
	Update(ctx context.Context, actor *domain.User, id uuid.UUID, input domain.UpdateTaskInput) (*domain.Task, error)
	Move(ctx context.Context, actor *domain.User, id uuid.UUID, input domain.MoveTaskInput) (*domain.Task, error)
	Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error
	Subtasks(ctx context.Context, actor *domain.User, id uuid.UUID) ([]domain.Task, error)
	MyTasks(ctx context.Context, actor *domain.User, params domain.PaginationParams) (domain.PaginatedResponse[domain.Task], error)
}

type taskService struct {
	taskRepo  repository.TaskRepository
	accessSvc AccessService
	notifSvc  NotificationService
	auditSvc  AuditService
	hub       *realtime.Hub
	logger    *log.Logger
}

func NewTaskService(taskRepo repository.TaskRepository, accessSvc AccessService, notifSvc NotificationService, auditSvc AuditService, hub *realtime.Hub, logger *log.Logger) TaskService {
	return &taskService{
		taskRepo:  taskRepo,
		accessSvc: accessSvc,
		notifSvc:  notifSvc,
		auditSvc:  auditSvc,
		hub:       hub,
		logger:    logger,
	}
}

func (s *taskService) Create(ctx context.Context, actor *domain.User, projectID uuid.UUID, input domain.CreateTaskInput) (*domain.Task, error) {
	if err := s.accessSvc.Require(ctx, actor, domain.ActionTaskCreate, domain.Resource{
		Type: domain.EntityTask, ProjectID: projectID,
	}); err != nil {
		return nil, err
	}

	if input.Title == "" {
		return nil, domain.Validation("task title is required")
	}

	status := input.Status
	if status == "" {
		status = domain.TaskTodo
	}
	if !status.IsValid() {
		return nil, domain.Validation("invalid task status %q", status)
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.IsValid() {
		return nil, domain.Validation("invalid priority %q", priority)
	}

	task := &domain.Task{
		ID:           uuid.New(),
		ProjectID:    projectID,
		Title:        input.Title,
		Description:  input.Description,
		Status:       status,
		Priority:     priority,
		AssigneeID:   input.AssigneeID,
		ReporterID:   actor.ID,
		DueDate:      input.DueDate,
		ParentTaskID: input.ParentTaskID,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	taskRef := domain.EntityTask
	event := NotifyEvent{
		Type:          domain.NotifTaskAssigned,
		Title:         "New task: " + task.Title,
		ReferenceID:   &task.ID,
		ReferenceType: &taskRef,
		ProjectID:     &projectID,
		ActorID:       actor.ID,
	}
	var recipients []uuid.UUID
	if task.AssigneeID != nil {
		recipients = append(recipients, *task.AssigneeID)
	}
	if err := s.notifSvc.Notify(ctx, recipients, event); err != nil {
		s.logger.Printf("task: create notification for %s: %v", task.ID, err)
	}

	s.auditSvc.Record(&actor.ID, "task.create", "task", &task.ID, map[string]string{"title": task.Title}, nil)

	return task, nil
}

func (s *taskService) Get(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.NotFound("task not found")
	}

	if err := s.accessSvc.Require(ctx, actor, domain.ActionTaskView, domain.Resource{
		Type: domain.EntityTask, ID: id, ProjectID: task.ProjectID,
	}); err != nil {
		return nil, err
	}

	return task, nil
}

func (s *taskService) ListByProject(ctx context.Context, actor *domain.User, projectID uuid.UUID, f domain.TaskFilter) ([]domain.Task, error) {
	if err := s.accessSvc.Require(ctx, actor, domain.ActionTaskView, domain.Resource{
		Type: domain.EntityTask, ProjectID: projectID,
	}); err != nil {
		return nil, err
	}
	return s.taskRepo.ListByProject(ctx, projectID, f)
}

func (s *taskService) Board(ctx context.Context, actor *domain.User, projectID uuid.UUID) (*domain.Board, error) {
	tasks, err := s.ListByProject(ctx, actor, projectID, domain.TaskFilter{})
	if err != nil {
		return nil, err
	}
	board := domain.NewBoard(tasks)
	return &board, nil
}

func (s *taskService) Update(ctx context.Context, actor *domain.User, id uuid.UUID, input domain.UpdateTaskInput) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.NotFound("task not found")
	}

	if err := s.accessSvc.Require(ctx, actor, domain.ActionTaskUpdate, domain.Resource{
		Type: domain.EntityTask, ID: id, ProjectID: task.ProjectID, OwnerID: task.AssigneeID,
	}); err != nil {
		return nil, err
	}

	assigneeChanged := false
	if input.Title != nil {
		if *input.Title == "" {
			return nil, domain.Validation("task title cannot be empty")
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = input.Description
	}
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return nil, domain.Validation("invalid priority %q", *input.Priority)
		}
		task.Priority = *input.Priority
	}
	if input.AssigneeID != nil {
		assigneeChanged = task.AssigneeID == nil || *task.AssigneeID != *input.AssigneeID
		task.AssigneeID = input.AssigneeID
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.ParentTaskID != nil {
		task.ParentTaskID = input.ParentTaskID
	}

	// Status changes go through Move so the board invariant holds.
	if input.Status != nil && *input.Status != task.Status {
		return nil, domain.Validation("use the move endpoint to change task status")
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	taskRef := domain.EntityTask
	var recipients []uuid.UUID
	notifType := domain.NotifTaskUpdated
	if assigneeChanged {
		notifType = domain.NotifTaskAssigned
	}
	if task.AssigneeID != nil {
		recipients = append(recipients, *task.AssigneeID)
	}
	if err := s.notifSvc.Notify(ctx, recipients, NotifyEvent{
		Type:          notifType,
		Title:         "Task updated: " + task.Title,
		ReferenceID:   &task.ID,
		ReferenceType: &taskRef,
		ProjectID:     &task.ProjectID,
		ActorID:       actor.ID,
	}); err != nil {
		s.logger.Printf("task: update notification for %s: %v", id, err)
	}

	return task, nil
}

// Move relocates a task on the board. The position arithmetic lives in the
// repository transaction; this layer validates, authorizes and fans out.
func (s *taskService) Move(ctx context.Context, actor *domain.User, id uuid.UUID, input domain.MoveTaskInput) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.NotFound("task not found")
	}

	if err := s.accessSvc.Require(ctx, actor, domain.ActionTaskMove, domain.Resource{
		Type: domain.EntityTask, ID: id, ProjectID: task.ProjectID, OwnerID: task.AssigneeID,
	}); err != nil {
		return nil, err
	}

	if !input.Status.IsValid() {
		return nil, domain.Validation("invalid task status %q", input.Status)
	}
	if input.Position < 0 {
		return nil, domain.Validation("position cannot be negative")
	}

	moved, err := s.taskRepo.Move(ctx, id, input.Status, input.Position)
	if err != nil {
		return nil, err
	}

	s.hub.EmitToProject(task.ProjectID, "task_moved", moved, &actor.ID)
	return moved, nil
}

func (s *taskService) Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if task == nil {
		return domain.NotFound("task not found")
	}

	if err := s.accessSvc.Require(ctx, actor, domain.ActionTaskDelete, domain.Resource{
		Type: domain.EntityTask, ID: id, ProjectID: task.ProjectID,
	}); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.hub.EmitToProject(task.ProjectID, "task_deleted", map[string]any{"id": id}, &actor.ID)
	s.auditSvc.Record(&actor.ID, "task.delete", "task", &id, nil, nil)

	return nil
}

func (s *taskService) Subtasks(ctx context.Context, actor *domain.User, id uuid.UUID) ([]domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.NotFound("task not found")
	}

	if err := s.accessSvc.Require(ctx, actor, domain.ActionTaskView, domain.Resource{
		Type: domain.EntityTask, ID: id, ProjectID: task.ProjectID,
	}); err != nil {
		return nil, err
	}

	return s.taskRepo.ListSubtasks(ctx, id)
}

func (s *taskService) MyTasks(ctx context.Context, actor *domain.User, params domain.PaginationParams) (domain.PaginatedResponse[domain.Task], error) {
	params.Normalize()
	tasks, total, err := s.taskRepo.ListByAssignee(ctx, actor.ID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Task]{}, err
	}
	return domain.NewPaginatedResponse(tasks, params.Page, params.PageSize, total), nil
}
