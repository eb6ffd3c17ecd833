package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"studioflow/internal/domain"
)

type TaskRepository struct {
	mock.Mock
}

func (m *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *TaskRepository) ListByProject(ctx context.Context, projectID uuid.UUID, f domain.TaskFilter) ([]domain.Task, error) {
	args := m.Called(ctx, projectID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Task), args.Error(1)
}

func (m *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *TaskRepository) Move(ctx context.Context, id uuid.UUID, status domain.TaskStatus, position int) (*domain.Task, error) {
	args := m.Called(ctx, id, status, position)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *TaskRepository) ListSubtasks(ctx context.Context, parentID uuid.UUID) ([]domain.Task, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Task), args.Error(1)
}

func (m *TaskRepository) ListByAssignee(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Task, int64, error) {
	args := m.Called(ctx, userID, params)
	return args.Get(0).([]domain.Task), args.Get(1).(int64), args.Error(2)
}

func (m *TaskRepository) MaxPosition(ctx context.Context, projectID uuid.UUID, status domain.TaskStatus) (int, error) {
	args := m.Called(ctx, projectID, status)
	return args.Int(0), args.Error(1)
}
