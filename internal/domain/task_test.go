package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"studioflow/internal/domain"
)

func boardTask(status domain.TaskStatus, position int) domain.Task {
	return domain.Task{ID: uuid.New(), Status: status, Position: position}
}

func TestNewBoard(t *testing.T) {
	t.Run("Groups By Column Preserving Order", func(t *testing.T) {
		tasks := []domain.Task{
			boardTask(domain.TaskTodo, 0),
			boardTask(domain.TaskTodo, 1),
			boardTask(domain.TaskInProgress, 0),
			boardTask(domain.TaskDone, 0),
			boardTask(domain.TaskTodo, 2),
		}

		board := domain.NewBoard(tasks)

		assert.Len(t, board.Todo, 3)
		assert.Len(t, board.InProgress, 1)
		assert.Len(t, board.Review, 0)
		assert.Len(t, board.Done, 1)
		for i, task := range board.Todo {
			assert.Equal(t, i, task.Position)
		}
	})

	t.Run("Empty Input", func(t *testing.T) {
		board := domain.NewBoard(nil)

		assert.Empty(t, board.Todo)
		assert.Empty(t, board.InProgress)
		assert.Empty(t, board.Review)
		assert.Empty(t, board.Done)
	})
}

func TestTaskStatus_IsValid(t *testing.T) {
	for _, status := range []domain.TaskStatus{
		domain.TaskTodo, domain.TaskInProgress, domain.TaskReview, domain.TaskDone,
	} {
		assert.True(t, status.IsValid(), string(status))
	}
	assert.False(t, domain.TaskStatus("archived").IsValid())
	assert.False(t, domain.TaskStatus("").IsValid())
}
