package domain

import (
	"time"

	"github.com/google/uuid"
)

// Task lives on a project's kanban board. Position is the dense zero-based
// rank within the (project, status) column; the repository keeps the set of
// positions in every column exactly {0..n-1} across create, move and delete.
type Task struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	ProjectID    uuid.UUID  `json:"project_id" db:"project_id"`
	Title        string     `json:"title" db:"title"`
	Description  *string    `json:"description,omitempty" db:"description"`
	Status       TaskStatus `json:"status" db:"status"`
	Priority     Priority   `json:"priority" db:"priority"`
	AssigneeID   *uuid.UUID `json:"assignee_id,omitempty" db:"assignee_id"`
	ReporterID   uuid.UUID  `json:"reporter_id" db:"reporter_id"`
	DueDate      *time.Time `json:"due_date,omitempty" db:"due_date"`
	Position     int        `json:"position" db:"position"`
	ParentTaskID *uuid.UUID `json:"parent_task_id,omitempty" db:"parent_task_id"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`

	AssigneeName  *string `json:"assignee_name,omitempty" db:"assignee_name"`
	ReporterName  *string `json:"reporter_name,omitempty" db:"reporter_name"`
	ProjectName   *string `json:"project_name,omitempty" db:"project_name"`
	SubtaskCount  *int    `json:"subtask_count,omitempty" db:"subtask_count"`
	SubtaskDone   *int    `json:"subtask_done_count,omitempty" db:"subtask_done_count"`
}

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskReview     TaskStatus = "review"
	TaskDone       TaskStatus = "done"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskReview, TaskDone:
		return true
	default:
		return false
	}
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

type CreateTaskInput struct {
	Title        string     `json:"title" validate:"required"`
	Description  *string    `json:"description,omitempty"`
	Status       TaskStatus `json:"status,omitempty"`
	Priority     Priority   `json:"priority,omitempty"`
	AssigneeID   *uuid.UUID `json:"assignee_id,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	ParentTaskID *uuid.UUID `json:"parent_task_id,omitempty"`
}

type UpdateTaskInput struct {
	Title        *string     `json:"title,omitempty"`
	Description  *string     `json:"description,omitempty"`
	Status       *TaskStatus `json:"status,omitempty"`
	Priority     *Priority   `json:"priority,omitempty"`
	AssigneeID   *uuid.UUID  `json:"assignee_id,omitempty"`
	DueDate      *time.Time  `json:"due_date,omitempty"`
	ParentTaskID *uuid.UUID  `json:"parent_task_id,omitempty"`
}

type MoveTaskInput struct {
	Status   TaskStatus `json:"status"`
	Position int        `json:"position"`
}

type TaskFilter struct {
	Status     *TaskStatus
	AssigneeID *uuid.UUID
	Priority   *Priority
	Search     *string
}

// Board groups a project's tasks by status column, each column ordered by
// position, for the kanban view.
type Board struct {
	Todo       []Task `json:"todo"`
	InProgress []Task `json:"in_progress"`
	Review     []Task `json:"review"`
	Done       []Task `json:"done"`
}

func NewBoard(tasks []Task) Board {
	var b Board
	for _, t := range tasks {
		switch t.Status {
		case TaskTodo:
			b.Todo = append(b.Todo, t)
		case TaskInProgress:
			b.InProgress = append(b.InProgress, t)
		case TaskReview:
			b.Review = append(b.Review, t)
		case TaskDone:
			b.Done = append(b.Done, t)
		}
	}
	return b
}
