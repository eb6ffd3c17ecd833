package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"studioflow/internal/domain"
)

type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, f domain.TaskFilter) ([]domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Move(ctx context.Context, id uuid.UUID, status domain.TaskStatus, position int) (*domain.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListSubtasks(ctx context.Context, parentID uuid.UUID) ([]domain.Task, error)
	ListByAssignee(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Task, int64, error)
	MaxPosition(ctx context.Context, projectID uuid.UUID, status domain.TaskStatus) (int, error)
}

type taskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) TaskRepository {
	return &taskRepository{db: db}
}

// Create appends the task to the bottom of its column. The position
// subquery and the insert run in one statement, so two concurrent creates
// in the same column cannot claim the same slot under read committed
// (the second insert sees the first's committed row or blocks on the
// unique index).
func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO tasks (id, project_id, title, description, status, priority,
			assignee_id, reporter_id, due_date, parent_task_id, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			(SELECT COALESCE(MAX(position), -1) + 1 FROM tasks WHERE project_id = $2 AND status = $5))
		RETURNING position, created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		task.ID, task.ProjectID, task.Title, task.Description, task.Status,
		task.Priority, task.AssigneeID, task.ReporterID, task.DueDate, task.ParentTaskID,
	).Scan(&task.Position, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	query := `
		SELECT t.*, a.name AS assignee_name, rp.name AS reporter_name, p.name AS project_name,
			(SELECT COUNT(*) FROM tasks WHERE parent_task_id = t.id)::int AS subtask_count,
			(SELECT COUNT(*) FROM tasks WHERE parent_task_id = t.id AND status = 'done')::int AS subtask_done_count
		FROM tasks t
		LEFT JOIN users a ON t.assignee_id = a.id
		JOIN users rp ON t.reporter_id = rp.id
		JOIN projects p ON t.project_id = p.id
		WHERE t.id = $1`

	err := r.db.GetContext(ctx, &task, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) ListByProject(ctx context.Context, projectID uuid.UUID, f domain.TaskFilter) ([]domain.Task, error) {
	where := []string{"t.project_id = $1"}
	args := []any{projectID}
	idx := 2

	if f.Status != nil {
		where = append(where, fmt.Sprintf("t.status = $%d", idx))
		args = append(args, *f.Status)
		idx++
	}
	if f.AssigneeID != nil {
		where = append(where, fmt.Sprintf("t.assignee_id = $%d", idx))
		args = append(args, *f.AssigneeID)
		idx++
	}
	if f.Priority != nil {
		where = append(where, fmt.Sprintf("t.priority = $%d", idx))
		args = append(args, *f.Priority)
		idx++
	}
	if f.Search != nil && *f.Search != "" {
		where = append(where, fmt.Sprintf("t.title ILIKE $%d", idx))
		args = append(args, "%"+*f.Search+"%")
		idx++
	}

	query := fmt.Sprintf(`
		SELECT t.*, a.name AS assignee_name, rp.name AS reporter_name,
			(SELECT COUNT(*) FROM tasks WHERE parent_task_id = t.id)::int AS subtask_count,
			(SELECT COUNT(*) FROM tasks WHERE parent_task_id = t.id AND status = 'done')::int AS subtask_done_count
		FROM tasks t
		LEFT JOIN users a ON t.assignee_id = a.id
		JOIN users rp ON t.reporter_id = rp.id
		WHERE %s
		ORDER BY t.status, t.position ASC`, strings.Join(where, " AND "))

	var tasks []domain.Task
	err := r.db.SelectContext(ctx, &tasks, query, args...)
	return tasks, err
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	query := `
		UPDATE tasks
		SET title = :title, description = :description, priority = :priority,
			assignee_id = :assignee_id, due_date = :due_date,
			parent_task_id = :parent_task_id, updated_at = NOW()
		WHERE id = :id`

	_, err := r.db.NamedExecContext(ctx, query, task)
	return err
}

// Move relocates a task on the board and keeps every affected column dense.
// The neighbours shift first and the moved row is written last, all inside
// one transaction, so no reader inside a transaction ever observes a gap or
// a duplicate position.
func (r *taskRepository) Move(ctx context.Context, id uuid.UUID, status domain.TaskStatus, position int) (*domain.Task, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var cur domain.Task
	err = tx.GetContext(ctx, &cur, `SELECT * FROM tasks WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("task not found")
	}
	if err != nil {
		return nil, err
	}

	if status == cur.Status {
		if position > cur.Position {
			// Moving down: pull the rows between the old and new slot up.
			_, err = tx.ExecContext(ctx, `
				UPDATE tasks SET position = position - 1, updated_at = NOW()
				WHERE project_id = $1 AND status = $2 AND position > $3 AND position <= $4`,
				cur.ProjectID, status, cur.Position, position)
		} else if position < cur.Position {
			// Moving up: push the rows between the new and old slot down.
			_, err = tx.ExecContext(ctx, `
				UPDATE tasks SET position = position + 1, updated_at = NOW()
				WHERE project_id = $1 AND status = $2 AND position >= $3 AND position < $4`,
				cur.ProjectID, status, position, cur.Position)
		}
		if err != nil {
			return nil, err
		}
	} else {
		// Close the gap in the old column.
		_, err = tx.ExecContext(ctx, `
			UPDATE tasks SET position = position - 1, updated_at = NOW()
			WHERE project_id = $1 AND status = $2 AND position > $3`,
			cur.ProjectID, cur.Status, cur.Position)
		if err != nil {
			return nil, err
		}
		// Open a slot in the new column.
		_, err = tx.ExecContext(ctx, `
			UPDATE tasks SET position = position + 1, updated_at = NOW()
			WHERE project_id = $1 AND status = $2 AND position >= $3`,
			cur.ProjectID, status, position)
		if err != nil {
			return nil, err
		}
	}

	err = tx.QueryRowxContext(ctx, `
		UPDATE tasks SET status = $2, position = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`, id, status, position).Scan(&cur.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	cur.Status = status
	cur.Position = position
	return &cur, nil
}

// Delete removes the task and closes the gap it leaves in its column.
// Subtasks are detached rather than cascaded.
func (r *taskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var cur domain.Task
	err = tx.GetContext(ctx, &cur, `SELECT * FROM tasks WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("task not found")
	}
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE tasks SET parent_task_id = NULL WHERE parent_task_id = $1`, id)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE tasks SET position = position - 1, updated_at = NOW()
		WHERE project_id = $1 AND status = $2 AND position > $3`,
		cur.ProjectID, cur.Status, cur.Position)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *taskRepository) ListSubtasks(ctx context.Context, parentID uuid.UUID) ([]domain.Task, error) {
	var tasks []domain.Task
	query := `
		SELECT t.*, a.name AS assignee_name
		FROM tasks t
		LEFT JOIN users a ON t.assignee_id = a.id
		WHERE t.parent_task_id = $1
		ORDER BY t.created_at ASC`

	err := r.db.SelectContext(ctx, &tasks, query, parentID)
	return tasks, err
}

func (r *taskRepository) ListByAssignee(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Task, int64, error) {
	params.Normalize()

	var total int64
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM tasks WHERE assignee_id = $1 AND status != 'done'`, userID)
	if err != nil {
		return nil, 0, err
	}

	var tasks []domain.Task
	query := `
		SELECT t.*, p.name AS project_name
		FROM tasks t
		JOIN projects p ON t.project_id = p.id
		WHERE t.assignee_id = $1 AND t.status != 'done'
		ORDER BY t.due_date ASC NULLS LAST, t.priority DESC
		LIMIT $2 OFFSET $3`

	err = r.db.SelectContext(ctx, &tasks, query, userID, params.PageSize, params.Offset())
	return tasks, total, err
}

func (r *taskRepository) MaxPosition(ctx context.Context, projectID uuid.UUID, status domain.TaskStatus) (int, error) {
	var max int
	err := r.db.GetContext(ctx, &max,
		`SELECT COALESCE(MAX(position), -1) FROM tasks WHERE project_id = $1 AND status = $2`,
		projectID, status)
	return max, err
}
