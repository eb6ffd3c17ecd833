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

type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	List(ctx context.Context, f ProjectFilter, params domain.PaginationParams) ([]domain.Project, int64, error)
	Update(ctx context.Context, project *domain.Project) error
	Archive(ctx context.Context, id uuid.UUID) error
	AddMember(ctx context.Context, projectID, userID uuid.UUID, role domain.ProjectRole) error
	RemoveMember(ctx context.Context, projectID, userID uuid.UUID) (bool, error)
	GetMembers(ctx context.Context, projectID uuid.UUID) ([]domain.ProjectMember, error)
	GetMemberRole(ctx context.Context, projectID, userID uuid.UUID) (*domain.ProjectRole, error)
	ListProjectIDsForMember(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListActiveProjectIDs(ctx context.Context) ([]uuid.UUID, error)
	Stats(ctx context.Context, projectID uuid.UUID) (*domain.ProjectStats, error)
}

// ProjectFilter narrows the listing. Scope* fields implement the role-aware
// visibility rules: members see their projects, clients see projects linked
// to their client record, admins and managers see everything.
type ProjectFilter struct {
	Status        *domain.ProjectStatus
	ClientID      *uuid.UUID
	ScopeMemberID *uuid.UUID
	ScopeClientID *uuid.UUID
}

type projectRepository struct {
	db *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// Create inserts the project and its creator's manager membership in one
// transaction, so a project never exists without its creator on the roster.
func (r *projectRepository) Create(ctx context.Context, project *domain.Project) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO projects (id, name, description, client_id, status, deadline, budget, currency, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err = tx.QueryRowxContext(ctx, query,
		project.ID, project.Name, project.Description, project.ClientID,
		project.Status, project.Deadline, project.Budget, project.Currency, project.CreatedBy,
	).Scan(&project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO project_members (project_id, user_id, role) VALUES ($1, $2, $3)`,
		project.ID, project.CreatedBy, domain.ProjectRoleManager,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *projectRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var project domain.Project
	query := `
		SELECT p.*, c.name AS client_name, u.name AS created_by_name
		FROM projects p
		LEFT JOIN clients c ON p.client_id = c.id
		JOIN users u ON p.created_by = u.id
		WHERE p.id = $1`

	err := r.db.GetContext(ctx, &project, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) List(ctx context.Context, f ProjectFilter, params domain.PaginationParams) ([]domain.Project, int64, error) {
	params.Normalize()

	where := []string{}
	args := []any{}
	idx := 1

	if f.ScopeMemberID != nil {
		where = append(where, fmt.Sprintf("p.id IN (SELECT project_id FROM project_members WHERE user_id = $%d)", idx))
		args = append(args, *f.ScopeMemberID)
		idx++
	}
	if f.ScopeClientID != nil {
		where = append(where, fmt.Sprintf(
			"p.client_id IN (SELECT id FROM clients WHERE email = (SELECT email FROM users WHERE id = $%d))", idx))
		args = append(args, *f.ScopeClientID)
		idx++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("p.status = $%d", idx))
		args = append(args, *f.Status)
		idx++
	}
	if f.ClientID != nil {
		where = append(where, fmt.Sprintf("p.client_id = $%d", idx))
		args = append(args, *f.ClientID)
		idx++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM projects p` + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT p.*, c.name AS client_name, u.name AS created_by_name,
			(SELECT COUNT(*) FROM project_members WHERE project_id = p.id)::int AS member_count,
			(SELECT COUNT(*) FROM tasks WHERE project_id = p.id)::int AS task_count,
			(SELECT COUNT(*) FROM tasks WHERE project_id = p.id AND status = 'done')::int AS done_count,
			(SELECT COUNT(*) FROM delivery_jobs WHERE project_id = p.id)::int AS delivery_count
		FROM projects p
		LEFT JOIN clients c ON p.client_id = c.id
		JOIN users u ON p.created_by = u.id%s
		ORDER BY p.updated_at DESC
		LIMIT $%d OFFSET $%d`, whereClause, idx, idx+1)
	args = append(args, params.PageSize, params.Offset())

	var projects []domain.Project
	err := r.db.SelectContext(ctx, &projects, query, args...)
	return projects, total, err
}

func (r *projectRepository) Update(ctx context.Context, project *domain.Project) error {
	query := `
		UPDATE projects
		SET name = :name, description = :description, client_id = :client_id,
			status = :status, deadline = :deadline, budget = :budget,
			currency = :currency, updated_at = NOW()
		WHERE id = :id`

	_, err := r.db.NamedExecContext(ctx, query, project)
	return err
}

func (r *projectRepository) Archive(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE projects SET status = 'archived', updated_at = NOW() WHERE id = $1`, id)
	return err
}

// AddMember upserts: re-adding an existing member changes the role instead
// of violating the (project_id, user_id) uniqueness.
func (r *projectRepository) AddMember(ctx context.Context, projectID, userID uuid.UUID, role domain.ProjectRole) error {
	query := `
		INSERT INTO project_members (project_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (project_id, user_id) DO UPDATE SET role = $3`

	_, err := r.db.ExecContext(ctx, query, projectID, userID, role)
	if isUniqueViolation(err) {
		return domain.Conflict("member already exists")
	}
	return err
}

func (r *projectRepository) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *projectRepository) GetMembers(ctx context.Context, projectID uuid.UUID) ([]domain.ProjectMember, error) {
	var members []domain.ProjectMember
	query := `
		SELECT pm.project_id, pm.user_id, pm.role, pm.joined_at,
			u.name, u.email, u.avatar_url, u.role AS global_role
		FROM project_members pm
		JOIN users u ON pm.user_id = u.id
		WHERE pm.project_id = $1
		ORDER BY pm.joined_at ASC`

	err := r.db.SelectContext(ctx, &members, query, projectID)
	return members, err
}

func (r *projectRepository) GetMemberRole(ctx context.Context, projectID, userID uuid.UUID) (*domain.ProjectRole, error) {
	var role domain.ProjectRole
	query := `SELECT role FROM project_members WHERE project_id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, &role, query, projectID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *projectRepository) ListProjectIDsForMember(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids,
		`SELECT project_id FROM project_members WHERE user_id = $1`, userID)
	return ids, err
}

func (r *projectRepository) ListActiveProjectIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids,
		`SELECT id FROM projects WHERE status != 'archived'`)
	return ids, err
}

func (r *projectRepository) Stats(ctx context.Context, projectID uuid.UUID) (*domain.ProjectStats, error) {
	var stats domain.ProjectStats

	taskQuery := `
		SELECT
			COUNT(*)::int AS total,
			COUNT(*) FILTER (WHERE status = 'todo')::int AS todo,
			COUNT(*) FILTER (WHERE status = 'in_progress')::int AS in_progress,
			COUNT(*) FILTER (WHERE status = 'review')::int AS review,
			COUNT(*) FILTER (WHERE status = 'done')::int AS done,
			COUNT(*) FILTER (WHERE due_date < NOW() AND status != 'done')::int AS overdue
		FROM tasks WHERE project_id = $1`
	if err := r.db.GetContext(ctx, &stats.Tasks, taskQuery, projectID); err != nil {
		return nil, err
	}

	deliveryQuery := `
		SELECT
			COUNT(*)::int AS total,
			COUNT(*) FILTER (WHERE status = 'pending')::int AS pending,
			COUNT(*) FILTER (WHERE status = 'uploaded')::int AS uploaded,
			COUNT(*) FILTER (WHERE status = 'in_review')::int AS in_review,
			COUNT(*) FILTER (WHERE status = 'approved')::int AS approved,
			COUNT(*) FILTER (WHERE status = 'rejected')::int AS rejected,
			COUNT(*) FILTER (WHERE status = 'revision_requested')::int AS revision_requested
		FROM delivery_jobs WHERE project_id = $1`
	if err := r.db.GetContext(ctx, &stats.Deliveries, deliveryQuery, projectID); err != nil {
		return nil, err
	}

	return &stats, nil
}
