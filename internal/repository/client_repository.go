package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"studioflow/internal/domain"
)

type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	List(ctx context.Context, search *string, params domain.PaginationParams) ([]domain.Client, int64, error)
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListProjects(ctx context.Context, clientID uuid.UUID) ([]domain.Project, error)
	IsUserClientOfProject(ctx context.Context, projectID, userID uuid.UUID) (bool, error)
	ListProjectIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type clientRepository struct {
	db *sqlx.DB
}

func NewClientRepository(db *sqlx.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO clients (id, name, email, phone, company, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		client.ID, client.Name, client.Email, client.Phone, client.Company, client.Notes, client.CreatedBy,
	).Scan(&client.CreatedAt, &client.UpdatedAt)
}

func (r *clientRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	var client domain.Client
	query := `
		SELECT c.*, u.name AS created_by_name
		FROM clients c
		JOIN users u ON c.created_by = u.id
		WHERE c.id = $1`

	err := r.db.GetContext(ctx, &client, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) List(ctx context.Context, search *string, params domain.PaginationParams) ([]domain.Client, int64, error) {
	params.Normalize()

	where := ""
	args := []any{}
	idx := 1

	if search != nil && *search != "" {
		where = ` WHERE c.name ILIKE $1 OR c.email ILIKE $1 OR c.company ILIKE $1`
		args = append(args, "%"+*search+"%")
		idx++
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM clients c` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT c.*, u.name AS created_by_name,
			(SELECT COUNT(*) FROM projects WHERE client_id = c.id)::int AS project_count
		FROM clients c
		JOIN users u ON c.created_by = u.id%s
		ORDER BY c.created_at DESC
		LIMIT $%d OFFSET $%d`, where, idx, idx+1)
	args = append(args, params.PageSize, params.Offset())

	var clients []domain.Client
	err := r.db.SelectContext(ctx, &clients, query, args...)
	return clients, total, err
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	query := `
		UPDATE clients
		SET name = :name, email = :email, phone = :phone, company = :company,
			notes = :notes, updated_at = NOW()
		WHERE id = :id`

	_, err := r.db.NamedExecContext(ctx, query, client)
	return err
}

func (r *clientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	return err
}

func (r *clientRepository) ListProjects(ctx context.Context, clientID uuid.UUID) ([]domain.Project, error) {
	var projects []domain.Project
	query := `
		SELECT p.* FROM projects p
		WHERE p.client_id = $1
		ORDER BY p.created_at DESC`

	err := r.db.SelectContext(ctx, &projects, query, clientID)
	return projects, err
}

// IsUserClientOfProject computes the derived client linkage: the user's
// account email matches the email of the client record the project is
// linked to. It is recomputed every time, never cached as a membership row.
func (r *clientRepository) IsUserClientOfProject(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	var linked bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM projects p
			JOIN clients c ON p.client_id = c.id
			JOIN users u ON u.email = c.email
			WHERE p.id = $1 AND u.id = $2
		)`

	err := r.db.GetContext(ctx, &linked, query, projectID, userID)
	return linked, err
}

func (r *clientRepository) ListProjectIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `
		SELECT p.id FROM projects p
		JOIN clients c ON p.client_id = c.id
		JOIN users u ON u.email = c.email
		WHERE u.id = $1`

	err := r.db.SelectContext(ctx, &ids, query, userID)
	return ids, err
}
