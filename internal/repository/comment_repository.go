package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"studioflow/internal/domain"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	ListByEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID) ([]domain.Comment, error)
	Update(ctx context.Context, id uuid.UUID, content string) (*domain.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	ResolveProjectID(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID) (*uuid.UUID, error)
}

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO comments (id, entity_type, entity_id, user_id, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		comment.ID, comment.EntityType, comment.EntityID, comment.UserID, comment.Content,
	).Scan(&comment.CreatedAt, &comment.UpdatedAt)
}

func (r *commentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var comment domain.Comment
	query := `
		SELECT c.*, u.name AS user_name, u.avatar_url AS user_avatar
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.id = $1`

	err := r.db.GetContext(ctx, &comment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID) ([]domain.Comment, error) {
	var comments []domain.Comment
	query := `
		SELECT c.*, u.name AS user_name, u.avatar_url AS user_avatar
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.entity_type = $1 AND c.entity_id = $2
		ORDER BY c.created_at ASC`

	err := r.db.SelectContext(ctx, &comments, query, entityType, entityID)
	return comments, err
}

func (r *commentRepository) Update(ctx context.Context, id uuid.UUID, content string) (*domain.Comment, error) {
	var comment domain.Comment
	query := `
		UPDATE comments SET content = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING *`

	err := r.db.GetContext(ctx, &comment, query, id, content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("comment not found")
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ResolveProjectID maps a polymorphic comment target to its owning project.
// Projects are their own project; tasks and deliveries carry a project_id.
// Returns nil when the target row does not exist.
func (r *commentRepository) ResolveProjectID(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID) (*uuid.UUID, error) {
	var query string
	switch entityType {
	case domain.EntityProject:
		query = `SELECT id FROM projects WHERE id = $1`
	case domain.EntityTask:
		query = `SELECT project_id FROM tasks WHERE id = $1`
	case domain.EntityDelivery:
		query = `SELECT project_id FROM delivery_jobs WHERE id = $1`
	default:
		return nil, domain.Validation("unknown entity type %q", entityType)
	}

	var projectID uuid.UUID
	err := r.db.GetContext(ctx, &projectID, query, entityID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &projectID, nil
}
