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

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *domain.User) error
	UpdateRole(ctx context.Context, id uuid.UUID, role domain.GlobalRole) error
	List(ctx context.Context, role *domain.GlobalRole, search *string, params domain.PaginationParams) ([]domain.User, int64, error)
	ResolveMentions(ctx context.Context, names []string) ([]domain.User, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, role, phone, avatar_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.Phone, user.AvatarURL,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE email = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND deleted_at IS NULL)`
	err := r.db.GetContext(ctx, &exists, query, email)
	return exists, err
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET name = :name, email = :email, password_hash = :password_hash,
			phone = :phone, avatar_url = :avatar_url, updated_at = NOW()
		WHERE id = :id AND deleted_at IS NULL`

	_, err := r.db.NamedExecContext(ctx, query, user)
	return err
}

func (r *userRepository) UpdateRole(ctx context.Context, id uuid.UUID, role domain.GlobalRole) error {
	query := `
		UPDATE users SET role = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING id`

	var returned uuid.UUID
	err := r.db.QueryRowxContext(ctx, query, id, role).Scan(&returned)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("user not found")
	}
	return err
}

func (r *userRepository) List(ctx context.Context, role *domain.GlobalRole, search *string, params domain.PaginationParams) ([]domain.User, int64, error) {
	params.Normalize()

	where := []string{"deleted_at IS NULL"}
	args := []any{}
	idx := 1

	if role != nil {
		where = append(where, fmt.Sprintf("role = $%d", idx))
		args = append(args, *role)
		idx++
	}
	if search != nil && *search != "" {
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", idx, idx))
		args = append(args, "%"+*search+"%")
		idx++
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM users WHERE ` + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		`SELECT * FROM users WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		whereClause, idx, idx+1,
	)
	args = append(args, params.PageSize, params.Offset())

	var users []domain.User
	err := r.db.SelectContext(ctx, &users, query, args...)
	return users, total, err
}

// ResolveMentions matches mention strings against user names or the local
// part of the account email, case-insensitively.
func (r *userRepository) ResolveMentions(ctx context.Context, names []string) ([]domain.User, error) {
	if len(names) == 0 {
		return nil, nil
	}

	conditions := make([]string, 0, len(names))
	args := make([]any, 0, len(names))
	for i, name := range names {
		conditions = append(conditions,
			fmt.Sprintf("LOWER(name) = LOWER($%d) OR LOWER(SPLIT_PART(email, '@', 1)) = LOWER($%d)", i+1, i+1))
		args = append(args, name)
	}

	query := `
		SELECT * FROM users
		WHERE deleted_at IS NULL AND (` + strings.Join(conditions, " OR ") + `)`

	var users []domain.User
	err := r.db.SelectContext(ctx, &users, query, args...)
	return users, err
}
