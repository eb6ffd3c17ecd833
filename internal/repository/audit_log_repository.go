package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"studioflow/internal/domain"
)

type AuditLogRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
	List(ctx context.Context, f domain.AuditFilter, params domain.PaginationParams) ([]domain.AuditLog, int64, error)
}

type auditLogRepository struct {
	db *sqlx.DB
}

func NewAuditLogRepository(db *sqlx.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, user_id, action, entity_type, entity_id, details, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.Action, entry.EntityType,
		entry.EntityID, entry.Details, entry.IPAddress)
	return err
}

func (r *auditLogRepository) List(ctx context.Context, f domain.AuditFilter, params domain.PaginationParams) ([]domain.AuditLog, int64, error) {
	params.Normalize()

	where := []string{}
	args := []any{}
	idx := 1

	if f.UserID != nil {
		where = append(where, fmt.Sprintf("l.user_id = $%d", idx))
		args = append(args, *f.UserID)
		idx++
	}
	if f.Action != nil {
		where = append(where, fmt.Sprintf("l.action = $%d", idx))
		args = append(args, *f.Action)
		idx++
	}
	if f.EntityType != nil {
		where = append(where, fmt.Sprintf("l.entity_type = $%d", idx))
		args = append(args, *f.EntityType)
		idx++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM audit_logs l"+whereClause, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT l.*, u.name AS user_name, u.email AS user_email
		FROM audit_logs l
		LEFT JOIN users u ON l.user_id = u.id%s
		ORDER BY l.created_at DESC
		LIMIT $%d OFFSET $%d`, whereClause, idx, idx+1)
	args = append(args, params.PageSize, params.Offset())

	var logs []domain.AuditLog
	err := r.db.SelectContext(ctx, &logs, query, args...)
	return logs, total, err
}
