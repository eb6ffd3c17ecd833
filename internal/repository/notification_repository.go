package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"studioflow/internal/domain"
)

type NotificationRepository interface {
	CreateBulk(ctx context.Context, notifications []domain.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteOld(ctx context.Context, olderThanDays int) (int64, error)
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// CreateBulk persists a fanout batch in a single multi-row insert, so a
// partially written fanout is impossible.
func (r *notificationRepository) CreateBulk(ctx context.Context, notifications []domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	values := make([]string, 0, len(notifications))
	args := make([]any, 0, len(notifications)*7)
	for i, n := range notifications {
		base := i * 7
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		args = append(args, n.ID, n.UserID, n.Type, n.Title, n.Message, n.ReferenceID, n.ReferenceType)
	}

	query := fmt.Sprintf(`
		INSERT INTO notifications (id, user_id, type, title, message, reference_id, reference_type)
		VALUES %s`, strings.Join(values, ", "))

	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	params.Normalize()

	where := "WHERE user_id = $1"
	if unreadOnly {
		where += " AND is_read = FALSE"
	}

	var total int64
	if err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM notifications "+where, userID); err != nil {
		return nil, 0, err
	}

	var notifications []domain.Notification
	query := fmt.Sprintf(`
		SELECT * FROM notifications %s
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, where)

	err := r.db.SelectContext(ctx, &notifications, query, userID, params.PageSize, params.Offset())
	return notifications, total, err
}

func (r *notificationRepository) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID)
	return count, err
}

// MarkRead is idempotent; marking an already-read notification reports
// success without touching the row.
func (r *notificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET is_read = TRUE
		WHERE id = $1 AND user_id = $2 AND is_read = FALSE`, id, userID)
	if err != nil {
		return false, err
	}
	if n, err := res.RowsAffected(); err != nil || n > 0 {
		return n > 0, err
	}

	var exists bool
	err = r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM notifications WHERE id = $1 AND user_id = $2)`, id, userID)
	return exists, err
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *notificationRepository) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE is_read = TRUE AND created_at < NOW() - ($1 || ' days')::interval`,
		olderThanDays)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
