package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"studioflow/internal/domain"
)

type StatsRepository interface {
	PlatformStats(ctx context.Context) (*domain.PlatformStats, error)
}

type statsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) PlatformStats(ctx context.Context) (*domain.PlatformStats, error) {
	var stats domain.PlatformStats
	query := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE deleted_at IS NULL) AS total_users,
			(SELECT COUNT(*) FROM clients) AS total_clients,
			(SELECT COUNT(*) FROM projects) AS total_projects,
			(SELECT COUNT(*) FROM projects WHERE status IN ('in_progress', 'review')) AS active_projects,
			(SELECT COUNT(*) FROM projects WHERE status = 'completed') AS completed_projects,
			(SELECT COUNT(*) FROM tasks) AS total_tasks,
			(SELECT COUNT(*) FROM tasks WHERE status != 'done') AS open_tasks,
			(SELECT COUNT(*) FROM delivery_jobs) AS total_deliveries,
			(SELECT COUNT(*) FROM delivery_jobs WHERE status = 'in_review') AS pending_reviews`

	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, err
	}
	return &stats, nil
}
