package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"studioflow/internal/domain"
)

type DeliveryRepository interface {
	Create(ctx context.Context, delivery *domain.DeliveryJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DeliveryJob, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.DeliveryJob, error)
	Update(ctx context.Context, delivery *domain.DeliveryJob) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DeliveryStatus) error
	Review(ctx context.Context, approval *domain.Approval, status domain.DeliveryStatus) error
	ListApprovals(ctx context.Context, deliveryID uuid.UUID) ([]domain.Approval, error)
	ListPendingReview(ctx context.Context, projectIDs []uuid.UUID) ([]domain.DeliveryJob, error)
}

type deliveryRepository struct {
	db *sqlx.DB
}

func NewDeliveryRepository(db *sqlx.DB) DeliveryRepository {
	return &deliveryRepository{db: db}
}

// Create assigns the next version number for the project inside the insert
// itself. Two concurrent uploads for the same project can still race to the
// same version under read committed; the unique (project_id, version) index
// rejects the loser, which is surfaced as a conflict for the caller to retry.
func (r *deliveryRepository) Create(ctx context.Context, delivery *domain.DeliveryJob) error {
	query := `
		INSERT INTO delivery_jobs (id, project_id, title, description, format,
			file_url, file_size, status, uploaded_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9,
			(SELECT COALESCE(MAX(version), 0) + 1 FROM delivery_jobs WHERE project_id = $2))
		RETURNING version, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		delivery.ID, delivery.ProjectID, delivery.Title, delivery.Description,
		delivery.Format, delivery.FileURL, delivery.FileSize, delivery.Status, delivery.UploadedBy,
	).Scan(&delivery.Version, &delivery.CreatedAt, &delivery.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.Conflict("concurrent upload assigned the same version, retry")
	}
	return err
}

func (r *deliveryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DeliveryJob, error) {
	var delivery domain.DeliveryJob
	query := `
		SELECT d.*, up.name AS uploaded_by_name, rv.name AS reviewed_by_name, p.name AS project_name,
			(SELECT COUNT(*) FROM approvals WHERE delivery_id = d.id)::int AS approval_count
		FROM delivery_jobs d
		JOIN users up ON d.uploaded_by = up.id
		LEFT JOIN users rv ON d.reviewed_by = rv.id
		JOIN projects p ON d.project_id = p.id
		WHERE d.id = $1`

	err := r.db.GetContext(ctx, &delivery, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

func (r *deliveryRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.DeliveryJob, error) {
	var deliveries []domain.DeliveryJob
	query := `
		SELECT d.*, up.name AS uploaded_by_name, rv.name AS reviewed_by_name,
			(SELECT COUNT(*) FROM approvals WHERE delivery_id = d.id)::int AS approval_count
		FROM delivery_jobs d
		JOIN users up ON d.uploaded_by = up.id
		LEFT JOIN users rv ON d.reviewed_by = rv.id
		WHERE d.project_id = $1
		ORDER BY d.version DESC`

	err := r.db.SelectContext(ctx, &deliveries, query, projectID)
	return deliveries, err
}

func (r *deliveryRepository) Update(ctx context.Context, delivery *domain.DeliveryJob) error {
	query := `
		UPDATE delivery_jobs
		SET title = :title, description = :description, format = :format,
			file_url = :file_url, file_size = :file_size, status = :status,
			updated_at = NOW()
		WHERE id = :id`

	_, err := r.db.NamedExecContext(ctx, query, delivery)
	return err
}

func (r *deliveryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DeliveryStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE delivery_jobs SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound("delivery not found")
	}
	return nil
}

// Review appends the approval record and updates the delivery's status
// projection in one transaction. The history row and the status write
// commit together or not at all; concurrent reviews each keep their
// approval row and the last committed status wins.
func (r *deliveryRepository) Review(ctx context.Context, approval *domain.Approval, status domain.DeliveryStatus) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowxContext(ctx, `
		INSERT INTO approvals (id, delivery_id, verdict, reviewer_id, comments)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		approval.ID, approval.DeliveryID, approval.Verdict, approval.ReviewerID, approval.Comments,
	).Scan(&approval.CreatedAt)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE delivery_jobs
		SET status = $2, reviewed_by = $3, review_notes = $4, updated_at = NOW()
		WHERE id = $1`,
		approval.DeliveryID, status, approval.ReviewerID, approval.Comments)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound("delivery not found")
	}

	return tx.Commit()
}

func (r *deliveryRepository) ListApprovals(ctx context.Context, deliveryID uuid.UUID) ([]domain.Approval, error) {
	var approvals []domain.Approval
	query := `
		SELECT a.*, u.name AS reviewer_name, u.avatar_url AS reviewer_avatar
		FROM approvals a
		JOIN users u ON a.reviewer_id = u.id
		WHERE a.delivery_id = $1
		ORDER BY a.created_at DESC`

	err := r.db.SelectContext(ctx, &approvals, query, deliveryID)
	return approvals, err
}

func (r *deliveryRepository) ListPendingReview(ctx context.Context, projectIDs []uuid.UUID) ([]domain.DeliveryJob, error) {
	if len(projectIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT d.*, up.name AS uploaded_by_name, p.name AS project_name
		FROM delivery_jobs d
		JOIN users up ON d.uploaded_by = up.id
		JOIN projects p ON d.project_id = p.id
		WHERE d.project_id IN (?) AND d.status = 'in_review'
		ORDER BY d.updated_at ASC`, projectIDs)
	if err != nil {
		return nil, err
	}

	var deliveries []domain.DeliveryJob
	err = r.db.SelectContext(ctx, &deliveries, r.db.Rebind(query), args...)
	return deliveries, err
}
