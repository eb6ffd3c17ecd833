package service

import (
	"context"
	"io"
	"log"

	"github.com/google/uuid"

	"studioflow/internal/domain"
	"studioflow/internal/repository"
)

type DeliveryService interface {
	Create(ctx context.Context, actor *domain.User, projectID uuid.UUID, input domain.CreateDeliveryInput) (*domain.DeliveryJob, error)
	Get(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.DeliveryJob, error)
	ListByProject(ctx context.Context, actor *domain.User, projectID uuid.UUID) ([]domain.DeliveryJob, error)
	AttachFile(ctx context.Context, actor *domain.User, id uuid.UUID, fileName, contentType string, size int64, reader io.Reader) (*domain.DeliveryJob, error)
	SubmitForReview(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.DeliveryJob, error)
	Review(ctx context.Context, actor *domain.User, id uuid.UUID, verdict domain.ApprovalVerdict, input domain.ReviewInput) (*domain.Approval, error)
	Approvals(ctx context.Context, actor *domain.User, id uuid.UUID) ([]domain.Approval, error)
	DownloadURL(ctx context.Context, actor *domain.User, id uuid.UUID) (string, error)
}

type deliveryService struct {
	deliveryRepo repository.DeliveryRepository
	projectRepo  repository.ProjectRepository
	userRepo     repository.UserRepository
	accessSvc    AccessService
	notifSvc     NotificationService
	emailSvc     EmailService
	auditSvc     AuditService
	fileSvc      FileService
	logger       *log.Logger
}

func NewDeliveryService(deliveryRepo repository.DeliveryRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository, accessSvc AccessService, notifSvc NotificationService, emailSvc EmailService, auditSvc AuditService, fileSvc FileService, logger *log.Logger) DeliveryService {
	return &deliveryService{
		deliveryRepo: deliveryRepo,
		projectRepo:  projectRepo,
		userRepo:     userRepo,
		accessSvc:    accessSvc,
		notifSvc:     notifSvc,
		emailSvc:     emailSvc,
		auditSvc:     auditSvc,
		fileSvc:      fileSvc,
		logger:       logger,
	}
}

// Create opens the next delivery version for the project. Feedback on a
// rejected or revised version is answered with a fresh Create, never by
// editing the old row.
func (s *deliveryService) Create(ctx context.Context, actor *domain.User, projectID uuid.UUID, input domain.CreateDeliveryInput) (*domain.DeliveryJob, error) {
	if err := s.accessSvc.Require(ctx, actor, domain.ActionDeliveryUpload, domain.Resource{
		Type: domain.EntityDelivery, ProjectID: projectID,
	}); err != nil {
		return nil, err
	}

	if input.Title == "" {
		return nil, domain.Validation("delivery title is required")
	}

	delivery := &domain.DeliveryJob{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Title:       input.Title,
		Description: input.Description,
		Format:      input.Format,
		FileURL:     input.FileURL,
		FileSize:    input.FileSize,
		Status:      domain.DeliveryPending,
		UploadedBy:  actor.ID,
	}
	if delivery.FileURL != nil {
		delivery.Status = domain.DeliveryUploaded
	}

	if err := s.deliveryRepo.Create(ctx, delivery); err != nil {
		return nil, err
	}

	s.auditSvc.Record(&actor.ID, "delivery.create", "delivery", &delivery.ID,
		map[string]any{"title": delivery.Title, "version": delivery.Version}, nil)

	return delivery, nil
}

func (s *deliveryService) Get(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.DeliveryJob, error) {
	delivery, err := s.deliveryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if delivery == nil {
		return nil, domain.NotFound("delivery not found")
	}

	if err := s.accessSvc.Require(ctx, actor, domain.ActionDeliveryView, domain.Resource{
		Type: domain.EntityDelivery, ID: id, ProjectID: delivery.ProjectID,
	}); err != nil {
		return nil, err
	}

	return delivery, nil
}

func (s *deliveryService) ListByProject(ctx context.Context, actor *domain.User, projectID uuid.UUID) ([]domain.DeliveryJob, error) {
	if err := s.accessSvc.Require(ctx, actor, domain.ActionDeliveryView, domain.Resource{
		Type: domain.EntityDelivery, ProjectID: projectID,
	}); err != nil {
		return nil, err
	}
	return s.deliveryRepo.ListByProject(ctx, projectID)
}

func (s *deliveryService) AttachFile(ctx context.Context, actor *domain.User, id uuid.UUID, fileName, contentType string, size int64, reader io.Reader) (*domain.DeliveryJob, error) {
	delivery, err := s.deliveryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if delivery == nil {
		return nil, domain.NotFound("delivery not found")
	}

	if err := s.accessSvc.Require(ctx, actor, domain.ActionDeliveryUpdate, domain.Resource{
		Type: domain.EntityDelivery, ID: id, ProjectID: delivery.ProjectID, OwnerID: &delivery.UploadedBy,
	}); err != nil {
		return nil, err
	}

	storagePath, err := s.fileSvc.UploadDeliveryFile(ctx, delivery.ProjectID, delivery.ID, fileName, contentType, size, reader)
	if err != nil {
		return nil, err
	}

	delivery.FileURL = &storagePath
	delivery.FileSize = &size
	delivery.Status = domain.DeliveryUploaded

	if err := s.deliveryRepo.Update(ctx, delivery); err != nil {
		if rmErr := s.fileSvc.Remove(ctx, storagePath); rmErr != nil {
			s.logger.Printf("delivery: orphan cleanup %s: %v", storagePath, rmErr)
		}
		return nil, err
	}

	deliveryRef := domain.EntityDelivery
	if err := s.notifSvc.Notify(ctx, nil, NotifyEvent{
		Type:          domain.NotifDeliveryUploaded,
		Title:         "File uploaded: " + delivery.Title,
		ReferenceID:   &delivery.ID,
		ReferenceType: &deliveryRef,
		ProjectID:     &delivery.ProjectID,
		ActorID:       actor.ID,
	}); err != nil {
		s.logger.Printf("delivery: upload broadcast for %s: %v", id, err)
	}

	return delivery, nil
}

// SubmitForReview moves the delivery to in_review and asks the project's
// managers and linked client contacts to act.
func (s *deliveryService) SubmitForReview(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.DeliveryJob, error) {
	delivery, err := s.deliveryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if delivery == nil {
		return nil, domain.NotFound("delivery not found")
	}

	if err := s.accessSvc.Require(ctx, actor, domain.ActionDeliveryUpdate, domain.Resource{
		Type: domain.EntityDelivery, ID: id, ProjectID: delivery.ProjectID, OwnerID: &delivery.UploadedBy,
	}); err != nil {
		return nil, err
	}

	if delivery.FileURL == nil {
		return nil, domain.Validation("delivery has no file attached")
	}

	if err := s.deliveryRepo.UpdateStatus(ctx, id, domain.DeliveryInReview); err != nil {
		return nil, err
	}
	delivery.Status = domain.DeliveryInReview

	reviewers, err := s.reviewerIDs(ctx, delivery.ProjectID)
	if err != nil {
		s.logger.Printf("delivery: resolve reviewers for %s: %v", delivery.ProjectID, err)
	}

	deliveryRef := domain.EntityDelivery
	if err := s.notifSvc.Notify(ctx, reviewers, NotifyEvent{
		Type:          domain.NotifApprovalRequested,
		Title:         "Review requested: " + delivery.Title,
		ReferenceID:   &delivery.ID,
		ReferenceType: &deliveryRef,
		ProjectID:     &delivery.ProjectID,
		ActorID:       actor.ID,
	}); err != nil {
		s.logger.Printf("delivery: review-request notification for %s: %v", id, err)
	}

	return delivery, nil
}

// Review appends an immutable approval record and moves the status
// projection, atomically. Rejections and revision requests must carry
// comments; feedback is the only signal driving the next version. There is
// no status gate and no compare-and-swap: two reviewers racing both keep
// their approval rows and the last status write wins.
func (s *deliveryService) Review(ctx context.Context, actor *domain.User, id uuid.UUID, verdict domain.ApprovalVerdict, input domain.ReviewInput) (*domain.Approval, error) {
	delivery, err := s.deliveryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if delivery == nil {
		return nil, domain.NotFound("delivery not found")
	}

	if err := s.accessSvc.Require(ctx, actor, domain.ActionDeliveryReview, domain.Resource{
		Type: domain.EntityDelivery, ID: id, ProjectID: delivery.ProjectID,
	}); err != nil {
		return nil, err
	}

	if verdict != domain.VerdictApproved {
		if input.Comments == nil || *input.Comments == "" {
			return nil, domain.Validation("comments are required when rejecting or requesting revision")
		}
	}

	approval := &domain.Approval{
		ID:         uuid.New(),
		DeliveryID: id,
		Verdict:    verdict,
		ReviewerID: actor.ID,
		Comments:   input.Comments,
	}

	if err := s.deliveryRepo.Review(ctx, approval, verdict.StatusFor()); err != nil {
		return nil, err
	}

	deliveryRef := domain.EntityDelivery
	if err := s.notifSvc.Notify(ctx, []uuid.UUID{delivery.UploadedBy}, NotifyEvent{
		Type:          domain.NotifApprovalResult,
		Title:         "Delivery " + string(verdict.StatusFor()) + ": " + delivery.Title,
		Message:       input.Comments,
		ReferenceID:   &delivery.ID,
		ReferenceType: &deliveryRef,
		ProjectID:     &delivery.ProjectID,
		ActorID:       actor.ID,
	}); err != nil {
		s.logger.Printf("delivery: review notification for %s: %v", id, err)
	}

	go s.emailReviewResult(delivery, verdict)

	s.auditSvc.Record(&actor.ID, "delivery.review", "delivery", &id,
		map[string]any{"verdict": verdict, "version": delivery.Version}, nil)

	return approval, nil
}

func (s *deliveryService) Approvals(ctx context.Context, actor *domain.User, id uuid.UUID) ([]domain.Approval, error) {
	delivery, err := s.deliveryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if delivery == nil {
		return nil, domain.NotFound("delivery not found")
	}

	if err := s.accessSvc.Require(ctx, actor, domain.ActionDeliveryView, domain.Resource{
		Type: domain.EntityDelivery, ID: id, ProjectID: delivery.ProjectID,
	}); err != nil {
		return nil, err
	}

	return s.deliveryRepo.ListApprovals(ctx, id)
}

func (s *deliveryService) DownloadURL(ctx context.Context, actor *domain.User, id uuid.UUID) (string, error) {
	delivery, err := s.deliveryRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if delivery == nil {
		return "", domain.NotFound("delivery not found")
	}

	if err := s.accessSvc.Require(ctx, actor, domain.ActionDeliveryView, domain.Resource{
		Type: domain.EntityDelivery, ID: id, ProjectID: delivery.ProjectID,
	}); err != nil {
		return "", err
	}

	if delivery.FileURL == nil {
		return "", domain.NotFound("delivery has no file attached")
	}

	return s.fileSvc.PresignDownload(ctx, *delivery.FileURL, delivery.Title)
}

func (s *deliveryService) reviewerIDs(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error) {
	members, err := s.projectRepo.GetMembers(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	for _, m := range members {
		if m.Role == domain.ProjectRoleManager {
			ids = append(ids, m.UserID)
		}
	}
	return ids, nil
}

func (s *deliveryService) emailReviewResult(delivery *domain.DeliveryJob, verdict domain.ApprovalVerdict) {
	uploader, err := s.userRepo.GetByID(context.Background(), delivery.UploadedBy)
	if err != nil || uploader == nil {
		s.logger.Printf("delivery: resolve uploader %s: %v", delivery.UploadedBy, err)
		return
	}
	if err := s.emailSvc.SendReviewResultEmail(context.Background(), uploader.Email, uploader.Name, delivery.Title, string(verdict)); err != nil {
		s.logger.Printf("delivery: review email to %s: %v", uploader.Email, err)
	}
}
