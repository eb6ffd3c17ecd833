package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"studioflow/internal/domain"
	"studioflow/internal/mocks"
	"studioflow/internal/service"
)

type deliveryFixture struct {
	deliveryRepo *mocks.DeliveryRepository
	projectRepo  *mocks.ProjectRepository
	userRepo     *mocks.UserRepository
	accessSvc    *mocks.AccessService
	notifSvc     *mocks.NotificationService
	emailSvc     *mocks.EmailService
	auditSvc     *mocks.AuditService
	fileSvc      *mocks.FileService
	svc          service.DeliveryService
}

func newDeliveryFixture() *deliveryFixture {
	f := &deliveryFixture{
		deliveryRepo: new(mocks.DeliveryRepository),
		projectRepo:  new(mocks.ProjectRepository),
		userRepo:     new(mocks.UserRepository),
		accessSvc:    new(mocks.AccessService),
		notifSvc:     new(mocks.NotificationService),
		emailSvc:     new(mocks.EmailService),
		auditSvc:     new(mocks.AuditService),
		fileSvc:      new(mocks.FileService),
	}
	f.svc = service.NewDeliveryService(f.deliveryRepo, f.projectRepo, f.userRepo, f.accessSvc, f.notifSvc, f.emailSvc, f.auditSvc, f.fileSvc, testLogger())
	return f
}

// allowAll short-circuits authorization so the test exercises the workflow
// itself.
func (f *deliveryFixture) allowAll() {
	f.accessSvc.On("Require", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
}

func (f *deliveryFixture) quietSideEffects() {
	f.auditSvc.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Maybe()
	f.userRepo.On("GetByID", mock.Anything, mock.Anything).Return(nil, nil).Maybe()
	f.emailSvc.On("SendReviewResultEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
}

func TestDeliveryService_Create(t *testing.T) {
	ctx := context.Background()
	actor := &domain.User{ID: uuid.New(), Role: domain.RoleEditor}
	projectID := uuid.New()

	t.Run("Without File Starts Pending", func(t *testing.T) {
		f := newDeliveryFixture()
		f.allowAll()
		f.quietSideEffects()
		f.deliveryRepo.On("Create", ctx, mock.MatchedBy(func(d *domain.DeliveryJob) bool {
			return d.ProjectID == projectID && d.Status == domain.DeliveryPending && d.UploadedBy == actor.ID
		})).Return(nil).Once()

		delivery, err := f.svc.Create(ctx, actor, projectID, domain.CreateDeliveryInput{Title: "Final cut"})

		assert.NoError(t, err)
		assert.Equal(t, domain.DeliveryPending, delivery.Status)
		f.deliveryRepo.AssertExpectations(t)
	})

	t.Run("With File Starts Uploaded", func(t *testing.T) {
		f := newDeliveryFixture()
		f.allowAll()
		f.quietSideEffects()
		fileURL := "deliveries/abc/final.mp4"
		f.deliveryRepo.On("Create", ctx, mock.MatchedBy(func(d *domain.DeliveryJob) bool {
			return d.Status == domain.DeliveryUploaded
		})).Return(nil).Once()

		delivery, err := f.svc.Create(ctx, actor, projectID, domain.CreateDeliveryInput{Title: "Final cut", FileURL: &fileURL})

		assert.NoError(t, err)
		assert.Equal(t, domain.DeliveryUploaded, delivery.Status)
	})

	t.Run("Empty Title Rejected", func(t *testing.T) {
		f := newDeliveryFixture()
		f.allowAll()

		delivery, err := f.svc.Create(ctx, actor, projectID, domain.CreateDeliveryInput{})

		assert.Nil(t, delivery)
		var domErr *domain.Error
		assert.ErrorAs(t, err, &domErr)
		assert.Equal(t, domain.KindValidation, domErr.Kind)
		f.deliveryRepo.AssertNotCalled(t, "Create")
	})
}

func TestDeliveryService_Review(t *testing.T) {
	ctx := context.Background()
	reviewer := &domain.User{ID: uuid.New(), Role: domain.RoleManager}
	uploaderID := uuid.New()
	projectID := uuid.New()
	deliveryID := uuid.New()

	existing := &domain.DeliveryJob{
		ID:         deliveryID,
		ProjectID:  projectID,
		Title:      "Final cut",
		Version:    3,
		Status:     domain.DeliveryInReview,
		UploadedBy: uploaderID,
	}

	t.Run("Rejection Persists Verdict And Notifies Uploader", func(t *testing.T) {
		f := newDeliveryFixture()
		f.allowAll()
		f.quietSideEffects()
		comments := "color grade is off in the second act"

		f.deliveryRepo.On("GetByID", ctx, deliveryID).Return(existing, nil).Once()
		f.deliveryRepo.On("Review", ctx, mock.MatchedBy(func(a *domain.Approval) bool {
			return a.DeliveryID == deliveryID &&
				a.Verdict == domain.VerdictRejected &&
				a.ReviewerID == reviewer.ID &&
				a.Comments != nil && *a.Comments == comments
		}), domain.DeliveryRejected).Return(nil).Once()
		f.notifSvc.On("Notify", ctx, []uuid.UUID{uploaderID}, mock.MatchedBy(func(e service.NotifyEvent) bool {
			return e.Type == domain.NotifApprovalResult && e.ActorID == reviewer.ID
		})).Return(nil).Once()

		approval, err := f.svc.Review(ctx, reviewer, deliveryID, domain.VerdictRejected, domain.ReviewInput{Comments: &comments})

		assert.NoError(t, err)
		assert.Equal(t, domain.VerdictRejected, approval.Verdict)
		f.deliveryRepo.AssertExpectations(t)
		f.notifSvc.AssertExpectations(t)
	})

	t.Run("Rejection Without Comments Is Invalid", func(t *testing.T) {
		f := newDeliveryFixture()
		f.allowAll()
		f.deliveryRepo.On("GetByID", ctx, deliveryID).Return(existing, nil).Once()

		approval, err := f.svc.Review(ctx, reviewer, deliveryID, domain.VerdictRejected, domain.ReviewInput{})

		assert.Nil(t, approval)
		var domErr *domain.Error
		assert.ErrorAs(t, err, &domErr)
		assert.Equal(t, domain.KindValidation, domErr.Kind)
		f.deliveryRepo.AssertNotCalled(t, "Review")
	})

	t.Run("Revision Request With Empty Comments Is Invalid", func(t *testing.T) {
		f := newDeliveryFixture()
		f.allowAll()
		empty := ""
		f.deliveryRepo.On("GetByID", ctx, deliveryID).Return(existing, nil).Once()

		_, err := f.svc.Review(ctx, reviewer, deliveryID, domain.VerdictRevision, domain.ReviewInput{Comments: &empty})

		var domErr *domain.Error
		assert.ErrorAs(t, err, &domErr)
		assert.Equal(t, domain.KindValidation, domErr.Kind)
		f.deliveryRepo.AssertNotCalled(t, "Review")
	})

	t.Run("Approval Needs No Comments", func(t *testing.T) {
		f := newDeliveryFixture()
		f.allowAll()
		f.quietSideEffects()
		f.deliveryRepo.On("GetByID", ctx, deliveryID).Return(existing, nil).Once()
		f.deliveryRepo.On("Review", ctx, mock.MatchedBy(func(a *domain.Approval) bool {
			return a.Verdict == domain.VerdictApproved && a.Comments == nil
		}), domain.DeliveryApproved).Return(nil).Once()
		f.notifSvc.On("Notify", ctx, []uuid.UUID{uploaderID}, mock.Anything).Return(nil).Once()

		approval, err := f.svc.Review(ctx, reviewer, deliveryID, domain.VerdictApproved, domain.ReviewInput{})

		assert.NoError(t, err)
		assert.Equal(t, domain.VerdictApproved, approval.Verdict)
	})

	t.Run("Missing Delivery", func(t *testing.T) {
		f := newDeliveryFixture()
		f.deliveryRepo.On("GetByID", ctx, deliveryID).Return(nil, nil).Once()

		_, err := f.svc.Review(ctx, reviewer, deliveryID, domain.VerdictApproved, domain.ReviewInput{})

		var domErr *domain.Error
		assert.ErrorAs(t, err, &domErr)
		assert.Equal(t, domain.KindNotFound, domErr.Kind)
	})
}

func TestDeliveryService_SubmitForReview(t *testing.T) {
	ctx := context.Background()
	actor := &domain.User{ID: uuid.New(), Role: domain.RoleEditor}
	projectID := uuid.New()
	deliveryID := uuid.New()
	managerID := uuid.New()

	t.Run("No File Attached", func(t *testing.T) {
		f := newDeliveryFixture()
		f.allowAll()
		f.deliveryRepo.On("GetByID", ctx, deliveryID).Return(&domain.DeliveryJob{
			ID: deliveryID, ProjectID: projectID, UploadedBy: actor.ID, Status: domain.DeliveryPending,
		}, nil).Once()

		_, err := f.svc.SubmitForReview(ctx, actor, deliveryID)

		var domErr *domain.Error
		assert.ErrorAs(t, err, &domErr)
		assert.Equal(t, domain.KindValidation, domErr.Kind)
		f.deliveryRepo.AssertNotCalled(t, "UpdateStatus")
	})

	t.Run("Project Managers Are Asked To Review", func(t *testing.T) {
		f := newDeliveryFixture()
		f.allowAll()
		fileURL := "deliveries/x/final.mp4"
		f.deliveryRepo.On("GetByID", ctx, deliveryID).Return(&domain.DeliveryJob{
			ID: deliveryID, ProjectID: projectID, Title: "Final cut",
			FileURL: &fileURL, UploadedBy: actor.ID, Status: domain.DeliveryUploaded,
		}, nil).Once()
		f.deliveryRepo.On("UpdateStatus", ctx, deliveryID, domain.DeliveryInReview).Return(nil).Once()
		f.projectRepo.On("GetMembers", ctx, projectID).Return([]domain.ProjectMember{
			{UserID: managerID, Role: domain.ProjectRoleManager},
			{UserID: uuid.New(), Role: domain.ProjectRoleEditor},
		}, nil).Once()
		f.notifSvc.On("Notify", ctx, []uuid.UUID{managerID}, mock.MatchedBy(func(e service.NotifyEvent) bool {
			return e.Type == domain.NotifApprovalRequested
		})).Return(nil).Once()

		delivery, err := f.svc.SubmitForReview(ctx, actor, deliveryID)

		assert.NoError(t, err)
		assert.Equal(t, domain.DeliveryInReview, delivery.Status)
		f.notifSvc.AssertExpectations(t)
	})
}
