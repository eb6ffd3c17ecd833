package service_test

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"studioflow/internal/domain"
	"studioflow/internal/mocks"
	"studioflow/internal/realtime"
	"studioflow/internal/service"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestNotificationService_Notify(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()

	t.Run("Actor Is Excluded And Duplicates Collapse", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		svc := service.NewNotificationService(notifRepo, realtime.NewHub(testLogger()), testLogger())

		a := uuid.New()
		b := uuid.New()
		recipients := []uuid.UUID{a, a, actorID, b, a}

		notifRepo.On("CreateBulk", ctx, mock.MatchedBy(func(batch []domain.Notification) bool {
			if len(batch) != 2 {
				return false
			}
			for _, n := range batch {
				if n.UserID == actorID {
					return false
				}
			}
			return batch[0].UserID == a && batch[1].UserID == b
		})).Return(nil).Once()

		err := svc.Notify(ctx, recipients, service.NotifyEvent{
			Type:    domain.NotifTaskAssigned,
			Title:   "New task: cut the trailer",
			ActorID: actorID,
		})

		assert.NoError(t, err)
		notifRepo.AssertExpectations(t)
	})

	t.Run("Actor Only Batch Writes Nothing But Succeeds", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		svc := service.NewNotificationService(notifRepo, realtime.NewHub(testLogger()), testLogger())

		notifRepo.On("CreateBulk", ctx, mock.MatchedBy(func(batch []domain.Notification) bool {
			return len(batch) == 0
		})).Return(nil).Once()

		err := svc.Notify(ctx, []uuid.UUID{actorID}, service.NotifyEvent{
			Type:    domain.NotifComment,
			Title:   "New comment",
			ActorID: actorID,
		})

		assert.NoError(t, err)
		notifRepo.AssertExpectations(t)
	})
}

func TestNotificationService_MarkRead(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	notifID := uuid.New()

	t.Run("Marking Twice Succeeds Both Times", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		svc := service.NewNotificationService(notifRepo, realtime.NewHub(testLogger()), testLogger())

		notifRepo.On("MarkRead", ctx, notifID, userID).Return(true, nil).Twice()

		assert.NoError(t, svc.MarkRead(ctx, notifID, userID))
		assert.NoError(t, svc.MarkRead(ctx, notifID, userID))
		notifRepo.AssertExpectations(t)
	})

	t.Run("Someone Else's Notification Is A Miss", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		svc := service.NewNotificationService(notifRepo, realtime.NewHub(testLogger()), testLogger())

		notifRepo.On("MarkRead", ctx, notifID, userID).Return(false, nil).Once()

		err := svc.MarkRead(ctx, notifID, userID)

		var domErr *domain.Error
		assert.ErrorAs(t, err, &domErr)
		assert.Equal(t, domain.KindNotFound, domErr.Kind)
	})
}

func TestNotificationService_List(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	notifRepo := new(mocks.NotificationRepository)
	svc := service.NewNotificationService(notifRepo, realtime.NewHub(testLogger()), testLogger())

	rows := []domain.Notification{{ID: uuid.New(), UserID: userID, IsRead: false}}
	notifRepo.On("ListByUser", ctx, userID, true, mock.AnythingOfType("domain.PaginationParams")).
		Return(rows, int64(1), nil).Once()

	resp, err := svc.List(ctx, userID, true, domain.PaginationParams{Page: 1, PageSize: 20})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), resp.TotalItems)
	assert.Len(t, resp.Data, 1)
}
