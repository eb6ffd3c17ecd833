package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"studioflow/internal/domain"
)

type DeliveryRepository struct {
	mock.Mock
}

func (m *DeliveryRepository) Create(ctx context.Context, delivery *domain.DeliveryJob) error {
	args := m.Called(ctx, delivery)
	return args.Error(0)
}

func (m *DeliveryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DeliveryJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeliveryJob), args.Error(1)
}

func (m *DeliveryRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.DeliveryJob, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DeliveryJob), args.Error(1)
}

func (m *DeliveryRepository) Update(ctx context.Context, delivery *domain.DeliveryJob) error {
	args := m.Called(ctx, delivery)
	return args.Error(0)
}

func (m *DeliveryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DeliveryStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *DeliveryRepository) Review(ctx context.Context, approval *domain.Approval, status domain.DeliveryStatus) error {
	args := m.Called(ctx, approval, status)
	return args.Error(0)
}

func (m *DeliveryRepository) ListApprovals(ctx context.Context, deliveryID uuid.UUID) ([]domain.Approval, error) {
	args := m.Called(ctx, deliveryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Approval), args.Error(1)
}

func (m *DeliveryRepository) ListPendingReview(ctx context.Context, projectIDs []uuid.UUID) ([]domain.DeliveryJob, error) {
	args := m.Called(ctx, projectIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DeliveryJob), args.Error(1)
}
