package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"studioflow/internal/domain"
)

type AccessService struct {
	mock.Mock
}

func (m *AccessService) Resolve(ctx context.Context, actorID uuid.UUID, projectID *uuid.UUID) (*domain.AccessContext, error) {
	args := m.Called(ctx, actorID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessContext), args.Error(1)
}

func (m *AccessService) CanPerform(ctx context.Context, actor *domain.User, action domain.Action, resource domain.Resource) (domain.Verdict, error) {
	args := m.Called(ctx, actor, action, resource)
	return args.Get(0).(domain.Verdict), args.Error(1)
}

func (m *AccessService) Require(ctx context.Context, actor *domain.User, action domain.Action, resource domain.Resource) error {
	args := m.Called(ctx, actor, action, resource)
	return args.Error(0)
}
