package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"studioflow/internal/domain"
)

type AuditService struct {
	mock.Mock
}

func (m *AuditService) Record(userID *uuid.UUID, action, entityType string, entityID *uuid.UUID, details any, ipAddress *string) {
	m.Called(userID, action, entityType, entityID, details, ipAddress)
}

func (m *AuditService) List(ctx context.Context, f domain.AuditFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error) {
	args := m.Called(ctx, f, params)
	return args.Get(0).(domain.PaginatedResponse[domain.AuditLog]), args.Error(1)
}
