package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"

	"studioflow/internal/domain"
	"studioflow/internal/repository"
)

type AuditService interface {
	Record(userID *uuid.UUID, action, entityType string, entityID *uuid.UUID, details any, ipAddress *string)
	List(ctx context.Context, f domain.AuditFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error)
}

type auditService struct {
	auditRepo repository.AuditLogRepository
	logger    *log.Logger
}

func NewAuditService(auditRepo repository.AuditLogRepository, logger *log.Logger) AuditService {
	return &auditService{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// Record writes the audit entry asynchronously. A failed write is logged
// and dropped; the audit trail never aborts the operation it observes.
func (s *auditService) Record(userID *uuid.UUID, action, entityType string, entityID *uuid.UUID, details any, ipAddress *string) {
	entry := &domain.AuditLog{
		ID:         uuid.New(),
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		IPAddress:  ipAddress,
	}

	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			s.logger.Printf("audit: marshal details for %s: %v", action, err)
		} else {
			entry.Details = raw
		}
	}

	go func() {
		if err := s.auditRepo.Create(context.Background(), entry); err != nil {
			s.logger.Printf("audit: record %s %s: %v", action, entityType, err)
		}
	}()
}

func (s *auditService) List(ctx context.Context, f domain.AuditFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error) {
	params.Normalize()
	logs, total, err := s.auditRepo.List(ctx, f, params)
	if err != nil {
		return domain.PaginatedResponse[domain.AuditLog]{}, err
	}
	return domain.NewPaginatedResponse(logs, params.Page, params.PageSize, total), nil
}
