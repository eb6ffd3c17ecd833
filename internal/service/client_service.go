package service

import (
	"context"

	"github.com/google/uuid"

	"studioflow/internal/domain"
	"studioflow/internal/repository"
)

type ClientService interface {
	Create(ctx context.Context, actor *domain.User, input domain.CreateClientInput) (*domain.Client, error)
	Get(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Client, error)
	List(ctx context.Context, actor *domain.User, search *string, params domain.PaginationParams) (domain.PaginatedResponse[domain.Client], error)
	Update(ctx context.Context, actor *domain.User, id uuid.UUID, input domain.UpdateClientInput) (*domain.Client, error)
	Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error
	Projects(ctx context.Context, actor *domain.User, id uuid.UUID) ([]domain.Project, error)
}

type clientService struct {
	clientRepo repository.ClientRepository
	accessSvc  AccessService
	auditSvc   AuditService
}

func NewClientService(clientRepo repository.ClientRepository, accessSvc AccessService, auditSvc AuditService) ClientService {
	return &clientService{
		clientRepo: clientRepo,
		accessSvc:  accessSvc,
		auditSvc:   auditSvc,
	}
}

func (s *clientService) Create(ctx context.Context, actor *domain.User, input domain.CreateClientInput) (*domain.Client, error) {
	if err := s.accessSvc.Require(ctx, actor, domain.ActionClientManage, domain.Resource{}); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, domain.Validation("client name is required")
	}

	client := &domain.Client{
		ID:        uuid.New(),
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Company:   input.Company,
		Notes:     input.Notes,
		CreatedBy: actor.ID,
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	s.auditSvc.Record(&actor.ID, "client.create", "client", &client.ID, map[string]string{"name": client.Name}, nil)
	return client, nil
}

func (s *clientService) Get(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Client, error) {
	if err := s.accessSvc.Require(ctx, actor, domain.ActionClientManage, domain.Resource{}); err != nil {
		return nil, err
	}

	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.NotFound("client not found")
	}
	return client, nil
}

func (s *clientService) List(ctx context.Context, actor *domain.User, search *string, params domain.PaginationParams) (domain.PaginatedResponse[domain.Client], error) {
	if err := s.accessSvc.Require(ctx, actor, domain.ActionClientManage, domain.Resource{}); err != nil {
		return domain.PaginatedResponse[domain.Client]{}, err
	}

	params.Normalize()
	clients, total, err := s.clientRepo.List(ctx, search, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Client]{}, err
	}
	return domain.NewPaginatedResponse(clients, params.Page, params.PageSize, total), nil
}

func (s *clientService) Update(ctx context.Context, actor *domain.User, id uuid.UUID, input domain.UpdateClientInput) (*domain.Client, error) {
	if err := s.accessSvc.Require(ctx, actor, domain.ActionClientManage, domain.Resource{}); err != nil {
		return nil, err
	}

	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.NotFound("client not found")
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, domain.Validation("client name cannot be empty")
		}
		client.Name = *input.Name
	}
	if input.Email != nil {
		client.Email = input.Email
	}
	if input.Phone != nil {
		client.Phone = input.Phone
	}
	if input.Company != nil {
		client.Company = input.Company
	}
	if input.Notes != nil {
		client.Notes = input.Notes
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}

	s.auditSvc.Record(&actor.ID, "client.update", "client", &id, nil, nil)
	return client, nil
}

// Delete removes the client record. Projects keep their client_id as NULL
// via the FK; linked accounts lose their derived access immediately since
// the linkage is computed at authorization time.
func (s *clientService) Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	if err := s.accessSvc.Require(ctx, actor, domain.ActionClientManage, domain.Resource{}); err != nil {
		return err
	}

	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if client == nil {
		return domain.NotFound("client not found")
	}

	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.Record(&actor.ID, "client.delete", "client", &id, nil, nil)
	return nil
}

func (s *clientService) Projects(ctx context.Context, actor *domain.User, id uuid.UUID) ([]domain.Project, error) {
	if err := s.accessSvc.Require(ctx, actor, domain.ActionClientManage, domain.Resource{}); err != nil {
		return nil, err
	}
	return s.clientRepo.ListProjects(ctx, id)
}
