package service

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"studioflow/internal/domain"
	"studioflow/internal/repository"
)

type UserService interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, actor *domain.User, input domain.UpdateProfileInput) (*domain.User, error)
	List(ctx context.Context, role *domain.GlobalRole, search *string, params domain.PaginationParams) (domain.PaginatedResponse[domain.User], error)
	UpdateRole(ctx context.Context, actor *domain.User, id uuid.UUID, role domain.GlobalRole) error
}

type userService struct {
	userRepo repository.UserRepository
	auditSvc AuditService
}

func NewUserService(userRepo repository.UserRepository, auditSvc AuditService) UserService {
	return &userService{
		userRepo: userRepo,
		auditSvc: auditSvc,
	}
}

func (s *userService) GetProfile(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NotFound("user not found")
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, actor *domain.User, input domain.UpdateProfileInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NotFound("user not found")
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, domain.Validation("name cannot be empty")
		}
		user.Name = *input.Name
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.AvatarURL != nil {
		user.AvatarURL = input.AvatarURL
	}

	if input.NewPassword != nil {
		if input.CurrentPassword == nil {
			return nil, domain.Validation("current password is required to change password")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(*input.CurrentPassword)); err != nil {
			return nil, domain.Unauthorized("current password is incorrect")
		}
		if len(*input.NewPassword) < 6 {
			return nil, domain.Validation("password must be at least 6 characters")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, role *domain.GlobalRole, search *string, params domain.PaginationParams) (domain.PaginatedResponse[domain.User], error) {
	params.Normalize()
	users, total, err := s.userRepo.List(ctx, role, search, params)
	if err != nil {
		return domain.PaginatedResponse[domain.User]{}, err
	}
	return domain.NewPaginatedResponse(users, params.Page, params.PageSize, total), nil
}

// UpdateRole is the only way a global role changes; self-demotion of the
// last admin is the admin's own problem, but self role changes are blocked
// to avoid accidental lockout.
func (s *userService) UpdateRole(ctx context.Context, actor *domain.User, id uuid.UUID, role domain.GlobalRole) error {
	if !role.IsValid() {
		return domain.Validation("invalid role %q", role)
	}
	if actor.ID == id {
		return domain.Validation("cannot change your own role")
	}

	if err := s.userRepo.UpdateRole(ctx, id, role); err != nil {
		return err
	}

	s.auditSvc.Record(&actor.ID, "user.update_role", "user", &id, map[string]string{"role": string(role)}, nil)
	return nil
}
