package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         GlobalRole `json:"role" db:"role"`
	Phone        *string    `json:"phone,omitempty" db:"phone"`
	AvatarURL    *string    `json:"avatar_url,omitempty" db:"avatar_url"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time `json:"-" db:"deleted_at"`
}

// GlobalRole is the platform-wide capability tier.
type GlobalRole string

const (
	RoleClient     GlobalRole = "client"
	RoleFreelancer GlobalRole = "freelancer"
	RoleEditor     GlobalRole = "editor"
	RoleManager    GlobalRole = "manager"
	RoleAdmin      GlobalRole = "admin"
)

// globalRoleRank orders global roles; higher rank means more access.
var globalRoleRank = map[GlobalRole]int{
	RoleClient:     1,
	RoleFreelancer: 2,
	RoleEditor:     3,
	RoleManager:    4,
	RoleAdmin:      5,
}

func (r GlobalRole) IsValid() bool {
	_, ok := globalRoleRank[r]
	return ok
}

// AtLeast reports whether the role meets a minimum tier in the hierarchy.
func (r GlobalRole) AtLeast(min GlobalRole) bool {
	return globalRoleRank[r] >= globalRoleRank[min]
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileInput struct {
	Name            *string `json:"name,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	AvatarURL       *string `json:"avatar_url,omitempty"`
	CurrentPassword *string `json:"current_password,omitempty"`
	NewPassword     *string `json:"new_password,omitempty"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
