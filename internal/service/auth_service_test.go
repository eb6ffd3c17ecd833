package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"studioflow/internal/config"
	"studioflow/internal/domain"
	"studioflow/internal/mocks"
	"studioflow/internal/service"
)

type authFixture struct {
	userRepo    *mocks.UserRepository
	sessionRepo *mocks.SessionRepository
	emailSvc    *mocks.EmailService
	svc         service.AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		userRepo:    new(mocks.UserRepository),
		sessionRepo: new(mocks.SessionRepository),
		emailSvc:    new(mocks.EmailService),
	}
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 7 * 24 * time.Hour,
	}
	f.emailSvc.On("SendWelcomeEmail", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.svc = service.NewAuthService(f.userRepo, f.sessionRepo, f.emailSvc, cfg, testLogger())
	return f
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	input := domain.RegisterInput{Name: "Dana", Email: "dana@example.com", Password: "secret123"}

	t.Run("New Accounts Start As Freelancer", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.On("ExistsByEmail", ctx, input.Email).Return(false, nil).Once()
		f.userRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.Email == input.Email && u.Role == domain.RoleFreelancer && u.PasswordHash != input.Password
		})).Return(nil).Once()
		f.sessionRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		user, tokens, err := f.svc.Register(ctx, input)

		assert.NoError(t, err)
		assert.Equal(t, domain.RoleFreelancer, user.Role)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
		f.userRepo.AssertExpectations(t)
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.On("ExistsByEmail", ctx, input.Email).Return(true, nil).Once()

		_, _, err := f.svc.Register(ctx, input)

		var domErr *domain.Error
		assert.ErrorAs(t, err, &domErr)
		assert.Equal(t, domain.KindConflict, domErr.Kind)
		f.userRepo.AssertNotCalled(t, "Create")
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	user := &domain.User{
		ID: uuid.New(), Email: "dana@example.com",
		PasswordHash: string(hash), Role: domain.RoleEditor,
	}

	t.Run("Success", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
		f.sessionRepo.On("Create", ctx, mock.MatchedBy(func(s *domain.Session) bool {
			return s.UserID == user.ID && s.TokenHash != ""
		})).Return(nil).Once()

		got, tokens, err := f.svc.Login(ctx, domain.LoginInput{Email: user.Email, Password: "secret123"}, nil, nil)

		assert.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.NotEmpty(t, tokens.RefreshToken)
		f.sessionRepo.AssertExpectations(t)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()

		_, _, err := f.svc.Login(ctx, domain.LoginInput{Email: user.Email, Password: "nope"}, nil, nil)

		var domErr *domain.Error
		assert.ErrorAs(t, err, &domErr)
		assert.Equal(t, domain.KindUnauthorized, domErr.Kind)
	})

	t.Run("Unknown Email", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, nil).Once()

		_, _, err := f.svc.Login(ctx, domain.LoginInput{Email: "ghost@example.com", Password: "x"}, nil, nil)

		var domErr *domain.Error
		assert.ErrorAs(t, err, &domErr)
		assert.Equal(t, domain.KindUnauthorized, domErr.Kind)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("Rotation Consumes The Old Session", func(t *testing.T) {
		f := newAuthFixture()
		user := &domain.User{ID: uuid.New(), Email: "dana@example.com", Role: domain.RoleEditor}
		session := &domain.Session{ID: uuid.New(), UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour)}

		f.sessionRepo.On("GetByTokenHash", ctx, mock.AnythingOfType("string")).Return(session, nil).Once()
		f.userRepo.On("GetByID", ctx, user.ID).Return(user, nil).Once()
		f.sessionRepo.On("Delete", ctx, session.ID).Return(nil).Once()
		f.sessionRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		tokens, err := f.svc.RefreshToken(ctx, "some-refresh-token")

		assert.NoError(t, err)
		assert.NotEmpty(t, tokens.AccessToken)
		f.sessionRepo.AssertExpectations(t)
	})

	t.Run("Replayed Token Is Refused", func(t *testing.T) {
		f := newAuthFixture()
		f.sessionRepo.On("GetByTokenHash", ctx, mock.AnythingOfType("string")).Return(nil, nil).Once()

		_, err := f.svc.RefreshToken(ctx, "already-used")

		var domErr *domain.Error
		assert.ErrorAs(t, err, &domErr)
		assert.Equal(t, domain.KindUnauthorized, domErr.Kind)
	})
}

func TestAuthService_ValidateAccessToken(t *testing.T) {
	ctx := context.Background()

	t.Run("Roundtrip", func(t *testing.T) {
		f := newAuthFixture()
		input := domain.RegisterInput{Name: "Dana", Email: "dana@example.com", Password: "secret123"}
		f.userRepo.On("ExistsByEmail", ctx, input.Email).Return(false, nil).Once()
		f.userRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.sessionRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		user, tokens, err := f.svc.Register(ctx, input)
		assert.NoError(t, err)

		claims, err := f.svc.ValidateAccessToken(tokens.AccessToken)

		assert.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, input.Email, claims.Email)
		assert.Equal(t, domain.RoleFreelancer, claims.Role)
	})

	t.Run("Garbage Token", func(t *testing.T) {
		f := newAuthFixture()

		_, err := f.svc.ValidateAccessToken("not.a.jwt")

		var domErr *domain.Error
		assert.ErrorAs(t, err, &domErr)
		assert.Equal(t, domain.KindUnauthorized, domErr.Kind)
	})
}
