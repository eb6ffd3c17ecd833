package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, name string) error {
	args := m.Called(ctx, toEmail, name)
	return args.Error(0)
}

func (m *EmailService) SendProjectInviteEmail(ctx context.Context, toEmail, name, projectName, role string) error {
	args := m.Called(ctx, toEmail, name, projectName, role)
	return args.Error(0)
}

func (m *EmailService) SendReviewResultEmail(ctx context.Context, toEmail, name, deliveryTitle, verdict string) error {
	args := m.Called(ctx, toEmail, name, deliveryTitle, verdict)
	return args.Error(0)
}
