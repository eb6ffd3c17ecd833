package service

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"

	"studioflow/internal/config"
)

type EmailService interface {
	SendWelcomeEmail(ctx context.Context, toEmail, name string) error
	SendProjectInviteEmail(ctx context.Context, toEmail, name, projectName, role string) error
	SendReviewResultEmail(ctx context.Context, toEmail, name, deliveryTitle, verdict string) error
}

type emailService struct {
	client *resend.Client
	config *config.Config
}

func NewEmailService(cfg *config.Config) EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &emailService{
		client: client,
		config: cfg,
	}
}

func (s *emailService) SendWelcomeEmail(ctx context.Context, toEmail, name string) error {
	html := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h2 style="color: #111827;">Welcome to StudioFlow, %s!</h2>
	<p>Your account has been created. You can now collaborate on projects, track tasks and review deliveries.</p>
	<div style="text-align: center; margin: 30px 0;">
		<a href="%s" style="background-color: #6366f1; color: #ffffff; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Open StudioFlow</a>
	</div>
</body>
</html>`, name, s.config.AppURL)

	return s.send(toEmail, "Welcome to StudioFlow", html)
}

func (s *emailService) SendProjectInviteEmail(ctx context.Context, toEmail, name, projectName, role string) error {
	html := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h2 style="color: #111827;">Hi %s,</h2>
	<p>You have been added to the project <strong>%s</strong> as <strong>%s</strong>.</p>
	<div style="text-align: center; margin: 30px 0;">
		<a href="%s" style="background-color: #6366f1; color: #ffffff; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">View Project</a>
	</div>
</body>
</html>`, name, projectName, role, s.config.AppURL)

	return s.send(toEmail, fmt.Sprintf("You were added to %s", projectName), html)
}

func (s *emailService) SendReviewResultEmail(ctx context.Context, toEmail, name, deliveryTitle, verdict string) error {
	html := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h2 style="color: #111827;">Hi %s,</h2>
	<p>Your delivery <strong>%s</strong> was reviewed: <strong>%s</strong>.</p>
	<div style="text-align: center; margin: 30px 0;">
		<a href="%s" style="background-color: #6366f1; color: #ffffff; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">See Details</a>
	</div>
</body>
</html>`, name, deliveryTitle, verdict, s.config.AppURL)

	return s.send(toEmail, fmt.Sprintf("Review result for %s", deliveryTitle), html)
}

func (s *emailService) send(toEmail, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{toEmail},
		Subject: subject,
		Html:    html,
	}

	_, err := s.client.Emails.Send(params)
	return err
}
