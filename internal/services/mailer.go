package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/mathstep-backend/internal/platform/logger"
	"github.com/yungbote/mathstep-backend/internal/platform/sendgrid"
)

// Mailer delivers account emails.
type Mailer interface {
	SendVerification(ctx context.Context, email, link string) error
}

type logMailer struct {
	log *logger.Logger
}

// NewLogMailer writes verification links to the log instead of sending mail.
// Links are only readable with LOG_REDACTION_ENABLED=false.
func NewLogMailer(log *logger.Logger) Mailer {
	return &logMailer{log: log.With("service", "LogMailer")}
}

func (m *logMailer) SendVerification(ctx context.Context, email, link string) error {
	m.log.Info("Email verification link", "email", email, "link", link)
	return nil
}

type sendGridMailer struct {
	log    *logger.Logger
	client sendgrid.Client
}

// NewSendGridMailer sends verification emails through SendGrid. The sender
// address comes from the client's configured defaults.
func NewSendGridMailer(log *logger.Logger, client sendgrid.Client) Mailer {
	return &sendGridMailer{log: log.With("service", "SendGridMailer"), client: client}
}

func (m *sendGridMailer) SendVerification(ctx context.Context, email, link string) error {
	res, err := m.client.Send(ctx, sendgrid.SendEmailRequest{
		To:      []sendgrid.EmailAddress{{Email: email}},
		Subject: "Verify your email",
		Text:    fmt.Sprintf("Welcome to MathStep.\n\nConfirm your email address by opening this link:\n%s\n", link),
		HTML:    fmt.Sprintf(`<p>Welcome to MathStep.</p><p><a href="%s">Confirm your email address</a></p>`, link),
	})
	if err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	m.log.Debug("Verification email sent", "email", email, "message_id", res.MessageID)
	return nil
}

func verificationLink(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/verify-email/" + token
}
