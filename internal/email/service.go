package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// Service sends transactional email through Resend. When no API key is
// configured the service is disabled and every send is a logged no-op, which
// keeps local development working without credentials.
type Service struct {
	client *resend.Client
	from   string
	logger zerolog.Logger
}

func NewService(apiKey, from string, logger zerolog.Logger) *Service {
	s := &Service{
		from:   from,
		logger: logger.With().Str("component", "email").Logger(),
	}
	if strings.TrimSpace(apiKey) != "" {
		s.client = resend.NewClient(apiKey)
	}
	return s
}

// Enabled reports whether a Resend client is configured.
func (s *Service) Enabled() bool {
	return s.client != nil
}

// SendWelcome greets a newly synchronized user. Satisfies
// users.WelcomeMailer; callers treat failures as best-effort.
func (s *Service) SendWelcome(ctx context.Context, to, name string) error {
	if s.client == nil {
		s.logger.Debug().Str("to", to).Msg("email disabled; skipping welcome")
		return nil
	}

	greeting := "there"
	if strings.TrimSpace(name) != "" {
		greeting = name
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: "Welcome to EventLoom",
		Html: fmt.Sprintf(
			"<p>Hi %s,</p><p>Your EventLoom account is ready. Browse upcoming events and grab a spot.</p>",
			greeting,
		),
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}

	s.logger.Info().
		Str("email_id", sent.Id).
		Str("to", to).
		Msg("welcome email sent")
	return nil
}
