// Package mailer delivers account emails.
package mailer

import (
	"context"

	"go.uber.org/zap"
)

// Mailer sends password reset messages.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// LogMailer writes reset links to the log instead of sending mail.
type LogMailer struct {
	log     *zap.Logger
	linkFmt string
}

// NewLogMailer returns a mailer that logs the reset instruction built from link and token.
func NewLogMailer(log *zap.Logger, link string) *LogMailer {
	return &LogMailer{log: log.With(zap.String("component", "mailer")), linkFmt: link}
}

// SendPasswordReset logs the reset instruction.
func (m *LogMailer) SendPasswordReset(_ context.Context, email, token string) error {
	m.log.Info("password reset requested",
		zap.String("to", email),
		zap.String("instruction", m.linkFmt+" "+token),
	)
	return nil
}
