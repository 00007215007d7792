// Package mailer sends report emails. The core treats sending as an opaque
// fire-and-forget action invoked after the report record is created.
package mailer

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Sender delivers one report email to the given recipients.
type Sender interface {
	Send(ctx context.Context, recipients []string, subject, body string) error
}

type logSender struct{}

// NewLogSender logs instead of sending. Used when mail is disabled.
func NewLogSender() Sender {
	return &logSender{}
}

func (s *logSender) Send(ctx context.Context, recipients []string, subject, body string) error {
	log.Info().
		Strs("recipients", recipients).
		Str("subject", subject).
		Int("body_bytes", len(body)).
		Msg("mail disabled, report not sent")
	return nil
}
