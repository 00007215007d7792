package mailer

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

type gmailSender struct {
	srv  *gmail.Service
	from string
}

// NewGmailSender builds a Sender over the Gmail API using a service-account
// credential with domain-wide delegation for the from address.
func NewGmailSender(credentialsJSON, from string) (Sender, error) {
	if from == "" {
		return nil, fmt.Errorf("mail from address is required")
	}

	config, err := google.JWTConfigFromJSON(
		[]byte(credentialsJSON),
		gmail.GmailSendScope,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to parse mail credentials: %w", err)
	}
	config.Subject = from

	client := config.Client(context.Background())
	srv, err := gmail.NewService(context.Background(), option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to build gmail client: %w", err)
	}

	return &gmailSender{srv: srv, from: from}, nil
}

func (s *gmailSender) Send(ctx context.Context, recipients []string, subject, body string) error {
	var raw strings.Builder
	fmt.Fprintf(&raw, "From: %s\r\n", s.from)
	fmt.Fprintf(&raw, "To: %s\r\n", strings.Join(recipients, ", "))
	fmt.Fprintf(&raw, "Subject: %s\r\n", subject)
	raw.WriteString("MIME-Version: 1.0\r\n")
	raw.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	raw.WriteString("\r\n")
	raw.WriteString(body)

	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw.String())),
	}

	if _, err := s.srv.Users.Messages.Send("me", msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}
