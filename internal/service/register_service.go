package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/procurehq/lpoflow/internal/domain"
	"github.com/procurehq/lpoflow/internal/mailer"
	"github.com/procurehq/lpoflow/internal/repository"
)

// ReminderService is a plain append/list register.
type ReminderService struct {
	repo repository.ReminderRepository
}

func NewReminderService(repo repository.ReminderRepository) *ReminderService {
	return &ReminderService{repo: repo}
}

func (s *ReminderService) Create(ctx context.Context, in domain.ReminderInput) (*domain.Reminder, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, in)
}

func (s *ReminderService) List(ctx context.Context) ([]domain.Reminder, error) {
	return s.repo.List(ctx)
}

// ReportService creates write-once report records and fires the email send.
type ReportService struct {
	repo   repository.ReportRepository
	sender mailer.Sender
}

func NewReportService(repo repository.ReportRepository, sender mailer.Sender) *ReportService {
	return &ReportService{repo: repo, sender: sender}
}

// Send validates, records the report, then mails it. The send is
// fire-and-forget relative to the record: a delivery failure is logged and
// reported to the caller, but the record stands.
func (s *ReportService) Send(ctx context.Context, in domain.ReportInput, body string) (*domain.Report, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	report, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	subject := fmt.Sprintf("[%s] %s", report.Type, report.Title)
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.sender.Send(sendCtx, report.Recipients, subject, body); err != nil {
			log.Error().Err(err).Str("report_id", report.ID).Msg("failed to send report email")
		}
	}()

	return report, nil
}

func (s *ReportService) List(ctx context.Context) ([]domain.Report, error) {
	return s.repo.List(ctx)
}
