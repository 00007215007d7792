package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/procurehq/lpoflow/internal/domain"
)

// Reminders and reports are plain append/list registers with no state
// machine: reminders are standalone dated notes, reports are write-once
// records of an email send.

type reminderRepository struct {
	db *DB
}

func NewReminderRepository(db *DB) *reminderRepository {
	return &reminderRepository{db: db}
}

func (r *reminderRepository) Create(ctx context.Context, in domain.ReminderInput) (*domain.Reminder, error) {
	query := `
		INSERT INTO reminders (title, date, time, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, date, time, notes, created_at
	`

	var reminder domain.Reminder
	if err := r.db.GetContext(ctx, &reminder, query, in.Title, in.Date, in.Time, in.Notes); err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}
	return &reminder, nil
}

func (r *reminderRepository) List(ctx context.Context) ([]domain.Reminder, error) {
	query := `
		SELECT id, title, date, time, notes, created_at
		FROM reminders
		ORDER BY date, time
	`

	var reminders []domain.Reminder
	if err := sqlx.SelectContext(ctx, r.db, &reminders, query); err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, nil
}

type reportRepository struct {
	db *DB
}

func NewReportRepository(db *DB) *reportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, in domain.ReportInput) (*domain.Report, error) {
	query := `
		INSERT INTO reports (title, type, recipients)
		VALUES ($1, $2, $3)
		RETURNING id, title, type, date_sent
	`

	var report domain.Report
	if err := r.db.GetContext(ctx, &report, query, in.Title, in.Type, pq.Array(in.Recipients)); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	report.Recipients = append([]string(nil), in.Recipients...)
	return &report, nil
}

func (r *reportRepository) List(ctx context.Context) ([]domain.Report, error) {
	query := `
		SELECT id, title, type, recipients, date_sent
		FROM reports
		ORDER BY date_sent DESC
	`

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		var report domain.Report
		var recipients pq.StringArray
		if err := rows.Scan(&report.ID, &report.Title, &report.Type, &recipients, &report.DateSent); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		report.Recipients = recipients
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}
	return reports, nil
}
