package repository

import (
	"context"

	"github.com/procurehq/lpoflow/internal/domain"
)

type VendorRepository interface {
	Create(ctx context.Context, in domain.VendorInput) (*domain.Vendor, error)
	Update(ctx context.Context, id string, in domain.VendorInput) (*domain.Vendor, error)
	GetByID(ctx context.Context, id string) (*domain.Vendor, error)
	List(ctx context.Context) ([]domain.Vendor, error)
	// Delete fails with domain.ErrVendorInUse while LPOs reference the vendor.
	Delete(ctx context.Context, id string) error
}

type LpoRepository interface {
	// Create persists the LPO and its items in one transaction and fills in
	// the backend-assigned id, lpo_number and timestamps.
	Create(ctx context.Context, lpo *domain.Lpo) error
	GetByID(ctx context.Context, id string) (*domain.Lpo, error)
	List(ctx context.Context) ([]domain.Lpo, error)
	SetStatus(ctx context.Context, id string, status domain.LpoStatus) error
	SetPaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error
	AddPayment(ctx context.Context, payment *domain.LpoPayment) error
	// Delete cascades items -> payments -> parent in one transaction.
	Delete(ctx context.Context, id string) error
}

type ReminderRepository interface {
	Create(ctx context.Context, in domain.ReminderInput) (*domain.Reminder, error)
	List(ctx context.Context) ([]domain.Reminder, error)
}

type ReportRepository interface {
	Create(ctx context.Context, in domain.ReportInput) (*domain.Report, error)
	List(ctx context.Context) ([]domain.Report, error)
}
