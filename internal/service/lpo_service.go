package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/procurehq/lpoflow/internal/cache"
	"github.com/procurehq/lpoflow/internal/domain"
	"github.com/procurehq/lpoflow/internal/repository"
	"github.com/procurehq/lpoflow/internal/wizard"
)

// LpoService owns the LPO lifecycle and the creation wizard. Drafts live in
// the draft store until submission confirms; every mutation of the persisted
// collection invalidates the dashboard cache.
type LpoService struct {
	lpos    repository.LpoRepository
	vendors repository.VendorRepository
	drafts  wizard.DraftStore
	cache   cache.DashboardSummaryCache
}

func NewLpoService(lpos repository.LpoRepository, vendors repository.VendorRepository, drafts wizard.DraftStore, summaryCache cache.DashboardSummaryCache) *LpoService {
	return &LpoService{lpos: lpos, vendors: vendors, drafts: drafts, cache: summaryCache}
}

func (s *LpoService) invalidateSummary(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate dashboard cache")
	}
}

// StartDraft opens a new wizard session for the user.
func (s *LpoService) StartDraft(ctx context.Context, userID string) (*wizard.Draft, error) {
	draft := wizard.NewDraft(userID)
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// GetDraft loads a draft owned by the user. Drafts belonging to other users
// are reported as missing.
func (s *LpoService) GetDraft(ctx context.Context, userID, draftID string) (*wizard.Draft, error) {
	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.UserID != userID {
		return nil, fmt.Errorf("draft %s: %w", draftID, domain.ErrNotFound)
	}
	return draft, nil
}

// mutateDraft loads, mutates and saves a draft in one place.
func (s *LpoService) mutateDraft(ctx context.Context, userID, draftID string, fn func(*wizard.Draft) error) (*wizard.Draft, error) {
	draft, err := s.GetDraft(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}
	if err := fn(draft); err != nil {
		return nil, err
	}
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// SelectVendor records an existing vendor on the draft after verifying it
// exists.
func (s *LpoService) SelectVendor(ctx context.Context, userID, draftID, vendorID string) (*wizard.Draft, error) {
	if _, err := s.vendors.GetByID(ctx, vendorID); err != nil {
		return nil, err
	}
	return s.mutateDraft(ctx, userID, draftID, func(d *wizard.Draft) error {
		return d.SelectVendor(vendorID)
	})
}

// CreateVendorInline creates a vendor from within the wizard and
// auto-selects it, matching the "add new vendor" shortcut on the first step.
func (s *LpoService) CreateVendorInline(ctx context.Context, userID, draftID string, in domain.VendorInput) (*wizard.Draft, *domain.Vendor, error) {
	if err := in.Validate(); err != nil {
		return nil, nil, err
	}

	draft, err := s.GetDraft(ctx, userID, draftID)
	if err != nil {
		return nil, nil, err
	}
	if draft.Step != wizard.StepSelectVendor {
		return nil, nil, fmt.Errorf("%w: vendor can only be created at the vendor step", domain.ErrValidation)
	}

	vendor, err := s.vendors.Create(ctx, in)
	if err != nil {
		return nil, nil, err
	}
	if err := draft.SelectVendor(vendor.ID); err != nil {
		return nil, nil, err
	}
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, nil, err
	}
	return draft, vendor, nil
}

func (s *LpoService) AddItem(ctx context.Context, userID, draftID string, in domain.ItemInput) (*wizard.Draft, error) {
	return s.mutateDraft(ctx, userID, draftID, func(d *wizard.Draft) error {
		_, err := d.AddItem(in)
		return err
	})
}

func (s *LpoService) UpdateItem(ctx context.Context, userID, draftID, itemID string, in domain.ItemInput) (*wizard.Draft, error) {
	return s.mutateDraft(ctx, userID, draftID, func(d *wizard.Draft) error {
		return d.UpdateItem(itemID, in)
	})
}

func (s *LpoService) RemoveItem(ctx context.Context, userID, draftID, itemID string) (*wizard.Draft, error) {
	return s.mutateDraft(ctx, userID, draftID, func(d *wizard.Draft) error {
		return d.RemoveItem(itemID)
	})
}

func (s *LpoService) NextStep(ctx context.Context, userID, draftID string) (*wizard.Draft, error) {
	return s.mutateDraft(ctx, userID, draftID, func(d *wizard.Draft) error {
		return d.Next()
	})
}

func (s *LpoService) BackStep(ctx context.Context, userID, draftID string) (*wizard.Draft, error) {
	return s.mutateDraft(ctx, userID, draftID, func(d *wizard.Draft) error {
		return d.Back()
	})
}

func (s *LpoService) SetReview(ctx context.Context, userID, draftID string, pct decimal.Decimal, notes string) (*wizard.Draft, error) {
	return s.mutateDraft(ctx, userID, draftID, func(d *wizard.Draft) error {
		return d.SetReview(pct, notes)
	})
}

// Submit persists the draft as an LPO with its items in one transaction.
// The draft reaches its terminal step only after the store confirms; the
// snapshot total_amount stores the base item total, with the markup kept
// separately.
func (s *LpoService) Submit(ctx context.Context, userID, draftID string) (*domain.Lpo, error) {
	draft, err := s.GetDraft(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}
	if err := draft.CheckSubmit(); err != nil {
		return nil, err
	}

	var notes *string
	if draft.AdditionalNotes != "" {
		notes = &draft.AdditionalNotes
	}

	lpo := &domain.Lpo{
		VendorID:             draft.VendorID,
		CreatedBy:            userID,
		Status:               domain.StatusPending,
		PaymentStatus:        domain.PaymentUnpaid,
		TotalAmount:          draft.BaseTotal(),
		AdditionalPercentage: draft.AdditionalPercentage,
		AdditionalNotes:      notes,
		Items:                draft.Items,
	}
	for i := range lpo.Items {
		lpo.Items[i].Recalculate()
	}

	if err := s.lpos.Create(ctx, lpo); err != nil {
		return nil, err
	}

	draft.MarkCreated()
	if err := s.drafts.Delete(ctx, draftID); err != nil {
		log.Warn().Err(err).Str("draft_id", draftID).Msg("failed to drop submitted draft")
	}
	s.invalidateSummary(ctx)

	return s.lpos.GetByID(ctx, lpo.ID)
}

func (s *LpoService) List(ctx context.Context) ([]domain.Lpo, error) {
	return s.lpos.List(ctx)
}

func (s *LpoService) Get(ctx context.Context, id string) (*domain.Lpo, error) {
	return s.lpos.GetByID(ctx, id)
}

// SetStatus is a flat update: any status is reachable from any other.
// Payment status is untouched.
func (s *LpoService) SetStatus(ctx context.Context, id string, status domain.LpoStatus) error {
	if err := s.lpos.SetStatus(ctx, id, status); err != nil {
		return err
	}
	s.invalidateSummary(ctx)
	return nil
}

// SetPaymentStatus is independent of the approval status: a Rejected LPO
// can still be marked Paid.
func (s *LpoService) SetPaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	if err := s.lpos.SetPaymentStatus(ctx, id, status); err != nil {
		return err
	}
	s.invalidateSummary(ctx)
	return nil
}

// RecordPayment appends a payment and lets the store derive the payment
// status from the running total.
func (s *LpoService) RecordPayment(ctx context.Context, lpoID string, amount decimal.Decimal, date time.Time, reference string) (*domain.LpoPayment, error) {
	if amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: payment amount must be positive", domain.ErrValidation)
	}
	if reference == "" {
		return nil, fmt.Errorf("%w: payment reference is required", domain.ErrValidation)
	}

	payment := &domain.LpoPayment{
		LpoID:     lpoID,
		Amount:    amount,
		Date:      date,
		Reference: reference,
	}
	if err := s.lpos.AddPayment(ctx, payment); err != nil {
		return nil, err
	}
	s.invalidateSummary(ctx)
	return payment, nil
}

// Delete cascades items, payments, then the LPO itself, atomically.
func (s *LpoService) Delete(ctx context.Context, id string) error {
	if err := s.lpos.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateSummary(ctx)
	return nil
}
