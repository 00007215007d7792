// Package wizard implements the three-step LPO creation flow:
// SelectVendor -> EnterItems -> ReviewSubmit, with a terminal Created step
// reached only after the store has confirmed the persist. Each draft is
// owned by a single session; back navigation never loses entered data.
package wizard

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/procurehq/lpoflow/internal/domain"
)

// Step is one state of the creation flow.
type Step string

const (
	StepSelectVendor Step = "select_vendor"
	StepEnterItems   Step = "enter_items"
	StepReviewSubmit Step = "review_submit"
	StepCreated      Step = "created"
)

// Draft is the in-progress LPO owned by one session.
type Draft struct {
	ID                   string           `json:"id"`
	UserID               string           `json:"user_id"`
	Step                 Step             `json:"step"`
	VendorID             string           `json:"vendor_id"`
	Items                []domain.LpoItem `json:"items"`
	AdditionalPercentage decimal.Decimal  `json:"additional_percentage"`
	AdditionalNotes      string           `json:"additional_notes"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// NewDraft starts a fresh draft at the vendor-selection step.
func NewDraft(userID string) *Draft {
	now := time.Now().UTC()
	return &Draft{
		ID:                   uuid.NewString(),
		UserID:               userID,
		Step:                 StepSelectVendor,
		AdditionalPercentage: decimal.Zero,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

func (d *Draft) touch() {
	d.UpdatedAt = time.Now().UTC()
}

// SelectVendor records the chosen vendor. Allowed at the vendor step only;
// re-selecting after Back keeps previously entered items intact.
func (d *Draft) SelectVendor(vendorID string) error {
	if d.Step != StepSelectVendor {
		return fmt.Errorf("%w: vendor can only be chosen at the vendor step", domain.ErrValidation)
	}
	if vendorID == "" {
		return fmt.Errorf("%w: vendor is required", domain.ErrValidation)
	}
	d.VendorID = vendorID
	d.touch()
	return nil
}

// AddItem appends a line item with its total derived from quantity and unit
// price. Invalid input is rejected and the item list is unchanged.
func (d *Draft) AddItem(in domain.ItemInput) (domain.LpoItem, error) {
	if d.Step != StepEnterItems {
		return domain.LpoItem{}, fmt.Errorf("%w: items can only be edited at the items step", domain.ErrValidation)
	}
	if err := in.Validate(); err != nil {
		return domain.LpoItem{}, err
	}
	item := domain.LpoItem{
		ID:          uuid.NewString(),
		Description: in.Description,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
	}
	item.Recalculate()
	d.Items = append(d.Items, item)
	d.touch()
	return item, nil
}

// UpdateItem replaces an item's fields by id, recomputing its total.
func (d *Draft) UpdateItem(itemID string, in domain.ItemInput) error {
	if d.Step != StepEnterItems {
		return fmt.Errorf("%w: items can only be edited at the items step", domain.ErrValidation)
	}
	if err := in.Validate(); err != nil {
		return err
	}
	for i := range d.Items {
		if d.Items[i].ID == itemID {
			d.Items[i].Description = in.Description
			d.Items[i].Quantity = in.Quantity
			d.Items[i].UnitPrice = in.UnitPrice
			d.Items[i].Recalculate()
			d.touch()
			return nil
		}
	}
	return fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
}

// RemoveItem drops an item by id.
func (d *Draft) RemoveItem(itemID string) error {
	if d.Step != StepEnterItems {
		return fmt.Errorf("%w: items can only be edited at the items step", domain.ErrValidation)
	}
	for i := range d.Items {
		if d.Items[i].ID == itemID {
			d.Items = append(d.Items[:i], d.Items[i+1:]...)
			d.touch()
			return nil
		}
	}
	return fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
}

// SetReview records the markup percentage and notes at the review step.
func (d *Draft) SetReview(pct decimal.Decimal, notes string) error {
	if d.Step != StepReviewSubmit {
		return fmt.Errorf("%w: review fields can only be set at the review step", domain.ErrValidation)
	}
	if err := domain.ValidatePercentage(pct); err != nil {
		return err
	}
	d.AdditionalPercentage = pct
	d.AdditionalNotes = notes
	d.touch()
	return nil
}

// Next advances one step. The transition is refused while its entry guard
// fails: a vendor must be chosen before the items step, and at least one
// item must exist before review.
func (d *Draft) Next() error {
	switch d.Step {
	case StepSelectVendor:
		if d.VendorID == "" {
			return fmt.Errorf("%w: select a vendor before continuing", domain.ErrValidation)
		}
		d.Step = StepEnterItems
	case StepEnterItems:
		if len(d.Items) == 0 {
			return fmt.Errorf("%w: add at least one item before continuing", domain.ErrValidation)
		}
		d.Step = StepReviewSubmit
	case StepReviewSubmit:
		return fmt.Errorf("%w: submit the draft to finish", domain.ErrValidation)
	default:
		return fmt.Errorf("%w: draft is already submitted", domain.ErrValidation)
	}
	d.touch()
	return nil
}

// Back returns to the previous step. All entered data is preserved.
func (d *Draft) Back() error {
	switch d.Step {
	case StepEnterItems:
		d.Step = StepSelectVendor
	case StepReviewSubmit:
		d.Step = StepEnterItems
	default:
		return fmt.Errorf("%w: cannot go back from %s", domain.ErrValidation, d.Step)
	}
	d.touch()
	return nil
}

// BaseTotal sums the line totals.
func (d *Draft) BaseTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range d.Items {
		total = total.Add(item.TotalPrice)
	}
	return total
}

// GrandTotal applies the markup percentage to the base total.
func (d *Draft) GrandTotal() decimal.Decimal {
	base := d.BaseTotal()
	markup := base.Mul(d.AdditionalPercentage).Div(decimal.NewFromInt(100))
	return base.Add(markup)
}

// CheckSubmit verifies the draft is submittable: at the review step, with a
// vendor and at least one item.
func (d *Draft) CheckSubmit() error {
	if d.Step != StepReviewSubmit {
		return fmt.Errorf("%w: draft is not at the review step", domain.ErrValidation)
	}
	if d.VendorID == "" {
		return fmt.Errorf("%w: vendor is required", domain.ErrValidation)
	}
	if len(d.Items) == 0 {
		return fmt.Errorf("%w: at least one item is required", domain.ErrValidation)
	}
	return nil
}

// MarkCreated moves the draft to its terminal step. Called only after the
// store has confirmed the persist.
func (d *Draft) MarkCreated() {
	d.Step = StepCreated
	d.touch()
}
