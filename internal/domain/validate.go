package domain

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// VendorInput carries the fields accepted when creating or editing a vendor.
type VendorInput struct {
	Name          string  `json:"name" validate:"required,min=2"`
	Email         string  `json:"email" validate:"required,email"`
	Phone         string  `json:"phone" validate:"required,min=5"`
	Address       string  `json:"address" validate:"required,min=5"`
	BankName      *string `json:"bank_name,omitempty"`
	AccountNumber *string `json:"account_number,omitempty"`
	AccountName   *string `json:"account_name,omitempty"`
}

// Validate rejects vendor input that must never reach the store.
func (in VendorInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// ItemInput carries one wizard line item.
type ItemInput struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Validate enforces non-empty description and strictly positive quantity
// and unit price.
func (in ItemInput) Validate() error {
	if strings.TrimSpace(in.Description) == "" {
		return fmt.Errorf("%w: item description is required", ErrValidation)
	}
	if in.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if in.UnitPrice.Sign() <= 0 {
		return fmt.Errorf("%w: unit price must be positive", ErrValidation)
	}
	return nil
}

// ValidatePercentage bounds the markup percentage to [0, 100].
func ValidatePercentage(pct decimal.Decimal) error {
	if pct.Sign() < 0 || pct.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: percentage must be between 0 and 100", ErrValidation)
	}
	return nil
}

// ReminderInput carries the fields accepted when creating a reminder.
type ReminderInput struct {
	Title string  `json:"title" validate:"required"`
	Date  string  `json:"date" validate:"required"`
	Time  string  `json:"time" validate:"required"`
	Notes *string `json:"notes,omitempty"`
}

func (in ReminderInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// ReportInput carries the fields accepted when sending a report.
type ReportInput struct {
	Title      string   `json:"title" validate:"required"`
	Type       string   `json:"type" validate:"required"`
	Recipients []string `json:"recipients" validate:"required,min=1,dive,email"`
}

func (in ReportInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
