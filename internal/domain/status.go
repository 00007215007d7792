package domain

import (
	"fmt"
	"strings"
)

// LpoStatus is the approval state of an LPO. The three values are mutually
// reachable at any time; there is no terminal state and no transition table.
// Payment status is an independent axis.
type LpoStatus string

const (
	StatusPending  LpoStatus = "Pending"
	StatusApproved LpoStatus = "Approved"
	StatusRejected LpoStatus = "Rejected"
)

// PaymentStatus tracks how much of an LPO has been paid. Partial means
// recorded payments cover more than zero but less than the full total.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "Paid"
	PaymentUnpaid  PaymentStatus = "Unpaid"
	PaymentPartial PaymentStatus = "Partial"
)

var lpoStatuses = map[string]LpoStatus{
	"pending":  StatusPending,
	"approved": StatusApproved,
	"rejected": StatusRejected,
}

var paymentStatuses = map[string]PaymentStatus{
	"paid":    PaymentPaid,
	"unpaid":  PaymentUnpaid,
	"partial": PaymentPartial,
}

// ParseLpoStatus returns the status for a given label (case-insensitive).
// Unknown labels are an ErrValidation.
func ParseLpoStatus(label string) (LpoStatus, error) {
	s, ok := lpoStatuses[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return "", fmt.Errorf("%w: unknown status %q", ErrValidation, label)
	}
	return s, nil
}

// ParsePaymentStatus returns the payment status for a given label
// (case-insensitive). Unknown labels are an ErrValidation.
func ParsePaymentStatus(label string) (PaymentStatus, error) {
	s, ok := paymentStatuses[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return "", fmt.Errorf("%w: unknown payment status %q", ErrValidation, label)
	}
	return s, nil
}

// LpoStatuses lists all statuses in display order.
func LpoStatuses() []LpoStatus {
	return []LpoStatus{StatusPending, StatusApproved, StatusRejected}
}
