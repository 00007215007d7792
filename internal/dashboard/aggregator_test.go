package dashboard

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procurehq/lpoflow/internal/domain"
)

func lpo(vendorID, vendorName string, amount int64, status domain.LpoStatus, pay domain.PaymentStatus, created time.Time) domain.Lpo {
	return domain.Lpo{
		ID:            vendorID + "-" + created.Format("060102"),
		VendorID:      vendorID,
		VendorName:    vendorName,
		DateCreated:   created,
		Status:        status,
		PaymentStatus: pay,
		TotalAmount:   decimal.NewFromInt(amount),
	}
}

func TestAggregateEmpty(t *testing.T) {
	summary := Aggregate(nil)

	assert.Equal(t, domain.StatusSummary{}, summary.StatusSummary)
	assert.Equal(t, 0, summary.PaymentSummary.Paid)
	assert.True(t, summary.PaymentSummary.TotalPaid.IsZero())
	assert.Empty(t, summary.MonthlySpend)
	assert.Empty(t, summary.TopVendors)
}

func TestAggregateStatusAndPayments(t *testing.T) {
	jan := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	lpos := []domain.Lpo{
		lpo("A", "Acme Supplies", 100, domain.StatusPending, domain.PaymentUnpaid, jan),
		lpo("A", "Acme Supplies", 50, domain.StatusApproved, domain.PaymentPaid, jan),
		lpo("B", "Bull Traders", 200, domain.StatusRejected, domain.PaymentUnpaid, jan),
	}

	summary := Aggregate(lpos)

	assert.Equal(t, domain.StatusSummary{Pending: 1, Approved: 1, Rejected: 1}, summary.StatusSummary)
	assert.Equal(t, 1, summary.PaymentSummary.Paid)
	assert.Equal(t, 2, summary.PaymentSummary.Unpaid)
	assert.True(t, summary.PaymentSummary.TotalPaid.Equal(decimal.NewFromInt(50)))
	assert.True(t, summary.PaymentSummary.TotalUnpaid.Equal(decimal.NewFromInt(300)))

	require.Len(t, summary.TopVendors, 2)
	assert.Equal(t, "B", summary.TopVendors[0].VendorID)
	assert.True(t, summary.TopVendors[0].TotalSpend.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, "A", summary.TopVendors[1].VendorID)
	assert.True(t, summary.TopVendors[1].TotalSpend.Equal(decimal.NewFromInt(150)))
}

func TestAggregatePartialPayments(t *testing.T) {
	jan := time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)
	partial := lpo("A", "Acme Supplies", 100, domain.StatusApproved, domain.PaymentPartial, jan)
	partial.Payments = []domain.LpoPayment{
		{Amount: decimal.NewFromInt(30), Date: jan},
	}

	summary := Aggregate([]domain.Lpo{partial})

	assert.Equal(t, 1, summary.PaymentSummary.Partial)
	assert.True(t, summary.PaymentSummary.TotalPaid.Equal(decimal.NewFromInt(30)))
	assert.True(t, summary.PaymentSummary.TotalUnpaid.Equal(decimal.NewFromInt(70)))
}

func TestMonthlySpendGrouping(t *testing.T) {
	feb1 := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	feb20 := time.Date(2025, time.February, 20, 0, 0, 0, 0, time.UTC)
	apr := time.Date(2025, time.April, 3, 0, 0, 0, 0, time.UTC)

	// April listed first on purpose: ordering must follow the underlying
	// dates, not input or alphabetical order. March is skipped and must not
	// be zero-filled.
	lpos := []domain.Lpo{
		lpo("A", "Acme Supplies", 500, domain.StatusPending, domain.PaymentUnpaid, apr),
		lpo("A", "Acme Supplies", 100, domain.StatusPending, domain.PaymentPaid, feb1),
		lpo("B", "Bull Traders", 40, domain.StatusPending, domain.PaymentUnpaid, feb20),
	}

	months := Aggregate(lpos).MonthlySpend

	require.Len(t, months, 2)
	assert.Equal(t, "Feb", months[0].Month)
	assert.True(t, months[0].Amount.Equal(decimal.NewFromInt(140)))
	assert.True(t, months[0].PaidAmount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "Apr", months[1].Month)
	assert.True(t, months[1].Amount.Equal(decimal.NewFromInt(500)))
	assert.True(t, months[1].PaidAmount.IsZero())
}

func TestTopVendorsTruncationAndTies(t *testing.T) {
	jan := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	var lpos []domain.Lpo
	// Six vendors: v0..v5 with spends 60, 50, 50, 30, 20, 10. v1 and v2 tie;
	// v1 was seen first and must rank ahead.
	amounts := []int64{60, 50, 50, 30, 20, 10}
	names := []string{"v0", "v1", "v2", "v3", "v4", "v5"}
	for i, amount := range amounts {
		lpos = append(lpos, lpo(names[i], names[i], amount, domain.StatusPending, domain.PaymentUnpaid, jan))
	}

	top := Aggregate(lpos).TopVendors

	require.Len(t, top, 5)
	assert.Equal(t, "v0", top[0].VendorID)
	assert.Equal(t, "v1", top[1].VendorID)
	assert.Equal(t, "v2", top[2].VendorID)
	assert.Equal(t, "v3", top[3].VendorID)
	assert.Equal(t, "v4", top[4].VendorID)
}

func TestRejectedCanStillBePaid(t *testing.T) {
	// Status and payment status are independent axes: a Rejected LPO marked
	// Paid still counts toward paid totals.
	jan := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	summary := Aggregate([]domain.Lpo{
		lpo("A", "Acme Supplies", 75, domain.StatusRejected, domain.PaymentPaid, jan),
	})

	assert.Equal(t, 1, summary.StatusSummary.Rejected)
	assert.Equal(t, 1, summary.PaymentSummary.Paid)
	assert.True(t, summary.PaymentSummary.TotalPaid.Equal(decimal.NewFromInt(75)))
}
