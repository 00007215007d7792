package export

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procurehq/lpoflow/internal/domain"
)

func TestRenderIncludesItemsAndTotals(t *testing.T) {
	notes := "deliver to main office"
	lpo := &domain.Lpo{
		ID:                   "lpo-1",
		LpoNumber:            "LPO-000042",
		VendorName:           "Acme Supplies",
		DateCreated:          time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC),
		Status:               domain.StatusPending,
		PaymentStatus:        domain.PaymentUnpaid,
		TotalAmount:          decimal.NewFromInt(300),
		AdditionalPercentage: decimal.NewFromInt(10),
		AdditionalNotes:      &notes,
		Items: []domain.LpoItem{
			{Description: "Desks", Quantity: 2, UnitPrice: decimal.NewFromInt(100), TotalPrice: decimal.NewFromInt(200)},
			{Description: "Chairs", Quantity: 1, UnitPrice: decimal.NewFromInt(100), TotalPrice: decimal.NewFromInt(100)},
		},
	}

	doc, err := Render(lpo)
	require.NoError(t, err)

	text := string(doc)
	assert.Contains(t, text, "LPO-000042")
	assert.Contains(t, text, "Acme Supplies")
	assert.Contains(t, text, "Desks  x2 @ 100.00 = 200.00")
	assert.Contains(t, text, "Subtotal: 300.00")
	assert.Contains(t, text, "Additional (10.00%): 30.00")
	assert.Contains(t, text, "Total: 330.00")
	assert.Contains(t, text, "deliver to main office")
}

func TestRenderWithoutMarkupOmitsMarkupLine(t *testing.T) {
	lpo := &domain.Lpo{
		LpoNumber:     "LPO-000001",
		VendorName:    "Bull Traders",
		DateCreated:   time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC),
		Status:        domain.StatusApproved,
		PaymentStatus: domain.PaymentPaid,
		TotalAmount:   decimal.NewFromInt(50),
	}

	doc, err := Render(lpo)
	require.NoError(t, err)

	text := string(doc)
	assert.NotContains(t, text, "Additional (")
	assert.Contains(t, text, "Total: 50.00")
}
