package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLpoStatus(t *testing.T) {
	for _, in := range []string{"Pending", "pending", "PENDING"} {
		got, err := ParseLpoStatus(in)
		require.NoError(t, err)
		assert.Equal(t, StatusPending, got)
	}

	_, err := ParseLpoStatus("shipped")
	require.ErrorIs(t, err, ErrValidation)
	_, err = ParseLpoStatus("")
	require.ErrorIs(t, err, ErrValidation)
}

func TestParsePaymentStatus(t *testing.T) {
	got, err := ParsePaymentStatus("partial")
	require.NoError(t, err)
	assert.Equal(t, PaymentPartial, got)

	_, err = ParsePaymentStatus("refunded")
	require.ErrorIs(t, err, ErrValidation)
}

func TestItemRecalculate(t *testing.T) {
	item := LpoItem{Quantity: 3, UnitPrice: decimal.RequireFromString("19.99")}
	item.Recalculate()
	assert.True(t, item.TotalPrice.Equal(decimal.RequireFromString("59.97")))
}

func TestGrandTotal(t *testing.T) {
	lpo := Lpo{
		TotalAmount:          decimal.NewFromInt(300),
		AdditionalPercentage: decimal.NewFromInt(10),
	}
	assert.True(t, lpo.GrandTotal().Equal(decimal.NewFromInt(330)))

	lpo.AdditionalPercentage = decimal.Zero
	assert.True(t, lpo.GrandTotal().Equal(decimal.NewFromInt(300)))
}

func TestPaidAmount(t *testing.T) {
	lpo := Lpo{Payments: []LpoPayment{
		{Amount: decimal.NewFromInt(100)},
		{Amount: decimal.RequireFromString("50.50")},
	}}
	assert.True(t, lpo.PaidAmount().Equal(decimal.RequireFromString("150.50")))
	assert.True(t, (&Lpo{}).PaidAmount().IsZero())
}
