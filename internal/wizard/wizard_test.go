package wizard

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procurehq/lpoflow/internal/domain"
)

func price(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestNextBlockedWithoutVendor(t *testing.T) {
	d := NewDraft("user-1")

	err := d.Next()
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, StepSelectVendor, d.Step)
}

func TestNextBlockedWithoutItems(t *testing.T) {
	d := NewDraft("user-1")
	require.NoError(t, d.SelectVendor("vendor-1"))
	require.NoError(t, d.Next())

	err := d.Next()
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, StepEnterItems, d.Step)
}

func TestItemTotalsAlwaysDerived(t *testing.T) {
	d := NewDraft("user-1")
	require.NoError(t, d.SelectVendor("vendor-1"))
	require.NoError(t, d.Next())

	item, err := d.AddItem(domain.ItemInput{Description: "Office chairs", Quantity: 4, UnitPrice: price("25.50")})
	require.NoError(t, err)
	assert.True(t, item.TotalPrice.Equal(price("102")))

	err = d.UpdateItem(item.ID, domain.ItemInput{Description: "Office chairs", Quantity: 3, UnitPrice: price("30")})
	require.NoError(t, err)
	assert.True(t, d.Items[0].TotalPrice.Equal(price("90")))
}

func TestAddItemRejectsInvalidInput(t *testing.T) {
	d := NewDraft("user-1")
	require.NoError(t, d.SelectVendor("vendor-1"))
	require.NoError(t, d.Next())

	cases := []struct {
		name string
		in   domain.ItemInput
	}{
		{"empty description", domain.ItemInput{Description: "  ", Quantity: 1, UnitPrice: price("5")}},
		{"zero quantity", domain.ItemInput{Description: "Paper", Quantity: 0, UnitPrice: price("5")}},
		{"negative price", domain.ItemInput{Description: "Paper", Quantity: 1, UnitPrice: price("-1")}},
		{"zero price", domain.ItemInput{Description: "Paper", Quantity: 1, UnitPrice: decimal.Zero}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := d.AddItem(tc.in)
			require.ErrorIs(t, err, domain.ErrValidation)
			assert.Empty(t, d.Items)
		})
	}
}

func TestBackPreservesData(t *testing.T) {
	d := NewDraft("user-1")
	require.NoError(t, d.SelectVendor("vendor-1"))
	require.NoError(t, d.Next())
	_, err := d.AddItem(domain.ItemInput{Description: "Desks", Quantity: 2, UnitPrice: price("150")})
	require.NoError(t, err)
	require.NoError(t, d.Next())

	require.NoError(t, d.Back())
	require.NoError(t, d.Back())
	assert.Equal(t, StepSelectVendor, d.Step)
	assert.Equal(t, "vendor-1", d.VendorID)
	assert.Len(t, d.Items, 1)

	// Forward again without re-entering anything.
	require.NoError(t, d.Next())
	require.NoError(t, d.Next())
	assert.Equal(t, StepReviewSubmit, d.Step)
}

func TestBackFromInitialStepFails(t *testing.T) {
	d := NewDraft("user-1")
	require.ErrorIs(t, d.Back(), domain.ErrValidation)
}

func TestReviewTotals(t *testing.T) {
	d := NewDraft("user-1")
	require.NoError(t, d.SelectVendor("vendor-1"))
	require.NoError(t, d.Next())
	_, err := d.AddItem(domain.ItemInput{Description: "Desks", Quantity: 2, UnitPrice: price("100")})
	require.NoError(t, err)
	_, err = d.AddItem(domain.ItemInput{Description: "Chairs", Quantity: 1, UnitPrice: price("100")})
	require.NoError(t, err)
	require.NoError(t, d.Next())

	require.NoError(t, d.SetReview(price("10"), "deliver to main office"))
	assert.True(t, d.BaseTotal().Equal(price("300")))
	assert.True(t, d.GrandTotal().Equal(price("330")))
}

func TestSetReviewRejectsOutOfRangePercentage(t *testing.T) {
	d := NewDraft("user-1")
	require.NoError(t, d.SelectVendor("vendor-1"))
	require.NoError(t, d.Next())
	_, err := d.AddItem(domain.ItemInput{Description: "Desks", Quantity: 1, UnitPrice: price("10")})
	require.NoError(t, err)
	require.NoError(t, d.Next())

	require.ErrorIs(t, d.SetReview(price("101"), ""), domain.ErrValidation)
	require.ErrorIs(t, d.SetReview(price("-1"), ""), domain.ErrValidation)
}

func TestCheckSubmitRequiresReviewStep(t *testing.T) {
	d := NewDraft("user-1")
	require.ErrorIs(t, d.CheckSubmit(), domain.ErrValidation)

	require.NoError(t, d.SelectVendor("vendor-1"))
	require.NoError(t, d.Next())
	_, err := d.AddItem(domain.ItemInput{Description: "Desks", Quantity: 1, UnitPrice: price("10")})
	require.NoError(t, err)
	require.NoError(t, d.Next())
	require.NoError(t, d.CheckSubmit())

	d.MarkCreated()
	assert.Equal(t, StepCreated, d.Step)
	require.ErrorIs(t, d.Next(), domain.ErrValidation)
}

func TestRemoveItem(t *testing.T) {
	d := NewDraft("user-1")
	require.NoError(t, d.SelectVendor("vendor-1"))
	require.NoError(t, d.Next())
	item, err := d.AddItem(domain.ItemInput{Description: "Desks", Quantity: 1, UnitPrice: price("10")})
	require.NoError(t, err)

	require.NoError(t, d.RemoveItem(item.ID))
	assert.Empty(t, d.Items)
	require.ErrorIs(t, d.RemoveItem(item.ID), domain.ErrNotFound)
}

func TestMemoryDraftStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryDraftStore()

	d := NewDraft("user-1")
	require.NoError(t, d.SelectVendor("vendor-1"))
	require.NoError(t, store.Save(ctx, d))

	loaded, err := store.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.VendorID, loaded.VendorID)

	// Mutating the loaded copy must not leak back into the store.
	loaded.VendorID = "other"
	again, err := store.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "vendor-1", again.VendorID)

	require.NoError(t, store.Delete(ctx, d.ID))
	_, err = store.Get(ctx, d.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
