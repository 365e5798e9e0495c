package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sxdkling-ops/ocrv/internal/domain"
)

func item(qty, price, amount domain.Numeric) domain.LineItem {
	return domain.LineItem{Qty: qty, UnitPrice: price, Amount: amount}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 2.68, Round2(2.675))
	assert.Equal(t, -2.68, Round2(-2.675))
	assert.Equal(t, 1.0, Round2(0.995))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, 10.52, Round2(10.516666))
}

func TestReconcile_FillsMissingAmount(t *testing.T) {
	doc := &domain.StructuredDocument{
		LineItems: []domain.LineItem{item(domain.Num(3), domain.Num(10), domain.Numeric{})},
	}
	Reconcile(doc)

	it := doc.LineItems[0]
	require.True(t, it.Amount.Valid)
	assert.Equal(t, 30.0, it.Amount.Value)
}

func TestReconcile_FillsMissingPrice(t *testing.T) {
	doc := &domain.StructuredDocument{
		LineItems: []domain.LineItem{item(domain.Num(3), domain.Numeric{}, domain.Num(15))},
	}
	Reconcile(doc)

	it := doc.LineItems[0]
	require.True(t, it.UnitPrice.Valid)
	assert.Equal(t, 5.0, it.UnitPrice.Value)
}

func TestReconcile_FillsMissingQty_SnapsToInteger(t *testing.T) {
	// 15.02 / 5 = 3.004, within the integer snap window
	doc := &domain.StructuredDocument{
		LineItems: []domain.LineItem{item(domain.Numeric{}, domain.Num(5), domain.Num(15.02))},
	}
	Reconcile(doc)

	it := doc.LineItems[0]
	require.True(t, it.Qty.Valid)
	assert.Equal(t, 3.0, it.Qty.Value)
}

func TestReconcile_FillsMissingQty_KeepsFraction(t *testing.T) {
	// 17.50 / 5 = 3.5, too far from an integer to snap
	doc := &domain.StructuredDocument{
		LineItems: []domain.LineItem{item(domain.Numeric{}, domain.Num(5), domain.Num(17.50))},
	}
	Reconcile(doc)

	it := doc.LineItems[0]
	require.True(t, it.Qty.Valid)
	assert.Equal(t, 3.5, it.Qty.Value)
}

func TestReconcile_ConsistentWithinTolerance_Unchanged(t *testing.T) {
	doc := &domain.StructuredDocument{
		LineItems: []domain.LineItem{item(domain.Num(2), domain.Num(10), domain.Num(19.98))},
	}
	Reconcile(doc)

	it := doc.LineItems[0]
	assert.Equal(t, 2.0, it.Qty.Value)
	assert.Equal(t, 10.0, it.UnitPrice.Value)
	assert.Equal(t, 19.98, it.Amount.Value)
}

func TestReconcile_IntegerQtyCorrection(t *testing.T) {
	// 2 * 10 != 30, but 30/10 lands on an integer: quantity was misread
	doc := &domain.StructuredDocument{
		LineItems: []domain.LineItem{item(domain.Num(2), domain.Num(10), domain.Num(30))},
	}
	Reconcile(doc)

	it := doc.LineItems[0]
	assert.Equal(t, 3.0, it.Qty.Value)
	assert.Equal(t, 10.0, it.UnitPrice.Value)
	assert.Equal(t, 30.0, it.Amount.Value)
}

func TestReconcile_PriceRecomputedWhenQtyNotCorrectable(t *testing.T) {
	// 31.55/10 = 3.155, too far from an integer, so unit price is recomputed
	doc := &domain.StructuredDocument{
		LineItems: []domain.LineItem{item(domain.Num(3), domain.Num(10), domain.Num(31.55))},
	}
	Reconcile(doc)

	it := doc.LineItems[0]
	assert.Equal(t, 3.0, it.Qty.Value)
	assert.Equal(t, 10.52, it.UnitPrice.Value)
	assert.Equal(t, 31.55, it.Amount.Value)
}

func TestReconcile_SubtotalFromLineItems(t *testing.T) {
	doc := &domain.StructuredDocument{
		LineItems: []domain.LineItem{
			item(domain.Num(1), domain.Num(10), domain.Num(10)),
			item(domain.Num(1), domain.Num(5), domain.Num(5)),
		},
	}
	Reconcile(doc)

	require.True(t, doc.Subtotal.Valid)
	assert.Equal(t, 15.0, doc.Subtotal.Value)
}

func TestReconcile_SubtotalNotWrittenWhenZero(t *testing.T) {
	doc := &domain.StructuredDocument{}
	Reconcile(doc)
	assert.False(t, doc.Subtotal.Valid)
}

func TestReconcile_TaxChainDerivation(t *testing.T) {
	doc := &domain.StructuredDocument{
		Subtotal: domain.Num(100),
		TaxRate:  domain.Num(13),
	}
	Reconcile(doc)

	require.True(t, doc.TaxAmount.Valid)
	assert.Equal(t, 13.0, doc.TaxAmount.Value)
	require.True(t, doc.Total.Valid)
	assert.Equal(t, 113.0, doc.Total.Value)
}

func TestReconcile_ExistingTotalNeverOverridden(t *testing.T) {
	doc := &domain.StructuredDocument{
		Subtotal:  domain.Num(100),
		TaxAmount: domain.Num(13),
		Total:     domain.Num(999),
	}
	Reconcile(doc)
	assert.Equal(t, 999.0, doc.Total.Value)
}

func TestReconcile_Idempotent(t *testing.T) {
	doc := &domain.StructuredDocument{
		Vendor:  strPtr("  Acme Corp  "),
		TaxRate: domain.Num(18),
		LineItems: []domain.LineItem{
			item(domain.Num(2), domain.Num(10), domain.Num(30)),
			item(domain.Num(3), domain.Numeric{}, domain.Num(15.02)),
			item(domain.Numeric{}, domain.Num(5), domain.Num(15.02)),
		},
	}
	Reconcile(doc)

	first := *doc
	firstItems := append([]domain.LineItem(nil), doc.LineItems...)

	Reconcile(doc)
	assert.Equal(t, firstItems, doc.LineItems)
	assert.Equal(t, first.Subtotal, doc.Subtotal)
	assert.Equal(t, first.TaxAmount, doc.TaxAmount)
	assert.Equal(t, first.Total, doc.Total)
	assert.Equal(t, first.Vendor, doc.Vendor)
}

func TestReconcile_CleansDescriptiveFields(t *testing.T) {
	doc := &domain.StructuredDocument{
		Vendor:      strPtr("  Acme Corp  "),
		ReferenceNo: strPtr("   "),
		Notes:       strPtr("null"),
		LineItems: []domain.LineItem{
			{Description: strPtr(" NULL ")},
		},
	}
	Reconcile(doc)

	require.NotNil(t, doc.Vendor)
	assert.Equal(t, "Acme Corp", *doc.Vendor)
	assert.Nil(t, doc.ReferenceNo)
	assert.Nil(t, doc.Notes)
	assert.Nil(t, doc.LineItems[0].Description)
}

func TestReconcile_NilDocument(t *testing.T) {
	assert.NotPanics(t, func() { Reconcile(nil) })
}

func strPtr(s string) *string { return &s }
