// Package reconcile repairs inconsistent or partially-missing numeric fields
// in an extracted document so that qty*unitPrice = amount and
// subtotal+taxAmount = total hold as closely as the data allows. It never
// fails: unparseable values stay null and irreducibly inconsistent records
// are left as close to consistent as possible.
package reconcile

import (
	"math"
	"strings"

	"github.com/sxdkling-ops/ocrv/internal/domain"
)

const (
	// amountTolerance is the monetary approximate-equality window.
	amountTolerance = 0.05
	// correctedTolerance is the looser window accepted after an
	// integer-quantity correction.
	correctedTolerance = 0.1
	// integerSnapWindow decides whether a derived quantity snaps to a whole
	// unit. Quantities are usually whole units, so snapping is preferred
	// when plausible.
	integerSnapWindow = 0.02
	// qtyCorrectionWindow bounds how far a recomputed quantity may sit from
	// an integer for the correction to be attempted.
	qtyCorrectionWindow = 0.05
)

// Round2 rounds to two decimals, half away from zero. The 1e-9 nudge counters
// binary floating-point representation error on exact halves.
func Round2(v float64) float64 {
	if v < 0 {
		return -Round2(-v)
	}
	return math.Floor(v*100+0.5+1e-9) / 100
}

func round2N(n domain.Numeric) domain.Numeric {
	if !n.Valid {
		return n
	}
	return domain.Num(Round2(n.Value))
}

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// Reconcile normalizes and repairs doc in place. It is total and idempotent:
// running it again on its own output changes nothing.
func Reconcile(doc *domain.StructuredDocument) {
	if doc == nil {
		return
	}

	doc.DocType = cleanString(doc.DocType)
	doc.Vendor = cleanString(doc.Vendor)
	doc.ReferenceNo = cleanString(doc.ReferenceNo)
	doc.Date = cleanString(doc.Date)
	doc.Currency = cleanString(doc.Currency)
	doc.RecipientName = cleanString(doc.RecipientName)
	doc.RecipientAddress = cleanString(doc.RecipientAddress)
	doc.Notes = cleanString(doc.Notes)

	for i := range doc.LineItems {
		reconcileItem(&doc.LineItems[i])
	}

	doc.Subtotal = round2N(doc.Subtotal)
	doc.TaxAmount = round2N(doc.TaxAmount)
	doc.Total = round2N(doc.Total)
	deriveTotals(doc)
}

// reconcileItem repairs one line item. Precedence: fill the single missing
// field first; only when all three are present and inconsistent does the
// integer-quantity correction run, and as a last resort unit price is
// recomputed from quantity and amount, unit price being the least reliable
// extracted field. If both quantity and unit price were extracted wrong this
// can settle on a self-consistent but incorrect pair; that limitation is
// accepted and pinned by tests.
func reconcileItem(it *domain.LineItem) {
	it.ProductOrService = cleanString(it.ProductOrService)
	it.Description = cleanString(it.Description)

	qty := it.Qty
	price := round2N(it.UnitPrice)
	amount := round2N(it.Amount)

	switch {
	case !amount.Valid && qty.Valid && price.Valid:
		amount = domain.Num(Round2(qty.Value * price.Value))
	case !price.Valid && qty.Valid && qty.Value != 0 && amount.Valid:
		price = domain.Num(Round2(amount.Value / qty.Value))
	case !qty.Valid && price.Valid && price.Value != 0 && amount.Valid:
		q := amount.Value / price.Value
		if nearest := math.Round(q); math.Abs(q-nearest) <= integerSnapWindow {
			qty = domain.Num(nearest)
		} else {
			qty = domain.Num(Round2(q))
		}
	}

	if qty.Valid && price.Valid && amount.Valid {
		calc := Round2(qty.Value * price.Value)
		if !approxEqual(calc, amount.Value, amountTolerance) {
			corrected := false
			if price.Value != 0 {
				q := amount.Value / price.Value
				qInt := math.Round(q)
				if math.Abs(q-qInt) < qtyCorrectionWindow {
					if calc2 := Round2(qInt * price.Value); approxEqual(calc2, amount.Value, correctedTolerance) {
						qty = domain.Num(qInt)
						corrected = true
					}
				}
			}
			if !corrected && qty.Value != 0 {
				price = domain.Num(Round2(amount.Value / qty.Value))
			}
		}
	}

	it.Qty, it.UnitPrice, it.Amount = qty, price, amount
}

// deriveTotals fills still-null top-level fields from what is known. An
// already-present total is never overridden, even when inconsistent.
func deriveTotals(doc *domain.StructuredDocument) {
	if !doc.Subtotal.Valid {
		var sum float64
		for _, it := range doc.LineItems {
			if it.Amount.Valid {
				sum += it.Amount.Value
			}
		}
		if rounded := Round2(sum); rounded != 0 {
			doc.Subtotal = domain.Num(rounded)
		}
	}
	if !doc.TaxAmount.Valid && doc.Subtotal.Valid && doc.TaxRate.Valid {
		doc.TaxAmount = domain.Num(Round2(doc.Subtotal.Value * doc.TaxRate.Value / 100))
	}
	if !doc.Total.Valid && doc.Subtotal.Valid && doc.TaxAmount.Valid {
		doc.Total = domain.Num(Round2(doc.Subtotal.Value + doc.TaxAmount.Value))
	}
}

// cleanString trims s and normalizes blank or literal "null" values to nil.
func cleanString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" || strings.EqualFold(v, "null") {
		return nil
	}
	return &v
}
