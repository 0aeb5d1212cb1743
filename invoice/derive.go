/*
derive.go - Monetary derivation from line items and rates

PURPOSE:
  Pure functions computing subtotal, discount amount, tax amount, and grand
  total. No caching, no invalidation: totals are recomputed on every read.

FORMULAS:
  subtotal       = SUM(item.Amount)              (amounts read as stored)
  discountAmount = subtotal * discount / 100
  taxAmount      = (subtotal - discountAmount) * tax / 100
  total          = subtotal - discountAmount + taxAmount

  Tax is computed on the POST-DISCOUNT amount, not on the raw subtotal.

ZERO SAFETY:
  All four return zero for nil details or an empty item sequence rather
  than failing.

SEE ALSO:
  - types.go: LineItem.Amount write-through rule
  - session/session.go: The mutation protocol that keeps amounts in sync
*/
package invoice

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Subtotal sums the stored line amounts.
func Subtotal(d *Details) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, item := range d.Items {
		sum = sum.Add(item.Amount)
	}
	return sum
}

// DiscountAmount is the discount rate applied to the subtotal.
func DiscountAmount(d *Details) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return Subtotal(d).Mul(d.Discount).Div(hundred)
}

// TaxAmount is the tax rate applied to the post-discount amount.
func TaxAmount(d *Details) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	afterDiscount := Subtotal(d).Sub(DiscountAmount(d))
	return afterDiscount.Mul(d.Tax).Div(hundred)
}

// Total is subtotal - discount + tax.
func Total(d *Details) decimal.Decimal {
	return Subtotal(d).Sub(DiscountAmount(d)).Add(TaxAmount(d))
}

// Totals bundles the four derived amounts for callers that want all of them.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	Total          decimal.Decimal `json:"total"`
}

// Compute derives all four totals in one pass over the formulas.
func Compute(d *Details) Totals {
	return Totals{
		Subtotal:       Subtotal(d),
		DiscountAmount: DiscountAmount(d),
		TaxAmount:      TaxAmount(d),
		Total:          Total(d),
	}
}
