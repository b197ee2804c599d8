// Package totals computes an invoice's total breakdown from its line items,
// tax schedule and discount settings.
//
// Calculate is the single authoritative implementation: the unsaved-invoice
// preview endpoint and the totals persisted on save both run through it, so
// a breakdown shown before submitting always matches what is stored.
//
// Rounding is progressive: every monetary intermediate (normalized rate,
// line subtotal, adjustment, discounted subtotal, each tax amount, discount,
// grand total) is rounded to the currency precision as it is produced.
// Rounding only the final total gives different results and is not
// equivalent.
package totals

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerline/invoicing/models"
)

var oneHundred = decimal.NewFromInt(100)

// Line is the per-line breakdown of a calculated invoice.
type Line struct {
	ID                 int                 `json:"id"`
	Date               string              `json:"date,omitempty"`
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	Quantity           decimal.Decimal     `json:"quantity"`
	QuantityType       string              `json:"quantity_type"`
	Rate               decimal.Decimal     `json:"rate"` // inclusive taxes backed out
	Adjustment         decimal.NullDecimal `json:"adjustment"`
	TaxIndices         []int               `json:"tax_indices"`
	Subtotal           decimal.Decimal     `json:"subtotal"`
	DiscountedSubtotal decimal.Decimal     `json:"discounted_subtotal"`
}

// TaxAmount is one tax row of the breakdown. Taxes that compute to zero are
// suppressed from the result even when configured.
type TaxAmount struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// Result is the computed breakdown. It is derived state: recomputed from the
// inputs on every read and save, never the source of truth.
type Result struct {
	Lines          []Line          `json:"lines"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	PreTaxDiscount decimal.Decimal `json:"pre_tax_discount"` // negative or 0
	Taxes          []TaxAmount     `json:"taxes"`
	TaxTotal       decimal.Decimal `json:"tax_total"`
	Discount       decimal.Decimal `json:"discount"` // negative or 0
	Total          decimal.Decimal `json:"total"`
}

// Calculate reduces line items, a tax schedule and discount settings into a
// total breakdown, rounding every intermediate to the given currency
// precision. It is pure: inputs are not mutated and identical inputs always
// produce identical output.
//
// preTax is only applied when at least one line references a tax with a
// usable rate; post applies unconditionally. Both may be nil.
func Calculate(items []models.LineItem, schedule []models.TaxRate, preTax, post *models.Discount, precision int32) Result {
	precision = clampPrecision(precision)

	result := Result{
		Lines: make([]Line, 0, len(items)),
		Taxes: []TaxAmount{},
	}

	hasTax := false
	for _, item := range items {
		line := Line{
			ID:           item.ID,
			Date:         item.Date,
			Title:        item.Title,
			Description:  item.Description,
			Quantity:     item.Quantity,
			QuantityType: item.QuantityType,
			Rate:         item.Rate,
			Adjustment:   item.Adjustment,
			TaxIndices:   append([]int(nil), item.TaxIndices...),
		}

		// Back out inclusive taxes from the displayed rate. Multiple
		// inclusive taxes on one line combine additively before the
		// division, once per line per pass.
		inclusiveRate := decimal.Zero
		for _, idx := range item.TaxIndices {
			tax, ok := scheduleEntry(schedule, idx)
			if !ok {
				continue
			}
			hasTax = true
			if tax.Inclusive {
				inclusiveRate = inclusiveRate.Add(tax.Rate.Decimal.Div(oneHundred))
			}
		}
		if inclusiveRate.IsPositive() {
			line.Rate = item.Rate.Div(decimal.NewFromInt(1).Add(inclusiveRate)).Round(precision)
		}

		line.Subtotal = line.Quantity.Mul(line.Rate).Round(precision)
		if line.Adjustment.Valid {
			adjustment := line.Subtotal.Mul(line.Adjustment.Decimal.Div(oneHundred)).Round(precision)
			line.Subtotal = line.Subtotal.Add(adjustment)
		}
		line.DiscountedSubtotal = line.Subtotal

		result.Subtotal = result.Subtotal.Add(line.Subtotal)
		result.Lines = append(result.Lines, line)
	}

	// Pre-tax discount, distributed across lines in proportion to their
	// subtotals. Only meaningful when taxes apply: with no tax to shield,
	// the plain discount below covers the same ground.
	if hasTax && preTax != nil && !preTax.Value.IsZero() {
		if preTax.Type == models.DiscountFlat {
			result.PreTaxDiscount = preTax.Value.Round(precision).Neg()
		} else {
			result.PreTaxDiscount = result.Subtotal.Mul(preTax.Value.Div(oneHundred)).Round(precision).Neg()
		}
		// A zero subtotal would make the proportional share undefined;
		// each line then contributes nothing and keeps its subtotal.
		if !result.Subtotal.IsZero() {
			for i := range result.Lines {
				share := result.Lines[i].Subtotal.Div(result.Subtotal).Mul(result.PreTaxDiscount)
				result.Lines[i].DiscountedSubtotal = result.Lines[i].Subtotal.Add(share).Round(precision)
			}
		}
	}

	if hasTax {
		for idx, tax := range schedule {
			if !tax.Rate.Valid {
				continue
			}
			base := decimal.Zero
			for _, line := range result.Lines {
				if containsIndex(line.TaxIndices, idx) {
					base = base.Add(line.DiscountedSubtotal)
				}
			}
			amount := base.Mul(tax.Rate.Decimal.Div(oneHundred)).Round(precision)
			if amount.IsPositive() {
				result.Taxes = append(result.Taxes, TaxAmount{Label: tax.Label, Amount: amount})
				result.TaxTotal = result.TaxTotal.Add(amount)
			}
		}
	}

	if post != nil && !post.Value.IsZero() {
		if post.Type == models.DiscountFlat {
			result.Discount = post.Value.Round(precision).Neg()
		} else {
			base := result.Subtotal.Add(result.PreTaxDiscount).Add(result.TaxTotal)
			result.Discount = base.Mul(post.Value.Div(oneHundred)).Round(precision).Neg()
		}
	}

	result.Total = result.Subtotal.
		Add(result.PreTaxDiscount).
		Add(result.TaxTotal).
		Add(result.Discount).
		Round(precision)
	return result
}

// scheduleEntry reports the schedule entry a line's tax index refers to,
// treating out-of-range indices and entries without a usable rate as absent.
func scheduleEntry(schedule []models.TaxRate, idx int) (models.TaxRate, bool) {
	if idx < 0 || idx >= len(schedule) {
		return models.TaxRate{}, false
	}
	if !schedule[idx].Rate.Valid {
		return models.TaxRate{}, false
	}
	return schedule[idx], true
}

func containsIndex(indices []int, idx int) bool {
	for _, i := range indices {
		if i == idx {
			return true
		}
	}
	return false
}

func clampPrecision(p int32) int32 {
	if p < 0 {
		return 0
	}
	if p > 8 {
		return 8
	}
	return p
}
