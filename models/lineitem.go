package models

import (
	"slices"

	"github.com/shopspring/decimal"
)

// LineItem is one billable row on an invoice. Line items have no identity
// outside their parent invoice: they are serialized as an ordered JSON list
// in a single column and rebuilt from form input on every save.
//
// Rate is always rounded to the currency precision before it participates in
// any multiplication, so repeated edits cannot accumulate floating-point
// drift across line items.
type LineItem struct {
	ID           int                 `json:"id"`
	OrderIndex   int                 `json:"order_index"`
	Date         string              `json:"date,omitempty"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	TaxIndices   []int               `json:"tax_indices"`
	Quantity     decimal.Decimal     `json:"quantity"`
	QuantityType string              `json:"quantity_type"`
	Rate         decimal.Decimal     `json:"rate"`
	Adjustment   decimal.NullDecimal `json:"adjustment"` // percentage; null = not set
}

// LineItemInput is one submitted line-item block. Numeric fields arrive as
// raw form strings: quantity and rate fall back to zero when non-numeric,
// and an empty adjustment means "no adjustment" rather than an explicit 0%.
type LineItemInput struct {
	ID           int    `json:"id"` // 0 = not yet assigned
	OrderIndex   int    `json:"order_index"`
	Date         string `json:"date"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	TaxIndices   []int  `json:"tax_indices"`
	Quantity     string `json:"quantity"`
	QuantityType string `json:"quantity_type"`
	Rate         string `json:"rate"`
	Adjustment   string `json:"adjustment"`
}

// NormalizeLineItems rebuilds the typed line-item list from submitted form
// blocks:
//
//   - rows are stable-sorted by their explicit order index,
//   - rows without an ID get max(existing)+1, assigned in submission order,
//   - quantity and rate are coerced (non-numeric to 0, negative quantity to
//     0) and the rate is rounded to the currency precision,
//   - tax indices are deduplicated and negatives dropped.
func NormalizeLineItems(inputs []LineItemInput, precision int32) []LineItem {
	items := make([]LineItem, 0, len(inputs))

	nextID := 1
	for _, in := range inputs {
		if in.ID >= nextID {
			nextID = in.ID + 1
		}
	}

	for _, in := range inputs {
		item := LineItem{
			ID:           in.ID,
			OrderIndex:   in.OrderIndex,
			Date:         in.Date,
			Title:        in.Title,
			Description:  in.Description,
			TaxIndices:   normalizeTaxIndices(in.TaxIndices),
			QuantityType: in.QuantityType,
		}
		if item.ID <= 0 {
			item.ID = nextID
			nextID++
		}

		qty := ParseAmount(in.Quantity)
		if qty.IsNegative() {
			qty = decimal.Zero
		}
		item.Quantity = qty
		item.Rate = ParseAmount(in.Rate).Round(precision)
		if adj, ok := ParseOptionalAmount(in.Adjustment); ok {
			item.Adjustment = decimal.NullDecimal{Decimal: adj, Valid: true}
		}

		items = append(items, item)
	}

	slices.SortStableFunc(items, func(a, b LineItem) int {
		return a.OrderIndex - b.OrderIndex
	})
	return items
}

func normalizeTaxIndices(indices []int) []int {
	out := make([]int, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || slices.Contains(out, idx) {
			continue
		}
		out = append(out, idx)
	}
	slices.Sort(out)
	return out
}
