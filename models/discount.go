package models

import "github.com/shopspring/decimal"

// Discount types.
const (
	DiscountPercentage = "percentage"
	DiscountFlat       = "flat"
)

// Discount is a percentage or flat deduction. A nil *Discount means no
// discount was entered at all.
type Discount struct {
	Type  string          `json:"type"` // percentage, flat
	Value decimal.Decimal `json:"value"`
}

// DiscountInput is a submitted discount. The value arrives as the raw form
// string; empty, non-numeric, or zero all mean "no discount".
type DiscountInput struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (d *DiscountInput) Validate() string {
	switch d.Type {
	case "", DiscountPercentage, DiscountFlat:
	default:
		return "discount type must be one of: percentage, flat"
	}
	return ""
}

// DiscountFromStored rebuilds a discount from its persisted type and value
// columns; either being null means no discount.
func DiscountFromStored(dtype, value *string) *Discount {
	if dtype == nil || value == nil {
		return nil
	}
	in := DiscountInput{Type: *dtype, Value: *value}
	return in.Discount()
}

// Discount returns the typed discount, or nil when no usable discount was
// entered.
func (d DiscountInput) Discount() *Discount {
	v, ok := ParseOptionalAmount(d.Value)
	if !ok || v.IsZero() {
		return nil
	}
	t := d.Type
	if t == "" {
		t = DiscountPercentage
	}
	return &Discount{Type: t, Value: v}
}
