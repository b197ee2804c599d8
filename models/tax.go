package models

import "github.com/shopspring/decimal"

// TaxRate is one entry of a tax schedule. Rate is a percentage. An inclusive
// rate is already folded into the line rates that reference it and is backed
// out before subtotals are computed; an exclusive rate is added on top.
// An invalid (null) rate disables the entry without removing it from the
// schedule, so line item tax indices keep their meaning.
type TaxRate struct {
	Label     string              `json:"label"`
	Rate      decimal.NullDecimal `json:"rate"`
	Inclusive bool                `json:"inclusive"`
}

// TaxRateInput is one submitted tax schedule entry. The rate arrives as the
// raw form string; a non-numeric value yields a disabled entry.
type TaxRateInput struct {
	Label     string `json:"label"`
	Rate      string `json:"rate"`
	Inclusive bool   `json:"inclusive"`
}

// TaxRate converts the submitted entry into its typed form.
func (t TaxRateInput) TaxRate() TaxRate {
	r := TaxRate{Label: t.Label, Inclusive: t.Inclusive}
	if d, ok := ParseOptionalAmount(t.Rate); ok {
		r.Rate = decimal.NullDecimal{Decimal: d, Valid: true}
	}
	return r
}

// TaxSchedule converts a list of submitted entries, preserving order.
func TaxSchedule(inputs []TaxRateInput) []TaxRate {
	if inputs == nil {
		return nil
	}
	schedule := make([]TaxRate, len(inputs))
	for i, in := range inputs {
		schedule[i] = in.TaxRate()
	}
	return schedule
}

// ResolveTaxSchedule picks the schedule that applies to an invoice:
// invoice-level override first, then the client's override, then the global
// default from settings.
func ResolveTaxSchedule(invoice, client *[]TaxRate, global []TaxRate) []TaxRate {
	if invoice != nil {
		return *invoice
	}
	if client != nil {
		return *client
	}
	return global
}
