package models

import "time"

// Currency describes how monetary values are displayed and how many
// fractional digits the totals engine rounds to. Precision is clamped to the
// 0-8 range everywhere it is consumed.
type Currency struct {
	Code               string `json:"code"`
	Symbol             string `json:"symbol"`
	ThousandsSeparator string `json:"thousands_separator"`
	DecimalSeparator   string `json:"decimal_separator"`
	Precision          int32  `json:"precision"`
}

// DefaultCurrency is used until settings are configured.
var DefaultCurrency = Currency{
	Code:               "USD",
	Symbol:             "$",
	ThousandsSeparator: ",",
	DecimalSeparator:   ".",
	Precision:          2,
}

// Settings is the single global configuration record.
type Settings struct {
	CompanyName    string    `json:"company_name"`
	CompanyAddress *string   `json:"company_address"`
	Currency       Currency  `json:"currency"`
	Taxes          []TaxRate `json:"taxes"` // default tax schedule
	NumberTemplate string    `json:"number_template"`
	NetDueDays     int       `json:"net_due_days"`
	NextSequence   int64     `json:"next_sequence"` // invoice number sequence, read-only
	UpdatedAt      time.Time `json:"updated_at"`
}

// SettingsInput is used for updating settings. The invoice number sequence
// is advanced by invoice creation, not edited here.
type SettingsInput struct {
	CompanyName    string         `json:"company_name"`
	CompanyAddress *string        `json:"company_address"`
	Currency       Currency       `json:"currency"`
	Taxes          []TaxRateInput `json:"taxes"`
	NumberTemplate string         `json:"number_template"`
	NetDueDays     int            `json:"net_due_days"`
}

func (s *SettingsInput) Validate() string {
	if s.Currency.Code == "" {
		return "currency code is required"
	}
	if s.Currency.Precision < 0 || s.Currency.Precision > 8 {
		return "currency precision must be between 0 and 8"
	}
	if s.NetDueDays < 0 {
		return "net_due_days must be non-negative"
	}
	return ""
}
