package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment represents money received against an invoice.
type Payment struct {
	ID          int             `json:"id"`
	InvoiceID   int             `json:"invoice_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate *string         `json:"payment_date"`
	Method      *string         `json:"method"`
	Reference   *string         `json:"reference"`
	Notes       *string         `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Computed fields
	InvoiceNumber *string `json:"invoice_number,omitempty"`
	ClientName    *string `json:"client_name,omitempty"`
}

// PaymentInput is used for creating/updating payments.
type PaymentInput struct {
	InvoiceID   int     `json:"invoice_id"`
	Amount      string  `json:"amount"`
	PaymentDate *string `json:"payment_date"`
	Method      *string `json:"method"`
	Reference   *string `json:"reference"`
	Notes       *string `json:"notes"`
}

func (p *PaymentInput) Validate() string {
	if p.InvoiceID <= 0 {
		return "invoice_id is required"
	}
	amount, ok := ParseOptionalAmount(p.Amount)
	if !ok || !amount.IsPositive() {
		return "amount must be positive"
	}
	return ""
}
