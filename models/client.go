package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client represents a billable customer.
type Client struct {
	ID      int                 `json:"id"`
	Name    string              `json:"name"`
	Email   *string             `json:"email"`
	Phone   *string             `json:"phone"`
	Address *string             `json:"address"`
	Website *string             `json:"website"`
	Rate    decimal.NullDecimal `json:"rate"`  // default hourly rate
	Taxes   *[]TaxRate          `json:"taxes"` // nil = use global default
	Notes   *string             `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Computed fields
	Invoiced decimal.Decimal `json:"invoiced"` // sum of non-cancelled invoice totals
	Paid     decimal.Decimal `json:"paid"`     // sum of payments on those invoices
	Balance  decimal.Decimal `json:"balance"`  // invoiced - paid
}

// ClientInput is used for creating/updating clients.
type ClientInput struct {
	Name    string          `json:"name"`
	Email   *string         `json:"email"`
	Phone   *string         `json:"phone"`
	Address *string         `json:"address"`
	Website *string         `json:"website"`
	Rate    string          `json:"rate"`
	Taxes   *[]TaxRateInput `json:"taxes"`
	Notes   *string         `json:"notes"`
}

func (c *ClientInput) Validate() string {
	if c.Name == "" {
		return "name is required"
	}
	return ""
}
