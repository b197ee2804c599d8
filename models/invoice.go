package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice represents a receivable invoice to a client. Line items, the tax
// schedule override and the discount settings are the source of truth; the
// stored totals are derived from them on every save and overwritten, never
// edited directly.
type Invoice struct {
	ID            int     `json:"id"`
	ClientID      int     `json:"client_id"`
	ProjectID     *int    `json:"project_id"`
	InvoiceNumber string  `json:"invoice_number"`
	PONumber      *string `json:"po_number"`
	IssueDate     *string `json:"issue_date"`
	DueDate       *string `json:"due_date"`
	Status        string  `json:"status"`

	LineItems      []LineItem `json:"line_items"`
	Taxes          *[]TaxRate `json:"taxes"` // nil = inherit client/global schedule
	PreTaxDiscount *Discount  `json:"pre_tax_discount"`
	Discount       *Discount  `json:"discount"`
	Notes          *string    `json:"notes"`
	ViewKey        string     `json:"view_key"` // shareable read-only access token

	// Derived totals, recomputed on every save.
	Subtotal             decimal.Decimal `json:"subtotal"`
	PreTaxDiscountAmount decimal.Decimal `json:"pre_tax_discount_amount"` // negative or 0
	TaxTotal             decimal.Decimal `json:"tax_total"`
	DiscountAmount       decimal.Decimal `json:"discount_amount"` // negative or 0
	Total                decimal.Decimal `json:"total"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Computed fields
	ClientName *string         `json:"client_name,omitempty"`
	Paid       decimal.Decimal `json:"paid"`
	Balance    decimal.Decimal `json:"balance"` // total - paid
}

// InvoiceInput is used for creating/updating invoices. An empty invoice
// number on create is filled in from the configured number template.
type InvoiceInput struct {
	ClientID       int             `json:"client_id"`
	ProjectID      *int            `json:"project_id"`
	InvoiceNumber  string          `json:"invoice_number"`
	PONumber       *string         `json:"po_number"`
	IssueDate      *string         `json:"issue_date"`
	DueDate        *string         `json:"due_date"`
	Status         string          `json:"status"`
	LineItems      []LineItemInput `json:"line_items"`
	Taxes          *[]TaxRateInput `json:"taxes"`
	PreTaxDiscount DiscountInput   `json:"pre_tax_discount"`
	Discount       DiscountInput   `json:"discount"`
	Notes          *string         `json:"notes"`
}

func (i *InvoiceInput) Validate() string {
	if i.ClientID <= 0 {
		return "client_id is required"
	}
	switch i.Status {
	case "", "draft", "sent", "partial", "paid", "overdue", "cancelled":
	default:
		return "status must be one of: draft, sent, partial, paid, overdue, cancelled"
	}
	if i.Status == "" {
		i.Status = "draft"
	}
	if msg := i.PreTaxDiscount.Validate(); msg != "" {
		return "pre_tax_discount: " + msg
	}
	if msg := i.Discount.Validate(); msg != "" {
		return "discount: " + msg
	}
	return ""
}

// TaxScheduleOverride converts the submitted invoice-level schedule, keeping
// nil (inherit) distinct from an explicit empty schedule.
func (i *InvoiceInput) TaxScheduleOverride() *[]TaxRate {
	if i.Taxes == nil {
		return nil
	}
	schedule := TaxSchedule(*i.Taxes)
	if schedule == nil {
		schedule = []TaxRate{}
	}
	return &schedule
}
