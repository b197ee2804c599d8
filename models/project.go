package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project represents a body of work for a client. Its rate, when set,
// overrides the client's default rate for new invoice line items.
type Project struct {
	ID       int                 `json:"id"`
	ClientID int                 `json:"client_id"`
	Name     string              `json:"name"`
	Rate     decimal.NullDecimal `json:"rate"`
	Status   string              `json:"status"` // active, inactive
	Website  *string             `json:"website"`
	Notes    *string             `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Computed fields
	ClientName *string `json:"client_name,omitempty"`
}

// ProjectInput is used for creating/updating projects.
type ProjectInput struct {
	ClientID int     `json:"client_id"`
	Name     string  `json:"name"`
	Rate     string  `json:"rate"`
	Status   string  `json:"status"`
	Website  *string `json:"website"`
	Notes    *string `json:"notes"`
}

func (p *ProjectInput) Validate() string {
	if p.ClientID <= 0 {
		return "client_id is required"
	}
	if p.Name == "" {
		return "name is required"
	}
	switch p.Status {
	case "", "active", "inactive":
	default:
		return "status must be one of: active, inactive"
	}
	if p.Status == "" {
		p.Status = "active"
	}
	return ""
}
