package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"
)

type dashboardData struct {
	TotalClients  int `json:"total_clients"`
	TotalProjects int `json:"total_projects"`
	TotalInvoices int `json:"total_invoices"`
	TotalPayments int `json:"total_payments"`

	Receivable      decimal.Decimal `json:"receivable"` // open invoice balances
	PaidThisMonth   decimal.Decimal `json:"paid_this_month"`
	DraftInvoices   int             `json:"draft_invoices"`
	OverdueInvoices int             `json:"overdue_invoices"`

	RecentInvoices []map[string]any `json:"recent_invoices"`
}

// GetDashboard retrieves dashboard summary statistics
// @Summary      Get dashboard
// @Description  Get counts, outstanding receivables, and recent invoices.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  Response{data=dashboardData}
// @Router       /dashboard [get]
// @Security     BasicAuth
func GetDashboard(w http.ResponseWriter, r *http.Request) {
	var d dashboardData

	DB.QueryRow("SELECT COUNT(*) FROM clients").Scan(&d.TotalClients)
	DB.QueryRow("SELECT COUNT(*) FROM projects").Scan(&d.TotalProjects)
	DB.QueryRow("SELECT COUNT(*) FROM invoices").Scan(&d.TotalInvoices)
	DB.QueryRow("SELECT COUNT(*) FROM payments").Scan(&d.TotalPayments)
	DB.QueryRow("SELECT COUNT(*) FROM invoices WHERE status = 'draft'").Scan(&d.DraftInvoices)
	DB.QueryRow("SELECT COUNT(*) FROM invoices WHERE status = 'overdue'").Scan(&d.OverdueInvoices)

	// Outstanding receivable: decimal columns are summed in Go, not SQL.
	rows, err := DB.Query(`SELECT id, total FROM invoices WHERE status NOT IN ('draft', 'paid', 'cancelled')`)
	if err == nil {
		defer rows.Close()
		paid, perr := paidByInvoice()
		for rows.Next() {
			var id int
			var total decimal.Decimal
			if rows.Scan(&id, &total) == nil && perr == nil {
				d.Receivable = d.Receivable.Add(total.Sub(paid[id]))
			}
		}
	}

	payRows, err := DB.Query(`SELECT amount FROM payments WHERE payment_date >= date('now', 'start of month')`)
	if err == nil {
		defer payRows.Close()
		for payRows.Next() {
			var amount decimal.Decimal
			if payRows.Scan(&amount) == nil {
				d.PaidThisMonth = d.PaidThisMonth.Add(amount)
			}
		}
	}

	// Recent 5 invoices
	recentRows, err := DB.Query(`SELECT i.id, i.invoice_number, i.status, i.total, i.due_date, c.name
		FROM invoices i LEFT JOIN clients c ON i.client_id = c.id
		ORDER BY i.created_at DESC LIMIT 5`)
	if err == nil {
		defer recentRows.Close()
		for recentRows.Next() {
			var id int
			var number, status string
			var total decimal.Decimal
			var dueDate, clientName *string
			recentRows.Scan(&id, &number, &status, &total, &dueDate, &clientName)
			d.RecentInvoices = append(d.RecentInvoices, map[string]any{
				"id":             id,
				"invoice_number": number,
				"status":         status,
				"total":          total,
				"due_date":       dueDate,
				"client_name":    clientName,
			})
		}
	}
	if d.RecentInvoices == nil {
		d.RecentInvoices = []map[string]any{}
	}

	writeJSON(w, http.StatusOK, d)
}
