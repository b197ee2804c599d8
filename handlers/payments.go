package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/invoicing/models"
)

const paymentSelectQuery = `SELECT p.id, p.invoice_id, p.amount, p.payment_date, p.method,
		p.reference, p.notes, p.created_at, p.updated_at, i.invoice_number, c.name
		FROM payments p
		JOIN invoices i ON p.invoice_id = i.id
		LEFT JOIN clients c ON i.client_id = c.id`

func scanPayment(scanner interface{ Scan(...any) error }) (models.Payment, error) {
	var p models.Payment
	err := scanner.Scan(&p.ID, &p.InvoiceID, &p.Amount, &p.PaymentDate, &p.Method,
		&p.Reference, &p.Notes, &p.CreatedAt, &p.UpdatedAt, &p.InvoiceNumber, &p.ClientName)
	return p, err
}

func getPaymentByID(id int) (models.Payment, error) {
	return scanPayment(DB.QueryRow(paymentSelectQuery+" WHERE p.id = ?", id))
}

// refreshInvoiceStatus re-derives an invoice's paid/partial status from its
// payment sum after a payment changes. Draft and cancelled invoices are left
// alone until money actually arrives. Last writer wins via a single UPDATE.
func refreshInvoiceStatus(invoiceID int) error {
	var status string
	var total decimal.Decimal
	err := DB.QueryRow(`SELECT status, total FROM invoices WHERE id = ?`, invoiceID).Scan(&status, &total)
	if err != nil {
		return err
	}

	paid, err := invoicePaid(invoiceID)
	if err != nil {
		return err
	}

	next := status
	switch {
	case paid.IsPositive() && total.IsPositive() && paid.GreaterThanOrEqual(total):
		next = "paid"
	case paid.IsPositive():
		next = "partial"
	case status == "paid" || status == "partial":
		next = "sent"
	}
	if next == status {
		return nil
	}
	_, err = DB.Exec(`UPDATE invoices SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, next, invoiceID)
	return err
}

// ListPayments lists all payments
// @Summary      List payments
// @Description  Get a list of all payments.
// @Tags         payments
// @Produce      json
// @Param        invoice_id  query     int     false  "Filter by invoice"
// @Param        from        query     string  false  "Payment date lower bound (YYYY-MM-DD)"
// @Param        to          query     string  false  "Payment date upper bound (YYYY-MM-DD)"
// @Success      200         {object}  Response{data=[]models.Payment}
// @Router       /payments [get]
// @Security     BasicAuth
func ListPayments(w http.ResponseWriter, r *http.Request) {
	query := paymentSelectQuery
	var conditions []string
	var args []any

	if iid := r.URL.Query().Get("invoice_id"); iid != "" {
		conditions = append(conditions, "p.invoice_id = ?")
		args = append(args, iid)
	}
	if from := r.URL.Query().Get("from"); from != "" {
		conditions = append(conditions, "p.payment_date >= ?")
		args = append(args, from)
	}
	if to := r.URL.Query().Get("to"); to != "" {
		conditions = append(conditions, "p.payment_date <= ?")
		args = append(args, to)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY p.created_at DESC"

	rows, err := DB.Query(query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		payments = append(payments, p)
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	writeJSON(w, http.StatusOK, payments)
}

// GetPayment retrieves a single payment by ID
// @Summary      Get payment
// @Description  Get details of a specific payment.
// @Tags         payments
// @Produce      json
// @Param        id   path      int  true  "Payment ID"
// @Success      200  {object}  Response{data=models.Payment}
// @Failure      404  {object}  Response{error=string}
// @Router       /payments/{id} [get]
// @Security     BasicAuth
func GetPayment(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	p, err := getPaymentByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "payment not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreatePayment records a new payment
// @Summary      Create payment
// @Description  Record a payment against an invoice and re-derive the invoice status.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        payment  body      models.PaymentInput  true  "Payment contents"
// @Success      201      {object}  Response{data=models.Payment}
// @Failure      400      {object}  Response{error=string}
// @Router       /payments [post]
// @Security     BasicAuth
func CreatePayment(w http.ResponseWriter, r *http.Request) {
	var input models.PaymentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	amount := models.ParseAmount(input.Amount)

	var id int
	err := DB.QueryRow(`INSERT INTO payments (invoice_id, amount, payment_date, method, reference, notes)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		input.InvoiceID, amount, input.PaymentDate, input.Method, input.Reference, input.Notes).Scan(&id)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := refreshInvoiceStatus(input.InvoiceID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	p, err := getPaymentByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created payment: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// UpdatePayment updates an existing payment
// @Summary      Update payment
// @Description  Update a payment and re-derive the affected invoice statuses.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id       path      int                  true  "Payment ID"
// @Param        payment  body      models.PaymentInput  true  "Updated payment contents"
// @Success      200      {object}  Response{data=models.Payment}
// @Failure      400      {object}  Response{error=string}
// @Failure      404      {object}  Response{error=string}
// @Router       /payments/{id} [put]
// @Security     BasicAuth
func UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	var input models.PaymentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	amount := models.ParseAmount(input.Amount)

	// The payment may be moving between invoices; both need their status
	// re-derived.
	var previousInvoiceID int
	if err := DB.QueryRow(`SELECT invoice_id FROM payments WHERE id = ?`, id).Scan(&previousInvoiceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "payment not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	_, err := DB.Exec(`UPDATE payments SET invoice_id = ?, amount = ?, payment_date = ?,
		method = ?, reference = ?, notes = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		input.InvoiceID, amount, input.PaymentDate, input.Method, input.Reference, input.Notes, id)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := refreshInvoiceStatus(input.InvoiceID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if previousInvoiceID != input.InvoiceID {
		if err := refreshInvoiceStatus(previousInvoiceID); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	p, err := getPaymentByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated payment: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeletePayment deletes a payment
// @Summary      Delete payment
// @Description  Remove a payment and re-derive the invoice status.
// @Tags         payments
// @Produce      json
// @Param        id   path      int  true  "Payment ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /payments/{id} [delete]
// @Security     BasicAuth
func DeletePayment(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	var invoiceID int
	if err := DB.QueryRow(`SELECT invoice_id FROM payments WHERE id = ?`, id).Scan(&invoiceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "payment not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if _, err := DB.Exec("DELETE FROM payments WHERE id = ?", id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := refreshInvoiceStatus(invoiceID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// GetInvoicePayments retrieves all payments recorded against an invoice
// @Summary      Get invoice payments
// @Description  Get all payments linked to a specific invoice.
// @Tags         invoices
// @Produce      json
// @Param        id   path      int  true  "Invoice ID"
// @Success      200  {object}  Response{data=[]models.Payment}
// @Router       /invoices/{id}/payments [get]
// @Security     BasicAuth
func GetInvoicePayments(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	rows, err := DB.Query(paymentSelectQuery+" WHERE p.invoice_id = ? ORDER BY p.payment_date, p.id", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		payments = append(payments, p)
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	writeJSON(w, http.StatusOK, payments)
}
