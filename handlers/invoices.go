package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/invoicing/format"
	"github.com/ledgerline/invoicing/models"
	"github.com/ledgerline/invoicing/pdf"
	"github.com/ledgerline/invoicing/totals"
)

const invoiceSelectQuery = `SELECT i.id, i.client_id, i.project_id, i.invoice_number, i.po_number,
		i.issue_date, i.due_date, i.status, i.line_items, i.taxes,
		i.pre_tax_discount_type, i.pre_tax_discount_value, i.discount_type, i.discount_value,
		i.notes, i.view_key, i.subtotal, i.pre_tax_discount_amount, i.tax_total,
		i.discount_amount, i.total, i.created_at, i.updated_at, c.name
		FROM invoices i
		LEFT JOIN clients c ON i.client_id = c.id`

func scanInvoice(scanner interface{ Scan(...any) error }) (models.Invoice, error) {
	var inv models.Invoice
	var lineItems string
	var taxes, preType, preValue, postType, postValue *string
	err := scanner.Scan(&inv.ID, &inv.ClientID, &inv.ProjectID, &inv.InvoiceNumber, &inv.PONumber,
		&inv.IssueDate, &inv.DueDate, &inv.Status, &lineItems, &taxes,
		&preType, &preValue, &postType, &postValue,
		&inv.Notes, &inv.ViewKey, &inv.Subtotal, &inv.PreTaxDiscountAmount, &inv.TaxTotal,
		&inv.DiscountAmount, &inv.Total, &inv.CreatedAt, &inv.UpdatedAt, &inv.ClientName)
	if err != nil {
		return inv, err
	}

	if err := json.Unmarshal([]byte(lineItems), &inv.LineItems); err != nil {
		return inv, err
	}
	if inv.LineItems == nil {
		inv.LineItems = []models.LineItem{}
	}
	if taxes != nil {
		var schedule []models.TaxRate
		if err := json.Unmarshal([]byte(*taxes), &schedule); err != nil {
			return inv, err
		}
		if schedule == nil {
			schedule = []models.TaxRate{}
		}
		inv.Taxes = &schedule
	}
	inv.PreTaxDiscount = models.DiscountFromStored(preType, preValue)
	inv.Discount = models.DiscountFromStored(postType, postValue)
	return inv, nil
}

// invoicePaid sums recorded payments for one invoice.
func invoicePaid(invoiceID int) (decimal.Decimal, error) {
	rows, err := DB.Query(`SELECT amount FROM payments WHERE invoice_id = ?`, invoiceID)
	if err != nil {
		return decimal.Zero, err
	}
	defer rows.Close()

	paid := decimal.Zero
	for rows.Next() {
		var amount decimal.Decimal
		if err := rows.Scan(&amount); err != nil {
			return decimal.Zero, err
		}
		paid = paid.Add(amount)
	}
	return paid, rows.Err()
}

// paidByInvoice sums recorded payments for all invoices in one query.
func paidByInvoice() (map[int]decimal.Decimal, error) {
	rows, err := DB.Query(`SELECT invoice_id, amount FROM payments`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	paid := map[int]decimal.Decimal{}
	for rows.Next() {
		var invoiceID int
		var amount decimal.Decimal
		if err := rows.Scan(&invoiceID, &amount); err != nil {
			return nil, err
		}
		paid[invoiceID] = paid[invoiceID].Add(amount)
	}
	return paid, rows.Err()
}

func getInvoiceByID(id int) (models.Invoice, error) {
	inv, err := scanInvoice(DB.QueryRow(invoiceSelectQuery+" WHERE i.id = ?", id))
	if err != nil {
		return inv, err
	}
	inv.Paid, err = invoicePaid(inv.ID)
	if err != nil {
		return inv, err
	}
	inv.Balance = inv.Total.Sub(inv.Paid)
	return inv, nil
}

// clientTaxOverride reads a client's tax schedule override, nil when the
// client inherits the global default.
func clientTaxOverride(clientID int) (*[]models.TaxRate, error) {
	var taxes *string
	if err := DB.QueryRow(`SELECT taxes FROM clients WHERE id = ?`, clientID).Scan(&taxes); err != nil {
		return nil, err
	}
	if taxes == nil {
		return nil, nil
	}
	var schedule []models.TaxRate
	if err := json.Unmarshal([]byte(*taxes), &schedule); err != nil {
		return nil, err
	}
	if schedule == nil {
		schedule = []models.TaxRate{}
	}
	return &schedule, nil
}

// invoiceRecord is a validated, computed invoice ready to be written.
type invoiceRecord struct {
	lineItemsJSON string
	taxesJSON     *string
	preType       *string
	preValue      *string
	postType      *string
	postValue     *string
	dueDate       *string
	result        totals.Result
}

// prepareInvoice runs the save pipeline: normalize submitted line items,
// resolve the tax schedule (invoice override, then client override, then
// global default), and recompute the totals. Whatever breakdown a caller
// previewed, this recomputation is what gets persisted.
func prepareInvoice(input *models.InvoiceInput, settings models.Settings) (invoiceRecord, int, error) {
	var rec invoiceRecord

	clientTaxes, err := clientTaxOverride(input.ClientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, http.StatusBadRequest, errors.New("client not found")
		}
		return rec, http.StatusInternalServerError, err
	}

	items := models.NormalizeLineItems(input.LineItems, settings.Currency.Precision)
	override := input.TaxScheduleOverride()
	schedule := models.ResolveTaxSchedule(override, clientTaxes, settings.Taxes)
	preTax := input.PreTaxDiscount.Discount()
	post := input.Discount.Discount()

	rec.result = totals.Calculate(items, schedule, preTax, post, settings.Currency.Precision)

	encoded, err := json.Marshal(items)
	if err != nil {
		return rec, http.StatusInternalServerError, err
	}
	rec.lineItemsJSON = string(encoded)

	if override != nil {
		encoded, err := json.Marshal(*override)
		if err != nil {
			return rec, http.StatusInternalServerError, err
		}
		s := string(encoded)
		rec.taxesJSON = &s
	}

	if preTax != nil {
		value := preTax.Value.String()
		rec.preType, rec.preValue = &preTax.Type, &value
	}
	if post != nil {
		value := post.Value.String()
		rec.postType, rec.postValue = &post.Type, &value
	}

	rec.dueDate = input.DueDate
	if rec.dueDate == nil && input.IssueDate != nil && settings.NetDueDays > 0 {
		if issued, err := time.Parse("2006-01-02", *input.IssueDate); err == nil {
			due := issued.AddDate(0, 0, settings.NetDueDays).Format("2006-01-02")
			rec.dueDate = &due
		}
	}
	return rec, 0, nil
}

// nextInvoiceNumber advances the global sequence and formats a number from
// the configured template.
func nextInvoiceNumber(settings models.Settings, issueDate *string) (string, error) {
	var seq int64
	err := DB.QueryRow(`UPDATE settings SET next_sequence = next_sequence + 1
		WHERE id = 1 RETURNING next_sequence - 1`).Scan(&seq)
	if err != nil {
		return "", err
	}

	issuedAt := time.Now()
	if issueDate != nil {
		if t, err := time.Parse("2006-01-02", *issueDate); err == nil {
			issuedAt = t
		}
	}
	return format.InvoiceNumber(settings.NumberTemplate, issuedAt, seq)
}

// ListInvoices lists all invoices
// @Summary      List invoices
// @Description  Get a list of all invoices with totals and payment allocation.
// @Tags         invoices
// @Produce      json
// @Param        client_id   query     int     false  "Filter by client"
// @Param        project_id  query     int     false  "Filter by project"
// @Param        status      query     string  false  "Filter by status"
// @Param        from        query     string  false  "Issue date lower bound (YYYY-MM-DD)"
// @Param        to          query     string  false  "Issue date upper bound (YYYY-MM-DD)"
// @Param        search      query     string  false  "Search by invoice number, PO number, notes, or client name"
// @Success      200         {object}  Response{data=[]models.Invoice}
// @Router       /invoices [get]
// @Security     BasicAuth
func ListInvoices(w http.ResponseWriter, r *http.Request) {
	query := invoiceSelectQuery
	var conditions []string
	var args []any

	if s := r.URL.Query().Get("status"); s != "" {
		conditions = append(conditions, "i.status = ?")
		args = append(args, s)
	}
	if cid := r.URL.Query().Get("client_id"); cid != "" {
		conditions = append(conditions, "i.client_id = ?")
		args = append(args, cid)
	}
	if pid := r.URL.Query().Get("project_id"); pid != "" {
		conditions = append(conditions, "i.project_id = ?")
		args = append(args, pid)
	}
	if from := r.URL.Query().Get("from"); from != "" {
		conditions = append(conditions, "i.issue_date >= ?")
		args = append(args, from)
	}
	if to := r.URL.Query().Get("to"); to != "" {
		conditions = append(conditions, "i.issue_date <= ?")
		args = append(args, to)
	}
	if search := r.URL.Query().Get("search"); search != "" {
		conditions = append(conditions, "(i.invoice_number LIKE ? OR i.po_number LIKE ? OR i.notes LIKE ? OR c.name LIKE ?)")
		s := "%" + search + "%"
		args = append(args, s, s, s, s)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY i.created_at DESC"

	rows, err := DB.Query(query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var invoices []models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		invoices = append(invoices, inv)
	}
	if invoices == nil {
		invoices = []models.Invoice{}
	}

	paid, err := paidByInvoice()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	for i := range invoices {
		invoices[i].Paid = paid[invoices[i].ID]
		invoices[i].Balance = invoices[i].Total.Sub(invoices[i].Paid)
	}
	writeJSON(w, http.StatusOK, invoices)
}

// GetInvoice retrieves a single invoice by ID
// @Summary      Get invoice
// @Description  Get details, totals, and payment allocation of a specific invoice.
// @Tags         invoices
// @Produce      json
// @Param        id   path      int  true  "Invoice ID"
// @Success      200  {object}  Response{data=models.Invoice}
// @Failure      404  {object}  Response{error=string}
// @Router       /invoices/{id} [get]
// @Security     BasicAuth
func GetInvoice(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	inv, err := getInvoiceByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "invoice not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// CreateInvoice creates a new invoice
// @Summary      Create invoice
// @Description  Create an invoice. Line items are normalized, the tax schedule resolved, and totals computed server-side; an empty invoice number is filled from the configured template.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        invoice  body      models.InvoiceInput  true  "Invoice contents"
// @Success      201      {object}  Response{data=models.Invoice}
// @Failure      400      {object}  Response{error=string}
// @Router       /invoices [post]
// @Security     BasicAuth
func CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var input models.InvoiceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	settings, err := loadSettings()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rec, status, err := prepareInvoice(&input, settings)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	number := input.InvoiceNumber
	if number == "" {
		number, err = nextInvoiceNumber(settings, input.IssueDate)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	var id int
	err = DB.QueryRow(`INSERT INTO invoices (client_id, project_id, invoice_number, po_number,
		issue_date, due_date, status, line_items, taxes,
		pre_tax_discount_type, pre_tax_discount_value, discount_type, discount_value,
		notes, view_key, subtotal, pre_tax_discount_amount, tax_total, discount_amount, total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		input.ClientID, input.ProjectID, number, input.PONumber,
		input.IssueDate, rec.dueDate, input.Status, rec.lineItemsJSON, rec.taxesJSON,
		rec.preType, rec.preValue, rec.postType, rec.postValue,
		input.Notes, uuid.NewString(), rec.result.Subtotal, rec.result.PreTaxDiscount,
		rec.result.TaxTotal, rec.result.Discount, rec.result.Total).Scan(&id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	inv, err := getInvoiceByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created invoice: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

// UpdateInvoice updates an existing invoice
// @Summary      Update invoice
// @Description  Update an invoice. Totals are recomputed server-side from the submitted line items and overwrite any client-derived values.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id       path      int                  true  "Invoice ID"
// @Param        invoice  body      models.InvoiceInput  true  "Updated invoice contents"
// @Success      200      {object}  Response{data=models.Invoice}
// @Failure      400      {object}  Response{error=string}
// @Failure      404      {object}  Response{error=string}
// @Router       /invoices/{id} [put]
// @Security     BasicAuth
func UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	var input models.InvoiceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	settings, err := loadSettings()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rec, status, err := prepareInvoice(&input, settings)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	if input.InvoiceNumber == "" {
		if err := DB.QueryRow(`SELECT invoice_number FROM invoices WHERE id = ?`, id).Scan(&input.InvoiceNumber); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				writeError(w, http.StatusNotFound, "invoice not found")
			} else {
				writeError(w, http.StatusInternalServerError, err.Error())
			}
			return
		}
	}

	res, err := DB.Exec(`UPDATE invoices SET client_id = ?, project_id = ?, invoice_number = ?,
		po_number = ?, issue_date = ?, due_date = ?, status = ?, line_items = ?, taxes = ?,
		pre_tax_discount_type = ?, pre_tax_discount_value = ?, discount_type = ?, discount_value = ?,
		notes = ?, subtotal = ?, pre_tax_discount_amount = ?, tax_total = ?, discount_amount = ?,
		total = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		input.ClientID, input.ProjectID, input.InvoiceNumber,
		input.PONumber, input.IssueDate, rec.dueDate, input.Status, rec.lineItemsJSON, rec.taxesJSON,
		rec.preType, rec.preValue, rec.postType, rec.postValue,
		input.Notes, rec.result.Subtotal, rec.result.PreTaxDiscount, rec.result.TaxTotal,
		rec.result.Discount, rec.result.Total, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "invoice not found")
		return
	}

	inv, err := getInvoiceByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated invoice: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// DeleteInvoice deletes an invoice
// @Summary      Delete invoice
// @Description  Remove an invoice and its payments.
// @Tags         invoices
// @Produce      json
// @Param        id   path      int  true  "Invoice ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /invoices/{id} [delete]
// @Security     BasicAuth
func DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	res, err := DB.Exec("DELETE FROM invoices WHERE id = ?", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "invoice not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// invoiceBreakdown recomputes the full totals breakdown for a stored
// invoice. Stored amounts are summaries; the per-line and per-tax rows are
// always derived fresh.
func invoiceBreakdown(inv models.Invoice, settings models.Settings) (totals.Result, error) {
	clientTaxes, err := clientTaxOverride(inv.ClientID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return totals.Result{}, err
	}
	schedule := models.ResolveTaxSchedule(inv.Taxes, clientTaxes, settings.Taxes)
	return totals.Calculate(inv.LineItems, schedule, inv.PreTaxDiscount, inv.Discount, settings.Currency.Precision), nil
}

// GetInvoiceTotals retrieves the computed totals breakdown
// @Summary      Get invoice totals
// @Description  Recompute and return the full per-line and per-tax breakdown of an invoice.
// @Tags         invoices
// @Produce      json
// @Param        id   path      int  true  "Invoice ID"
// @Success      200  {object}  Response{data=totals.Result}
// @Failure      404  {object}  Response{error=string}
// @Router       /invoices/{id}/totals [get]
// @Security     BasicAuth
func GetInvoiceTotals(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	inv, err := getInvoiceByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "invoice not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	settings, err := loadSettings()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	result, err := invoiceBreakdown(inv, settings)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// previewRequest is an unsaved invoice to calculate. When invoice_id is set,
// recorded payments for that invoice are included so the paid row can show.
type previewRequest struct {
	models.InvoiceInput
	InvoiceID int `json:"invoice_id"`
}

// previewResponse carries the breakdown plus which summary rows have a
// non-zero contribution, so simple invoices render without empty tax and
// discount rows.
type previewResponse struct {
	totals.Result
	Paid decimal.Decimal `json:"paid"`
	Rows summaryRows     `json:"rows"`
}

type summaryRows struct {
	Subtotal       bool `json:"subtotal"`
	PreTaxDiscount bool `json:"pre_tax_discount"`
	Tax            bool `json:"tax"`
	Discount       bool `json:"discount"`
	Paid           bool `json:"paid"`
	Total          bool `json:"total"`
}

// PreviewInvoice calculates totals for an unsaved invoice
// @Summary      Preview invoice totals
// @Description  Run the totals calculation over submitted, unsaved invoice input. This is the same computation that runs on save, so the preview always matches the persisted result.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        invoice  body      previewRequest  true  "Invoice contents to calculate"
// @Success      200      {object}  Response{data=previewResponse}
// @Failure      400      {object}  Response{error=string}
// @Router       /invoices/preview [post]
// @Security     BasicAuth
func PreviewInvoice(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.PreTaxDiscount.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, "pre_tax_discount: "+msg)
		return
	}
	if msg := req.Discount.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, "discount: "+msg)
		return
	}

	settings, err := loadSettings()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var clientTaxes *[]models.TaxRate
	if req.ClientID > 0 {
		clientTaxes, err = clientTaxOverride(req.ClientID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	items := models.NormalizeLineItems(req.LineItems, settings.Currency.Precision)
	schedule := models.ResolveTaxSchedule(req.TaxScheduleOverride(), clientTaxes, settings.Taxes)
	result := totals.Calculate(items, schedule,
		req.PreTaxDiscount.Discount(), req.Discount.Discount(), settings.Currency.Precision)

	resp := previewResponse{Result: result}
	if req.InvoiceID > 0 {
		resp.Paid, err = invoicePaid(req.InvoiceID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	resp.Rows = summaryRows{
		Subtotal:       !result.Subtotal.IsZero(),
		PreTaxDiscount: !result.PreTaxDiscount.IsZero(),
		Tax:            len(result.Taxes) > 0,
		Discount:       !result.Discount.IsZero(),
		Paid:           !resp.Paid.IsZero(),
		Total:          true,
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetInvoicePDF renders an invoice as PDF
// @Summary      Get invoice PDF
// @Description  Render a printable PDF of the invoice.
// @Tags         invoices
// @Produce      application/pdf
// @Param        id   path      int  true  "Invoice ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  Response{error=string}
// @Router       /invoices/{id}/pdf [get]
// @Security     BasicAuth
func GetInvoicePDF(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	inv, err := getInvoiceByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "invoice not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeInvoicePDF(w, inv)
}

func writeInvoicePDF(w http.ResponseWriter, inv models.Invoice) {
	settings, err := loadSettings()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	client, err := scanClient(DB.QueryRow(clientSelectQuery+" WHERE id = ?", inv.ClientID))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	result, err := invoiceBreakdown(inv, settings)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	doc, err := pdf.Invoice(inv, client, settings, result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="`+inv.InvoiceNumber+`.pdf"`)
	w.Write(doc)
}

// ViewInvoice retrieves an invoice by its shareable view key
// @Summary      View invoice (public)
// @Description  Get a read-only invoice with its totals breakdown by view key. No authentication.
// @Tags         invoices
// @Produce      json
// @Param        key  path      string  true  "Invoice view key"
// @Success      200  {object}  Response{data=models.Invoice}
// @Failure      404  {object}  Response{error=string}
// @Router       /view/{key} [get]
func ViewInvoice(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	inv, err := scanInvoice(DB.QueryRow(invoiceSelectQuery+" WHERE i.view_key = ?", key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "invoice not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	inv.Paid, err = invoicePaid(inv.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	inv.Balance = inv.Total.Sub(inv.Paid)
	writeJSON(w, http.StatusOK, inv)
}

// ViewInvoicePDF renders a shared invoice as PDF
// @Summary      View invoice PDF (public)
// @Description  Render a printable PDF of a shared invoice by view key. No authentication.
// @Tags         invoices
// @Produce      application/pdf
// @Param        key  path      string  true  "Invoice view key"
// @Success      200  {file}    binary
// @Failure      404  {object}  Response{error=string}
// @Router       /view/{key}/pdf [get]
func ViewInvoicePDF(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	inv, err := scanInvoice(DB.QueryRow(invoiceSelectQuery+" WHERE i.view_key = ?", key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "invoice not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeInvoicePDF(w, inv)
}
