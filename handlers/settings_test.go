package handlers

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerline/invoicing/models"
)

func settingsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/settings", GetSettings)
	r.Put("/settings", UpdateSettings)
	r.Post("/clients", CreateClient)
	r.Post("/invoices", CreateInvoice)
	return r
}

func defaultSettingsInput() models.SettingsInput {
	return models.SettingsInput{
		CompanyName: "Ledgerline",
		Currency:    models.DefaultCurrency,
		NetDueDays:  30,
	}
}

func TestUpdateSettings(t *testing.T) {
	setupTestDB(t)
	h := settingsRouter()

	input := defaultSettingsInput()
	input.Currency.Precision = 0
	input.Taxes = []models.TaxRateInput{
		{Label: "VAT", Rate: "19"},
		{Label: "Broken", Rate: "nineteen"},
	}
	input.NumberTemplate = "{YYYY}-{SEQ}"

	var s models.Settings
	w := doJSON(t, h, http.MethodPut, "/settings", input, &s)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}

	if s.Currency.Precision != 0 {
		t.Errorf("Precision = %d, want 0", s.Currency.Precision)
	}
	if s.NumberTemplate != "{YYYY}-{SEQ}" {
		t.Errorf("NumberTemplate = %q", s.NumberTemplate)
	}
	if len(s.Taxes) != 2 {
		t.Fatalf("got %d tax entries, want 2", len(s.Taxes))
	}
	if !s.Taxes[0].Rate.Valid {
		t.Error("numeric tax rate should be usable")
	}
	if s.Taxes[1].Rate.Valid {
		t.Error("non-numeric tax rate should be disabled, not dropped")
	}
}

func TestUpdateSettingsValidation(t *testing.T) {
	setupTestDB(t)
	h := settingsRouter()

	tests := []struct {
		name   string
		mutate func(*models.SettingsInput)
	}{
		{name: "missing currency code", mutate: func(s *models.SettingsInput) { s.Currency.Code = "" }},
		{name: "precision out of range", mutate: func(s *models.SettingsInput) { s.Currency.Precision = 9 }},
		{name: "negative net due days", mutate: func(s *models.SettingsInput) { s.NetDueDays = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := defaultSettingsInput()
			tt.mutate(&input)
			w := doJSON(t, h, http.MethodPut, "/settings", input, nil)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400, body %s", w.Code, w.Body.String())
			}
		})
	}
}

// An invoice without its own schedule uses the client override when one is
// set, and the global default otherwise. An explicit empty client schedule
// disables taxes rather than inheriting.
func TestInvoiceInheritsTaxSchedule(t *testing.T) {
	setupTestDB(t)
	h := settingsRouter()

	global := defaultSettingsInput()
	global.Taxes = []models.TaxRateInput{{Label: "VAT", Rate: "10"}}
	if w := doJSON(t, h, http.MethodPut, "/settings", global, nil); w.Code != http.StatusOK {
		t.Fatalf("update settings: status %d, body %s", w.Code, w.Body.String())
	}

	createInvoice := func(clientID int) models.Invoice {
		t.Helper()
		var inv models.Invoice
		w := doJSON(t, h, http.MethodPost, "/invoices", models.InvoiceInput{
			ClientID: clientID,
			LineItems: []models.LineItemInput{
				{OrderIndex: 0, Title: "Work", Quantity: "1", Rate: "100.00", TaxIndices: []int{0}},
			},
		}, &inv)
		if w.Code != http.StatusCreated {
			t.Fatalf("create invoice: status %d, body %s", w.Code, w.Body.String())
		}
		return inv
	}

	var plain models.Client
	doJSON(t, h, http.MethodPost, "/clients", models.ClientInput{Name: "Inherits"}, &plain)
	inv := createInvoice(plain.ID)
	requireDecimal(t, "global schedule TaxTotal", inv.TaxTotal, "10.00")
	requireDecimal(t, "global schedule Total", inv.Total, "110.00")

	override := []models.TaxRateInput{{Label: "GST", Rate: "5"}}
	var custom models.Client
	doJSON(t, h, http.MethodPost, "/clients", models.ClientInput{Name: "Override", Taxes: &override}, &custom)
	inv = createInvoice(custom.ID)
	requireDecimal(t, "client schedule TaxTotal", inv.TaxTotal, "5.00")

	exempt := []models.TaxRateInput{}
	var untaxed models.Client
	doJSON(t, h, http.MethodPost, "/clients", models.ClientInput{Name: "Exempt", Taxes: &exempt}, &untaxed)
	inv = createInvoice(untaxed.ID)
	requireDecimal(t, "empty schedule TaxTotal", inv.TaxTotal, "0")
	requireDecimal(t, "empty schedule Total", inv.Total, "100.00")
}
