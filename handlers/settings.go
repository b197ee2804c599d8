package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ledgerline/invoicing/models"
)

// loadSettings reads the single settings row, including the default tax
// schedule.
func loadSettings() (models.Settings, error) {
	var s models.Settings
	var taxes string
	err := DB.QueryRow(`SELECT company_name, company_address, currency_code, currency_symbol,
		thousands_separator, decimal_separator, precision, taxes, number_template,
		net_due_days, next_sequence, updated_at
		FROM settings WHERE id = 1`).Scan(
		&s.CompanyName, &s.CompanyAddress, &s.Currency.Code, &s.Currency.Symbol,
		&s.Currency.ThousandsSeparator, &s.Currency.DecimalSeparator, &s.Currency.Precision,
		&taxes, &s.NumberTemplate, &s.NetDueDays, &s.NextSequence, &s.UpdatedAt)
	if err != nil {
		return s, err
	}
	if err := json.Unmarshal([]byte(taxes), &s.Taxes); err != nil {
		return s, err
	}
	if s.Taxes == nil {
		s.Taxes = []models.TaxRate{}
	}
	return s, nil
}

// GetSettings retrieves the global settings
// @Summary      Get settings
// @Description  Get company details, currency configuration, the default tax schedule, and invoice numbering.
// @Tags         settings
// @Produce      json
// @Success      200  {object}  Response{data=models.Settings}
// @Router       /settings [get]
// @Security     BasicAuth
func GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := loadSettings()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// UpdateSettings updates the global settings
// @Summary      Update settings
// @Description  Update company details, currency configuration, the default tax schedule, and invoice numbering.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        settings  body      models.SettingsInput  true  "Settings contents"
// @Success      200       {object}  Response{data=models.Settings}
// @Failure      400       {object}  Response{error=string}
// @Router       /settings [put]
// @Security     BasicAuth
func UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var input models.SettingsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if input.NumberTemplate == "" {
		input.NumberTemplate = "INV-{YYYY}-{SEQ4}"
	}

	schedule := models.TaxSchedule(input.Taxes)
	if schedule == nil {
		schedule = []models.TaxRate{}
	}
	taxes, err := json.Marshal(schedule)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	_, err = DB.Exec(`UPDATE settings SET company_name = ?, company_address = ?, currency_code = ?,
		currency_symbol = ?, thousands_separator = ?, decimal_separator = ?, precision = ?,
		taxes = ?, number_template = ?, net_due_days = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = 1`,
		input.CompanyName, input.CompanyAddress, input.Currency.Code, input.Currency.Symbol,
		input.Currency.ThousandsSeparator, input.Currency.DecimalSeparator, input.Currency.Precision,
		string(taxes), input.NumberTemplate, input.NetDueDays)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s, err := loadSettings()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s)
}
