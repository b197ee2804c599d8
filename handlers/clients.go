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

const clientSelectQuery = `SELECT id, name, email, phone, address, website, rate, taxes, notes,
		created_at, updated_at FROM clients`

func scanClient(scanner interface{ Scan(...any) error }) (models.Client, error) {
	var c models.Client
	var taxes *string
	err := scanner.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Website,
		&c.Rate, &taxes, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return c, err
	}
	if taxes != nil {
		var schedule []models.TaxRate
		if err := json.Unmarshal([]byte(*taxes), &schedule); err != nil {
			return c, err
		}
		if schedule == nil {
			schedule = []models.TaxRate{}
		}
		c.Taxes = &schedule
	}
	return c, nil
}

// clientBalances sums non-cancelled invoice totals and their payments per
// client. Decimal arithmetic stays in Go; the TEXT columns are not summed in
// SQL.
func clientBalances() (invoiced, paid map[int]decimal.Decimal, err error) {
	invoiced = map[int]decimal.Decimal{}
	paid = map[int]decimal.Decimal{}

	rows, err := DB.Query(`SELECT client_id, total FROM invoices WHERE status != 'cancelled'`)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var clientID int
		var total decimal.Decimal
		if err := rows.Scan(&clientID, &total); err != nil {
			return nil, nil, err
		}
		invoiced[clientID] = invoiced[clientID].Add(total)
	}

	payRows, err := DB.Query(`SELECT i.client_id, p.amount FROM payments p
		JOIN invoices i ON p.invoice_id = i.id WHERE i.status != 'cancelled'`)
	if err != nil {
		return nil, nil, err
	}
	defer payRows.Close()
	for payRows.Next() {
		var clientID int
		var amount decimal.Decimal
		if err := payRows.Scan(&clientID, &amount); err != nil {
			return nil, nil, err
		}
		paid[clientID] = paid[clientID].Add(amount)
	}
	return invoiced, paid, nil
}

func attachClientBalance(c *models.Client, invoiced, paid map[int]decimal.Decimal) {
	c.Invoiced = invoiced[c.ID]
	c.Paid = paid[c.ID]
	c.Balance = c.Invoiced.Sub(c.Paid)
}

func getClientByID(id int) (models.Client, error) {
	c, err := scanClient(DB.QueryRow(clientSelectQuery+" WHERE id = ?", id))
	if err != nil {
		return c, err
	}
	invoiced, paid, err := clientBalances()
	if err != nil {
		return c, err
	}
	attachClientBalance(&c, invoiced, paid)
	return c, nil
}

// ListClients lists all clients
// @Summary      List clients
// @Description  Get a list of all clients with invoiced/paid balances.
// @Tags         clients
// @Produce      json
// @Param        search  query     string  false  "Search by name, email, or phone"
// @Success      200     {object}  Response{data=[]models.Client}
// @Router       /clients [get]
// @Security     BasicAuth
func ListClients(w http.ResponseWriter, r *http.Request) {
	query := clientSelectQuery
	var conditions []string
	var args []any

	if search := r.URL.Query().Get("search"); search != "" {
		conditions = append(conditions, "(name LIKE ? OR email LIKE ? OR phone LIKE ?)")
		s := "%" + search + "%"
		args = append(args, s, s, s)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY name COLLATE NOCASE"

	rows, err := DB.Query(query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		clients = append(clients, c)
	}
	if clients == nil {
		clients = []models.Client{}
	}

	invoiced, paid, err := clientBalances()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	for i := range clients {
		attachClientBalance(&clients[i], invoiced, paid)
	}
	writeJSON(w, http.StatusOK, clients)
}

// GetClient retrieves a single client by ID
// @Summary      Get client
// @Description  Get details and balances of a specific client.
// @Tags         clients
// @Produce      json
// @Param        id   path      int  true  "Client ID"
// @Success      200  {object}  Response{data=models.Client}
// @Failure      404  {object}  Response{error=string}
// @Router       /clients/{id} [get]
// @Security     BasicAuth
func GetClient(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	c, err := getClientByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "client not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func clientWriteArgs(input models.ClientInput) (rate decimal.NullDecimal, taxes *string, err error) {
	if d, ok := models.ParseOptionalAmount(input.Rate); ok {
		rate = decimal.NullDecimal{Decimal: d, Valid: true}
	}
	if input.Taxes != nil {
		encoded, err := json.Marshal(models.TaxSchedule(*input.Taxes))
		if err != nil {
			return rate, nil, err
		}
		s := string(encoded)
		taxes = &s
	}
	return rate, taxes, nil
}

// CreateClient creates a new client
// @Summary      Create client
// @Description  Create a new client.
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        client  body      models.ClientInput  true  "Client contents"
// @Success      201     {object}  Response{data=models.Client}
// @Failure      400     {object}  Response{error=string}
// @Router       /clients [post]
// @Security     BasicAuth
func CreateClient(w http.ResponseWriter, r *http.Request) {
	var input models.ClientInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	rate, taxes, err := clientWriteArgs(input)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var id int
	err = DB.QueryRow(`INSERT INTO clients (name, email, phone, address, website, rate, taxes, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		input.Name, input.Email, input.Phone, input.Address, input.Website, rate, taxes, input.Notes).Scan(&id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	c, err := getClientByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created client: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// UpdateClient updates an existing client
// @Summary      Update client
// @Description  Update details of an existing client.
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id      path      int                 true  "Client ID"
// @Param        client  body      models.ClientInput  true  "Updated client contents"
// @Success      200     {object}  Response{data=models.Client}
// @Failure      400     {object}  Response{error=string}
// @Failure      404     {object}  Response{error=string}
// @Router       /clients/{id} [put]
// @Security     BasicAuth
func UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	var input models.ClientInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	rate, taxes, err := clientWriteArgs(input)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	res, err := DB.Exec(`UPDATE clients SET name = ?, email = ?, phone = ?, address = ?, website = ?,
		rate = ?, taxes = ?, notes = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		input.Name, input.Email, input.Phone, input.Address, input.Website, rate, taxes, input.Notes, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "client not found")
		return
	}

	c, err := getClientByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated client: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteClient deletes a client
// @Summary      Delete client
// @Description  Remove a client. Fails while invoices still reference it.
// @Tags         clients
// @Produce      json
// @Param        id   path      int  true  "Client ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /clients/{id} [delete]
// @Security     BasicAuth
func DeleteClient(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	res, err := DB.Exec("DELETE FROM clients WHERE id = ?", id)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "client not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
