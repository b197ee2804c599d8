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

const projectSelectQuery = `SELECT p.id, p.client_id, p.name, p.rate, p.status, p.website, p.notes,
		p.created_at, p.updated_at, c.name
		FROM projects p
		LEFT JOIN clients c ON p.client_id = c.id`

func scanProject(scanner interface{ Scan(...any) error }) (models.Project, error) {
	var p models.Project
	err := scanner.Scan(&p.ID, &p.ClientID, &p.Name, &p.Rate, &p.Status, &p.Website, &p.Notes,
		&p.CreatedAt, &p.UpdatedAt, &p.ClientName)
	return p, err
}

func getProjectByID(id int) (models.Project, error) {
	return scanProject(DB.QueryRow(projectSelectQuery+" WHERE p.id = ?", id))
}

// ListProjects lists all projects
// @Summary      List projects
// @Description  Get a list of all projects.
// @Tags         projects
// @Produce      json
// @Param        client_id  query     int     false  "Filter by client"
// @Param        status     query     string  false  "Filter by status"
// @Param        search     query     string  false  "Search by project or client name"
// @Success      200        {object}  Response{data=[]models.Project}
// @Router       /projects [get]
// @Security     BasicAuth
func ListProjects(w http.ResponseWriter, r *http.Request) {
	query := projectSelectQuery
	var conditions []string
	var args []any

	if cid := r.URL.Query().Get("client_id"); cid != "" {
		conditions = append(conditions, "p.client_id = ?")
		args = append(args, cid)
	}
	if s := r.URL.Query().Get("status"); s != "" {
		conditions = append(conditions, "p.status = ?")
		args = append(args, s)
	}
	if search := r.URL.Query().Get("search"); search != "" {
		conditions = append(conditions, "(p.name LIKE ? OR c.name LIKE ?)")
		s := "%" + search + "%"
		args = append(args, s, s)
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

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		projects = append(projects, p)
	}
	if projects == nil {
		projects = []models.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

// GetProject retrieves a single project by ID
// @Summary      Get project
// @Description  Get details of a specific project.
// @Tags         projects
// @Produce      json
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  Response{data=models.Project}
// @Failure      404  {object}  Response{error=string}
// @Router       /projects/{id} [get]
// @Security     BasicAuth
func GetProject(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	p, err := getProjectByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "project not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreateProject creates a new project
// @Summary      Create project
// @Description  Create a new project under a client.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        project  body      models.ProjectInput  true  "Project contents"
// @Success      201      {object}  Response{data=models.Project}
// @Failure      400      {object}  Response{error=string}
// @Router       /projects [post]
// @Security     BasicAuth
func CreateProject(w http.ResponseWriter, r *http.Request) {
	var input models.ProjectInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var rate decimal.NullDecimal
	if d, ok := models.ParseOptionalAmount(input.Rate); ok {
		rate = decimal.NullDecimal{Decimal: d, Valid: true}
	}

	var id int
	err := DB.QueryRow(`INSERT INTO projects (client_id, name, rate, status, website, notes)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		input.ClientID, input.Name, rate, input.Status, input.Website, input.Notes).Scan(&id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	p, err := getProjectByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created project: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// UpdateProject updates an existing project
// @Summary      Update project
// @Description  Update details of an existing project.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id       path      int                  true  "Project ID"
// @Param        project  body      models.ProjectInput  true  "Updated project contents"
// @Success      200      {object}  Response{data=models.Project}
// @Failure      400      {object}  Response{error=string}
// @Failure      404      {object}  Response{error=string}
// @Router       /projects/{id} [put]
// @Security     BasicAuth
func UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	var input models.ProjectInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var rate decimal.NullDecimal
	if d, ok := models.ParseOptionalAmount(input.Rate); ok {
		rate = decimal.NullDecimal{Decimal: d, Valid: true}
	}

	res, err := DB.Exec(`UPDATE projects SET client_id = ?, name = ?, rate = ?, status = ?,
		website = ?, notes = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		input.ClientID, input.Name, rate, input.Status, input.Website, input.Notes, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}

	p, err := getProjectByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated project: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteProject deletes a project
// @Summary      Delete project
// @Description  Remove a project.
// @Tags         projects
// @Produce      json
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /projects/{id} [delete]
// @Security     BasicAuth
func DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	res, err := DB.Exec("DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
