package httpapi

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/resolvedesk/resolvedesk/internal/app/domain/user"
	"github.com/resolvedesk/resolvedesk/internal/middleware"
)

func (h *handler) createDepartment(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		OrganizationID string `json:"organization_id"`
		Name           string `json:"name"`
		Description    string `json:"description"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	dept, err := h.app.Departments.Create(r.Context(), payload.OrganizationID, payload.Name, payload.Description)
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, dept)
}

func (h *handler) listDepartments(w http.ResponseWriter, r *http.Request) {
	// Department structure is staff-facing.
	if middleware.GetUserRole(r.Context()) == string(user.RoleCitizen) {
		writeError(w, http.StatusForbidden, errors.New("insufficient permissions"))
		return
	}

	depts, err := h.app.Departments.List(r.Context(), r.URL.Query().Get("organization_id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, depts)
}

func (h *handler) getDepartment(w http.ResponseWriter, r *http.Request) {
	dept, err := h.app.Departments.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, dept)
}

func (h *handler) updateDepartment(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	dept, err := h.app.Departments.Update(r.Context(), mux.Vars(r)["id"], payload.Name, payload.Description)
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, dept)
}

func (h *handler) deleteDepartment(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Departments.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
