package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/resolvedesk/resolvedesk/internal/app/domain/user"
	usersvc "github.com/resolvedesk/resolvedesk/internal/app/services/users"
)

func (h *handler) createUser(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		OrganizationID string `json:"organization_id"`
		DepartmentID   string `json:"department_id"`
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		Email          string `json:"email"`
		Password       string `json:"password"`
		Role           string `json:"role"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	u, err := h.app.Users.Create(r.Context(), usersvc.CreateParams{
		OrganizationID: payload.OrganizationID,
		DepartmentID:   payload.DepartmentID,
		FirstName:      payload.FirstName,
		LastName:       payload.LastName,
		Email:          payload.Email,
		Password:       payload.Password,
		Role:           user.Role(payload.Role),
	})
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *handler) listUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	users, err := h.app.Users.List(r.Context(), q.Get("organization_id"), q.Get("department_id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *handler) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.app.Users.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *handler) updateUser(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		FirstName    *string `json:"first_name"`
		LastName     *string `json:"last_name"`
		DepartmentID *string `json:"department_id"`
		Role         *string `json:"role"`
		Password     *string `json:"password"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	params := usersvc.UpdateParams{
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		DepartmentID: payload.DepartmentID,
		Password:     payload.Password,
	}
	if payload.Role != nil {
		role := user.Role(*payload.Role)
		params.Role = &role
	}

	u, err := h.app.Users.Update(r.Context(), mux.Vars(r)["id"], params)
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Users.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
