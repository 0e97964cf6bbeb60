package httpapi

import (
	"net/http"

	"github.com/resolvedesk/resolvedesk/internal/app/domain/user"
	usersvc "github.com/resolvedesk/resolvedesk/internal/app/services/users"
)

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		OrganizationID string `json:"organization_id"`
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		Email          string `json:"email"`
		Password       string `json:"password"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	// Self-registration always creates citizens. Agents and admins are
	// provisioned through the users API.
	u, err := h.app.Users.Create(r.Context(), usersvc.CreateParams{
		OrganizationID: payload.OrganizationID,
		FirstName:      payload.FirstName,
		LastName:       payload.LastName,
		Email:          payload.Email,
		Password:       payload.Password,
		Role:           user.RoleCitizen,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	token, u, err := h.app.Auth.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  u,
	})
}

func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Auth.Logout(r.Context(), bearerToken(r)); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *handler) currentUser(w http.ResponseWriter, r *http.Request) {
	// Validate hits the session store, so a logged-out token is rejected
	// even while its JWT is still within its expiry window.
	u, err := h.app.Auth.Validate(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
