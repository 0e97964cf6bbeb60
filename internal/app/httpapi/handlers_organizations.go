package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (h *handler) createOrganization(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name         string `json:"name"`
		ContactEmail string `json:"contact_email"`
		Phone        string `json:"phone"`
		Address      string `json:"address"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	org, err := h.app.Organizations.Create(r.Context(), payload.Name, payload.ContactEmail, payload.Phone, payload.Address)
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, org)
}

func (h *handler) listOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.app.Organizations.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, orgs)
}

func (h *handler) getOrganization(w http.ResponseWriter, r *http.Request) {
	org, err := h.app.Organizations.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

func (h *handler) updateOrganization(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name         *string `json:"name"`
		ContactEmail *string `json:"contact_email"`
		Phone        *string `json:"phone"`
		Address      *string `json:"address"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	org, err := h.app.Organizations.Update(r.Context(), mux.Vars(r)["id"], payload.Name, payload.ContactEmail, payload.Phone, payload.Address)
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

func (h *handler) deleteOrganization(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Organizations.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
