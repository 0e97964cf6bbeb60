package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/resolvedesk/resolvedesk/internal/middleware"
)

func (h *handler) createFeedback(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ComplaintID string `json:"complaint_id"`
		Rating      int    `json:"rating"`
		Comment     string `json:"comment"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	fb, err := h.app.Feedback.Create(r.Context(), payload.ComplaintID, middleware.GetUserID(r.Context()), payload.Rating, payload.Comment)
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, fb)
}

func (h *handler) listFeedback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rating, _ := strconv.Atoi(q.Get("rating"))

	feedback, err := h.app.Feedback.List(r.Context(), q.Get("organization_id"), rating)
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, feedback)
}

func (h *handler) getFeedback(w http.ResponseWriter, r *http.Request) {
	fb, err := h.app.Feedback.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, fb)
}

func (h *handler) getFeedbackForComplaint(w http.ResponseWriter, r *http.Request) {
	fb, err := h.app.Feedback.GetByComplaint(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, fb)
}
