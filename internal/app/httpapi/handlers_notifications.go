package httpapi

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/resolvedesk/resolvedesk/internal/middleware"
)

var errNoStream = errors.New("live notifications are not enabled")

func (h *handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unread") == "true"
	notifications, err := h.app.Notifications.List(r.Context(), middleware.GetUserID(r.Context()), unreadOnly)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (h *handler) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.app.Notifications.MarkRead(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *handler) streamNotifications(w http.ResponseWriter, r *http.Request) {
	hub := h.app.Notifications.Hub()
	if hub == nil {
		writeError(w, http.StatusNotImplemented, errNoStream)
		return
	}
	hub.ServeWS(w, r, middleware.GetUserID(r.Context()))
}
