package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/resolvedesk/resolvedesk/internal/app/domain/complaint"
	complaintsvc "github.com/resolvedesk/resolvedesk/internal/app/services/complaints"
	"github.com/resolvedesk/resolvedesk/internal/app/storage"
	"github.com/resolvedesk/resolvedesk/internal/middleware"
)

// --- Complaint types --------------------------------------------------------

func (h *handler) createComplaintType(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		OrganizationID string `json:"organization_id"`
		Name           string `json:"name"`
		Description    string `json:"description"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ct, err := h.app.Complaints.CreateType(r.Context(), payload.OrganizationID, payload.Name, payload.Description)
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, ct)
}

func (h *handler) listComplaintTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.app.Complaints.ListTypes(r.Context(), r.URL.Query().Get("organization_id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func (h *handler) getComplaintType(w http.ResponseWriter, r *http.Request) {
	ct, err := h.app.Complaints.GetType(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, ct)
}

func (h *handler) updateComplaintType(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ct, err := h.app.Complaints.UpdateType(r.Context(), mux.Vars(r)["id"], payload.Name, payload.Description)
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, ct)
}

func (h *handler) deleteComplaintType(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Complaints.DeleteType(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Complaints -------------------------------------------------------------

// createComplaint accepts either a JSON body or a multipart form with
// attachment files under the "attachments" field.
func (h *handler) createComplaint(w http.ResponseWriter, r *http.Request) {
	params := complaintsvc.CreateParams{SubmitterID: middleware.GetUserID(r.Context())}

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		params.OrganizationID = r.FormValue("organization_id")
		params.DepartmentID = r.FormValue("department_id")
		params.TypeID = r.FormValue("type_id")
		params.Subject = r.FormValue("subject")
		params.Description = r.FormValue("description")
		params.Location = r.FormValue("location")
		params.Priority = complaint.Priority(r.FormValue("priority"))

		if r.MultipartForm != nil {
			for _, header := range r.MultipartForm.File["attachments"] {
				f, err := header.Open()
				if err != nil {
					writeError(w, http.StatusBadRequest, err)
					return
				}
				stored, err := h.app.Complaints.SaveAttachment(header.Filename, f)
				f.Close()
				if err != nil {
					writeError(w, http.StatusInternalServerError, err)
					return
				}
				params.Attachments = append(params.Attachments, stored)
			}
		}
	} else {
		var payload struct {
			OrganizationID string `json:"organization_id"`
			DepartmentID   string `json:"department_id"`
			TypeID         string `json:"type_id"`
			Subject        string `json:"subject"`
			Description    string `json:"description"`
			Location       string `json:"location"`
			Priority       string `json:"priority"`
		}
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		params.OrganizationID = payload.OrganizationID
		params.DepartmentID = payload.DepartmentID
		params.TypeID = payload.TypeID
		params.Subject = payload.Subject
		params.Description = payload.Description
		params.Location = payload.Location
		params.Priority = complaint.Priority(payload.Priority)
	}

	c, err := h.app.Complaints.Create(r.Context(), params)
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *handler) listComplaints(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	complaints, err := h.app.Complaints.List(r.Context(), storage.ComplaintFilter{
		OrganizationID: q.Get("organization_id"),
		DepartmentID:   q.Get("department_id"),
		Status:         complaint.Status(q.Get("status")),
		Page:           page,
		Limit:          limit,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, complaints)
}

func (h *handler) getComplaint(w http.ResponseWriter, r *http.Request) {
	c, err := h.app.Complaints.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handler) updateComplaint(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		DepartmentID *string `json:"department_id"`
		TypeID       *string `json:"type_id"`
		Subject      *string `json:"subject"`
		Description  *string `json:"description"`
		Location     *string `json:"location"`
		Status       *string `json:"status"`
		Priority     *string `json:"priority"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	params := complaintsvc.UpdateParams{
		DepartmentID: payload.DepartmentID,
		TypeID:       payload.TypeID,
		Subject:      payload.Subject,
		Description:  payload.Description,
		Location:     payload.Location,
	}
	if payload.Status != nil {
		status := complaint.Status(*payload.Status)
		params.Status = &status
	}
	if payload.Priority != nil {
		priority := complaint.Priority(*payload.Priority)
		params.Priority = &priority
	}

	c, err := h.app.Complaints.Update(r.Context(), mux.Vars(r)["id"], params)
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handler) deleteComplaint(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Complaints.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
