package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/resolvedesk/resolvedesk/internal/app/domain/workflow"
	workflowsvc "github.com/resolvedesk/resolvedesk/internal/app/services/workflows"
)

func (h *handler) createWorkflow(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ComplaintID  string          `json:"complaint_id"`
		DepartmentID string          `json:"department_id"`
		AssigneeID   string          `json:"assignee_id"`
		Steps        []workflow.Step `json:"steps"`
		DueAt        time.Time       `json:"due_at"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	wf, err := h.app.Workflows.Create(r.Context(), workflowsvc.CreateParams{
		ComplaintID:  payload.ComplaintID,
		DepartmentID: payload.DepartmentID,
		AssigneeID:   payload.AssigneeID,
		Steps:        payload.Steps,
		DueAt:        payload.DueAt,
	})
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, wf)
}

func (h *handler) listWorkflows(w http.ResponseWriter, r *http.Request) {
	wfs, err := h.app.Workflows.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, wfs)
}

func (h *handler) getWorkflow(w http.ResponseWriter, r *http.Request) {
	wf, err := h.app.Workflows.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, wf)
}

func (h *handler) getWorkflowForComplaint(w http.ResponseWriter, r *http.Request) {
	wf, err := h.app.Workflows.GetByComplaint(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, wf)
}

func (h *handler) updateWorkflow(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		DepartmentID *string    `json:"department_id"`
		AssigneeID   *string    `json:"assignee_id"`
		Status       *string    `json:"status"`
		DueAt        *time.Time `json:"due_at"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	params := workflowsvc.UpdateParams{
		DepartmentID: payload.DepartmentID,
		AssigneeID:   payload.AssigneeID,
		DueAt:        payload.DueAt,
	}
	if payload.Status != nil {
		status := workflow.Status(*payload.Status)
		params.Status = &status
	}

	wf, err := h.app.Workflows.Update(r.Context(), mux.Vars(r)["id"], params)
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, wf)
}

func (h *handler) advanceWorkflow(w http.ResponseWriter, r *http.Request) {
	wf, err := h.app.Workflows.AdvanceStep(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, wf)
}
