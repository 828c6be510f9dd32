package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/assignment-hub/internal/apperror"
	"github.com/sakif/assignment-hub/internal/auth"
	"github.com/sakif/assignment-hub/internal/service"
)

// AssignmentHandler exposes the assignment service over JSON.
// Role checks happen twice: RequireRole on the route, and again in the
// service, which never trusts its caller.
type AssignmentHandler struct {
	assignments *service.AssignmentService
	logger      *slog.Logger
}

func NewAssignmentHandler(svc *service.AssignmentService, logger *slog.Logger) *AssignmentHandler {
	return &AssignmentHandler{assignments: svc, logger: logger}
}

// assignmentRequest is the create/update body. The deadline arrives as text
// so a bad timestamp can be reported against its own field.
type assignmentRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Deadline     string `json:"deadline"`
	Instructions string `json:"instructions"`
}

// input converts the body for the service. An empty deadline is passed on as
// the zero time, which the service rejects as missing.
func (req assignmentRequest) input() (service.AssignmentInput, error) {
	in := service.AssignmentInput{
		Title:        req.Title,
		Description:  req.Description,
		Instructions: req.Instructions,
	}
	if req.Deadline != "" {
		deadline, err := time.Parse(time.RFC3339, req.Deadline)
		if err != nil {
			return in, apperror.ValidationFailed("deadline", "deadline must be an RFC 3339 timestamp")
		}
		in.Deadline = deadline
	}
	return in, nil
}

// HandleList returns the caller's view of assignments, newest first.
//
// HTTP: GET /api/assignments
//   - professor: only assignments they created
//   - student:   every assignment
func (h *AssignmentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	list, err := h.assignments.List(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleGet returns one assignment.
//
// HTTP: GET /api/assignments/{id}
func (h *AssignmentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	a, err := h.assignments.Get(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// HandleCreate creates an assignment owned by the calling professor.
//
// HTTP: POST /api/assignments
// REQUEST BODY:
//
//	{"title": "...", "description": "...", "deadline": "2026-11-01T23:59:00Z", "instructions": "..."}
//
// deadline is RFC 3339; it is stored in UTC.
func (h *AssignmentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req assignmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, err)
		return
	}

	a, err := h.assignments.Create(r.Context(), identity, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// HandleUpdate replaces the mutable fields of an assignment the caller owns.
//
// HTTP: PUT /api/assignments/{id}
func (h *AssignmentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req assignmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, err)
		return
	}

	a, err := h.assignments.Update(r.Context(), identity, chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// HandleDelete removes an assignment the caller owns, with its submissions.
//
// HTTP: DELETE /api/assignments/{id} → 204 No Content
func (h *AssignmentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	if err := h.assignments.Delete(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
