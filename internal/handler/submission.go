package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/assignment-hub/internal/auth"
	"github.com/sakif/assignment-hub/internal/service"
)

type SubmissionHandler struct {
	submissions *service.SubmissionService
	logger      *slog.Logger
}

func NewSubmissionHandler(svc *service.SubmissionService, logger *slog.Logger) *SubmissionHandler {
	return &SubmissionHandler{submissions: svc, logger: logger}
}

// HandleList returns submissions, newest first.
//
// HTTP: GET /api/submissions
//   - professor: every submission, with student name and email
//   - student:   their own submissions
func (h *SubmissionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	list, err := h.submissions.List(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type submitRequest struct {
	AssignmentID string `json:"assignmentId"`
	RepoLink     string `json:"repoLink"`
}

// HandleSubmit stores or replaces the caller's link for an assignment.
//
// HTTP: POST /api/submissions
// REQUEST BODY: {"assignmentId": "...", "repoLink": "https://github.com/..."}
//
// 201 Created for the first submission, 200 OK for a resubmission.
func (h *SubmissionHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req submitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	sub, created, err := h.submissions.Submit(r.Context(), identity, req.AssignmentID, req.RepoLink)
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, sub)
}
