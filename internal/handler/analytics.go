package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/assignment-hub/internal/auth"
	"github.com/sakif/assignment-hub/internal/service"
)

type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	logger    *slog.Logger
}

func NewAnalyticsHandler(svc *service.AnalyticsService, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: svc, logger: logger}
}

// HandleSummary returns the role-specific dashboard numbers.
//
// HTTP: GET /api/analytics
func (h *AnalyticsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	summary, err := h.analytics.Summary(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
