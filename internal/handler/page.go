// Package handler contains the HTTP handlers: a JSON API over the services,
// a WebSocket event feed and the dashboard page.
//
// Handlers parse the request, call a service with the caller's identity and
// write the response. They hold no business rules; role and ownership
// checks live in the service layer.
package handler

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageHandler serves the dashboard shell. The page itself holds no data; its
// script calls the JSON API with the session cookie.
type PageHandler struct {
	templates     *template.Template
	githubEnabled bool
	logger        *slog.Logger
}

// NewPageHandler parses the embedded templates once at startup.
// base.html defines the layout with a {{template "content" .}} slot which
// dashboard.html fills in.
func NewPageHandler(githubEnabled bool, logger *slog.Logger) (*PageHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/base.html", "templates/dashboard.html")
	if err != nil {
		return nil, err
	}

	return &PageHandler{
		templates:     tmpl,
		githubEnabled: githubEnabled,
		logger:        logger,
	}, nil
}

// HandleDashboard serves the main page.
//
// HTTP: GET /
func (h *PageHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Title":         "Assignment Hub",
		"GitHubEnabled": h.githubEnabled,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("failed to render template", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
