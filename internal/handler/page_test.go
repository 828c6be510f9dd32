package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/assignment-hub/internal/handler"
)

func TestPageHandler(t *testing.T) {
	tests := []struct {
		name          string
		githubEnabled bool
	}{
		{"password only", false},
		{"with GitHub", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, err := handler.NewPageHandler(tc.githubEnabled, quietLogger())
			require.NoError(t, err)

			rec := httptest.NewRecorder()
			h.HandleDashboard(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), "<title>Assignment Hub</title>")
			assert.Contains(t, rec.Body.String(), `id="login-form"`)
			if tc.githubEnabled {
				assert.Contains(t, rec.Body.String(), "/auth/github/login")
			} else {
				assert.NotContains(t, rec.Body.String(), "/auth/github/login")
			}
		})
	}
}
