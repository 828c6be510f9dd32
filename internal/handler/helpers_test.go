package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/assignment-hub/internal/auth"
	"github.com/sakif/assignment-hub/internal/handler"
	"github.com/sakif/assignment-hub/internal/model"
	"github.com/sakif/assignment-hub/internal/notify"
	"github.com/sakif/assignment-hub/internal/repository/sqlite"
	"github.com/sakif/assignment-hub/internal/service"
)

const testPassword = "correct horse battery"

// testEnv is a router over real services and an in-memory database.
type testEnv struct {
	t      *testing.T
	db     *sqlite.DB
	hub    *notify.Hub
	router http.Handler
	github *fakeGitHub
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := quietLogger()
	hub := notify.NewHub(notify.DefaultBuffer, nil, logger)
	t.Cleanup(hub.Close)

	tokens, err := auth.NewTokenService("handler-test-secret-0123456789")
	require.NoError(t, err)
	passwords := auth.NewPasswordServiceForTest(bcrypt.MinCost)

	authSvc := service.NewAuthService(db, db, tokens, passwords, 0, logger)
	assignmentSvc := service.NewAssignmentService(db, hub, nil, logger)
	submissionSvc := service.NewSubmissionService(db, db, hub, nil, logger)
	analyticsSvc := service.NewAnalyticsService(db, logger)

	gh := &fakeGitHub{}
	authH := handler.NewAuthHandler(authSvc, gh, false, logger)
	assignmentH := handler.NewAssignmentHandler(assignmentSvc, logger)
	submissionH := handler.NewSubmissionHandler(submissionSvc, logger)
	analyticsH := handler.NewAnalyticsHandler(analyticsSvc, logger)
	eventsH := handler.NewEventsHandler(hub, logger)

	r := chi.NewRouter()
	r.Post("/api/auth/login", authH.HandleLogin)
	r.Post("/api/auth/logout", authH.HandleLogout)
	r.Get("/auth/github/login", authH.HandleGitHubLogin)
	r.Get("/auth/github/callback", authH.HandleGitHubCallback)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(authSvc))
		r.Get("/api/auth/me", authH.HandleMe)
		r.Get("/api/assignments", assignmentH.HandleList)
		r.Get("/api/assignments/{id}", assignmentH.HandleGet)
		r.Get("/api/submissions", submissionH.HandleList)
		r.Get("/api/analytics", analyticsH.HandleSummary)
		r.Get("/api/events", eventsH.HandleEvents)
		r.With(auth.RequireRole(model.RoleProfessor)).Post("/api/assignments", assignmentH.HandleCreate)
		r.With(auth.RequireRole(model.RoleProfessor)).Put("/api/assignments/{id}", assignmentH.HandleUpdate)
		r.With(auth.RequireRole(model.RoleProfessor)).Delete("/api/assignments/{id}", assignmentH.HandleDelete)
		r.With(auth.RequireRole(model.RoleStudent)).Post("/api/submissions", submissionH.HandleSubmit)
	})

	return &testEnv{t: t, db: db, hub: hub, router: r, github: gh}
}

func (e *testEnv) addUser(email, name string, role model.Role) *model.User {
	e.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(e.t, err)

	u := &model.User{Email: email, Name: name, Role: role, PasswordHash: string(hash)}
	require.NoError(e.t, e.db.CreateUser(context.Background(), u))
	return u
}

// login signs in through the API and returns the session cookie.
func (e *testEnv) login(email string) *http.Cookie {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": email, "password": testPassword,
	}, nil)
	require.Equal(e.t, http.StatusOK, rec.Code, rec.Body.String())

	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	e.t.Fatal("login response carried no session cookie")
	return nil
}

func (e *testEnv) do(method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(e.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

type fakeGitHub struct {
	user *auth.GitHubUser
	err  error
}

func (f *fakeGitHub) AuthURL(state string) string {
	return "https://github.example/authorize?state=" + state
}

func (f *fakeGitHub) Exchange(ctx context.Context, code string) (*auth.GitHubUser, error) {
	return f.user, f.err
}
