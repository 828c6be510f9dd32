package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sakif/assignment-hub/internal/apperror"
	"github.com/sakif/assignment-hub/internal/model"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string like
// context.WithValue(ctx, "identity", id), ANY package that knows the string
// can read or shadow your value. Using a package-private type prevents
// collisions: only THIS package can create a key of type contextKey.
type contextKey string

const identityKey contextKey = "identity"

// SessionResolver turns a cookie value into the identity of a live session.
// It returns an error wrapping apperror.ErrUnauthenticated for a bad token or
// a missing/expired session; any other error is a storage failure.
//
// service.AuthService implements it. The interface lives here so this package
// does not import the service layer.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (model.Identity, error)
}

// RequireAuth is a middleware that enforces authentication on protected routes.
//
// It reads the session cookie, resolves it to (userID, role) and stores that
// identity in the request context. If the cookie is missing, forged, expired or
// revoked, it returns 401 and stops the request chain.
//
// MIDDLEWARE PATTERN IN GO:
// A middleware is a function that takes an http.Handler and returns a new
// http.Handler. The new handler "wraps" the original:
//
//	func Middleware(next http.Handler) http.Handler {
//	    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	        // ... do stuff before the handler ...
//	        next.ServeHTTP(w, r)
//	        // ... do stuff after the handler ...
//	    })
//	}
//
// Chi applies middlewares in a chain: req → M1 → M2 → Handler → M2 → M1 → resp
func RequireAuth(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				writeAuthError(w, apperror.Unauthenticated())
				return
			}

			identity, err := sessions.ResolveSession(r.Context(), cookie.Value)
			if err != nil {
				writeAuthError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireRole lets the request through only if the identity placed in the
// context by RequireAuth has one of the given roles.
//
// No identity at all is 401; the wrong role is 403. Clients rely on the
// difference: 401 means "log in", 403 means "logging in again won't help".
func RequireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				writeAuthError(w, apperror.Unauthenticated())
				return
			}
			for _, role := range roles {
				if identity.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeAuthError(w, apperror.Forbidden("this action requires the "+rolesLabel(roles)+" role"))
		})
	}
}

// WithIdentity returns a copy of ctx carrying identity.
// Handlers never call it directly; tests use it to skip the cookie dance.
func WithIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext retrieves the caller's identity from the request context.
//
// Returns (Identity{}, false) if the request did not pass through RequireAuth.
func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(model.Identity)
	return identity, ok && identity.UserID != ""
}

func rolesLabel(roles []model.Role) string {
	label := ""
	for i, r := range roles {
		if i > 0 {
			label += " or "
		}
		label += r.String()
	}
	return label
}

// writeAuthError writes the same {"error","message"} body the handler package
// uses. It is duplicated here because handler imports auth, not the reverse.
func writeAuthError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := map[string]string{
		"error":   "internal_error",
		"message": "An internal error occurred",
	}

	var appErr *apperror.AppError
	switch {
	case errors.Is(err, apperror.ErrUnauthenticated):
		status = http.StatusUnauthorized
		body["error"] = "unauthenticated"
	case errors.Is(err, apperror.ErrForbidden):
		status = http.StatusForbidden
		body["error"] = "forbidden"
	}
	if status != http.StatusInternalServerError && errors.As(err, &appErr) {
		body["message"] = appErr.Message
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
