package service

// AuthService is the business logic layer for authentication:
//
//	AuthHandler (HTTP) → AuthService (business rules) → UserRepository / SessionRepository (DB)
//	                   ↘ TokenService (signed cookie)  ↘ PasswordService (bcrypt)
//
// It also implements auth.SessionResolver, which is how the RequireAuth
// middleware turns a cookie into an identity.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sakif/assignment-hub/internal/apperror"
	"github.com/sakif/assignment-hub/internal/auth"
	"github.com/sakif/assignment-hub/internal/model"
	"github.com/sakif/assignment-hub/internal/repository"
)

// DefaultSessionTTL is used when NewAuthService is given a non-positive TTL.
const DefaultSessionTTL = 24 * time.Hour

var _ auth.SessionResolver = (*AuthService)(nil)

// AuthService handles login, logout and session resolution.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users      repository.UserRepository    → provisioned accounts
//   - sessions   repository.SessionRepository → live sessions (source of truth)
//   - tokens     *auth.TokenService           → signs the cookie value
//   - passwords  *auth.PasswordService        → bcrypt verification
//   - ttl        time.Duration                → session lifetime
type AuthService struct {
	users     repository.UserRepository
	sessions  repository.SessionRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	ttl       time.Duration
	logger    *slog.Logger
	clock     clock
}

func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	ttl time.Duration,
	logger *slog.Logger,
) *AuthService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{
		users:     users,
		sessions:  sessions,
		tokens:    tokens,
		passwords: passwords,
		ttl:       ttl,
		logger:    logger,
	}
}

// AuthResult bundles the user record and the cookie token so the handler can
// set the cookie and respond in one step.
type AuthResult struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

// TTL is the lifetime given to new sessions; the handler uses it for MaxAge.
func (s *AuthService) TTL() time.Duration {
	return s.ttl
}

type loginInput struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login verifies email + password and opens a session.
//
// The email lookup is exact and case-sensitive against the stored value.
// Unknown email and wrong password produce the same InvalidCredentials error,
// and both paths spend one bcrypt comparison.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if err := validate.Struct(loginInput{Email: email, Password: password}); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.passwords.VerifyNothing(password)
			return nil, apperror.InvalidCredentials()
		}
		return nil, fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Info("login rejected", slog.String("userID", user.ID))
			return nil, apperror.InvalidCredentials()
		}
		return nil, fmt.Errorf("service/auth: verifying password for %s: %w", user.ID, err)
	}

	return s.openSession(ctx, user, "password")
}

// LoginWithGitHub signs in the provisioned user whose email matches the
// GitHub account's verified email. Accounts are never created here.
func (s *AuthService) LoginWithGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*AuthResult, error) {
	if ghUser == nil || strings.TrimSpace(ghUser.Email) == "" {
		return nil, apperror.InvalidCredentials()
	}

	user, err := s.users.GetUserByEmail(ctx, ghUser.Email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Info("GitHub sign-in for unprovisioned email",
				slog.String("login", ghUser.Login),
			)
			return nil, apperror.InvalidCredentials()
		}
		return nil, fmt.Errorf("service/auth: looking up GitHub user: %w", err)
	}

	return s.openSession(ctx, user, "github")
}

func (s *AuthService) openSession(ctx context.Context, user *model.User, method string) (*AuthResult, error) {
	now := s.clock.now()
	session := &model.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("service/auth: creating session for %s: %w", user.ID, err)
	}

	token, err := s.tokens.Sign(session.ID, user.ID, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("service/auth: signing session for %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in",
		slog.String("userID", user.ID),
		slog.String("role", user.Role.String()),
		slog.String("method", method),
	)

	return &AuthResult{User: user, Token: token, ExpiresAt: session.ExpiresAt}, nil
}

// Logout revokes the session behind token. A missing, forged or already
// revoked token is not an error: the caller ends up logged out either way.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	sessionID, _, err := s.tokens.Parse(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("service/auth: deleting session: %w", err)
	}
	return nil
}

// ResolveSession implements auth.SessionResolver.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (model.Identity, error) {
	sessionID, userID, err := s.tokens.Parse(token)
	if err != nil {
		return model.Identity{}, apperror.Unauthenticated()
	}

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return model.Identity{}, apperror.Unauthenticated()
		}
		return model.Identity{}, fmt.Errorf("service/auth: loading session: %w", err)
	}

	if session.UserID != userID {
		return model.Identity{}, apperror.Unauthenticated()
	}
	if session.Expired(s.clock.now()) {
		if err := s.sessions.DeleteSession(ctx, session.ID); err != nil {
			s.logger.Warn("failed to delete expired session", slog.String("error", err.Error()))
		}
		return model.Identity{}, apperror.Unauthenticated()
	}

	role, err := model.ParseRole(string(session.Role))
	if err != nil {
		return model.Identity{}, fmt.Errorf("service/auth: session %s: %w", session.ID, err)
	}
	return model.Identity{UserID: session.UserID, Role: role}, nil
}

// CurrentUser returns the profile behind an authenticated identity.
func (s *AuthService) CurrentUser(ctx context.Context, caller model.Identity) (*model.User, error) {
	if caller.UserID == "" {
		return nil, apperror.Unauthenticated()
	}
	user, err := s.users.GetUserByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthenticated()
		}
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", caller.UserID, err)
	}
	return user, nil
}

// PurgeExpiredSessions removes sessions past their expiry. The server runs
// it periodically; ResolveSession already refuses expired rows on its own.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpiredSessions(ctx, s.clock.now())
	if err != nil {
		return 0, fmt.Errorf("service/auth: purging sessions: %w", err)
	}
	if n > 0 {
		s.logger.Info("expired sessions purged", slog.Int64("count", n))
	}
	return n, nil
}
