// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Services take the caller's model.Identity as an explicit argument instead of
// reading it from an HTTP request, so the same rules apply whether the call
// comes from a handler, the admin CLI, or a test.
//
// DEPENDENCY INJECTION:
// Every service takes repository interfaces, NOT a *sqlite.DB. In tests we
// pass in-memory fakes (see fakes_test.go); in main.go the one *sqlite.DB
// satisfies all of them.
package service

import (
	"time"

	"github.com/sakif/assignment-hub/internal/apperror"
	"github.com/sakif/assignment-hub/internal/model"
	"github.com/sakif/assignment-hub/internal/notify"
)

// Publisher receives events after a write has been committed.
// *notify.Hub implements it; Publish must not block.
type Publisher interface {
	Publish(event notify.Event)
}

// nopPublisher is used when a service is built without a publisher.
type nopPublisher struct{}

func (nopPublisher) Publish(notify.Event) {}

func publisherOrNop(p Publisher) Publisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

// clock is overridden in tests to pin "now" around a deadline.
type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// requireRole is the service-side twin of auth.RequireRole. The router
// already filters by role; this keeps the rule intact for non-HTTP callers.
func requireRole(caller model.Identity, role model.Role) error {
	if caller.UserID == "" {
		return apperror.Unauthenticated()
	}
	if caller.Role != role {
		return apperror.Forbidden("this action requires the " + role.String() + " role")
	}
	return nil
}
