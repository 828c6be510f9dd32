// Package repository declares the storage interfaces the service layer depends on.
// The sqlite subpackage implements all of them on a single *sqlite.DB.
package repository

import (
	"context"
	"time"

	"github.com/sakif/assignment-hub/internal/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// AssignmentFilter narrows ListAssignments. An empty CreatedBy means "all".
type AssignmentFilter struct {
	CreatedBy string
}

type AssignmentRepository interface {
	CreateAssignment(ctx context.Context, a *model.Assignment) error
	GetAssignment(ctx context.Context, id string) (*model.Assignment, error)
	ListAssignments(ctx context.Context, filter AssignmentFilter) ([]model.Assignment, error)
	// UpdateOwnedAssignment and DeleteOwnedAssignment only touch a row whose
	// created_by equals ownerID; otherwise they return ErrNotFoundOrForbidden.
	UpdateOwnedAssignment(ctx context.Context, a *model.Assignment, ownerID string) error
	DeleteOwnedAssignment(ctx context.Context, id, ownerID string) error
}

// SubmissionFilter narrows ListSubmissions. An empty StudentID means "all";
// WithStudent joins the student's name and email into each row.
type SubmissionFilter struct {
	StudentID   string
	WithStudent bool
}

type SubmissionRepository interface {
	// UpsertSubmission inserts sub or, if a row for (AssignmentID, StudentID)
	// exists, overwrites its repo_link and submitted_at in the same statement.
	// sub is overwritten with the stored row; created reports which path ran.
	UpsertSubmission(ctx context.Context, sub *model.Submission) (created bool, err error)
	GetSubmissionFor(ctx context.Context, assignmentID, studentID string) (*model.Submission, error)
	ListSubmissions(ctx context.Context, filter SubmissionFilter) ([]model.SubmissionView, error)
}

type SessionRepository interface {
	CreateSession(ctx context.Context, s *model.Session) error
	GetSession(ctx context.Context, id string) (*model.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// StudentProgress is one assignment as seen by one student.
type StudentProgress struct {
	AssignmentID string    `db:"assignment_id"`
	Deadline     time.Time `db:"deadline"`
	Submitted    bool      `db:"submitted"`
}

type AnalyticsRepository interface {
	AssignmentStats(ctx context.Context, ownerID string) ([]model.AssignmentStats, error)
	CountUsersByRole(ctx context.Context, role model.Role) (int, error)
	StudentProgress(ctx context.Context, studentID string) ([]StudentProgress, error)
}
