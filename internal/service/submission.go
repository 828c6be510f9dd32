package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/assignment-hub/internal/apperror"
	"github.com/sakif/assignment-hub/internal/metrics"
	"github.com/sakif/assignment-hub/internal/model"
	"github.com/sakif/assignment-hub/internal/notify"
	"github.com/sakif/assignment-hub/internal/repository"
)

// SubmissionService handles business logic for submissions.
type SubmissionService struct {
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	publisher   Publisher
	metrics     *metrics.Metrics
	logger      *slog.Logger
	clock       clock
}

// NewSubmissionService wires the service. publisher and m may be nil.
func NewSubmissionService(
	assignments repository.AssignmentRepository,
	submissions repository.SubmissionRepository,
	publisher Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) *SubmissionService {
	return &SubmissionService{
		assignments: assignments,
		submissions: submissions,
		publisher:   publisherOrNop(publisher),
		metrics:     m,
		logger:      logger,
	}
}

// List returns the submissions visible to caller, newest first.
//
//   - professor → every submission, with student name and email
//   - student   → only their own
func (s *SubmissionService) List(ctx context.Context, caller model.Identity) ([]model.SubmissionView, error) {
	if caller.UserID == "" {
		return nil, apperror.Unauthenticated()
	}
	var filter repository.SubmissionFilter
	switch caller.Role {
	case model.RoleProfessor:
		filter.WithStudent = true
	case model.RoleStudent:
		filter.StudentID = caller.UserID
	default:
		return nil, fmt.Errorf("service/submission: unexpected role %q", caller.Role)
	}

	views, err := s.submissions.ListSubmissions(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list submissions", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	return views, nil
}

type repoLinkInput struct {
	RepoLink string `json:"repoLink" validate:"required,http_url,github_repo"`
}

// Submit records caller's repository link for an assignment, replacing any
// earlier link. created reports whether this was the first submission.
//
// Checks run in this order, and nothing is written unless all pass:
//  1. the assignment exists                    → NotFound
//  2. now is not after the deadline            → DeadlinePassed
//  3. the link is an http(s) URL on GitHub     → ValidationError
func (s *SubmissionService) Submit(ctx context.Context, caller model.Identity, assignmentID, repoLink string) (*model.Submission, bool, error) {
	if err := requireRole(caller, model.RoleStudent); err != nil {
		return nil, false, err
	}

	assignmentID = strings.TrimSpace(assignmentID)
	if assignmentID == "" {
		return nil, false, apperror.ValidationFailed("assignmentId", "assignmentId is required")
	}

	assignment, err := s.assignments.GetAssignment(ctx, assignmentID)
	if err != nil {
		return nil, false, err
	}

	now := s.clock.now()
	if model.IsOverdue(assignment.Deadline, now) {
		s.metrics.Submission("deadline_passed")
		return nil, false, apperror.DeadlinePassed(assignment.ID)
	}

	repoLink = strings.TrimSpace(repoLink)
	if err := validate.Struct(repoLinkInput{RepoLink: repoLink}); err != nil {
		s.metrics.Submission("invalid_link")
		return nil, false, err
	}

	sub := &model.Submission{
		AssignmentID: assignment.ID,
		StudentID:    caller.UserID,
		RepoLink:     repoLink,
		SubmittedAt:  now,
	}
	created, err := s.submissions.UpsertSubmission(ctx, sub)
	if err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, false, err
		}
		s.logger.Error("failed to store submission",
			slog.String("assignmentID", assignment.ID),
			slog.String("studentID", caller.UserID),
			slog.String("error", err.Error()),
		)
		return nil, false, fmt.Errorf("storing submission: %w", err)
	}

	eventType := notify.SubmissionUpdated
	outcome := "updated"
	if created {
		eventType = notify.SubmissionCreated
		outcome = "created"
	}
	s.metrics.Submission(outcome)
	s.logger.Info("submission stored",
		slog.String("id", sub.ID),
		slog.String("assignmentID", sub.AssignmentID),
		slog.String("studentID", sub.StudentID),
		slog.Bool("created", created),
	)
	s.publisher.Publish(notify.Event{
		Type:       eventType,
		Data:       sub,
		Recipients: []string{caller.UserID},
		Roles:      []model.Role{model.RoleProfessor},
	})

	return sub, created, nil
}
