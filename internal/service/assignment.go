package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/assignment-hub/internal/apperror"
	"github.com/sakif/assignment-hub/internal/metrics"
	"github.com/sakif/assignment-hub/internal/model"
	"github.com/sakif/assignment-hub/internal/notify"
	"github.com/sakif/assignment-hub/internal/repository"
)

// AssignmentInput is the mutable part of an assignment, shared by Create and
// Update. Title and Deadline are required; the rest may be empty.
type AssignmentInput struct {
	Title        string    `json:"title"        validate:"notblank,max=200"`
	Description  string    `json:"description"  validate:"max=20000"`
	Deadline     time.Time `json:"deadline"     validate:"required"`
	Instructions string    `json:"instructions" validate:"max=20000"`
}

func (in AssignmentInput) normalized() AssignmentInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Instructions = strings.TrimSpace(in.Instructions)
	return in
}

// AssignmentService handles business logic for assignments.
type AssignmentService struct {
	repo      repository.AssignmentRepository
	publisher Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	clock     clock
}

// NewAssignmentService wires the service. publisher and m may be nil.
func NewAssignmentService(
	repo repository.AssignmentRepository,
	publisher Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) *AssignmentService {
	return &AssignmentService{
		repo:      repo,
		publisher: publisherOrNop(publisher),
		metrics:   m,
		logger:    logger,
	}
}

// List returns the assignments visible to caller, newest first.
//
//   - professor → only the assignments they created
//   - student   → every assignment (there is no enrollment model)
func (s *AssignmentService) List(ctx context.Context, caller model.Identity) ([]model.Assignment, error) {
	if caller.UserID == "" {
		return nil, apperror.Unauthenticated()
	}
	var filter repository.AssignmentFilter
	switch caller.Role {
	case model.RoleProfessor:
		filter.CreatedBy = caller.UserID
	case model.RoleStudent:
	default:
		return nil, fmt.Errorf("service/assignment: unexpected role %q", caller.Role)
	}

	assignments, err := s.repo.ListAssignments(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list assignments", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	return assignments, nil
}

// Get returns one assignment to any authenticated caller.
func (s *AssignmentService) Get(ctx context.Context, caller model.Identity, id string) (*model.Assignment, error) {
	if caller.UserID == "" {
		return nil, apperror.Unauthenticated()
	}
	return s.repo.GetAssignment(ctx, strings.TrimSpace(id))
}

// Create validates and stores a new assignment owned by caller, then
// announces it to connected clients.
func (s *AssignmentService) Create(ctx context.Context, caller model.Identity, in AssignmentInput) (*model.Assignment, error) {
	if err := requireRole(caller, model.RoleProfessor); err != nil {
		return nil, err
	}
	in = in.normalized()
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	a := &model.Assignment{
		Title:        in.Title,
		Description:  in.Description,
		Deadline:     in.Deadline,
		Instructions: in.Instructions,
		CreatedBy:    caller.UserID,
		CreatedAt:    s.clock.now(),
	}
	if err := s.repo.CreateAssignment(ctx, a); err != nil {
		s.logger.Error("failed to create assignment",
			slog.String("title", in.Title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating assignment: %w", err)
	}

	s.metrics.AssignmentOp("created")
	s.logger.Info("assignment created",
		slog.String("id", a.ID),
		slog.String("createdBy", a.CreatedBy),
	)
	s.publisher.Publish(notify.Event{Type: notify.AssignmentCreated, Data: a})

	return a, nil
}

// Update rewrites an assignment caller owns. "Does not exist" and "belongs to
// someone else" are reported identically as NotFoundOrForbidden.
func (s *AssignmentService) Update(ctx context.Context, caller model.Identity, id string, in AssignmentInput) (*model.Assignment, error) {
	if err := requireRole(caller, model.RoleProfessor); err != nil {
		return nil, err
	}
	in = in.normalized()
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	a := &model.Assignment{
		ID:           strings.TrimSpace(id),
		Title:        in.Title,
		Description:  in.Description,
		Deadline:     in.Deadline,
		Instructions: in.Instructions,
	}
	if err := s.repo.UpdateOwnedAssignment(ctx, a, caller.UserID); err != nil {
		return nil, err
	}

	s.metrics.AssignmentOp("updated")
	s.logger.Info("assignment updated", slog.String("id", a.ID))

	return s.repo.GetAssignment(ctx, a.ID)
}

// Delete removes an assignment caller owns, together with its submissions.
func (s *AssignmentService) Delete(ctx context.Context, caller model.Identity, id string) error {
	if err := requireRole(caller, model.RoleProfessor); err != nil {
		return err
	}

	id = strings.TrimSpace(id)
	if err := s.repo.DeleteOwnedAssignment(ctx, id, caller.UserID); err != nil {
		return err
	}

	s.metrics.AssignmentOp("deleted")
	s.logger.Info("assignment deleted", slog.String("id", id))
	return nil
}
