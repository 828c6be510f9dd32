package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/assignment-hub/internal/apperror"
	"github.com/sakif/assignment-hub/internal/model"
	"github.com/sakif/assignment-hub/internal/repository"
)

// AnalyticsService computes the role-scoped dashboard summary.
// Open/closed is derived from the deadline at call time, never stored.
type AnalyticsService struct {
	repo   repository.AnalyticsRepository
	logger *slog.Logger
	clock  clock
}

func NewAnalyticsService(repo repository.AnalyticsRepository, logger *slog.Logger) *AnalyticsService {
	return &AnalyticsService{repo: repo, logger: logger}
}

// Summary returns the professor or student view depending on caller's role.
func (s *AnalyticsService) Summary(ctx context.Context, caller model.Identity) (*model.Summary, error) {
	if caller.UserID == "" {
		return nil, apperror.Unauthenticated()
	}
	switch caller.Role {
	case model.RoleProfessor:
		p, err := s.professorSummary(ctx, caller.UserID)
		if err != nil {
			return nil, err
		}
		return &model.Summary{Role: caller.Role, Professor: p}, nil
	case model.RoleStudent:
		st, err := s.studentSummary(ctx, caller.UserID)
		if err != nil {
			return nil, err
		}
		return &model.Summary{Role: caller.Role, Student: st}, nil
	default:
		return nil, fmt.Errorf("service/analytics: unexpected role %q", caller.Role)
	}
}

func (s *AnalyticsService) professorSummary(ctx context.Context, ownerID string) (*model.ProfessorSummary, error) {
	stats, err := s.repo.AssignmentStats(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("loading assignment stats: %w", err)
	}
	students, err := s.repo.CountUsersByRole(ctx, model.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("counting students: %w", err)
	}

	now := s.clock.now()
	summary := &model.ProfessorSummary{
		Assignments:   len(stats),
		Students:      students,
		PerAssignment: stats,
	}
	for i := range stats {
		stats[i].Overdue = model.IsOverdue(stats[i].Deadline, now)
		if stats[i].Overdue {
			summary.ClosedAssignments++
		} else {
			summary.OpenAssignments++
		}
		summary.Submissions += stats[i].Submissions
	}
	return summary, nil
}

func (s *AnalyticsService) studentSummary(ctx context.Context, studentID string) (*model.StudentSummary, error) {
	progress, err := s.repo.StudentProgress(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("loading student progress: %w", err)
	}

	now := s.clock.now()
	summary := &model.StudentSummary{Assignments: len(progress)}
	for _, p := range progress {
		switch {
		case p.Submitted:
			summary.Submitted++
		case model.IsOverdue(p.Deadline, now):
			summary.Missed++
		default:
			summary.Pending++
		}
	}
	return summary, nil
}
