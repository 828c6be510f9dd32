package sqlite

import (
	"context"
	"fmt"

	"github.com/sakif/assignment-hub/internal/model"
	"github.com/sakif/assignment-hub/internal/repository"
)

var _ repository.AnalyticsRepository = (*DB)(nil)

// AssignmentStats returns one row per assignment owned by ownerID with its
// submission count. LEFT JOIN keeps assignments that have no submissions yet.
func (db *DB) AssignmentStats(ctx context.Context, ownerID string) ([]model.AssignmentStats, error) {
	query, args, err := builder.
		Select("a.id AS assignment_id", "a.title", "a.deadline", "COUNT(s.id) AS submissions").
		From("assignments a").
		LeftJoin("submissions s ON s.assignment_id = a.id").
		Where("a.created_by = ?", ownerID).
		GroupBy("a.id", "a.title", "a.deadline").
		OrderBy("a.created_at DESC", "a.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlite: building stats query: %w", err)
	}

	stats := []model.AssignmentStats{}
	if err := db.conn.SelectContext(ctx, &stats, query, args...); err != nil {
		return nil, fmt.Errorf("sqlite: assignment stats: %w", err)
	}
	return stats, nil
}

func (db *DB) CountUsersByRole(ctx context.Context, role model.Role) (int, error) {
	var n int
	if err := db.conn.GetContext(ctx, &n, `SELECT COUNT(*) FROM users WHERE role = ?`, role); err != nil {
		return 0, fmt.Errorf("sqlite: counting %s users: %w", role, err)
	}
	return n, nil
}

// StudentProgress lists every assignment with whether studentID has a
// submission for it. Students see all assignments, so there is no owner filter.
func (db *DB) StudentProgress(ctx context.Context, studentID string) ([]repository.StudentProgress, error) {
	query, args, err := builder.
		Select("a.id AS assignment_id", "a.deadline", "(s.id IS NOT NULL) AS submitted").
		From("assignments a").
		LeftJoin("submissions s ON s.assignment_id = a.id AND s.student_id = ?", studentID).
		OrderBy("a.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlite: building progress query: %w", err)
	}

	progress := []repository.StudentProgress{}
	if err := db.conn.SelectContext(ctx, &progress, query, args...); err != nil {
		return nil, fmt.Errorf("sqlite: student progress: %w", err)
	}
	return progress, nil
}
