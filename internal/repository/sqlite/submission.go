package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/assignment-hub/internal/apperror"
	"github.com/sakif/assignment-hub/internal/model"
	"github.com/sakif/assignment-hub/internal/repository"
)

var _ repository.SubmissionRepository = (*DB)(nil)

const submissionColumns = `id, assignment_id, student_id, repo_link, submitted_at, status`

// UpsertSubmission stores a student's link for an assignment in ONE statement.
//
// WHY NOT "SELECT, then INSERT or UPDATE"?
// Two requests from the same student could both see "no row" and both insert.
// The UNIQUE (assignment_id, student_id) constraint would reject the second
// insert, surfacing a conflict the student never caused. ON CONFLICT folds
// the check and the write into a single atomic operation:
//
//   - no row yet  → INSERT with the freshly generated id and status 'submitted'
//   - row exists  → UPDATE repo_link and submitted_at; id and status are kept
//
// RETURNING hands back the stored row. If its id is the one generated here,
// the INSERT path ran.
func (db *DB) UpsertSubmission(ctx context.Context, sub *model.Submission) (bool, error) {
	newID := xid.New().String()
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now()
	}

	var stored model.Submission
	err := db.conn.GetContext(ctx, &stored,
		`INSERT INTO submissions (`+submissionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (assignment_id, student_id) DO UPDATE SET
		     repo_link    = excluded.repo_link,
		     submitted_at = excluded.submitted_at
		 RETURNING `+submissionColumns,
		newID,
		sub.AssignmentID,
		sub.StudentID,
		sub.RepoLink,
		sub.SubmittedAt.UTC(),
		model.StatusSubmitted,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// Only reachable if the statement above is changed to a plain INSERT.
			return false, apperror.Conflict("submission", sub.AssignmentID)
		}
		return false, fmt.Errorf("sqlite: upserting submission (assignment=%s, student=%s): %w",
			sub.AssignmentID, sub.StudentID, err)
	}

	*sub = stored
	return stored.ID == newID, nil
}

// GetSubmissionFor returns the single row for (assignmentID, studentID).
func (db *DB) GetSubmissionFor(ctx context.Context, assignmentID, studentID string) (*model.Submission, error) {
	var s model.Submission
	err := db.conn.GetContext(ctx, &s,
		`SELECT `+submissionColumns+` FROM submissions
		 WHERE assignment_id = ? AND student_id = ?`,
		assignmentID, studentID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("submission", assignmentID+"/"+studentID)
		}
		return nil, fmt.Errorf("sqlite: getting submission: %w", err)
	}
	return &s, nil
}

// ListSubmissions returns submissions newest first, joined with the assignment
// title and, when filter.WithStudent is set, the student's name and email.
func (db *DB) ListSubmissions(ctx context.Context, filter repository.SubmissionFilter) ([]model.SubmissionView, error) {
	q := builder.Select(
		"s.id", "s.assignment_id", "s.student_id", "s.repo_link", "s.submitted_at", "s.status",
		"a.title AS assignment_title",
	).
		From("submissions s").
		Join("assignments a ON a.id = s.assignment_id").
		OrderBy("s.submitted_at DESC", "s.id DESC")

	if filter.WithStudent {
		q = q.Columns("u.name AS student_name", "u.email AS student_email").
			Join("users u ON u.id = s.student_id")
	}
	if filter.StudentID != "" {
		q = q.Where("s.student_id = ?", filter.StudentID)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlite: building submission query: %w", err)
	}

	views := []model.SubmissionView{}
	if err := db.conn.SelectContext(ctx, &views, query, args...); err != nil {
		return nil, fmt.Errorf("sqlite: listing submissions: %w", err)
	}
	return views, nil
}
