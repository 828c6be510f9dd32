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

var _ repository.AssignmentRepository = (*DB)(nil)

const assignmentColumns = `id, title, description, deadline, instructions, created_by, created_at`

// CreateAssignment inserts a new assignment, generating its ID and CreatedAt.
// Deadline is normalized to UTC so that stored timestamps sort consistently.
func (db *DB) CreateAssignment(ctx context.Context, a *model.Assignment) error {
	a.ID = xid.New().String()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	a.CreatedAt = a.CreatedAt.UTC()
	a.Deadline = a.Deadline.UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO assignments (`+assignmentColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		a.Title,
		a.Description,
		a.Deadline,
		a.Instructions,
		a.CreatedBy,
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating assignment: %w", err)
	}
	return nil
}

// GetAssignment retrieves one assignment; apperror.ErrNotFound if absent.
func (db *DB) GetAssignment(ctx context.Context, id string) (*model.Assignment, error) {
	var a model.Assignment
	err := db.conn.GetContext(ctx, &a,
		`SELECT `+assignmentColumns+` FROM assignments WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("assignment", id)
		}
		return nil, fmt.Errorf("sqlite: getting assignment %s: %w", id, err)
	}
	return &a, nil
}

// ListAssignments returns assignments newest first. The xid tiebreaker keeps
// the order stable for rows created within the same clock tick.
func (db *DB) ListAssignments(ctx context.Context, filter repository.AssignmentFilter) ([]model.Assignment, error) {
	q := builder.Select(assignmentColumns).
		From("assignments").
		OrderBy("created_at DESC", "id DESC")
	if filter.CreatedBy != "" {
		q = q.Where("created_by = ?", filter.CreatedBy)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlite: building assignment query: %w", err)
	}

	assignments := []model.Assignment{}
	if err := db.conn.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("sqlite: listing assignments: %w", err)
	}
	return assignments, nil
}

// UpdateOwnedAssignment rewrites the mutable fields of an assignment owned by
// ownerID. Existence and ownership are checked by the same WHERE clause, so a
// zero row count cannot distinguish them, which is exactly the contract.
func (db *DB) UpdateOwnedAssignment(ctx context.Context, a *model.Assignment, ownerID string) error {
	a.Deadline = a.Deadline.UTC()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE assignments
		 SET title = ?, description = ?, deadline = ?, instructions = ?
		 WHERE id = ? AND created_by = ?`,
		a.Title,
		a.Description,
		a.Deadline,
		a.Instructions,
		a.ID,
		ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating assignment %s: %w", a.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFoundOrForbidden("assignment", a.ID)
	}
	return nil
}

// DeleteOwnedAssignment removes an assignment owned by ownerID. Its
// submissions go with it through ON DELETE CASCADE.
func (db *DB) DeleteOwnedAssignment(ctx context.Context, id, ownerID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM assignments WHERE id = ? AND created_by = ?`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting assignment %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFoundOrForbidden("assignment", id)
	}
	return nil
}
