package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/sakif/assignment-hub/internal/apperror"
	"github.com/sakif/assignment-hub/internal/model"
	"github.com/sakif/assignment-hub/internal/repository"
)

var _ repository.SessionRepository = (*DB)(nil)

// CreateSession stores a session. The ID is chosen by the caller (the auth
// service), since it is also embedded in the signed cookie.
func (db *DB) CreateSession(ctx context.Context, s *model.Session) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, role, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?)`,
		s.ID,
		s.UserID,
		s.Role,
		s.CreatedAt.UTC(),
		s.ExpiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating session: %w", err)
	}
	return nil
}

func (db *DB) GetSession(ctx context.Context, id string) (*model.Session, error) {
	var s model.Session
	err := db.conn.GetContext(ctx, &s,
		`SELECT id, user_id, role, created_at, expires_at FROM sessions WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("session", id)
		}
		return nil, fmt.Errorf("sqlite: getting session: %w", err)
	}
	return &s, nil
}

// DeleteSession is idempotent: deleting a missing session is not an error.
func (db *DB) DeleteSession(ctx context.Context, id string) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("sqlite: deleting session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions purges sessions whose expiry is at or before now.
// Expiry is compared in Go on parsed timestamps rather than on stored text.
// The cursor is closed before the DELETE because the pool holds one connection.
func (db *DB) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	rows, err := db.conn.QueryxContext(ctx, `SELECT id, expires_at FROM sessions`)
	if err != nil {
		return 0, fmt.Errorf("sqlite: scanning sessions: %w", err)
	}

	var expired []string
	for rows.Next() {
		var s model.Session
		if err := rows.StructScan(&s); err != nil {
			rows.Close()
			return 0, fmt.Errorf("sqlite: scanning session row: %w", err)
		}
		if s.Expired(now) {
			expired = append(expired, s.ID)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("sqlite: iterating sessions: %w", err)
	}
	rows.Close()

	if len(expired) == 0 {
		return 0, nil
	}

	query, args, err := builder.Delete("sessions").Where(sq.Eq{"id": expired}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("sqlite: building session purge: %w", err)
	}
	result, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("sqlite: purging sessions: %w", err)
	}
	return result.RowsAffected()
}
