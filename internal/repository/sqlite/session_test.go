package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/assignment-hub/internal/apperror"
	"github.com/sakif/assignment-hub/internal/model"
)

func TestSessions_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := createTestUser(t, db, "s@example.com", model.RoleStudent)
	now := time.Now()

	s := &model.Session{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		Role:      u.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, db.CreateSession(ctx, s))

	found, err := db.GetSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.UserID)
	assert.Equal(t, model.RoleStudent, found.Role)
	assert.False(t, found.Expired(now))

	require.NoError(t, db.DeleteSession(ctx, s.ID))
	_, err = db.GetSession(ctx, s.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	// Deleting again is not an error.
	assert.NoError(t, db.DeleteSession(ctx, s.ID))
}

func TestDeleteExpiredSessions(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := createTestUser(t, db, "s@example.com", model.RoleStudent)
	now := time.Now()

	live := &model.Session{ID: uuid.NewString(), UserID: u.ID, Role: u.Role, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	dead := &model.Session{ID: uuid.NewString(), UserID: u.ID, Role: u.Role, CreatedAt: now, ExpiresAt: now.Add(-time.Hour)}
	require.NoError(t, db.CreateSession(ctx, live))
	require.NoError(t, db.CreateSession(ctx, dead))

	n, err := db.DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = db.GetSession(ctx, live.ID)
	assert.NoError(t, err)
	_, err = db.GetSession(ctx, dead.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
