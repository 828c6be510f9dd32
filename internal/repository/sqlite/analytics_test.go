package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/assignment-hub/internal/model"
)

func TestAssignmentStats(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	prof := createTestUser(t, db, "p@example.com", model.RoleProfessor)
	other := createTestUser(t, db, "o@example.com", model.RoleProfessor)
	s1 := createTestUser(t, db, "s1@example.com", model.RoleStudent)
	s2 := createTestUser(t, db, "s2@example.com", model.RoleStudent)

	busy := createTestAssignment(t, db, prof.ID, "busy", time.Now().Add(time.Hour))
	createTestAssignment(t, db, prof.ID, "quiet", time.Now().Add(time.Hour))
	foreign := createTestAssignment(t, db, other.ID, "foreign", time.Now().Add(time.Hour))
	upsertTestSubmission(t, db, busy.ID, s1.ID, "https://github.com/s1/a")
	upsertTestSubmission(t, db, busy.ID, s2.ID, "https://github.com/s2/a")
	upsertTestSubmission(t, db, foreign.ID, s1.ID, "https://github.com/s1/b")

	stats, err := db.AssignmentStats(ctx, prof.ID)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	byTitle := map[string]int{}
	for _, s := range stats {
		byTitle[s.Title] = s.Submissions
		assert.False(t, s.Deadline.IsZero())
	}
	assert.Equal(t, 2, byTitle["busy"])
	assert.Equal(t, 0, byTitle["quiet"])

	n, err := db.CountUsersByRole(ctx, model.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStudentProgress(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	prof := createTestUser(t, db, "p@example.com", model.RoleProfessor)
	s1 := createTestUser(t, db, "s1@example.com", model.RoleStudent)
	s2 := createTestUser(t, db, "s2@example.com", model.RoleStudent)

	done := createTestAssignment(t, db, prof.ID, "done", time.Now().Add(time.Hour))
	createTestAssignment(t, db, prof.ID, "todo", time.Now().Add(time.Hour))
	upsertTestSubmission(t, db, done.ID, s1.ID, "https://github.com/s1/a")
	upsertTestSubmission(t, db, done.ID, s2.ID, "https://github.com/s2/a")

	progress, err := db.StudentProgress(ctx, s1.ID)
	require.NoError(t, err)
	require.Len(t, progress, 2, "one row per assignment, not per submission")

	submitted := 0
	for _, p := range progress {
		if p.Submitted {
			submitted++
			assert.Equal(t, done.ID, p.AssignmentID)
		}
	}
	assert.Equal(t, 1, submitted)
}
