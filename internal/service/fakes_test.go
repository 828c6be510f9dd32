package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/sakif/assignment-hub/internal/apperror"
	"github.com/sakif/assignment-hub/internal/model"
	"github.com/sakif/assignment-hub/internal/notify"
	"github.com/sakif/assignment-hub/internal/repository"
)

// =========================================================================
// FAKE STORE
// =========================================================================
//
// fakeStore is an in-memory implementation of every repository interface.
// Using a fake (not a mock framework) keeps tests easy to read: you can see
// exactly what the fake does. It mirrors the SQLite contracts the services
// depend on: NotFound errors, owner-scoped writes, one submission per
// (assignment, student), cascade on assignment delete.

type fakeStore struct {
	mu          sync.Mutex
	nextID      int
	users       map[string]*model.User
	assignments map[string]*model.Assignment
	submissions map[string]*model.Submission
	sessions    map[string]*model.Session

	// set to a non-nil error to simulate a database failure
	failWith error
}

var (
	_ repository.UserRepository       = (*fakeStore)(nil)
	_ repository.AssignmentRepository = (*fakeStore)(nil)
	_ repository.SubmissionRepository = (*fakeStore)(nil)
	_ repository.SessionRepository    = (*fakeStore)(nil)
	_ repository.AnalyticsRepository  = (*fakeStore)(nil)
)

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       make(map[string]*model.User),
		assignments: make(map[string]*model.Assignment),
		submissions: make(map[string]*model.Submission),
		sessions:    make(map[string]*model.Session),
	}
}

func (f *fakeStore) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%03d", prefix, f.nextID)
}

func (f *fakeStore) CreateUser(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return apperror.Conflict("user", u.Email)
		}
	}
	u.ID = f.id("user")
	u.CreatedAt = time.Now().UTC()
	stored := *u
	f.users[u.ID] = &stored
	return nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, u := range f.users {
		if u.Email == email {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (f *fakeStore) CreateAssignment(_ context.Context, a *model.Assignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	a.ID = f.id("asg")
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	stored := *a
	f.assignments[a.ID] = &stored
	return nil
}

func (f *fakeStore) GetAssignment(_ context.Context, id string) (*model.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	a, ok := f.assignments[id]
	if !ok {
		return nil, apperror.NotFound("assignment", id)
	}
	result := *a
	return &result, nil
}

func (f *fakeStore) ListAssignments(_ context.Context, filter repository.AssignmentFilter) ([]model.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	result := []model.Assignment{}
	for _, a := range f.assignments {
		if filter.CreatedBy != "" && a.CreatedBy != filter.CreatedBy {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (f *fakeStore) UpdateOwnedAssignment(_ context.Context, a *model.Assignment, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	existing, ok := f.assignments[a.ID]
	if !ok || existing.CreatedBy != ownerID {
		return apperror.NotFoundOrForbidden("assignment", a.ID)
	}
	existing.Title = a.Title
	existing.Description = a.Description
	existing.Deadline = a.Deadline
	existing.Instructions = a.Instructions
	return nil
}

func (f *fakeStore) DeleteOwnedAssignment(_ context.Context, id, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	existing, ok := f.assignments[id]
	if !ok || existing.CreatedBy != ownerID {
		return apperror.NotFoundOrForbidden("assignment", id)
	}
	delete(f.assignments, id)
	for sid, s := range f.submissions {
		if s.AssignmentID == id {
			delete(f.submissions, sid)
		}
	}
	return nil
}

func (f *fakeStore) UpsertSubmission(_ context.Context, sub *model.Submission) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return false, f.failWith
	}
	if _, ok := f.assignments[sub.AssignmentID]; !ok {
		return false, fmt.Errorf("fake: foreign key violation")
	}
	for _, existing := range f.submissions {
		if existing.AssignmentID == sub.AssignmentID && existing.StudentID == sub.StudentID {
			existing.RepoLink = sub.RepoLink
			existing.SubmittedAt = sub.SubmittedAt
			*sub = *existing
			return false, nil
		}
	}
	sub.ID = f.id("sub")
	sub.Status = model.StatusSubmitted
	stored := *sub
	f.submissions[sub.ID] = &stored
	return true, nil
}

func (f *fakeStore) GetSubmissionFor(_ context.Context, assignmentID, studentID string) (*model.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.submissions {
		if s.AssignmentID == assignmentID && s.StudentID == studentID {
			result := *s
			return &result, nil
		}
	}
	return nil, apperror.NotFound("submission", assignmentID+"/"+studentID)
}

func (f *fakeStore) ListSubmissions(_ context.Context, filter repository.SubmissionFilter) ([]model.SubmissionView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	result := []model.SubmissionView{}
	for _, s := range f.submissions {
		if filter.StudentID != "" && s.StudentID != filter.StudentID {
			continue
		}
		v := model.SubmissionView{Submission: *s}
		if a, ok := f.assignments[s.AssignmentID]; ok {
			v.AssignmentTitle = a.Title
		}
		if filter.WithStudent {
			if u, ok := f.users[s.StudentID]; ok {
				v.StudentName = u.Name
				v.StudentEmail = u.Email
			}
		}
		result = append(result, v)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].SubmittedAt.After(result[j].SubmittedAt)
	})
	return result, nil
}

func (f *fakeStore) CreateSession(_ context.Context, s *model.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	stored := *s
	f.sessions[s.ID] = &stored
	return nil
}

func (f *fakeStore) GetSession(_ context.Context, id string) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	s, ok := f.sessions[id]
	if !ok {
		return nil, apperror.NotFound("session", id)
	}
	result := *s
	return &result, nil
}

func (f *fakeStore) DeleteSession(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	delete(f.sessions, id)
	return nil
}

func (f *fakeStore) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, s := range f.sessions {
		if s.Expired(now) {
			delete(f.sessions, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) AssignmentStats(_ context.Context, ownerID string) ([]model.AssignmentStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	stats := []model.AssignmentStats{}
	for _, a := range f.assignments {
		if a.CreatedBy != ownerID {
			continue
		}
		st := model.AssignmentStats{AssignmentID: a.ID, Title: a.Title, Deadline: a.Deadline}
		for _, s := range f.submissions {
			if s.AssignmentID == a.ID {
				st.Submissions++
			}
		}
		stats = append(stats, st)
	}
	return stats, nil
}

func (f *fakeStore) CountUsersByRole(_ context.Context, role model.Role) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, u := range f.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) StudentProgress(_ context.Context, studentID string) ([]repository.StudentProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	progress := []repository.StudentProgress{}
	for _, a := range f.assignments {
		p := repository.StudentProgress{AssignmentID: a.ID, Deadline: a.Deadline}
		for _, s := range f.submissions {
			if s.AssignmentID == a.ID && s.StudentID == studentID {
				p.Submitted = true
			}
		}
		progress = append(progress, p)
	}
	return progress, nil
}

// =========================================================================
// FAKE PUBLISHER AND CLOCK
// =========================================================================

type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (p *recordingPublisher) Publish(e notify.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []notify.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]notify.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// manualClock is a settable "now" for deadline tests.
type manualClock struct {
	mu sync.Mutex
	t  time.Time
}

func newManualClock(t time.Time) *manualClock { return &manualClock{t: t} }

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *manualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seedUser inserts a user straight into the fake and returns its identity.
func (f *fakeStore) seedUser(email, name string, role model.Role, passwordHash string) model.Identity {
	u := &model.User{Email: email, Name: name, Role: role, PasswordHash: passwordHash}
	if err := f.CreateUser(context.Background(), u); err != nil {
		panic(err)
	}
	return model.Identity{UserID: u.ID, Role: role}
}
