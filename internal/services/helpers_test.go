package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/isdelr/devconnector-be/internal/auth"
	"github.com/isdelr/devconnector-be/internal/database"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "services.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

type testEnv struct {
	db       *sql.DB
	users    *UserService
	events   *EventService
	profiles *ProfileService
	posts    *PostService
	feed     *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	users := NewUserService(db)
	events := NewEventService(db)
	feed := &recordingPublisher{}
	return &testEnv{
		db:       db,
		users:    users,
		events:   events,
		profiles: NewProfileService(db, events),
		posts:    NewPostService(db, users, events, feed),
		feed:     feed,
	}
}

func (e *testEnv) register(t *testing.T, name, email string) auth.Identity {
	t.Helper()
	u, err := e.users.Register(context.Background(), name, email, "secret123")
	require.NoError(t, err)
	return auth.Identity(u.ID)
}

func (e *testEnv) count(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.QueryRow(query, args...).Scan(&n))
	return n
}

type published struct {
	action  string
	payload any
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []published
}

func (p *recordingPublisher) Publish(action string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, published{action, payload})
}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.msgs))
	for _, m := range p.msgs {
		out = append(out, m.action)
	}
	return out
}
