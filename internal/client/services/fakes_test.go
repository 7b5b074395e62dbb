package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"

	"github.com/dmitrijs2005/useradmin/internal/client/models"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func getMeta(t *testing.T, db *sql.DB, k string) (string, bool) {
	t.Helper()
	var v string
	err := db.QueryRow(`SELECT value FROM metadata WHERE key=?`, k).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false
	}
	require.NoError(t, err)
	return v, true
}

// seedUsers builds count users with ids 1..count.
func seedUsers(count int) []models.User {
	users := make([]models.User, 0, count)
	for i := 1; i <= count; i++ {
		users = append(users, models.User{
			ID:        i,
			Email:     fmt.Sprintf("user%d@reqres.in", i),
			FirstName: fmt.Sprintf("First%d", i),
			LastName:  fmt.Sprintf("Last%d", i),
			Avatar:    fmt.Sprintf("https://reqres.in/img/faces/%d-image.jpg", i),
		})
	}
	return users
}

// ---- fake client ----

// fakeClient implements client.Client over an in-memory set of users
// paginated like the remote API.
type fakeClient struct {
	mu sync.Mutex

	Users   []models.User
	PerPage int

	LoginToken string
	LoginErr   error
	ListErr    error
	UpdateErr  error
	UpdateEcho map[string]any
	DeleteErr  error
	CloseErr   error

	// listHook, when set, runs before ListUsers answers.
	listHook func(page int)

	LastCreds    models.Credentials
	ListCalls    []int
	UpdateCalls  int
	LastUpdateID int
	LastUpdate   models.UserFields
	DeleteCalls  []int
	Token        string
}

func (f *fakeClient) Login(ctx context.Context, creds models.Credentials) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastCreds = creds
	if f.LoginErr != nil {
		return "", f.LoginErr
	}
	return f.LoginToken, nil
}

func (f *fakeClient) ListUsers(ctx context.Context, page int) (*models.UserPage, error) {
	f.mu.Lock()
	f.ListCalls = append(f.ListCalls, page)
	hook := f.listHook
	f.mu.Unlock()

	if hook != nil {
		hook(page)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}

	per := f.PerPage
	if per == 0 {
		per = 6
	}
	total := len(f.Users)
	pages := (total + per - 1) / per
	start := (page - 1) * per
	end := start + per
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return &models.UserPage{
		Page:       page,
		PerPage:    per,
		Total:      total,
		TotalPages: pages,
		Data:       append([]models.User(nil), f.Users[start:end]...),
	}, nil
}

func (f *fakeClient) UpdateUser(ctx context.Context, id int, fields models.UserFields) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	f.LastUpdateID = id
	f.LastUpdate = fields
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	return f.UpdateEcho, nil
}

func (f *fakeClient) DeleteUser(ctx context.Context, id int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls = append(f.DeleteCalls, id)
	if f.DeleteErr != nil {
		return false, f.DeleteErr
	}
	return true, nil
}

func (f *fakeClient) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Token = token
}

func (f *fakeClient) Close() error { return f.CloseErr }

func (f *fakeClient) listCalls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.ListCalls...)
}

// ---- recording notifier ----

type note struct {
	Kind string
	Msg  string
}

type recNotifier struct {
	mu    sync.Mutex
	notes []note
}

func (r *recNotifier) add(kind, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, note{Kind: kind, Msg: msg})
}

func (r *recNotifier) Success(msg string) { r.add("success", msg) }
func (r *recNotifier) Error(msg string)   { r.add("error", msg) }
func (r *recNotifier) Info(msg string)    { r.add("info", msg) }

func (r *recNotifier) all() []note {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]note(nil), r.notes...)
}
