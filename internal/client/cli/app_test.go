package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/useradmin/internal/client/client"
	"github.com/dmitrijs2005/useradmin/internal/client/config"
	"github.com/dmitrijs2005/useradmin/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/useradmin/internal/common"
	"github.com/dmitrijs2005/useradmin/internal/fakeapi"
)

type testEnv struct {
	app   *App
	out   *bytes.Buffer
	store metadata.Repository
}

// newTestApp wires a real App against an in-process fake API and a
// temporary sqlite store. Input is fed line by line from lines.
func newTestApp(t *testing.T, seedToken string, lines ...string) *testEnv {
	t.Helper()
	ctx := context.Background()

	srv := httptest.NewServer(fakeapi.New().Router())
	t.Cleanup(srv.Close)

	db, err := client.InitDatabase(ctx, filepath.Join(t.TempDir(), "ua.db"))
	require.NoError(t, err)
	store := metadata.NewSQLiteRepository(db)
	if seedToken != "" {
		require.NoError(t, store.Set(ctx, common.TokenStorageKey, seedToken))
	}

	api, err := client.NewHTTPClient(client.Options{BaseURL: srv.URL + "/api", Timeout: 2 * time.Second})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	origPrint, origTerm := printlnFn, isTerminal
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(out, a...) }
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { printlnFn, isTerminal = origPrint, origTerm })

	input := strings.Join(lines, "\n") + "\n"
	a := newApp(&config.Config{}, api, store, nil, strings.NewReader(input), out)
	a.db = db
	return &testEnv{app: a, out: out, store: store}
}

func TestApp_Run_FullSession(t *testing.T) {
	env := newTestApp(t, "",
		"list",
		"login", "eve.holt@reqres.in", "cityslicka",
		"next",
		"next",
		"prev",
		"edit 3", "", "", "emma@example.com",
		"delete 5",
		"delete 5",
		"show",
		"logout",
		"list",
		"exit",
	)

	require.NoError(t, env.app.Run(context.Background()))
	out := env.out.String()

	assert.Contains(t, out, msgLoginFirst)
	assert.Contains(t, out, "[ok] Login successful!")

	// page 2 is the last one: next is disabled, prev enabled
	assert.Contains(t, out, "[prev]  Page 2 of 2   next ")
	assert.Contains(t, out, "Already on the last page")
	assert.Contains(t, out, " prev   Page 1 of 2  [next]")

	assert.Contains(t, out, "[ok] User updated successfully")
	assert.Contains(t, out, "<emma@example.com>")

	assert.Equal(t, 2, strings.Count(out, "[ok] User deleted successfully"))
	assert.Contains(t, out, "[info] Logged out successfully")

	// the token is gone after logout
	v, err := env.store.Get(context.Background(), common.TokenStorageKey)
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestApp_Run_FinalPageAfterEditAndDelete(t *testing.T) {
	env := newTestApp(t, fakeapi.Token,
		"edit 3", "", "", "emma@example.com",
		"delete 5",
		"exit",
	)
	require.NoError(t, env.app.Run(context.Background()))

	// the last rendered page is what the list holds after both operations
	out := env.out.String()
	last := out[strings.LastIndex(out, "User Management"):]

	assert.Contains(t, last, "<emma@example.com>")
	assert.NotContains(t, last, "emma.wong@reqres.in")
	assert.NotContains(t, last, "#5 ")
	assert.Contains(t, last, "#6 ")
}

func TestApp_Run_RestoresStoredSession(t *testing.T) {
	env := newTestApp(t, fakeapi.Token, "show", "exit")

	require.NoError(t, env.app.Run(context.Background()))
	out := env.out.String()

	assert.NotContains(t, out, "Enter email")
	assert.Contains(t, out, "Page 1 of 2")
	assert.Contains(t, out, "george.bluth@reqres.in")
	assert.Contains(t, out, "ua users 1/2> ")
}

func TestApp_Run_LoginRejected(t *testing.T) {
	env := newTestApp(t, "", "login", "nobody@example.com", "secret", "exit")

	require.NoError(t, env.app.Run(context.Background()))
	out := env.out.String()

	assert.Contains(t, out, "[error] user not found")
	assert.NotContains(t, out, "Login successful")
	assert.NotContains(t, out, "User Management")

	v, err := env.store.Get(context.Background(), common.TokenStorageKey)
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestApp_Edit_ValidationThenRetry(t *testing.T) {
	env := newTestApp(t, fakeapi.Token,
		"edit 2", "-", "", "not-an-email",
		"y", "Janet", "", "janet@example.com",
		"exit",
	)

	require.NoError(t, env.app.Run(context.Background()))
	out := env.out.String()

	assert.Contains(t, out, "first_name: First name is required")
	assert.Contains(t, out, "email: Email is invalid")
	assert.Contains(t, out, "[ok] User updated successfully")
	assert.Contains(t, out, "<janet@example.com>")
}

func TestApp_Edit_DeclineRetryDiscardsDraft(t *testing.T) {
	env := newTestApp(t, fakeapi.Token,
		"edit 2", "", "", "broken",
		"n",
		"edit 4", "", "", "",
		"exit",
	)

	require.NoError(t, env.app.Run(context.Background()))
	out := env.out.String()

	assert.Contains(t, out, "Edit cancelled")
	assert.NotContains(t, out, "another edit is in progress")
	assert.Equal(t, 1, strings.Count(out, "[ok] User updated successfully"))
}

func TestApp_CommandUsage(t *testing.T) {
	env := newTestApp(t, fakeapi.Token,
		"edit", "edit abc", "delete", "list x", "list 9", "edit 42", "prev",
		"exit",
	)

	require.NoError(t, env.app.Run(context.Background()))
	out := env.out.String()

	assert.Equal(t, 2, strings.Count(out, "Usage: edit <id>"))
	assert.Contains(t, out, "Usage: delete <id>")
	assert.Contains(t, out, "Usage: list [page]")
	assert.Contains(t, out, "No such page: 9")
	assert.Contains(t, out, "user is not on the current page: 42")
	assert.Contains(t, out, "Already on the first page")
}
