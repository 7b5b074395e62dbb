package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/useradmin/internal/client/client"
	"github.com/dmitrijs2005/useradmin/internal/client/config"
	"github.com/dmitrijs2005/useradmin/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/useradmin/internal/client/services"
	"github.com/dmitrijs2005/useradmin/internal/logging"

	_ "modernc.org/sqlite"
)

// View is the screen the session currently routes to.
type View string

const (
	ViewLogin View = "login"
	ViewUsers View = "users"
)

type App struct {
	config      *config.Config
	log         logging.Logger
	db          *sql.DB
	api         client.Client
	authService services.AuthService
	notify      services.Notifier
	reader      *bufio.Reader
	out         io.Writer

	// users is the list controller of the mounted users view, nil otherwise.
	users *services.UserList
	view  View
}

// NewApp wires the local store, the API client and the services from c.
func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	logger := logging.New(os.Stderr, c.LogLevel, c.LogFormat)

	db, err := client.InitDatabase(ctx, c.StorePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.StorePath, "err", err)
		return nil, err
	}

	apiClient, err := client.NewHTTPClient(client.Options{
		BaseURL:       c.APIBaseURL,
		APIKey:        c.APIKey,
		Timeout:       c.RequestTimeout,
		RatePerSecond: c.RatePerSecond,
		Logger:        logger,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := newApp(c, apiClient, metadata.NewSQLiteRepository(db), logger, os.Stdin, os.Stdout)
	a.db = db
	return a, nil
}

func newApp(c *config.Config, api client.Client, store metadata.Repository, logger logging.Logger, in io.Reader, out io.Writer) *App {
	if logger == nil {
		logger = logging.Nop()
	}
	notify := newTerminalNotifier(out)
	return &App{
		config:      c,
		log:         logger,
		api:         api,
		authService: services.NewAuthService(api, store, notify, logger),
		notify:      notify,
		reader:      bufio.NewReader(in),
		out:         out,
		view:        ViewLogin,
	}
}

// Run restores any stored session, routes to the matching view and serves
// the REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	defer a.close(ctx)

	if err := a.authService.Restore(ctx); err != nil {
		a.log.Warn(ctx, "session restore failed", "err", err)
	}

	fmt.Fprintln(a.out, "Welcome to useradmin (type 'help' for commands)")
	a.route(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.authService.IsAuthenticated()
}

// route mounts the view the session allows: users when authenticated,
// login otherwise. Mounting the users view loads its first page.
func (a *App) route(ctx context.Context) {
	if a.isLoggedIn() {
		if a.view != ViewUsers {
			a.mountUsers(ctx)
		}
		return
	}
	if a.view != ViewLogin {
		a.unmountUsers()
	}
}

func (a *App) mountUsers(ctx context.Context) {
	a.users = services.NewUserList(a.api, a.notify, a.log)
	a.view = ViewUsers
	a.log.Debug(ctx, "view mounted", "view", ViewUsers)
	_ = a.loadPage(ctx, 1)
}

func (a *App) unmountUsers() {
	if a.users != nil {
		a.users.Close()
		a.users = nil
	}
	a.view = ViewLogin
}

func (a *App) getStatus() string {
	if a.view != ViewUsers || a.users == nil {
		return string(ViewLogin)
	}
	s := a.users.Snapshot()
	if !s.Loaded {
		return string(ViewUsers)
	}
	return fmt.Sprintf("users %d/%d", s.Page, s.TotalPages)
}

func (a *App) close(ctx context.Context) {
	a.unmountUsers()
	if err := a.authService.Close(ctx); err != nil {
		a.log.Warn(ctx, "close api client", "err", err)
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
