// Package fakeapi is a local stand-in for the remote users API.
//
// It serves the same four endpoints under /api and, like the demo API it
// imitates, never mutates anything: PUT echoes the request body with an
// "updatedAt" stamp and DELETE answers 204 without removing the user.
package fakeapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"

	"github.com/dmitrijs2005/useradmin/internal/client/models"
	"github.com/dmitrijs2005/useradmin/internal/common"
	"github.com/dmitrijs2005/useradmin/internal/logging"
)

type Server struct {
	users   []models.User
	perPage int
	apiKey  string
	log     logging.Logger
	now     func() time.Time

	rateLimit  int
	rateWindow time.Duration
}

type Option func(*Server)

// WithAPIKey makes every endpoint require the given x-api-key header.
func WithAPIKey(key string) Option {
	return func(s *Server) { s.apiKey = key }
}

func WithUsers(users []models.User) Option {
	return func(s *Server) { s.users = users }
}

func WithPerPage(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.perPage = n
		}
	}
}

// WithRateLimit answers 429 once a client IP exceeds limit requests per window.
func WithRateLimit(limit int, window time.Duration) Option {
	return func(s *Server) {
		s.rateLimit = limit
		s.rateWindow = window
	}
}

func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.log = l }
}

func New(opts ...Option) *Server {
	s := &Server{
		users:   SeedUsers(),
		perPage: DefaultPerPage,
		log:     logging.Nop(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Router returns the HTTP handler with all routes mounted under /api.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	if s.rateLimit > 0 && s.rateWindow > 0 {
		r.Use(httprate.Limit(
			s.rateLimit,
			s.rateWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				writeError(w, r, http.StatusTooManyRequests, "Too many requests")
			}),
		))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireAPIKey)
		r.Post("/login", s.handleLogin)
		r.Get("/users", s.handleListUsers)
		r.Put("/users/{id}", s.handleUpdateUser)
		r.Delete("/users/{id}", s.handleDeleteUser)
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := r.Header.Get(common.RequestIDHeaderName); id != "" {
			ctx = logging.WithRequestID(ctx, id)
			w.Header().Set(common.RequestIDHeaderName, id)
		}

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))
		s.log.Info(ctx, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey != "" && r.Header.Get(common.APIKeyHeaderName) != s.apiKey {
			writeError(w, r, http.StatusUnauthorized, "Missing API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := render.DecodeJSON(r.Body, &creds); err != nil {
		writeError(w, r, http.StatusBadRequest, "Missing email or username")
		return
	}

	switch {
	case strings.TrimSpace(creds.Email) == "":
		writeError(w, r, http.StatusBadRequest, "Missing email or username")
		return
	case creds.Password == "":
		writeError(w, r, http.StatusBadRequest, "Missing password")
		return
	}

	for _, u := range s.users {
		if strings.EqualFold(u.Email, creds.Email) {
			writeJSON(w, r, http.StatusOK, map[string]string{"token": Token})
			return
		}
	}
	writeError(w, r, http.StatusBadRequest, "user not found")
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	total := len(s.users)
	totalPages := (total + s.perPage - 1) / s.perPage

	data := []models.User{}
	if from := (page - 1) * s.perPage; from < total {
		to := min(from+s.perPage, total)
		data = append(data, s.users[from:to]...)
	}

	writeJSON(w, r, http.StatusOK, models.UserPage{
		Page:       page,
		PerPage:    s.perPage,
		Total:      total,
		TotalPages: totalPages,
		Data:       data,
	})
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	if _, err := strconv.Atoi(chi.URLParam(r, "id")); err != nil {
		writeError(w, r, http.StatusNotFound, "user not found")
		return
	}

	echo := map[string]any{}
	if err := render.DecodeJSON(r.Body, &echo); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid body")
		return
	}
	echo["updatedAt"] = s.now().UTC().Format(time.RFC3339Nano)

	writeJSON(w, r, http.StatusOK, echo)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if _, err := strconv.Atoi(chi.URLParam(r, "id")); err != nil {
		writeError(w, r, http.StatusNotFound, "user not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}
