// Package httpapi exposes the task service over HTTP/JSON. The session
// credential travels in an HTTP-only cookie; every protected handler resolves
// it before touching the store.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/cuadratic/tasklist/internal/logging"
	"github.com/cuadratic/tasklist/internal/server/services"
)

type Server struct {
	address       string
	tasks         *services.TaskService
	logger        logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration
}

func NewServer(address string, l logging.Logger, ts *services.TaskService, secretKey string, tokenValidity time.Duration) *Server {
	return &Server{
		address:       address,
		logger:        l.With("module", "http_server"),
		tasks:         ts,
		jwtSecret:     []byte(secretKey),
		tokenValidity: tokenValidity,
	}
}

// Handler builds the full route table wrapped in the request-logging
// middleware. It is exported so tests can drive the server through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.HandleFunc("GET /api/auth/whoami", s.handleWhoami)

	mux.HandleFunc("GET /api/tasks", s.withSession(s.handleListTasks))
	mux.HandleFunc("POST /api/tasks", s.withSession(s.handleAddTask))
	mux.HandleFunc("POST /api/tasks/delete", s.withSession(s.handleDeleteTask))
	mux.HandleFunc("POST /api/tasks/state", s.withSession(s.handleUpdateState))
	mux.HandleFunc("POST /api/tasks/title", s.withSession(s.handleRenameTask))

	mux.HandleFunc("GET /api/health", s.handleHealth)

	return s.requestLogger(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
