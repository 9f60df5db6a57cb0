package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"memoir/internal/config"
	"memoir/internal/identity"
	"memoir/internal/logging"
	"memoir/internal/session"
	"memoir/internal/story"
)

// Server exposes the HTTP API over the identity, session, and story services.
type Server struct {
	identity *identity.Provider
	sessions *session.Service
	stories  *story.Orchestrator
	logger   *slog.Logger

	bind     string
	tokenTTL time.Duration

	httpServer *http.Server
}

// New assembles the API server. It does not start listening.
func New(cfg *config.Config, provider *identity.Provider, sessions *session.Service, stories *story.Orchestrator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		identity: provider,
		sessions: sessions,
		stories:  stories,
		logger:   logger.With(logging.String(logging.FieldComponent, "server")),
		bind:     cfg.Server.Bind,
		tokenTTL: time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute,
	}
	s.httpServer = &http.Server{
		Addr:              s.bind,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler builds the routing tree. Exposed so tests can drive the API
// without a listener.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			r.Post("/segments", s.handleIngestSegment)
			r.Get("/session", s.handleGetSession)
			r.Put("/session", s.handleReplaceSession)
			r.Delete("/session", s.handleResetSession)
			r.Post("/session/cleanup", s.handleCleanupSession)
			r.Post("/story", s.handleGenerateStory)
		})
	})
	return r
}

// Start listens on the configured bind address and serves until the context
// is canceled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return err
	}
	s.logger.Info("http server listening", logging.String("addr", listener.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Shutdown drains in-flight requests and closes the listener.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
