package daemon

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofrs/flock"

	"memoir/internal/config"
	"memoir/internal/identity"
	"memoir/internal/logging"
	"memoir/internal/notifications"
	"memoir/internal/server"
	"memoir/internal/session"
	"memoir/internal/services/storygen"
	"memoir/internal/services/transcribe"
	"memoir/internal/story"
	"memoir/internal/store"
)

// Daemon owns the long-running process: the store, the assembled services,
// and the HTTP server, guarded by a single-instance file lock.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger

	store  *store.Store
	server *server.Server
	lock   *flock.Flock
}

// New assembles the daemon from configuration. Nothing is started and no
// lock is taken until Run.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	st, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	provider, err := identity.NewProvider(cfg, st)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("identity provider: %w", err)
	}

	transcriber, err := transcribe.NewFromConfig(cfg)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("transcription backend: %w", err)
	}

	composer := storygen.NewClient(storygen.Config{
		APIKey:         cfg.Story.APIKey,
		BaseURL:        cfg.Story.BaseURL,
		Model:          cfg.Story.Model,
		TimeoutSeconds: cfg.Story.TimeoutSeconds,
	})

	mailer := notifications.NewMailer(cfg)
	if !mailer.Enabled() {
		logger.Warn("email delivery disabled, stories will not leave the process")
	}

	sessions := session.NewService(cfg, st, transcriber, logger)
	stories := story.NewOrchestrator(st, provider, composer, mailer, cfg.Email.Subject, logger)

	d := &Daemon{
		cfg:    cfg,
		logger: logger.With(logging.String(logging.FieldComponent, "daemon")),
		store:  st,
		server: server.New(cfg, provider, sessions, stories, logger),
		lock:   flock.New(cfg.LockFilePath()),
	}
	return d, nil
}

// Run acquires the instance lock and serves until the context is canceled.
func (d *Daemon) Run(ctx context.Context) error {
	locked, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("instance lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another instance already holds %s", d.cfg.LockFilePath())
	}
	defer func() {
		if err := d.lock.Unlock(); err != nil {
			d.logger.Error("release instance lock", logging.Error(err))
		}
	}()

	d.logger.Info("daemon starting",
		logging.String("bind", d.cfg.Server.Bind),
		logging.String("database", d.cfg.DatabasePath()))

	err = d.server.Start(ctx)

	if closeErr := d.store.Close(); closeErr != nil {
		d.logger.Error("close store", logging.Error(closeErr))
	}
	d.logger.Info("daemon stopped")
	return err
}
