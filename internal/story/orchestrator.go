package story

import (
	"context"
	"log/slog"
	"strings"

	"memoir/internal/logging"
	"memoir/internal/notifications"
	"memoir/internal/services"
	"memoir/internal/store"
)

// Composer turns a joined transcript into narrative prose.
type Composer interface {
	ComposeStory(ctx context.Context, transcript string) (string, error)
}

// AddressBook resolves an owner id to their delivery address.
type AddressBook interface {
	EmailFor(ctx context.Context, ownerID string) (string, error)
}

// Result describes a completed generation run.
type Result struct {
	Story     string `json:"story"`
	Recipient string `json:"recipient"`
	Segments  int    `json:"segments"`
}

// Orchestrator runs the one-shot pipeline: load the session, compose the
// story, email it, and only then retire the session.
type Orchestrator struct {
	store     *store.Store
	addresses AddressBook
	composer  Composer
	mailer    notifications.Mailer
	subject   string
	logger    *slog.Logger
}

// NewOrchestrator wires the generation pipeline. An empty subject falls back
// to EmailSubject.
func NewOrchestrator(st *store.Store, addresses AddressBook, composer Composer, mailer notifications.Mailer, subject string, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	if strings.TrimSpace(subject) == "" {
		subject = EmailSubject
	}
	return &Orchestrator{
		store:     st,
		addresses: addresses,
		composer:  composer,
		mailer:    mailer,
		subject:   subject,
		logger:    logger.With(logging.String(logging.FieldComponent, "story")),
	}
}

// Generate composes and delivers the owner's story. The session is deleted
// only after delivery succeeds; any failure along the way leaves every
// segment in place so the owner can try again.
func (o *Orchestrator) Generate(ctx context.Context, ownerID string) (*Result, error) {
	if ownerID == "" {
		return nil, services.Wrap(services.ErrValidation, "story", "generate", "owner id is required", nil)
	}

	sess, err := o.store.GetSession(ctx, ownerID)
	if err != nil {
		return nil, services.Wrap(services.ErrInternal, "story", "generate", "load session", err)
	}
	if sess == nil || len(sess.Segments) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "story", "generate", "no segments recorded", nil)
	}

	recipient, err := o.addresses.EmailFor(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	log := logging.WithContext(ctx, o.logger)
	transcript := strings.Join(sess.Segments, "\n\n")

	storyText, err := o.composer.ComposeStory(ctx, transcript)
	if err != nil {
		return nil, services.Wrap(services.ErrGeneration, "story", "generate", "compose narrative", err)
	}

	if err := o.mailer.SendStory(ctx, recipient, o.subject, HTMLBody(storyText)); err != nil {
		return nil, services.Wrap(services.ErrDelivery, "story", "generate", "send email", err)
	}

	if err := o.store.DeleteSession(ctx, ownerID); err != nil {
		// The story already reached the owner; a failed cleanup must not
		// report the run as lost.
		log.ErrorContext(ctx, "session cleanup after delivery failed", logging.Error(err))
	} else {
		log.InfoContext(ctx, "story delivered and session retired",
			logging.Int("segments", len(sess.Segments)),
			logging.Bool("email_enabled", o.mailer.Enabled()))
	}

	return &Result{Story: storyText, Recipient: recipient, Segments: len(sess.Segments)}, nil
}
