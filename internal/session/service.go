package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"sync"
	"time"

	"memoir/internal/config"
	"memoir/internal/logging"
	"memoir/internal/services"
	"memoir/internal/services/transcribe"
	"memoir/internal/store"
)

// IngestResult reports the outcome of one audio ingest. NewSegment is empty
// when the recording produced no speech or was suppressed as a duplicate.
type IngestResult struct {
	Session    *store.Session
	NewSegment string
	Duplicate  bool
}

// CleanupResult reports segment counts from a cleanup pass.
type CleanupResult struct {
	Original int `json:"original"`
	Unique   int `json:"unique"`
	Removed  int `json:"removed"`
}

// Service owns the per-user working session: ingesting recordings, reading
// and replacing the segment list, and resetting it.
type Service struct {
	store       *store.Store
	transcriber transcribe.Service
	logger      *slog.Logger

	dedupWindow time.Duration
	now         func() time.Time

	mu     sync.Mutex
	recent map[string]time.Time
}

// NewService wires the session service over the store and transcription
// backend.
func NewService(cfg *config.Config, st *store.Store, transcriber transcribe.Service, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		store:       st,
		transcriber: transcriber,
		logger:      logger.With(logging.String(logging.FieldComponent, "session")),
		dedupWindow: time.Duration(cfg.Transcription.DedupWindowSeconds) * time.Second,
		now:         time.Now,
		recent:      make(map[string]time.Time),
	}
}

// Ingest transcribes one audio payload and appends the transcript to the
// owner's session. A payload identical to one seen within the dedup window is
// suppressed, and a transcript with no speech leaves the session untouched;
// both return the current snapshot.
func (s *Service) Ingest(ctx context.Context, ownerID string, audio []byte, mediaType string) (*IngestResult, error) {
	if ownerID == "" {
		return nil, services.Wrap(services.ErrValidation, "session", "ingest", "owner id is required", nil)
	}
	if len(audio) == 0 {
		return nil, services.Wrap(services.ErrValidation, "session", "ingest", "audio payload is required", nil)
	}

	log := logging.WithContext(ctx, s.logger)

	fingerprint := payloadFingerprint(ownerID, audio)
	if s.seenRecently(fingerprint) {
		log.InfoContext(ctx, "duplicate audio payload suppressed",
			logging.Int("bytes", len(audio)))
		current, err := s.Read(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		return &IngestResult{Session: current, Duplicate: true}, nil
	}

	transcript, err := s.transcriber.Transcribe(ctx, audio, mediaType)
	if err != nil {
		// Not remembered: a retry of the same payload must go through.
		return nil, services.Wrap(services.ErrTranscription, "session", "ingest", "transcribe audio", err)
	}

	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		s.remember(fingerprint)
		log.InfoContext(ctx, "transcript empty, session unchanged",
			logging.String("provider", s.transcriber.Name()))
		current, err := s.Read(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		return &IngestResult{Session: current}, nil
	}

	updated, err := s.store.AppendSegment(ctx, ownerID, transcript)
	if err != nil {
		// Same rule as transcription: a failed persist must not poison the
		// dedup set, or the retry silently drops the recording.
		return nil, services.Wrap(services.ErrInternal, "session", "ingest", "append segment", err)
	}
	s.remember(fingerprint)

	log.InfoContext(ctx, "segment appended",
		logging.String("provider", s.transcriber.Name()),
		logging.Int("segments", len(updated.Segments)))
	return &IngestResult{Session: updated, NewSegment: transcript}, nil
}

// Read returns the owner's session snapshot. Reading never creates state: a
// missing session comes back as an empty representation.
func (s *Service) Read(ctx context.Context, ownerID string) (*store.Session, error) {
	if ownerID == "" {
		return nil, services.Wrap(services.ErrValidation, "session", "read", "owner id is required", nil)
	}
	sess, err := s.store.GetSession(ctx, ownerID)
	if err != nil {
		return nil, services.Wrap(services.ErrInternal, "session", "read", "load session", err)
	}
	if sess == nil {
		return &store.Session{OwnerID: ownerID, Segments: []string{}}, nil
	}
	return sess, nil
}

// Replace overwrites the owner's segment list with the edited one. Blank
// entries are dropped; the remaining segments keep their given order.
func (s *Service) Replace(ctx context.Context, ownerID string, segments []string) (*store.Session, error) {
	if ownerID == "" {
		return nil, services.Wrap(services.ErrValidation, "session", "replace", "owner id is required", nil)
	}

	cleaned := []string{}
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		cleaned = append(cleaned, segment)
	}

	updated, err := s.store.ReplaceSegments(ctx, ownerID, cleaned)
	if err != nil {
		return nil, services.Wrap(services.ErrInternal, "session", "replace", "replace segments", err)
	}

	logging.WithContext(ctx, s.logger).InfoContext(ctx, "segments replaced",
		logging.Int("segments", len(updated.Segments)))
	return updated, nil
}

// Reset discards the owner's session and all of its segments. Resetting an
// absent session succeeds.
func (s *Service) Reset(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return services.Wrap(services.ErrValidation, "session", "reset", "owner id is required", nil)
	}
	if err := s.store.DeleteSession(ctx, ownerID); err != nil {
		return services.Wrap(services.ErrInternal, "session", "reset", "delete session", err)
	}
	logging.WithContext(ctx, s.logger).InfoContext(ctx, "session reset")
	return nil
}

// Cleanup removes duplicate and blank segments from the owner's session and
// reports the before/after counts. A missing session is an error; there is
// nothing to clean.
func (s *Service) Cleanup(ctx context.Context, ownerID string) (*CleanupResult, error) {
	if ownerID == "" {
		return nil, services.Wrap(services.ErrValidation, "session", "cleanup", "owner id is required", nil)
	}
	sess, err := s.store.GetSession(ctx, ownerID)
	if err != nil {
		return nil, services.Wrap(services.ErrInternal, "session", "cleanup", "load session", err)
	}
	if sess == nil {
		return nil, services.Wrap(services.ErrNotFound, "session", "cleanup", "no session to clean", nil)
	}

	unique := Dedupe(sess.Segments)
	result := &CleanupResult{
		Original: len(sess.Segments),
		Unique:   len(unique),
		Removed:  len(sess.Segments) - len(unique),
	}
	if result.Removed > 0 {
		if _, err := s.store.ReplaceSegments(ctx, ownerID, unique); err != nil {
			return nil, services.Wrap(services.ErrInternal, "session", "cleanup", "persist unique segments", err)
		}
	}

	logging.WithContext(ctx, s.logger).InfoContext(ctx, "session cleaned",
		logging.Int("original", result.Original),
		logging.Int("removed", result.Removed))
	return result, nil
}

func payloadFingerprint(ownerID string, audio []byte) string {
	digest := sha256.Sum256(audio)
	return ownerID + ":" + hex.EncodeToString(digest[:])
}

// seenRecently reports whether the fingerprint was recorded inside the dedup
// window, pruning expired entries along the way.
func (s *Service) seenRecently(fingerprint string) bool {
	if s.dedupWindow <= 0 {
		return false
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, seen := range s.recent {
		if now.Sub(seen) > s.dedupWindow {
			delete(s.recent, k)
		}
	}
	seen, ok := s.recent[fingerprint]
	return ok && now.Sub(seen) <= s.dedupWindow
}

func (s *Service) remember(fingerprint string) {
	if s.dedupWindow <= 0 {
		return
	}
	s.mu.Lock()
	s.recent[fingerprint] = s.now()
	s.mu.Unlock()
}
