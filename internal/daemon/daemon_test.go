package daemon

import (
	"context"
	"testing"

	"github.com/gofrs/flock"

	"memoir/internal/logging"
	"memoir/internal/testsupport"
)

func TestNewAssemblesDaemon(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	d, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := d.store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}
}

func TestNewRejectsUnknownTranscriptionProvider(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Transcription.Provider = "telepathy"

	if _, err := New(cfg, logging.NewNop()); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestRunRefusesSecondInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	d, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() { _ = d.store.Close() })

	holder := flock.New(cfg.LockFilePath())
	locked, err := holder.TryLock()
	if err != nil || !locked {
		t.Fatalf("take lock: locked=%v err=%v", locked, err)
	}
	t.Cleanup(func() { _ = holder.Unlock() })

	if err := d.Run(context.Background()); err == nil {
		t.Fatal("expected Run to refuse a second instance")
	}
}
