package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"memoir/internal/config"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewAcceptsTextAndJSON(t *testing.T) {
	for _, format := range []string{"", "text", "json"} {
		if _, err := New(Options{Format: format}); err != nil {
			t.Fatalf("format %q: %v", format, err)
		}
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Server.LogDir = filepath.Join(base, "logs")
	cfg.Logging.Format = "json"

	logger, err := NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello", String("key", "value"))

	data, err := os.ReadFile(filepath.Join(cfg.Server.LogDir, "memoir.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Fatalf("log entry missing from file: %s", data)
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if got := parseLevel("chatty"); got != parseLevel("info") {
		t.Fatalf("unknown level must default to info, got %v", got)
	}
	if parseLevel("debug") >= parseLevel("warn") {
		t.Fatal("level ordering broken")
	}
}
