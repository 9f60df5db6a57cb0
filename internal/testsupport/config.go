package testsupport

import (
	"path/filepath"
	"testing"

	"memoir/internal/config"
)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Auth.TokenSecret = "test-secret"
	cfg.Auth.BcryptCost = 4
	cfg.Server.Bind = "127.0.0.1:0"
	cfg.Server.DataDir = filepath.Join(base, "data")
	cfg.Server.LogDir = filepath.Join(base, "logs")
	return &cfg
}
