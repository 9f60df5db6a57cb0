package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Server contains bind address and directory configuration.
type Server struct {
	Bind    string `toml:"bind"`
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Auth contains token issuance settings for the identity provider.
type Auth struct {
	TokenSecret     string `toml:"token_secret"`
	TokenTTLMinutes int    `toml:"token_ttl_minutes"`
	BcryptCost      int    `toml:"bcrypt_cost"`
}

// Transcription selects and configures the speech-to-text backend.
// Provider is an explicit strategy choice: "openai" or "simulated".
type Transcription struct {
	Provider           string `toml:"provider"`
	APIKey             string `toml:"api_key"`
	BaseURL            string `toml:"base_url"`
	Model              string `toml:"model"`
	TimeoutSeconds     int    `toml:"timeout_seconds"`
	DedupWindowSeconds int    `toml:"dedup_window_seconds"`
}

// Story contains settings for the narrative generation backend.
type Story struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Email contains settings for story delivery. An empty api_key disables
// outbound mail and the daemon falls back to a no-op mailer.
type Email struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	From           string `toml:"from"`
	Subject        string `toml:"subject"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Memoir.
//
// Sections by subsystem:
//   - Server: HTTP bind address plus data and log directories
//   - Auth: password hashing and access token settings
//   - Transcription: speech-to-text provider selection and credentials
//   - Story: narrative generation model and credentials
//   - Email: story delivery settings
//   - Logging: log format and level
type Config struct {
	Server        Server        `toml:"server"`
	Auth          Auth          `toml:"auth"`
	Transcription Transcription `toml:"transcription"`
	Story         Story         `toml:"story"`
	Email         Email         `toml:"email"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/memoir/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("memoir.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	var err error
	if c.Server.DataDir, err = expandPath(c.Server.DataDir); err != nil {
		return err
	}
	if c.Server.LogDir, err = expandPath(c.Server.LogDir); err != nil {
		return err
	}

	// Secrets fall back to the conventional environment variables so a config
	// file never has to hold credentials.
	if strings.TrimSpace(c.Auth.TokenSecret) == "" {
		c.Auth.TokenSecret = os.Getenv("MEMOIR_TOKEN_SECRET")
	}
	if strings.TrimSpace(c.Transcription.APIKey) == "" {
		c.Transcription.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if strings.TrimSpace(c.Story.APIKey) == "" {
		c.Story.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if strings.TrimSpace(c.Email.APIKey) == "" {
		c.Email.APIKey = os.Getenv("RESEND_API_KEY")
	}

	c.Transcription.Provider = strings.ToLower(strings.TrimSpace(c.Transcription.Provider))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

// EnsureDirectories creates the directories the daemon needs at runtime.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Server.DataDir, c.Server.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the location of the session database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Server.DataDir, "memoir.db")
}

// LockFilePath returns the daemon single-instance lock file location.
func (c *Config) LockFilePath() string {
	return filepath.Join(c.Server.DataDir, "memoird.lock")
}

// CreateSample writes the embedded sample configuration to the target path.
func CreateSample(target string) error {
	if err := os.WriteFile(target, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
