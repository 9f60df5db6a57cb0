package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateAuth(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateEmail(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServer() error {
	if strings.TrimSpace(c.Server.Bind) == "" {
		return errors.New("server.bind must be set")
	}
	if strings.TrimSpace(c.Server.DataDir) == "" {
		return errors.New("server.data_dir must be set")
	}
	return nil
}

func (c *Config) validateAuth() error {
	if strings.TrimSpace(c.Auth.TokenSecret) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/memoir/config.toml"
		}
		return fmt.Errorf("auth.token_secret is required. Set MEMOIR_TOKEN_SECRET env var or edit %s (create with 'memoir config init')", defaultPath)
	}
	if c.Auth.TokenTTLMinutes <= 0 {
		return errors.New("auth.token_ttl_minutes must be positive")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return errors.New("auth.bcrypt_cost must be between 4 and 31")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	switch c.Transcription.Provider {
	case "openai":
		if strings.TrimSpace(c.Transcription.APIKey) == "" {
			return errors.New("transcription.api_key is required when transcription.provider is \"openai\" (or set transcription.provider = \"simulated\")")
		}
	case "simulated":
	default:
		return fmt.Errorf("transcription.provider: unsupported value %q (expected \"openai\" or \"simulated\")", c.Transcription.Provider)
	}
	if c.Transcription.DedupWindowSeconds < 0 {
		return errors.New("transcription.dedup_window_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateEmail() error {
	if strings.TrimSpace(c.Email.APIKey) == "" {
		return nil
	}
	if strings.TrimSpace(c.Email.From) == "" {
		return errors.New("email.from must be set when email.api_key is configured")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
