// Package config loads, validates, and normalizes Memoir configuration.
//
// Configuration lives in a TOML file (default ~/.config/memoir/config.toml,
// with ./memoir.toml as a project-local fallback). Load applies defaults,
// expands ~ in paths, pulls secrets from environment variables when the file
// omits them, and validates the result. Treat this package as the single
// source of truth for tunables; new settings get a default in defaults.go and
// a check in validate.go.
package config
