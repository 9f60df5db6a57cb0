// Package logging configures slog output for the daemon and CLI.
//
// New builds a logger from explicit options; NewFromConfig derives options from
// application config and tees output to stdout and the log file. Context
// helpers stamp owner and correlation identifiers onto log records so requests
// can be traced across the session workflow.
package logging
