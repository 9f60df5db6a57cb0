// Package server exposes the HTTP API: account registration and login,
// recording ingestion, session editing, and story generation. All session
// routes require an authenticated identity, presented either as a bearer
// header or as the token cookie set at login.
package server
