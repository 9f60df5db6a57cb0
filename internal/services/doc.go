// Package services defines shared utilities consumed by the session workflow
// and the external service integrations.
//
// Key responsibilities:
//   - Context helpers that stamp owner and correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification consistent, and HTTPStatus which translates a classified
//     error into a response code.
//
// Use these helpers when wiring new operations so error handling and
// observability stay uniform across the service.
package services
