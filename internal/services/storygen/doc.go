// Package storygen generates narrative prose from a session transcript.
//
// The client speaks the OpenAI-compatible chat completions protocol and
// retries transient transport failures (timeouts, 429s, 5xx) with exponential
// backoff, honoring Retry-After when present. Non-transient failures surface
// immediately so the orchestrator can report them without touching the session.
package storygen
