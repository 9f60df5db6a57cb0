// Package story orchestrates the one-shot story pipeline: joining the
// session's segments into a transcript, composing prose from it, emailing the
// result, and retiring the session only once delivery has succeeded.
package story
