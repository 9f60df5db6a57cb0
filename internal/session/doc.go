// Package session manages the per-user working session of story segments:
// ingesting recordings through the transcription backend, reading and
// replacing the segment list, resetting it, and cleaning out duplicates.
package session
