// Package store persists sessions, segments, and user accounts in SQLite.
//
// A session is one row per owner plus an ordered list of segment rows.
// Appends happen inside a single transaction that assigns the next position,
// so two concurrent ingestions for the same owner cannot lose a segment to a
// read-modify-write race. Deleting a session cascades to its segments.
//
// The database is the only durable state the service owns. Schema changes bump
// the version in schema.go; there is no migration path, delete the database to
// adopt a new schema.
package store
