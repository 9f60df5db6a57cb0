package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetSession fetches the session for an owner. A missing session returns
// (nil, nil); absence is a normal outcome, not an error.
func (s *Store) GetSession(ctx context.Context, ownerID string) (*Session, error) {
	if ownerID == "" {
		return nil, errors.New("owner id is required")
	}

	var lastUpdated string
	err := s.db.QueryRowContext(ctx,
		`SELECT last_updated FROM sessions WHERE owner_id = ?`, ownerID,
	).Scan(&lastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	updated, err := time.Parse(time.RFC3339Nano, lastUpdated)
	if err != nil {
		return nil, fmt.Errorf("parse last_updated: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT content FROM segments WHERE owner_id = ? ORDER BY position`, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query segments: %w", err)
	}
	defer rows.Close()

	segments := []string{}
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		segments = append(segments, content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate segments: %w", err)
	}

	return &Session{OwnerID: ownerID, Segments: segments, LastUpdated: updated}, nil
}

// AppendSegment adds one segment to the owner's session, creating the session
// if absent. The position is assigned inside the transaction, so concurrent
// appends for the same owner serialize instead of overwriting each other.
func (s *Store) AppendSegment(ctx context.Context, ownerID, content string) (*Session, error) {
	if ownerID == "" {
		return nil, errors.New("owner id is required")
	}
	if content == "" {
		return nil, errors.New("segment content is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin append tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	if err := upsertSession(ctx, tx, ownerID, timestamp); err != nil {
		return nil, err
	}

	var next int64
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM segments WHERE owner_id = ?`, ownerID,
	).Scan(&next)
	if err != nil {
		return nil, fmt.Errorf("next segment position: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO segments (owner_id, position, content) VALUES (?, ?, ?)`,
		ownerID, next, content,
	); err != nil {
		return nil, fmt.Errorf("insert segment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit append: %w", err)
	}

	return s.GetSession(ctx, ownerID)
}

// ReplaceSegments overwrites the owner's segment sequence in a single
// transaction, creating the session if absent. An empty slice leaves the
// session in place with zero segments.
func (s *Store) ReplaceSegments(ctx context.Context, ownerID string, segments []string) (*Session, error) {
	if ownerID == "" {
		return nil, errors.New("owner id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin replace tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	if err := upsertSession(ctx, tx, ownerID, timestamp); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM segments WHERE owner_id = ?`, ownerID); err != nil {
		return nil, fmt.Errorf("clear segments: %w", err)
	}

	for position, content := range segments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO segments (owner_id, position, content) VALUES (?, ?, ?)`,
			ownerID, position, content,
		); err != nil {
			return nil, fmt.Errorf("insert segment %d: %w", position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit replace: %w", err)
	}

	return s.GetSession(ctx, ownerID)
}

// DeleteSession removes the owner's session and all of its segments. Deleting
// a session that does not exist is a no-op.
func (s *Store) DeleteSession(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return errors.New("owner id is required")
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE owner_id = ?`, ownerID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func upsertSession(ctx context.Context, tx *sql.Tx, ownerID, timestamp string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (owner_id, last_updated) VALUES (?, ?)
         ON CONFLICT(owner_id) DO UPDATE SET last_updated = excluded.last_updated`,
		ownerID, timestamp,
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}
