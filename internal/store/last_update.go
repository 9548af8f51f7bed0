package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// LastUpdateForMonument returns the zero time when the monument was never
// enriched.
func (s *Store) LastUpdateForMonument(ctx context.Context, monumentID string) (time.Time, error) {
	var t time.Time
	err := s.c.queryRow(ctx, `SELECT updated_at FROM last_updates WHERE monument_id = ?`, monumentID).Scan(&t)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fatal("last update", err)
	}
	return t, nil
}

func (s *Store) UpdateLastUpdate(ctx context.Context, monumentID string, at time.Time) error {
	const query = `
		INSERT INTO last_updates (monument_id, updated_at)
		VALUES (?, ?)
		ON CONFLICT (monument_id) DO UPDATE SET updated_at = excluded.updated_at`

	if _, err := s.c.exec(ctx, query, monumentID, at.UTC()); err != nil {
		return fatal("update last update", err)
	}
	return nil
}
