package store

import (
	"context"

	"github.com/google/uuid"

	"whlp/internal/entity"
)

// InsertLicense yields AlreadyExists when the Flickr license id is stored.
func (s *Store) InsertLicense(ctx context.Context, l *entity.License) (Outcome, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	const query = `
		INSERT INTO licenses (id, flickr_id, name, url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	return s.insert(ctx, "license", query, l.ID, l.FlickrID, l.Name, l.URL, l.CreatedAt, l.UpdatedAt)
}

func (s *Store) ListLicenses(ctx context.Context) ([]entity.License, error) {
	const query = `
		SELECT id, flickr_id, name, url, created_at, updated_at
		FROM licenses
		ORDER BY flickr_id`

	rs, err := s.c.query(ctx, query)
	if err != nil {
		return nil, fatal("list licenses", err)
	}
	defer rs.Close()

	var out []entity.License
	for rs.Next() {
		var l entity.License
		if err := rs.Scan(&l.ID, &l.FlickrID, &l.Name, &l.URL, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fatal("scan license", err)
		}
		out = append(out, l)
	}
	if err := rs.Err(); err != nil {
		return nil, fatal("list licenses", err)
	}
	return out, nil
}
