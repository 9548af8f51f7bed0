package store

import (
	"context"

	"github.com/google/uuid"

	"whlp/internal/entity"
)

// InsertPicture yields AlreadyExists when the Flickr photo id is stored.
// The referenced monument and license must already exist.
func (s *Store) InsertPicture(ctx context.Context, p *entity.Picture) (Outcome, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	const query = `
		INSERT INTO pictures (id, flickr_id, monument_id, license_id, author, url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	return s.insert(ctx, "picture", query,
		p.ID, p.FlickrID, p.MonumentID, p.LicenseID, p.Author, p.URL, p.CreatedAt, p.UpdatedAt)
}

// PictureExists reports whether a picture with this Flickr id is stored.
// A failed lookup counts as "no": the insert that follows settles it.
func (s *Store) PictureExists(ctx context.Context, flickrID string) bool {
	var n int
	err := s.c.queryRow(ctx, `SELECT COUNT(*) FROM pictures WHERE flickr_id = ?`, flickrID).Scan(&n)
	if err != nil {
		return false
	}
	return n > 0
}

func (s *Store) ListPicturesForMonument(ctx context.Context, monumentID string) ([]entity.Picture, error) {
	const query = `
		SELECT id, flickr_id, monument_id, license_id, author, url, created_at, updated_at
		FROM pictures
		WHERE monument_id = ?
		ORDER BY flickr_id`

	rs, err := s.c.query(ctx, query, monumentID)
	if err != nil {
		return nil, fatal("list pictures", err)
	}
	defer rs.Close()

	var out []entity.Picture
	for rs.Next() {
		var p entity.Picture
		if err := rs.Scan(&p.ID, &p.FlickrID, &p.MonumentID, &p.LicenseID, &p.Author, &p.URL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fatal("scan picture", err)
		}
		out = append(out, p)
	}
	if err := rs.Err(); err != nil {
		return nil, fatal("list pictures", err)
	}
	return out, nil
}
