package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"whlp/internal/entity"
)

const monumentColumns = `id, category, criteria_txt, danger, date_inscribed, extension,
	historical_description, http_url, id_number, image_url, iso_code, justification,
	latitude, longitude, location, long_description, region, revision, secondary_dates,
	short_description, site, states, transboundary, unique_number, created_at, updated_at`

// InsertMonument assigns an id when m has none and inserts it. A row with
// the same id or unique number yields AlreadyExists.
func (s *Store) InsertMonument(ctx context.Context, m *entity.Monument) (Outcome, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	const query = `
		INSERT INTO monuments (` + monumentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	return s.insert(ctx, "monument", query,
		m.ID, m.Category, m.CriteriaTxt, m.Danger, m.DateInscribed, m.Extension,
		m.HistoricalDescription, m.HTTPURL, m.IDNumber, m.ImageURL, m.ISOCode, m.Justification,
		m.Latitude, m.Longitude, m.Location, m.LongDescription, m.Region, m.Revision, m.SecondaryDates,
		m.ShortDescription, m.Site, m.States, m.Transboundary, m.UniqueNumber, m.CreatedAt, m.UpdatedAt,
	)
}

// UpdateMonument rewrites the two fields that may change after insert.
func (s *Store) UpdateMonument(ctx context.Context, id string, site, longDescription *string) error {
	const query = `
		UPDATE monuments SET
			site = ?,
			long_description = ?,
			updated_at = ?
		WHERE id = ?`

	n, err := s.c.exec(ctx, query, site, longDescription, entity.Now(), id)
	if err != nil {
		return fatal("update monument", err)
	}
	if n == 0 {
		return fmt.Errorf("monument %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) ListMonuments(ctx context.Context) ([]entity.Monument, error) {
	query := `SELECT ` + monumentColumns + ` FROM monuments ORDER BY unique_number IS NULL, unique_number, id`

	rs, err := s.c.query(ctx, query)
	if err != nil {
		return nil, fatal("list monuments", err)
	}
	defer rs.Close()

	var out []entity.Monument
	for rs.Next() {
		var m entity.Monument
		if err := rs.Scan(
			&m.ID, &m.Category, &m.CriteriaTxt, &m.Danger, &m.DateInscribed, &m.Extension,
			&m.HistoricalDescription, &m.HTTPURL, &m.IDNumber, &m.ImageURL, &m.ISOCode, &m.Justification,
			&m.Latitude, &m.Longitude, &m.Location, &m.LongDescription, &m.Region, &m.Revision, &m.SecondaryDates,
			&m.ShortDescription, &m.Site, &m.States, &m.Transboundary, &m.UniqueNumber, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fatal("scan monument", err)
		}
		out = append(out, m)
	}
	if err := rs.Err(); err != nil {
		return nil, fatal("list monuments", err)
	}
	return out, nil
}
