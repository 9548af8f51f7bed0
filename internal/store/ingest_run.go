package store

import (
	"context"

	"github.com/google/uuid"

	"whlp/internal/entity"
)

func (s *Store) CreateRun(ctx context.Context, run *entity.IngestRun) (string, error) {
	const query = `
		INSERT INTO ingest_runs (id, started_at, status, source, enrich)
		VALUES (?, ?, ?, ?, ?)`

	id := uuid.NewString()
	if _, err := s.c.exec(ctx, query, id, run.StartedAt.UTC(), run.Status, run.Source, run.Enrich); err != nil {
		return "", fatal("create run", err)
	}
	return id, nil
}

func (s *Store) UpdateRun(ctx context.Context, run *entity.IngestRun) error {
	const query = `
		UPDATE ingest_runs SET
			finished_at = ?,
			status = ?,
			rows_read = ?,
			monuments_inserted = ?,
			monuments_existing = ?,
			monuments_updated = ?,
			licenses_inserted = ?,
			pictures_inserted = ?,
			pictures_existing = ?,
			truncation = ?,
			error = ?
		WHERE id = ?`

	_, err := s.c.exec(ctx, query,
		run.FinishedAt, run.Status, run.RowsRead, run.MonumentsInserted, run.MonumentsExisting,
		run.MonumentsUpdated, run.LicensesInserted, run.PicturesInserted, run.PicturesExisting,
		run.Truncation, run.Error, run.ID)
	if err != nil {
		return fatal("update run", err)
	}
	return nil
}

func (s *Store) GetRun(ctx context.Context, id string) (entity.IngestRun, error) {
	const query = `
		SELECT id, started_at, finished_at, status, source, enrich, rows_read,
			monuments_inserted, monuments_existing, monuments_updated,
			licenses_inserted, pictures_inserted, pictures_existing, truncation, error
		FROM ingest_runs
		WHERE id = ?`

	var r entity.IngestRun
	err := s.c.queryRow(ctx, query, id).Scan(
		&r.ID, &r.StartedAt, &r.FinishedAt, &r.Status, &r.Source, &r.Enrich, &r.RowsRead,
		&r.MonumentsInserted, &r.MonumentsExisting, &r.MonumentsUpdated,
		&r.LicensesInserted, &r.PicturesInserted, &r.PicturesExisting, &r.Truncation, &r.Error,
	)
	if err != nil {
		return entity.IngestRun{}, fatal("get run", err)
	}
	return r, nil
}
