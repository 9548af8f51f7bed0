// Package ingest runs the whole pipeline: read the heritage list feed,
// store every monument, then hand over to photo enrichment.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"whlp/internal/catalog"
	"whlp/internal/enrich"
	"whlp/internal/entity"
	"whlp/internal/metrics"
	"whlp/internal/store"
)

type Config struct {
	// Location is a file path or http(s) URL. Empty means the public feed.
	Location string
	// RefreshText rewrites site and long description of monuments that
	// already exist when the feed carries different text.
	RefreshText bool
}

type Source interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

type Repository interface {
	CreateRun(ctx context.Context, run *entity.IngestRun) (string, error)
	UpdateRun(ctx context.Context, run *entity.IngestRun) error
	InsertMonument(ctx context.Context, m *entity.Monument) (store.Outcome, error)
	UpdateMonument(ctx context.Context, id string, site, longDescription *string) error
	ListMonuments(ctx context.Context) ([]entity.Monument, error)
}

// Enricher is satisfied by *enrich.Service.
type Enricher interface {
	Run(ctx context.Context) (enrich.Stats, error)
}

type Service struct {
	source   Source
	repo     Repository
	enricher Enricher
	metrics  *metrics.Recorder
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires the pipeline. A nil enricher skips enrichment, which is
// what happens when no Flickr key is configured.
func NewService(source Source, repo Repository, enricher Enricher, rec *metrics.Recorder, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rec == nil {
		rec = metrics.New()
	}
	return &Service{
		source:   source,
		repo:     repo,
		enricher: enricher,
		metrics:  rec,
		cfg:      cfg,
		logger:   logger,
		now:      entity.Now,
	}
}

func (s *Service) Run(ctx context.Context) (run *entity.IngestRun, err error) {
	run = &entity.IngestRun{
		Status:    entity.RunRunning,
		Source:    s.cfg.Location,
		Enrich:    s.enricher != nil,
		StartedAt: s.now(),
	}
	if run.Source == "" {
		run.Source = "default"
	}
	runID, rErr := s.repo.CreateRun(ctx, run)
	if rErr != nil {
		return run, fmt.Errorf("create run: %w", rErr)
	}
	run.ID = runID
	log := s.logger.With(zap.String("run_id", run.ID))

	defer func() {
		now := s.now()
		run.FinishedAt = &now
		if err != nil && run.Error == "" {
			run.Error = err.Error()
		}

		if run.Error != "" {
			run.Status = entity.RunFailed
		} else {
			run.Status = entity.RunCompleted
		}
		s.metrics.Finish(run.Status, run.StartedAt, now)
		// The caller's context may already be cancelled; the run row
		// should still be closed.
		if updateErr := s.repo.UpdateRun(context.WithoutCancel(ctx), run); updateErr != nil {
			log.Error("failed to update ingest run", zap.Error(updateErr))
		}
	}()

	existing, err := s.ingest(ctx, run, log)
	if err != nil {
		return run, err
	}

	if s.cfg.RefreshText && len(existing) > 0 {
		if err := s.refreshText(ctx, run, existing, log); err != nil {
			return run, err
		}
	}

	if s.enricher == nil {
		log.Info("no flickr key, skipping enrichment")
		return run, nil
	}

	st, err := s.enricher.Run(ctx)
	run.LicensesInserted = st.LicensesInserted
	run.PicturesInserted = st.PicturesInserted
	run.PicturesExisting = st.PicturesExisting
	s.metrics.WriteN("license", store.Inserted.String(), st.LicensesInserted)
	s.metrics.WriteN("license", store.AlreadyExists.String(), st.LicensesExisting)
	s.metrics.WriteN("picture", store.Inserted.String(), st.PicturesInserted)
	s.metrics.WriteN("picture", store.AlreadyExists.String(), st.PicturesExisting)
	if err != nil {
		return run, fmt.Errorf("enrich: %w", err)
	}
	return run, nil
}

// ingest streams the feed into the monuments table. It returns the mapped
// monuments whose insert found an existing row, keyed by unique number.
func (s *Service) ingest(ctx context.Context, run *entity.IngestRun, log *zap.Logger) (map[int32]entity.Monument, error) {
	rc, err := s.source.Open(ctx, s.cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer rc.Close()

	existing := make(map[int32]entity.Monument)
	ex := catalog.NewExtractor(rc)
	for rec := range ex.Rows() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		run.RowsRead++

		m := catalog.MapMonument(rec)
		outcome, err := s.repo.InsertMonument(ctx, &m)
		if err != nil {
			return nil, fmt.Errorf("insert monument %q: %w", m.Name(), err)
		}
		s.metrics.Write("monument", outcome)

		if outcome == store.AlreadyExists {
			run.MonumentsExisting++
			if m.UniqueNumber != nil {
				existing[*m.UniqueNumber] = m
			}
			continue
		}
		run.MonumentsInserted++
		log.Debug("monument added", zap.String("id", m.ID), zap.String("site", m.Name()))
	}
	s.metrics.RowsRead(run.RowsRead)

	var trunc *catalog.TruncationError
	switch err := ex.Err(); {
	case errors.As(err, &trunc):
		run.Truncation = trunc.Error()
		log.Warn("heritage list truncated, keeping rows read so far",
			zap.Int("rows", trunc.Rows), zap.Error(trunc.Err))
	case err != nil:
		return nil, fmt.Errorf("read source: %w", err)
	}

	log.Info("monuments ingested",
		zap.Int("rows", run.RowsRead),
		zap.Int("inserted", run.MonumentsInserted),
		zap.Int("existing", run.MonumentsExisting))
	return existing, nil
}

func (s *Service) refreshText(ctx context.Context, run *entity.IngestRun, incoming map[int32]entity.Monument, log *zap.Logger) error {
	stored, err := s.repo.ListMonuments(ctx)
	if err != nil {
		return fmt.Errorf("list monuments: %w", err)
	}

	for _, cur := range stored {
		if cur.UniqueNumber == nil {
			continue
		}
		m, ok := incoming[*cur.UniqueNumber]
		if !ok {
			continue
		}
		if sameText(cur.Site, m.Site) && sameText(cur.LongDescription, m.LongDescription) {
			continue
		}
		if err := s.repo.UpdateMonument(ctx, cur.ID, m.Site, m.LongDescription); err != nil {
			return fmt.Errorf("update monument %s: %w", cur.ID, err)
		}
		run.MonumentsUpdated++
		s.metrics.WriteN("monument", "updated", 1)
		log.Debug("monument text refreshed", zap.String("id", cur.ID), zap.String("site", m.Name()))
	}
	log.Info("monument text refreshed", zap.Int("updated", run.MonumentsUpdated))
	return nil
}

func sameText(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
