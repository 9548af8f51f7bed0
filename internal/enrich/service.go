package enrich

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"whlp/internal/entity"
	"whlp/internal/store"
)

type Config struct {
	Licenses []int
	PerPage  int
	// Freshness skips monuments enriched more recently than this. Zero
	// enriches every monument on every run.
	Freshness time.Duration
	// SkipFailedDetails downgrades a failed photo detail fetch from a run
	// abort to a per-photo skip.
	SkipFailedDetails bool
}

// Stats counts what one enrichment run did.
type Stats struct {
	LicensesFetched   int
	LicensesInserted  int
	LicensesExisting  int
	MonumentsVisited  int
	MonumentsSkipped  int
	PlacesResolved    int
	PhotosFound       int
	PicturesInserted  int
	PicturesExisting  int
	PhotoDetailsSkips int
}

type Service struct {
	repo     Repository
	licenses *LicenseCatalog
	places   *PlaceResolver
	search   *PhotoSearcher
	photos   *PhotoEnricher
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(api API, repo Repository, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		licenses: NewLicenseCatalog(api),
		places:   NewPlaceResolver(api),
		search:   NewPhotoSearcher(api, cfg.Licenses, cfg.PerPage),
		photos:   NewPhotoEnricher(api, repo, logger, cfg.SkipFailedDetails),
		cfg:      cfg,
		logger:   logger,
		now:      entity.Now,
	}
}

// Run refreshes the license table, then visits every stored monument in
// turn. Any returned error means the run stopped; rows written before it
// stay committed.
func (s *Service) Run(ctx context.Context) (Stats, error) {
	var st Stats

	idx, err := s.syncLicenses(ctx, &st)
	if err != nil {
		return st, err
	}

	monuments, err := s.repo.ListMonuments(ctx)
	if err != nil {
		return st, fmt.Errorf("list monuments: %w", err)
	}

	for _, m := range monuments {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		if err := s.enrichMonument(ctx, m, idx, &st); err != nil {
			return st, fmt.Errorf("monument %s: %w", m.ID, err)
		}
	}

	s.logger.Info("enrichment finished",
		zap.Int("monuments", st.MonumentsVisited),
		zap.Int("monuments_skipped", st.MonumentsSkipped),
		zap.Int("pictures_inserted", st.PicturesInserted),
		zap.Int("pictures_existing", st.PicturesExisting))
	return st, nil
}

func (s *Service) syncLicenses(ctx context.Context, st *Stats) (LicenseIndex, error) {
	fetched, err := s.licenses.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	st.LicensesFetched = len(fetched)

	for i := range fetched {
		outcome, err := s.repo.InsertLicense(ctx, &fetched[i])
		if err != nil {
			return nil, fmt.Errorf("insert license %d: %w", fetched[i].FlickrID, err)
		}
		if outcome == store.AlreadyExists {
			st.LicensesExisting++
			continue
		}
		st.LicensesInserted++
		s.logger.Debug("license added", zap.Int("flickr_id", fetched[i].FlickrID), zap.String("name", fetched[i].Name))
	}
	s.logger.Info("licenses synced",
		zap.Int("fetched", st.LicensesFetched),
		zap.Int("inserted", st.LicensesInserted))

	stored, err := s.repo.ListLicenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list licenses: %w", err)
	}
	return NewLicenseIndex(stored), nil
}

func (s *Service) enrichMonument(ctx context.Context, m entity.Monument, idx LicenseIndex, st *Stats) error {
	log := s.logger.With(zap.String("monument_id", m.ID), zap.String("site", m.Name()))

	if m.Name() == "" {
		log.Debug("no site name, nothing to search for")
		st.MonumentsSkipped++
		return nil
	}

	if s.cfg.Freshness > 0 {
		last, err := s.repo.LastUpdateForMonument(ctx, m.ID)
		if err != nil {
			return fmt.Errorf("last update: %w", err)
		}
		if !last.IsZero() && s.now().Sub(last) < s.cfg.Freshness {
			log.Debug("recently enriched, skipping", zap.Time("last_update", last))
			st.MonumentsSkipped++
			return nil
		}
	}
	st.MonumentsVisited++

	var placeID string
	var hasPlace bool
	if m.HasCoordinates() {
		var err error
		placeID, hasPlace, err = s.places.Resolve(ctx, *m.Latitude, *m.Longitude)
		if err != nil {
			log.Warn("place lookup failed, searching without place", zap.Error(err))
		}
		if hasPlace {
			st.PlacesResolved++
		}
	}

	photos, err := s.search.Search(ctx, m.Name(), placeID, hasPlace)
	if err != nil {
		return fmt.Errorf("photo search: %w", err)
	}
	st.PhotosFound += len(photos)

	res, err := s.photos.Enrich(ctx, m, photos, idx)
	st.PicturesExisting += res.Known
	st.PhotoDetailsSkips += res.Failed
	if err != nil {
		return err
	}

	for i := range res.Pictures {
		p := &res.Pictures[i]
		outcome, err := s.repo.InsertPicture(ctx, p)
		if err != nil {
			return fmt.Errorf("insert picture %s: %w", p.FlickrID, err)
		}
		if outcome == store.AlreadyExists {
			st.PicturesExisting++
			continue
		}
		st.PicturesInserted++
		log.Debug("picture added", zap.String("flickr_id", p.FlickrID), zap.String("url", p.URL))
	}

	if err := s.repo.UpdateLastUpdate(ctx, m.ID, s.now()); err != nil {
		return fmt.Errorf("update last update: %w", err)
	}
	return nil
}
