package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"whlp/internal/config"
	"whlp/internal/enrich"
	"whlp/internal/ingest"
	"whlp/internal/metrics"
	"whlp/internal/platform/flickr"
	"whlp/internal/platform/whc"
	"whlp/internal/store"
)

const userAgent = "whlp (+https://whc.unesco.org/en/list/)"

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	db, err := store.Open(ctx, cfg.PQAddr)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	logger.Info("database connection OK", zap.String("addr", store.RedactDSN(cfg.PQAddr)))

	if err := store.Migrate(ctx, db, cfg.MigrationsDir, logger.Named("migrate")); err != nil {
		return err
	}

	rec := metrics.New()

	var enr ingest.Enricher
	if cfg.Enrich() {
		api := flickr.NewClient(cfg.FlickrKey,
			flickr.WithRate(cfg.FlickrRPS),
			flickr.WithObserver(rec.ObserveCall),
		)
		enr = enrich.NewService(api, db, enrich.Config{
			Licenses:          enrich.DefaultLicenses,
			PerPage:           enrich.DefaultPerPage,
			Freshness:         cfg.Freshness,
			SkipFailedDetails: cfg.SkipFailedDetails,
		}, logger.Named("enrich"))
	}

	svc := ingest.NewService(whc.NewSource(userAgent), db, enr, rec, ingest.Config{
		Location:    cfg.XML,
		RefreshText: cfg.RefreshText,
	}, logger.Named("ingest"))

	r, runErr := svc.Run(ctx)

	if cfg.MetricsTextfile != "" {
		if err := rec.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Warn("failed to write metrics", zap.String("path", cfg.MetricsTextfile), zap.Error(err))
		}
	}
	if runErr != nil {
		return runErr
	}

	logger.Info("run completed",
		zap.String("run_id", r.ID),
		zap.Int("rows", r.RowsRead),
		zap.Int("monuments_inserted", r.MonumentsInserted),
		zap.Int("monuments_updated", r.MonumentsUpdated),
		zap.Int("licenses_inserted", r.LicensesInserted),
		zap.Int("pictures_inserted", r.PicturesInserted))
	return nil
}
