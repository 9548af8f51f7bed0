// Command whlp loads the UNESCO World Heritage List into a database and,
// given a Flickr API key, attaches freely licensed photos to each site.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"whlp/internal/config"
	"whlp/internal/logging"
)

var version = "dev"

func main() {
	config.LoadEnvFiles()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.FromEnv()

	cmd := &cobra.Command{
		Use:   "whlp",
		Short: "Load the World Heritage List and enrich it with Flickr photos",
		Long: `whlp reads the World Heritage List XML export, stores every site as a
monument and, when a Flickr API key is given, searches Flickr for freely
licensed photos of each site and stores them as pictures.

Every write is idempotent, so the command can be re-run at any time.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "whlp:", err)
				return err
			}
			defer func() { _ = logger.Sync() }()

			if err := cfg.Validate(); err != nil {
				logger.Error("bad configuration", zap.Error(err))
				return err
			}
			if err := run(cmd.Context(), cfg, logger); err != nil {
				logger.Error("run failed", zap.Error(err))
				return err
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.PQAddr, "pq-addr", cfg.PQAddr, "Database address: postgres://..., sqlite://path or file:path (env "+config.EnvPQAddr+")")
	f.StringVar(&cfg.MigrationsDir, "migrations", cfg.MigrationsDir, "Directory of goose migrations to apply instead of the built-in set")
	f.StringVar(&cfg.XML, "xml", cfg.XML, "Heritage list XML file or URL (default: the public UNESCO export)")
	f.StringVar(&cfg.FlickrKey, "flickr-key", cfg.FlickrKey, "Flickr API key; enrichment is skipped without one (env "+config.EnvFlickrKey+")")
	f.IntVar(&cfg.FlickrRPS, "flickr-rps", cfg.FlickrRPS, "Maximum Flickr requests per second, 0 for no limit")
	f.DurationVar(&cfg.Freshness, "freshness", cfg.Freshness, "Skip monuments enriched more recently than this, 0 to enrich all")
	f.BoolVar(&cfg.RefreshText, "refresh-text", cfg.RefreshText, "Update site and long description of monuments already stored")
	f.BoolVar(&cfg.SkipFailedDetails, "skip-failed-details", cfg.SkipFailedDetails, "Skip photos whose details cannot be fetched instead of stopping")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	f.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: console, json")
	f.StringVar(&cfg.MetricsTextfile, "metrics-textfile", cfg.MetricsTextfile, "Write run metrics to this node_exporter textfile")

	return cmd
}
