package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/citypulse/trafficast/config"
	coremetrics "github.com/citypulse/trafficast/core/metrics"
	"github.com/citypulse/trafficast/core/store"
	"github.com/citypulse/trafficast/infra/logger"
	"github.com/citypulse/trafficast/infra/metrics"
	"github.com/citypulse/trafficast/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Build a fresh canonical store from the raw CSV files",
	RunE:  runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return err
	}
	logg := logger.New("ingest")

	readings, catalogs, err := ingest.Discover(cfg.Data.Dir)
	if err != nil {
		return err
	}
	logg.Infof("discovered %d readings files, %d catalog files in %s",
		len(readings), len(catalogs), cfg.Data.Dir)

	st, err := store.Create(cfg.Data.StorePath)
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logg.Errorf("store close: %v", err)
		}
	}()

	var rec coremetrics.IngestRecorder = coremetrics.NopSink{}
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return fmt.Errorf("prom sink: %w", err)
		}
		rec = sink
	}

	report, err := ingest.New(st, logg, rec).Run(ctx, readings, catalogs)
	if err != nil {
		return err
	}
	for _, f := range report.Files {
		if f.Skipped {
			fmt.Printf("  %-40s skipped: %s\n", f.File, f.SkipReason)
			continue
		}
		fmt.Printf("  %-40s %8d rows, %d dropped (zipcode %s)\n",
			f.File, f.RowsLoaded, f.RowsDropped, f.Zipcode)
	}

	stats, err := st.Stats(ctx)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	fmt.Printf("\nObservations: %d rows, %d segments, %s to %s (%d days)\n",
		stats.ObservationCount, stats.UniqueSegments,
		stats.EarliestDate, stats.LatestDate, stats.UniqueDates)
	fmt.Printf("Average speed %.2f mph, average confidence %.2f\n",
		stats.AvgSpeed, stats.AvgConfidence)
	fmt.Printf("Catalog: %d segments, %d zipcodes, %d roads\n",
		stats.CatalogSegments, stats.UniqueZips, stats.UniqueRoads)
	return nil
}
