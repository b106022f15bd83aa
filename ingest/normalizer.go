// Package ingest reads heterogeneous raw observation and catalog files and
// writes the canonical store. Per-file and per-row problems are absorbed
// into the load report; only whole-input failures propagate.
package ingest

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/citypulse/trafficast/core/logger"
	"github.com/citypulse/trafficast/core/metrics"
	"github.com/citypulse/trafficast/core/model"
)

// Store is the write side of the canonical store.
type Store interface {
	InsertObservations(ctx context.Context, obs []model.Observation) error
	InsertSegments(ctx context.Context, segs []model.Segment) error
}

// Normalizer loads raw source files into a canonical store.
type Normalizer struct {
	store Store
	log   logger.Logger
	rec   metrics.IngestRecorder
}

// New builds a Normalizer. A nil logger or recorder falls back to a no-op
// implementation.
func New(store Store, log logger.Logger, rec metrics.IngestRecorder) *Normalizer {
	if log == nil {
		log = nopLogger{}
	}
	if rec == nil {
		rec = metrics.NopSink{}
	}
	return &Normalizer{store: store, log: log, rec: rec}
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

// Run ingests all given files. Files whose names yield no region code are
// skipped and reported; rows that fail to parse are dropped and counted.
// The returned report covers every file, skipped or not.
func (n *Normalizer) Run(ctx context.Context, readings, catalogs []string) (*Report, error) {
	report := &Report{}
	for _, path := range readings {
		if err := n.loadFile(ctx, report, path, "readings"); err != nil {
			return report, err
		}
	}
	for _, path := range catalogs {
		if err := n.loadFile(ctx, report, path, "catalog"); err != nil {
			return report, err
		}
	}
	n.log.Infof("ingest complete: %d rows loaded, %d dropped, %d files skipped",
		report.RowsLoaded(), report.RowsDropped(), report.FilesSkipped())
	return report, nil
}

func (n *Normalizer) loadFile(ctx context.Context, report *Report, path, kind string) error {
	fr := FileReport{File: filepath.Base(path), Kind: kind}
	zipcode, err := ExtractRegion(path)
	if err != nil {
		var malformed *MalformedSourceNameError
		if errors.As(err, &malformed) {
			fr.Skipped = true
			fr.SkipReason = err.Error()
			report.add(fr)
			n.rec.RecordIngestFile(metrics.IngestFileEvent{File: fr.File, Kind: kind, Skipped: true})
			n.log.Warnf("skipping %s: %v", fr.File, err)
			return nil
		}
		return err
	}
	fr.Zipcode = zipcode

	var loaded, dropped int
	switch kind {
	case "readings":
		loaded, dropped, err = n.loadReadings(ctx, path, zipcode)
	default:
		loaded, dropped, err = n.loadCatalog(ctx, path)
	}
	if err != nil {
		return err
	}
	fr.RowsLoaded = loaded
	fr.RowsDropped = dropped
	report.add(fr)
	n.rec.RecordIngestFile(metrics.IngestFileEvent{
		File:        fr.File,
		Zipcode:     zipcode,
		Kind:        kind,
		RowsLoaded:  loaded,
		RowsDropped: dropped,
	})
	n.log.Infof("loaded %s: %d rows, %d dropped (zipcode %s)", fr.File, loaded, dropped, zipcode)
	return nil
}
