package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/citypulse/trafficast/core/metrics"
)

// PromSink records ingestion and query events in Prometheus metrics.
type PromSink struct {
	ingestRows    *prometheus.CounterVec
	ingestDropped *prometheus.CounterVec
	filesSkipped  prometheus.Counter
	queryDuration *prometheus.HistogramVec
	matchedRows   *prometheus.CounterVec
}

// NewPromSink registers the metrics on the default Prometheus registerer.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	ingestRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_rows_total",
		Help: "Rows loaded into the canonical store per source file kind",
	}, []string{"kind", "zipcode"})
	ingestDropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_rows_dropped_total",
		Help: "Rows dropped during ingestion because they failed to parse",
	}, []string{"kind", "zipcode"})
	filesSkipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ingest_files_skipped_total",
		Help: "Source files skipped because no region code could be derived",
	})
	queryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "prediction_query_seconds",
		Help:    "Wall time of one scenario prediction",
		Buckets: prometheus.DefBuckets,
	}, []string{"day_type"})
	matchedRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prediction_matched_rows_total",
		Help: "Historical rows matched by scenario queries",
	}, []string{"day_type"})

	s := &PromSink{
		ingestRows:    ingestRows,
		ingestDropped: ingestDropped,
		filesSkipped:  filesSkipped,
		queryDuration: queryDuration,
		matchedRows:   matchedRows,
	}
	for _, c := range []prometheus.Collector{ingestRows, ingestDropped, filesSkipped, queryDuration, matchedRows} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return s, nil
}

// RecordIngestFile counts the rows loaded and dropped for one source file.
func (s *PromSink) RecordIngestFile(ev coremetrics.IngestFileEvent) {
	if ev.Skipped {
		s.filesSkipped.Inc()
		return
	}
	s.ingestRows.WithLabelValues(ev.Kind, ev.Zipcode).Add(float64(ev.RowsLoaded))
	s.ingestDropped.WithLabelValues(ev.Kind, ev.Zipcode).Add(float64(ev.RowsDropped))
}

// RecordQuery observes the duration and matched-row count of one scenario.
func (s *PromSink) RecordQuery(ev coremetrics.QueryEvent) {
	s.queryDuration.WithLabelValues(ev.DayType).Observe(ev.Duration.Seconds())
	s.matchedRows.WithLabelValues(ev.DayType).Add(float64(ev.MatchedRows))
}
