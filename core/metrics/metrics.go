// Package metrics defines the recorder interfaces the engine and ingester
// report through. Implementations live under infra/metrics.
package metrics

import "time"

// IngestFileEvent describes the outcome of loading one source file.
type IngestFileEvent struct {
	File        string
	Zipcode     string
	Kind        string // "readings" or "catalog"
	RowsLoaded  int
	RowsDropped int
	Skipped     bool
}

// IngestRecorder records per-file ingestion outcomes.
type IngestRecorder interface {
	RecordIngestFile(ev IngestFileEvent)
}

// QueryEvent describes one completed scenario query.
type QueryEvent struct {
	DayType     string
	MatchedRows int
	Predicted   int
	Excluded    int
	Duration    time.Duration
}

// QueryRecorder records scenario query outcomes.
type QueryRecorder interface {
	RecordQuery(ev QueryEvent)
}

// Sink combines all recorder interfaces.
type Sink interface {
	IngestRecorder
	QueryRecorder
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordIngestFile(IngestFileEvent) {}
func (NopSink) RecordQuery(QueryEvent)           {}

// Config defines settings for the metrics sink.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
}
