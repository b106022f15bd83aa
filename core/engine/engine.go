// Package engine runs one scenario request end to end: match the historical
// subset, aggregate it per segment, resolve geometry. The engine performs
// read-only access against an already-built store and holds no state between
// requests, so concurrent calls against the same store are independent.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/citypulse/trafficast/core/aggregate"
	"github.com/citypulse/trafficast/core/logger"
	"github.com/citypulse/trafficast/core/matcher"
	"github.com/citypulse/trafficast/core/metrics"
	"github.com/citypulse/trafficast/core/model"
	"github.com/citypulse/trafficast/core/spatial"
)

// SegmentSource provides the segment catalog side of the canonical store.
type SegmentSource interface {
	Segments(ctx context.Context) ([]model.Segment, error)
}

// Engine computes per-segment speed predictions for a scenario.
type Engine struct {
	src  matcher.Source
	segs SegmentSource
	log  logger.Logger
	rec  metrics.QueryRecorder
}

// Result is the outcome of one scenario request.
type Result struct {
	// Predictions is sorted ascending by predicted speed. It is empty, not
	// nil, when nothing matched.
	Predictions []model.ResolvedPrediction
	// MatchedRows counts the historical rows that contributed, respecting
	// the special-event union-without-dedup rule.
	MatchedRows int
	// ExcludedSegments counts aggregated segments dropped for missing
	// geometry.
	ExcludedSegments int
}

// New assembles an engine over the given store handles. A nil logger or
// recorder falls back to a no-op implementation.
func New(src matcher.Source, segs SegmentSource, log logger.Logger, rec metrics.QueryRecorder) *Engine {
	if log == nil {
		log = nopLogger{}
	}
	if rec == nil {
		rec = metrics.NopSink{}
	}
	return &Engine{src: src, segs: segs, log: log, rec: rec}
}

// Predict runs the scenario start to finish on the calling goroutine.
func (e *Engine) Predict(ctx context.Context, sc model.Scenario) (*Result, error) {
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	// Transient query context: tagged, logged, discarded with the call.
	qid := uuid.NewString()
	start := time.Now()
	e.log.Debugw("query start", map[string]any{
		"query_id":    qid,
		"day_of_week": sc.DayOfWeek,
		"hour":        sc.Hour,
		"day_type":    sc.DayType.String(),
	})

	matched, err := matcher.Match(ctx, e.src, sc)
	if err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}
	preds := aggregate.Reduce(matched)

	segments, err := e.segs.Segments(ctx)
	if err != nil {
		return nil, fmt.Errorf("load segments: %w", err)
	}
	rows, excluded := spatial.Resolve(preds, segments)

	elapsed := time.Since(start)
	e.rec.RecordQuery(metrics.QueryEvent{
		DayType:     sc.DayType.String(),
		MatchedRows: len(matched),
		Predicted:   len(rows),
		Excluded:    excluded,
		Duration:    elapsed,
	})
	e.log.Debugw("query done", map[string]any{
		"query_id":    qid,
		"matched":     len(matched),
		"predictions": len(rows),
		"excluded":    excluded,
		"elapsed":     elapsed.String(),
	})

	return &Result{Predictions: rows, MatchedRows: len(matched), ExcludedSegments: excluded}, nil
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
