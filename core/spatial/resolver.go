// Package spatial joins aggregated predictions to segment geometry and
// serializes the result into the supported interchange encodings.
package spatial

import (
	"sort"

	"github.com/citypulse/trafficast/core/model"
)

// Resolve left-joins predictions to the segment catalog by identifier and
// drops predictions lacking complete geometry. Because duplicate identifiers
// are retained in the catalog, the first entry with full geometry wins so
// that each segment yields exactly one row. The second return value is the
// number of predictions excluded for missing geometry.
//
// Rows are sorted ascending by predicted speed so consumers presenting
// "most congested first" need no further sort; rows whose speed is
// undefined sort last.
func Resolve(preds []model.Prediction, segments []model.Segment) ([]model.ResolvedPrediction, int) {
	byTMC := make(map[string]model.Segment, len(segments))
	for _, g := range segments {
		if !g.HasGeometry() {
			continue
		}
		if _, ok := byTMC[g.TMC]; !ok {
			byTMC[g.TMC] = g
		}
	}

	out := make([]model.ResolvedPrediction, 0, len(preds))
	excluded := 0
	for _, p := range preds {
		g, ok := byTMC[p.TMCCode]
		if !ok {
			excluded++
			continue
		}
		out = append(out, model.ResolvedPrediction{
			Prediction: p,
			Road:       g.Road,
			Direction:  g.Direction,
			StartLat:   g.StartLat,
			StartLon:   g.StartLon,
			EndLat:     g.EndLat,
			EndLon:     g.EndLon,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.SpeedValid != b.SpeedValid {
			return a.SpeedValid
		}
		return a.PredictedSpeed < b.PredictedSpeed
	})
	return out, excluded
}
