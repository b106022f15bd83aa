// Package aggregate reduces a matched observation subset to one prediction
// per segment using confidence-weighted statistics.
package aggregate

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/citypulse/trafficast/core/matcher"
	"github.com/citypulse/trafficast/core/model"
)

type group struct {
	speeds []float64
	refs   []float64
	confs  []float64 // effective (weight-scaled) confidences
}

// Reduce groups matched observations by segment and computes the per-segment
// prediction statistics. An empty input yields an empty, non-nil result.
func Reduce(matched []matcher.Matched) []model.Prediction {
	groups := make(map[string]*group)
	order := make([]string, 0)
	for _, m := range matched {
		g, ok := groups[m.Observation.TMCCode]
		if !ok {
			g = &group{}
			groups[m.Observation.TMCCode] = g
			order = append(order, m.Observation.TMCCode)
		}
		g.speeds = append(g.speeds, m.Observation.Speed)
		g.refs = append(g.refs, m.Observation.ReferenceSpeed)
		g.confs = append(g.confs, m.EffectiveConfidence())
	}

	out := make([]model.Prediction, 0, len(groups))
	for _, tmc := range order {
		g := groups[tmc]
		p := model.Prediction{
			TMCCode:        tmc,
			ReferenceSpeed: round(stat.Mean(g.refs, nil), 2),
			ConfidenceMean: round(stat.Mean(g.confs, nil), 3),
			ConfidenceStd:  round(sampleStd(g.confs), 3),
			SampleSize:     len(g.speeds),
		}
		if sum(g.confs) != 0 {
			p.PredictedSpeed = round(stat.Mean(g.speeds, g.confs), 2)
			p.SpeedValid = true
		}
		out = append(out, p)
	}
	return out
}

// sampleStd is the sample standard deviation, defined as 0 for groups with
// fewer than two rows.
func sampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.StdDev(xs, nil)
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
