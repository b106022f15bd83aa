// Package matcher selects the historical observations considered analogous
// to a requested scenario. Each day type maps to exactly one selection
// policy; the policies never share query text.
package matcher

import (
	"context"
	"fmt"

	"github.com/citypulse/trafficast/core/model"
)

// Source is the read side of the canonical store the matcher filters on.
type Source interface {
	// ObservationsAt returns observations for one (day_of_week, hour) slot.
	ObservationsAt(ctx context.Context, dayOfWeek, hour int) ([]model.Observation, error)
	// HolidayObservationsAt returns the Friday-evening/weekend observations
	// at the given hour.
	HolidayObservationsAt(ctx context.Context, hour int) ([]model.Observation, error)
}

// Matched is one selected observation tagged with its weight multiplier.
// The effective confidence used everywhere downstream is
// Observation.Confidence * Weight.
type Matched struct {
	Observation model.Observation
	Weight      float64
}

// EffectiveConfidence returns the confidence after applying the policy
// weight multiplier.
func (m Matched) EffectiveConfidence() float64 {
	return m.Observation.Confidence * m.Weight
}

const specialEventWeight = 0.5

// Match returns the observations analogous to the scenario. An empty result
// is valid input for aggregation, not an error.
func Match(ctx context.Context, src Source, sc model.Scenario) ([]Matched, error) {
	switch sc.DayType {
	case model.DayNormal:
		return matchNormal(ctx, src, sc.DayOfWeek, sc.Hour)
	case model.DayHoliday:
		// The requested day of week is deliberately ignored: holiday
		// patterns are treated as day-of-week-invariant.
		return matchHoliday(ctx, src, sc.Hour)
	case model.DaySpecialEvent:
		return matchSpecialEvent(ctx, src, sc.DayOfWeek, sc.Hour)
	default:
		return nil, fmt.Errorf("no matching policy for day type %q", sc.DayType)
	}
}

func matchNormal(ctx context.Context, src Source, dayOfWeek, hour int) ([]Matched, error) {
	obs, err := src.ObservationsAt(ctx, dayOfWeek, hour)
	if err != nil {
		return nil, fmt.Errorf("normal policy: %w", err)
	}
	return weighted(obs, 1), nil
}

func matchHoliday(ctx context.Context, src Source, hour int) ([]Matched, error) {
	obs, err := src.HolidayObservationsAt(ctx, hour)
	if err != nil {
		return nil, fmt.Errorf("holiday policy: %w", err)
	}
	return weighted(obs, 1), nil
}

// matchSpecialEvent unions the normal and holiday subsets, each at half
// confidence. Rows appearing in both subsets are kept twice.
func matchSpecialEvent(ctx context.Context, src Source, dayOfWeek, hour int) ([]Matched, error) {
	normal, err := src.ObservationsAt(ctx, dayOfWeek, hour)
	if err != nil {
		return nil, fmt.Errorf("special_event policy: %w", err)
	}
	holiday, err := src.HolidayObservationsAt(ctx, hour)
	if err != nil {
		return nil, fmt.Errorf("special_event policy: %w", err)
	}
	out := make([]Matched, 0, len(normal)+len(holiday))
	out = append(out, weighted(normal, specialEventWeight)...)
	out = append(out, weighted(holiday, specialEventWeight)...)
	return out, nil
}

func weighted(obs []model.Observation, w float64) []Matched {
	out := make([]Matched, len(obs))
	for i, o := range obs {
		out[i] = Matched{Observation: o, Weight: w}
	}
	return out
}
