package model

import (
	"math"
	"time"
)

// Observation is one historical speed reading for one road segment at one
// timestamp. Observations are created in bulk during ingestion and never
// mutated afterwards; the derived fields (Hour, DayOfWeek, Date) are computed
// once from the parsed timestamp and must not be recomputed downstream.
type Observation struct {
	TMCCode        string
	Timestamp      time.Time // timezone-naive source timestamp
	Speed          float64   // mph
	ReferenceSpeed float64   // free-flow speed in mph
	TravelTime     float64   // seconds, NaN when the source column is absent
	Confidence     float64   // data-quality weight, usually but not always in [0,1]
	Hour           int       // 0-23
	DayOfWeek      int       // Monday=0 .. Sunday=6
	Date           string    // calendar date, YYYY-MM-DD
	Zipcode        string    // region code derived from the source file name
}

// HasTravelTime reports whether the optional travel time column was present.
func (o Observation) HasTravelTime() bool {
	return !math.IsNaN(o.TravelTime)
}

// Weekday returns the day-of-week number for t using Monday=0 numbering.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// DateOf formats the calendar date of t the way observations store it.
func DateOf(t time.Time) string {
	return t.Format("2006-01-02")
}
