package model

import "math"

// Segment is the static description of a monitored road stretch, loaded once
// from the TMC identification catalog. Geometry is a straight line between
// the start and end coordinates; absent coordinates are stored as NaN.
type Segment struct {
	TMC          string
	Road         string
	Direction    string
	Intersection string
	State        string
	County       string
	Zip          string
	StartLat     float64
	StartLon     float64
	EndLat       float64
	EndLon       float64
	Miles        float64
	RoadOrder    float64
	Timezone     string
	Type         string
	Country      string
}

// HasGeometry reports whether all four coordinates are present. Partial
// geometry is treated as missing.
func (s Segment) HasGeometry() bool {
	return !math.IsNaN(s.StartLat) && !math.IsNaN(s.StartLon) &&
		!math.IsNaN(s.EndLat) && !math.IsNaN(s.EndLon)
}
