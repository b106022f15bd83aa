package spatial

import "github.com/citypulse/trafficast/core/model"

// The geometry-collection encoding is the wire contract for map and API
// consumers: one LineString feature per segment, two coordinate pairs
// (start then end), longitude before latitude.

// LineString is a two-point GeoJSON line geometry.
type LineString struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

// FeatureProperties carries the prediction fields of one feature.
type FeatureProperties struct {
	TMCCode        string   `json:"tmc_code"`
	Road           string   `json:"road"`
	Direction      string   `json:"direction"`
	PredictedSpeed *float64 `json:"predicted_speed"`
	ReferenceSpeed float64  `json:"reference_speed"`
	ConfidenceMean float64  `json:"confidence_mean"`
	ConfidenceStd  float64  `json:"confidence_std"`
	SampleSize     int      `json:"sample_size"`
}

// Feature is one segment with its line geometry and prediction properties.
type Feature struct {
	Type       string            `json:"type"`
	Geometry   LineString        `json:"geometry"`
	Properties FeatureProperties `json:"properties"`
}

// FeatureCollection is the top-level geometry-collection document.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// NewFeatureCollection converts resolved predictions into the geometry
// collection, preserving row order.
func NewFeatureCollection(rows []model.ResolvedPrediction) FeatureCollection {
	features := make([]Feature, 0, len(rows))
	for _, r := range rows {
		props := FeatureProperties{
			TMCCode:        r.TMCCode,
			Road:           r.Road,
			Direction:      r.Direction,
			ReferenceSpeed: r.ReferenceSpeed,
			ConfidenceMean: r.ConfidenceMean,
			ConfidenceStd:  r.ConfidenceStd,
			SampleSize:     r.SampleSize,
		}
		if r.SpeedValid {
			v := r.PredictedSpeed
			props.PredictedSpeed = &v
		}
		features = append(features, Feature{
			Type: "Feature",
			Geometry: LineString{
				Type: "LineString",
				Coordinates: [][2]float64{
					{r.StartLon, r.StartLat},
					{r.EndLon, r.EndLat},
				},
			},
			Properties: props,
		})
	}
	return FeatureCollection{Type: "FeatureCollection", Features: features}
}
