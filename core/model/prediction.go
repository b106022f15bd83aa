package model

import "encoding/json"

// Prediction is one aggregated result row for one segment, before the
// spatial join. Numeric fields carry fixed presentation rounding: speeds to
// two decimals, confidence statistics to three.
type Prediction struct {
	TMCCode        string
	PredictedSpeed float64
	// SpeedValid is false when the group's confidence weights summed to
	// zero, leaving the weighted mean undefined.
	SpeedValid     bool
	ReferenceSpeed float64
	ConfidenceMean float64
	ConfidenceStd  float64
	SampleSize     int
}

// ResolvedPrediction is a Prediction joined to its segment geometry.
type ResolvedPrediction struct {
	Prediction
	Road      string
	Direction string
	StartLat  float64
	StartLon  float64
	EndLat    float64
	EndLon    float64
}

// MarshalJSON emits the tabular wire names. An undefined predicted speed
// becomes null rather than a bogus number.
func (p ResolvedPrediction) MarshalJSON() ([]byte, error) {
	type row struct {
		TMCCode        string   `json:"tmc_code"`
		Road           string   `json:"road"`
		Direction      string   `json:"direction"`
		PredictedSpeed *float64 `json:"predicted_speed"`
		ReferenceSpeed float64  `json:"reference_speed"`
		ConfidenceMean float64  `json:"confidence_mean"`
		ConfidenceStd  float64  `json:"confidence_std"`
		SampleSize     int      `json:"sample_size"`
		StartLatitude  float64  `json:"start_latitude"`
		StartLongitude float64  `json:"start_longitude"`
		EndLatitude    float64  `json:"end_latitude"`
		EndLongitude   float64  `json:"end_longitude"`
	}
	r := row{
		TMCCode:        p.TMCCode,
		Road:           p.Road,
		Direction:      p.Direction,
		ReferenceSpeed: p.ReferenceSpeed,
		ConfidenceMean: p.ConfidenceMean,
		ConfidenceStd:  p.ConfidenceStd,
		SampleSize:     p.SampleSize,
		StartLatitude:  p.StartLat,
		StartLongitude: p.StartLon,
		EndLatitude:    p.EndLat,
		EndLongitude:   p.EndLon,
	}
	if p.SpeedValid {
		v := p.PredictedSpeed
		r.PredictedSpeed = &v
	}
	return json.Marshal(r)
}
