package spatial

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/citypulse/trafficast/core/model"
)

func resolved(tmc string, speed float64) model.ResolvedPrediction {
	return model.ResolvedPrediction{
		Prediction: model.Prediction{
			TMCCode:        tmc,
			PredictedSpeed: speed,
			SpeedValid:     true,
			ReferenceSpeed: 45.5,
			ConfidenceMean: 0.812,
			ConfidenceStd:  0.034,
			SampleSize:     12,
		},
		Road:      "Cobb Pkwy",
		Direction: "NB",
		StartLat:  33.95, StartLon: -84.55,
		EndLat: 33.96, EndLon: -84.54,
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Export(&buf, nil, Format("parquet"))
	var unsupported *UnsupportedFormatError
	if !errors.As(err, &unsupported) {
		t.Fatalf("got %v, want UnsupportedFormatError", err)
	}
	if unsupported.Format != "parquet" {
		t.Errorf("error names %q, want parquet", unsupported.Format)
	}
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&buf, []model.ResolvedPrediction{resolved("101N04501", 27.33)}, FormatCSV); err != nil {
		t.Fatalf("export: %v", err)
	}
	recs, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want header + 1 row", len(recs))
	}
	if recs[0][0] != "tmc_code" || recs[0][3] != "predicted_speed" {
		t.Errorf("unexpected header %v", recs[0])
	}
	if recs[1][0] != "101N04501" || recs[1][3] != "27.33" {
		t.Errorf("unexpected row %v", recs[1])
	}
}

func TestExportCSVUndefinedSpeedEmptyCell(t *testing.T) {
	r := resolved("A", 0)
	r.SpeedValid = false
	var buf bytes.Buffer
	if err := WriteCSV(&buf, []model.ResolvedPrediction{r}); err != nil {
		t.Fatalf("write: %v", err)
	}
	recs, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if recs[1][3] != "" {
		t.Errorf("undefined speed cell = %q, want empty", recs[1][3])
	}
}

func TestGeoJSONShape(t *testing.T) {
	fc := NewFeatureCollection([]model.ResolvedPrediction{resolved("A", 27.33)})
	if fc.Type != "FeatureCollection" || len(fc.Features) != 1 {
		t.Fatalf("unexpected collection %+v", fc)
	}
	f := fc.Features[0]
	if f.Type != "Feature" || f.Geometry.Type != "LineString" {
		t.Errorf("unexpected feature types %q, %q", f.Type, f.Geometry.Type)
	}
	// Longitude comes before latitude, start before end.
	if f.Geometry.Coordinates[0] != [2]float64{-84.55, 33.95} {
		t.Errorf("start coordinate = %v", f.Geometry.Coordinates[0])
	}
	if f.Geometry.Coordinates[1] != [2]float64{-84.54, 33.96} {
		t.Errorf("end coordinate = %v", f.Geometry.Coordinates[1])
	}
	if f.Properties.PredictedSpeed == nil || *f.Properties.PredictedSpeed != 27.33 {
		t.Errorf("predicted speed property = %v", f.Properties.PredictedSpeed)
	}
	if f.Properties.SampleSize != 12 {
		t.Errorf("sample size property = %d", f.Properties.SampleSize)
	}
}

func TestGeoJSONUndefinedSpeedIsNull(t *testing.T) {
	r := resolved("A", 0)
	r.SpeedValid = false
	var buf bytes.Buffer
	if err := Export(&buf, []model.ResolvedPrediction{r}, FormatGeoJSON); err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(buf.String(), `"predicted_speed":null`) {
		t.Errorf("output missing null speed: %s", buf.String())
	}
}

// Tabular to geometry collection and back preserves identifiers, speeds and
// the slowest-first ordering.
func TestExportRoundTrip(t *testing.T) {
	rows := []model.ResolvedPrediction{resolved("B", 12.1), resolved("C", 25.0), resolved("A", 42.5)}

	var table bytes.Buffer
	if err := Export(&table, rows, FormatTable); err != nil {
		t.Fatalf("table export: %v", err)
	}
	fc := NewFeatureCollection(rows)

	var decoded []struct {
		TMCCode        string   `json:"tmc_code"`
		PredictedSpeed *float64 `json:"predicted_speed"`
	}
	if err := json.Unmarshal(table.Bytes(), &decoded); err != nil {
		t.Fatalf("decode table: %v", err)
	}
	if len(decoded) != len(fc.Features) {
		t.Fatalf("table rows %d != features %d", len(decoded), len(fc.Features))
	}
	for i := range decoded {
		p := fc.Features[i].Properties
		if decoded[i].TMCCode != p.TMCCode {
			t.Errorf("row %d id %q != feature id %q", i, decoded[i].TMCCode, p.TMCCode)
		}
		if math.Abs(*decoded[i].PredictedSpeed-*p.PredictedSpeed) > 1e-9 {
			t.Errorf("row %d speed %v != feature speed %v", i, *decoded[i].PredictedSpeed, *p.PredictedSpeed)
		}
	}
}
