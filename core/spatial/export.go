package spatial

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/citypulse/trafficast/core/model"
)

// Format selects one of the supported export encodings.
type Format string

const (
	// FormatTable emits the joined rows as a JSON array.
	FormatTable Format = "table"
	// FormatCSV emits the joined rows as delimited text with a header row.
	FormatCSV Format = "csv"
	// FormatGeoJSON emits a feature collection with one LineString per
	// segment, coordinates ordered longitude before latitude.
	FormatGeoJSON Format = "geojson"
)

// UnsupportedFormatError reports an export format outside the supported set.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported export format: %s", e.Format)
}

// Export writes rows to w in the requested encoding.
func Export(w io.Writer, rows []model.ResolvedPrediction, format Format) error {
	switch format {
	case FormatTable:
		enc := json.NewEncoder(w)
		return enc.Encode(rows)
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatGeoJSON:
		enc := json.NewEncoder(w)
		return enc.Encode(NewFeatureCollection(rows))
	default:
		return &UnsupportedFormatError{Format: string(format)}
	}
}

// csvHeader is the column order of the delimited-text encoding.
var csvHeader = []string{
	"tmc_code", "road", "direction", "predicted_speed", "reference_speed",
	"confidence_mean", "confidence_std", "sample_size",
	"start_latitude", "start_longitude", "end_latitude", "end_longitude",
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
