package spatial

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/citypulse/trafficast/core/model"
)

// WriteCSV writes rows to w as delimited text with a header row. An
// undefined predicted speed becomes an empty cell.
func WriteCSV(w io.Writer, rows []model.ResolvedPrediction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		speed := ""
		if r.SpeedValid {
			speed = formatFloat(r.PredictedSpeed)
		}
		rec := []string{
			r.TMCCode,
			r.Road,
			r.Direction,
			speed,
			formatFloat(r.ReferenceSpeed),
			formatFloat(r.ConfidenceMean),
			formatFloat(r.ConfidenceStd),
			strconv.Itoa(r.SampleSize),
			formatFloat(r.StartLat),
			formatFloat(r.StartLon),
			formatFloat(r.EndLat),
			formatFloat(r.EndLon),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
