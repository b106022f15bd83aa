package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/citypulse/trafficast/core/model"
)

const (
	isoLayout = "2006-01-02 15:04:05"
	usLayout  = "1/2/2006 15:04"

	insertBatchSize = 500
)

// detectTimestampLayout inspects one sample value and picks the layout for
// the whole file. Two or more dashes means ISO, anything else the US
// locale form. Mixed formats within one file are not supported.
func detectTimestampLayout(sample string) string {
	if strings.Count(sample, "-") >= 2 {
		return isoLayout
	}
	return usLayout
}

// readingsHeader holds the column positions of one readings file after
// header reconciliation.
type readingsHeader struct {
	tmc        int
	tstamp     int
	speed      int
	ref        int
	confidence int
	travel     int // -1 when the optional column is absent
}

func mapReadingsHeader(cols []string) (readingsHeader, error) {
	idx := make(map[string]int, len(cols))
	for i, c := range cols {
		idx[strings.ToLower(strings.TrimSpace(c))] = i
	}
	h := readingsHeader{travel: -1}
	var ok bool
	if h.tmc, ok = idx["tmc_code"]; !ok {
		return h, fmt.Errorf("missing required column tmc_code")
	}
	if h.tstamp, ok = idx["measurement_tstamp"]; !ok {
		return h, fmt.Errorf("missing required column measurement_tstamp")
	}
	if h.speed, ok = idx["speed"]; !ok {
		return h, fmt.Errorf("missing required column speed")
	}
	if h.ref, ok = idx["reference_speed"]; !ok {
		return h, fmt.Errorf("missing required column reference_speed")
	}
	// Source files label this column either way.
	if h.confidence, ok = idx["confidence"]; !ok {
		if h.confidence, ok = idx["confidence_score"]; !ok {
			return h, fmt.Errorf("missing confidence column (confidence or confidence_score)")
		}
	}
	if i, ok := idx["travel_time_seconds"]; ok {
		h.travel = i
	}
	return h, nil
}

// loadReadings streams one readings file into the store. Rows that fail
// timestamp or numeric parsing are dropped and counted, never fatal.
func (n *Normalizer) loadReadings(ctx context.Context, path, zipcode string) (loaded, dropped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	cols, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("read header: %w", err)
	}
	header, err := mapReadingsHeader(cols)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", path, err)
	}

	layout := ""
	var batch []model.Observation
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			dropped++
			continue
		}
		if layout == "" && header.tstamp < len(rec) {
			layout = detectTimestampLayout(rec[header.tstamp])
		}
		obs, ok := parseReading(rec, header, layout, zipcode)
		if !ok {
			dropped++
			continue
		}
		batch = append(batch, obs)
		loaded++
		if len(batch) >= insertBatchSize {
			if err := n.store.InsertObservations(ctx, batch); err != nil {
				return loaded, dropped, err
			}
			batch = batch[:0]
		}
	}
	if err := n.store.InsertObservations(ctx, batch); err != nil {
		return loaded, dropped, err
	}
	return loaded, dropped, nil
}

func parseReading(rec []string, h readingsHeader, layout, zipcode string) (model.Observation, bool) {
	need := h.tmc
	for _, i := range []int{h.tstamp, h.speed, h.ref, h.confidence} {
		if i > need {
			need = i
		}
	}
	if need >= len(rec) {
		return model.Observation{}, false
	}
	ts, err := time.Parse(layout, strings.TrimSpace(rec[h.tstamp]))
	if err != nil {
		return model.Observation{}, false
	}
	speed, err := strconv.ParseFloat(strings.TrimSpace(rec[h.speed]), 64)
	if err != nil {
		return model.Observation{}, false
	}
	ref, err := strconv.ParseFloat(strings.TrimSpace(rec[h.ref]), 64)
	if err != nil {
		return model.Observation{}, false
	}
	conf, err := strconv.ParseFloat(strings.TrimSpace(rec[h.confidence]), 64)
	if err != nil {
		return model.Observation{}, false
	}
	travel := math.NaN()
	if h.travel >= 0 && h.travel < len(rec) {
		if v := strings.TrimSpace(rec[h.travel]); v != "" {
			t, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return model.Observation{}, false
			}
			travel = t
		}
	}
	return model.Observation{
		TMCCode:        strings.TrimSpace(rec[h.tmc]),
		Timestamp:      ts,
		Speed:          speed,
		ReferenceSpeed: ref,
		TravelTime:     travel,
		Confidence:     conf,
		Hour:           ts.Hour(),
		DayOfWeek:      model.Weekday(ts),
		Date:           model.DateOf(ts),
		Zipcode:        zipcode,
	}, true
}
