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

	"github.com/citypulse/trafficast/core/model"
)

// loadCatalog performs a structural load of one segment catalog file.
// Duplicate identifiers are retained; rows without an identifier are
// dropped and counted.
func (n *Normalizer) loadCatalog(ctx context.Context, path string) (loaded, dropped int, err error) {
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
	idx := make(map[string]int, len(cols))
	for i, c := range cols {
		idx[strings.ToLower(strings.TrimSpace(c))] = i
	}
	tmcIdx, ok := idx["tmc"]
	if !ok {
		return 0, 0, fmt.Errorf("%s: missing required column tmc", path)
	}

	field := func(rec []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	coord := func(rec []string, name string) float64 {
		v := field(rec, name)
		if v == "" {
			return math.NaN()
		}
		out, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return math.NaN()
		}
		return out
	}

	var batch []model.Segment
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			dropped++
			continue
		}
		tmc := ""
		if tmcIdx < len(rec) {
			tmc = strings.TrimSpace(rec[tmcIdx])
		}
		if tmc == "" {
			dropped++
			continue
		}
		batch = append(batch, model.Segment{
			TMC:          tmc,
			Road:         field(rec, "road"),
			Direction:    field(rec, "direction"),
			Intersection: field(rec, "intersection"),
			State:        field(rec, "state"),
			County:       field(rec, "county"),
			Zip:          field(rec, "zip"),
			StartLat:     coord(rec, "start_latitude"),
			StartLon:     coord(rec, "start_longitude"),
			EndLat:       coord(rec, "end_latitude"),
			EndLon:       coord(rec, "end_longitude"),
			Miles:        coord(rec, "miles"),
			RoadOrder:    coord(rec, "road_order"),
			Timezone:     field(rec, "timezone_name"),
			Type:         field(rec, "type"),
			Country:      field(rec, "country"),
		})
		loaded++
		if len(batch) >= insertBatchSize {
			if err := n.store.InsertSegments(ctx, batch); err != nil {
				return loaded, dropped, err
			}
			batch = batch[:0]
		}
	}
	if err := n.store.InsertSegments(ctx, batch); err != nil {
		return loaded, dropped, err
	}
	return loaded, dropped, nil
}
