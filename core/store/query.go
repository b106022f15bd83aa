package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/citypulse/trafficast/core/model"
)

const observationColumns = `tmc_code, measurement_tstamp, speed, reference_speed,
    travel_time_seconds, confidence, hour, day_of_week, date, zipcode`

func scanObservations(rows *sql.Rows) ([]model.Observation, error) {
	defer func() { _ = rows.Close() }()
	var out []model.Observation
	for rows.Next() {
		var (
			o  model.Observation
			ts string
			tt sql.NullFloat64
		)
		if err := rows.Scan(&o.TMCCode, &ts, &o.Speed, &o.ReferenceSpeed, &tt,
			&o.Confidence, &o.Hour, &o.DayOfWeek, &o.Date, &o.Zipcode); err != nil {
			return nil, err
		}
		t, err := time.Parse(timestampLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("corrupt timestamp %q: %w", ts, err)
		}
		o.Timestamp = t
		o.TravelTime = floatOrNaN(tt)
		out = append(out, o)
	}
	return out, rows.Err()
}

// ObservationsAt returns every observation recorded at the given day of week
// and hour.
func (s *Store) ObservationsAt(ctx context.Context, dayOfWeek, hour int) ([]model.Observation, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+observationColumns+`
        FROM observations WHERE day_of_week = ? AND hour = ?`, dayOfWeek, hour)
	if err != nil {
		return nil, err
	}
	return scanObservations(rows)
}

// HolidayObservationsAt returns the Friday-evening and weekend observations
// at the given hour. The holiday window is fixed: Friday from 17:00 onward
// plus all of Saturday and Sunday.
func (s *Store) HolidayObservationsAt(ctx context.Context, hour int) ([]model.Observation, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+observationColumns+`
        FROM observations
        WHERE ((day_of_week = 4 AND hour >= 17) OR day_of_week IN (5, 6))
          AND hour = ?`, hour)
	if err != nil {
		return nil, err
	}
	return scanObservations(rows)
}

// Segments returns the full segment catalog in insertion order, duplicates
// included.
func (s *Store) Segments(ctx context.Context) ([]model.Segment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT tmc, road, direction, intersection,
        state, county, zip, start_latitude, start_longitude, end_latitude,
        end_longitude, miles, road_order, timezone_name, type, country
        FROM segments`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.Segment
	for rows.Next() {
		var (
			g                      model.Segment
			sLat, sLon, eLat, eLon sql.NullFloat64
			miles, order           sql.NullFloat64
		)
		if err := rows.Scan(&g.TMC, &g.Road, &g.Direction, &g.Intersection,
			&g.State, &g.County, &g.Zip, &sLat, &sLon, &eLat, &eLon,
			&miles, &order, &g.Timezone, &g.Type, &g.Country); err != nil {
			return nil, err
		}
		g.StartLat = floatOrNaN(sLat)
		g.StartLon = floatOrNaN(sLon)
		g.EndLat = floatOrNaN(eLat)
		g.EndLon = floatOrNaN(eLon)
		g.Miles = floatOrNaN(miles)
		g.RoadOrder = floatOrNaN(order)
		out = append(out, g)
	}
	return out, rows.Err()
}
