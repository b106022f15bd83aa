// Package store implements the canonical historical store on embedded
// SQLite. Ingestion writes a fresh database; serving opens it read-only.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"

	_ "modernc.org/sqlite"

	"github.com/citypulse/trafficast/core/model"
)

const timestampLayout = "2006-01-02 15:04:05"

// Store wraps the SQLite database holding the two canonical tables.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS observations (
    tmc_code TEXT NOT NULL,
    measurement_tstamp TEXT NOT NULL,
    speed REAL,
    reference_speed REAL,
    travel_time_seconds REAL,
    confidence REAL,
    hour INTEGER NOT NULL,
    day_of_week INTEGER NOT NULL,
    date TEXT NOT NULL,
    zipcode TEXT
);
CREATE TABLE IF NOT EXISTS segments (
    tmc TEXT NOT NULL,
    road TEXT,
    direction TEXT,
    intersection TEXT,
    state TEXT,
    county TEXT,
    zip TEXT,
    start_latitude REAL,
    start_longitude REAL,
    end_latitude REAL,
    end_longitude REAL,
    miles REAL,
    road_order REAL,
    timezone_name TEXT,
    type TEXT,
    country TEXT
);
CREATE INDEX IF NOT EXISTS idx_observations_hour ON observations(hour);
CREATE INDEX IF NOT EXISTS idx_observations_dow ON observations(day_of_week);
CREATE INDEX IF NOT EXISTS idx_observations_tmc ON observations(tmc_code);
CREATE INDEX IF NOT EXISTS idx_segments_tmc ON segments(tmc);
`

// Create builds a fresh store at path, removing any previous database file
// first. Ingestion always starts from an empty store.
func Create(path string) (*Store, error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("remove previous store: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &Store{db: db}, nil
}

// Open opens an existing store read-only for serving. A missing file is a
// SourceNotFoundError, never a silently created empty database.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, &SourceNotFoundError{Path: path}
		}
		return nil, err
	}
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// nullable maps NaN to a SQL NULL so that missing values round-trip.
func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func floatOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

// InsertObservations appends a batch of observations inside one transaction.
func (s *Store) InsertObservations(ctx context.Context, obs []model.Observation) error {
	if len(obs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO observations
        (tmc_code, measurement_tstamp, speed, reference_speed, travel_time_seconds,
         confidence, hour, day_of_week, date, zipcode)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() { _ = stmt.Close() }()
	for _, o := range obs {
		_, err := stmt.ExecContext(ctx,
			o.TMCCode,
			o.Timestamp.Format(timestampLayout),
			o.Speed,
			o.ReferenceSpeed,
			nullable(o.TravelTime),
			o.Confidence,
			o.Hour,
			o.DayOfWeek,
			o.Date,
			o.Zipcode,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert observation %s: %w", o.TMCCode, err)
		}
	}
	return tx.Commit()
}

// InsertSegments appends catalog entries. Duplicate identifiers across
// catalog files are retained as-is.
func (s *Store) InsertSegments(ctx context.Context, segs []model.Segment) error {
	if len(segs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO segments
        (tmc, road, direction, intersection, state, county, zip,
         start_latitude, start_longitude, end_latitude, end_longitude,
         miles, road_order, timezone_name, type, country)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() { _ = stmt.Close() }()
	for _, g := range segs {
		_, err := stmt.ExecContext(ctx,
			g.TMC, g.Road, g.Direction, g.Intersection, g.State, g.County, g.Zip,
			nullable(g.StartLat), nullable(g.StartLon), nullable(g.EndLat), nullable(g.EndLon),
			nullable(g.Miles), nullable(g.RoadOrder), g.Timezone, g.Type, g.Country,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert segment %s: %w", g.TMC, err)
		}
	}
	return tx.Commit()
}
