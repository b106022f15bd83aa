package store

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/citypulse/trafficast/core/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Create(filepath.Join(t.TempDir(), "traffic.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func ob(tmc string, dow, hour int, speed float64) model.Observation {
	ts := time.Date(2025, 10, 6+dow, hour, 0, 0, 0, time.UTC)
	return model.Observation{
		TMCCode:        tmc,
		Timestamp:      ts,
		Speed:          speed,
		ReferenceSpeed: 45,
		TravelTime:     math.NaN(),
		Confidence:     0.9,
		Hour:           hour,
		DayOfWeek:      dow,
		Date:           model.DateOf(ts),
		Zipcode:        "30060",
	}
}

func TestOpenMissingStore(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.db"))
	var notFound *SourceNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Contains(t, notFound.Path, "absent.db")
}

func TestObservationsAtFilters(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.InsertObservations(ctx, []model.Observation{
		ob("A", 1, 15, 20),
		ob("B", 1, 15, 30),
		ob("A", 1, 16, 99),
		ob("A", 2, 15, 99),
	}))

	got, err := st.ObservationsAt(ctx, 1, 15)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, o := range got {
		require.Equal(t, 1, o.DayOfWeek)
		require.Equal(t, 15, o.Hour)
	}
}

func TestHolidayObservationsAt(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.InsertObservations(ctx, []model.Observation{
		ob("A", 4, 17, 25), // Friday 17:00: in window
		ob("A", 4, 16, 99), // Friday 16:00: out (also wrong hour)
		ob("A", 5, 17, 35), // Saturday: in
		ob("A", 6, 17, 45), // Sunday: in
		ob("A", 2, 17, 99), // Wednesday: out
	}))

	got, err := st.HolidayObservationsAt(ctx, 17)
	require.NoError(t, err)
	require.Len(t, got, 3)
}

func TestObservationRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	in := ob("A", 1, 15, 28.5)
	in.TravelTime = 120.4
	require.NoError(t, st.InsertObservations(ctx, []model.Observation{in}))

	got, err := st.ObservationsAt(ctx, 1, 15)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, in.TMCCode, got[0].TMCCode)
	require.True(t, in.Timestamp.Equal(got[0].Timestamp))
	require.Equal(t, in.Speed, got[0].Speed)
	require.Equal(t, in.TravelTime, got[0].TravelTime)
	require.Equal(t, in.Date, got[0].Date)
	require.Equal(t, in.Zipcode, got[0].Zipcode)
}

func TestTravelTimeNullRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.InsertObservations(ctx, []model.Observation{ob("A", 1, 15, 28.5)}))
	got, err := st.ObservationsAt(ctx, 1, 15)
	require.NoError(t, err)
	require.False(t, got[0].HasTravelTime())
}

func TestSegmentsRetainDuplicates(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	full := model.Segment{TMC: "A", Road: "Cobb Pkwy", StartLat: 33.95, StartLon: -84.55,
		EndLat: 33.96, EndLon: -84.54, Miles: 0.75}
	holed := full
	holed.EndLon = math.NaN()
	require.NoError(t, st.InsertSegments(ctx, []model.Segment{full}))
	require.NoError(t, st.InsertSegments(ctx, []model.Segment{holed}))

	got, err := st.Segments(ctx)
	require.NoError(t, err)
	// Duplicate identifiers across catalog loads are both retained.
	require.Len(t, got, 2)
	require.True(t, got[0].HasGeometry())
	require.False(t, got[1].HasGeometry())
	require.True(t, math.IsNaN(got[1].EndLon))
}

func TestStats(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.InsertObservations(ctx, []model.Observation{
		ob("A", 1, 15, 20),
		ob("B", 2, 8, 40),
	}))
	require.NoError(t, st.InsertSegments(ctx, []model.Segment{
		{TMC: "A", Road: "Cobb Pkwy", Zip: "30060"},
		{TMC: "B", Road: "Roswell Rd", Zip: "30062"},
	}))

	stats, err := st.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, stats.ObservationCount)
	require.Equal(t, 2, stats.UniqueSegments)
	require.Equal(t, 30.0, stats.AvgSpeed)
	require.Equal(t, 2, stats.CatalogSegments)
	require.Equal(t, 2, stats.UniqueZips)
	require.Equal(t, 2, stats.UniqueRoads)
	require.Equal(t, "2025-10-07", stats.EarliestDate)
	require.Equal(t, "2025-10-08", stats.LatestDate)
}

func TestReadOnlyOpenServesExistingData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traffic.db")
	st, err := Create(path)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, st.InsertObservations(ctx, []model.Observation{ob("A", 1, 15, 20)}))
	require.NoError(t, st.Close())

	ro, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = ro.Close() }()
	got, err := ro.ObservationsAt(ctx, 1, 15)
	require.NoError(t, err)
	require.Len(t, got, 1)
}
