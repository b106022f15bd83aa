package store

import "context"

// Stats summarizes the contents of the canonical tables.
type Stats struct {
	ObservationCount int
	UniqueSegments   int
	UniqueDates      int
	EarliestDate     string
	LatestDate       string
	AvgSpeed         float64
	AvgConfidence    float64

	CatalogSegments int
	UniqueZips      int
	UniqueRoads     int
}

// Stats computes summary statistics over both tables.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	row := s.db.QueryRowContext(ctx, `SELECT
        COUNT(*),
        COUNT(DISTINCT tmc_code),
        COUNT(DISTINCT date),
        COALESCE(MIN(date), ''),
        COALESCE(MAX(date), ''),
        COALESCE(AVG(speed), 0),
        COALESCE(AVG(confidence), 0)
        FROM observations`)
	if err := row.Scan(&st.ObservationCount, &st.UniqueSegments, &st.UniqueDates,
		&st.EarliestDate, &st.LatestDate, &st.AvgSpeed, &st.AvgConfidence); err != nil {
		return nil, err
	}
	row = s.db.QueryRowContext(ctx, `SELECT
        COUNT(*), COUNT(DISTINCT zip), COUNT(DISTINCT road) FROM segments`)
	if err := row.Scan(&st.CatalogSegments, &st.UniqueZips, &st.UniqueRoads); err != nil {
		return nil, err
	}
	return &st, nil
}
