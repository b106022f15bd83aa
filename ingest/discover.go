package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/citypulse/trafficast/core/store"
)

// Discover locates the raw source files under dir by naming convention:
// speed readings match Readings*.csv, segment catalogs match
// TMC*Identification*.csv. A missing directory or an empty result for either
// kind is a fatal SourceNotFoundError.
func Discover(dir string) (readings, catalogs []string, err error) {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil, nil, &store.SourceNotFoundError{Path: dir}
		}
		return nil, nil, err
	}
	readings, err = filepath.Glob(filepath.Join(dir, "Readings*.csv"))
	if err != nil {
		return nil, nil, fmt.Errorf("glob readings: %w", err)
	}
	catalogs, err = filepath.Glob(filepath.Join(dir, "TMC*Identification*.csv"))
	if err != nil {
		return nil, nil, fmt.Errorf("glob catalogs: %w", err)
	}
	sort.Strings(readings)
	sort.Strings(catalogs)
	if len(readings) == 0 {
		return nil, nil, &store.SourceNotFoundError{Path: filepath.Join(dir, "Readings*.csv")}
	}
	if len(catalogs) == 0 {
		return nil, nil, &store.SourceNotFoundError{Path: filepath.Join(dir, "TMC*Identification*.csv")}
	}
	return readings, catalogs, nil
}
