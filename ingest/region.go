package ingest

import (
	"fmt"
	"path/filepath"
	"regexp"
)

// Region codes are five digits following a '-' or '.' in the file name,
// e.g. "Readings-30060.csv" -> "30060".
var regionPattern = regexp.MustCompile(`[-.](\d{5})`)

// MalformedSourceNameError reports a source file whose name yields no region
// code. The file is skipped; ingestion continues.
type MalformedSourceNameError struct {
	Name string
}

func (e *MalformedSourceNameError) Error() string {
	return fmt.Sprintf("no region code in source file name %q", e.Name)
}

// ExtractRegion derives the region code from a file path.
func ExtractRegion(path string) (string, error) {
	name := filepath.Base(path)
	m := regionPattern.FindStringSubmatch(name)
	if m == nil {
		return "", &MalformedSourceNameError{Name: name}
	}
	return m[1], nil
}
