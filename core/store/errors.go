package store

import "fmt"

// SourceNotFoundError reports a required store file that does not exist.
// It is fatal to the operation that requested the store.
type SourceNotFoundError struct {
	Path string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("store not found: %s", e.Path)
}
