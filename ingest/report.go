package ingest

// FileReport is the load/skip outcome for one source file. Per-row problems
// are absorbed into RowsDropped rather than aborting the file.
type FileReport struct {
	File        string
	Kind        string // "readings" or "catalog"
	Zipcode     string
	RowsLoaded  int
	RowsDropped int
	Skipped     bool
	SkipReason  string
}

// Report aggregates the outcomes of one ingestion run.
type Report struct {
	Files []FileReport
}

func (r *Report) add(fr FileReport) {
	r.Files = append(r.Files, fr)
}

// RowsLoaded totals the rows written to the store.
func (r *Report) RowsLoaded() int {
	n := 0
	for _, f := range r.Files {
		n += f.RowsLoaded
	}
	return n
}

// RowsDropped totals the rows dropped for parse failures.
func (r *Report) RowsDropped() int {
	n := 0
	for _, f := range r.Files {
		n += f.RowsDropped
	}
	return n
}

// FilesSkipped counts the files rejected whole.
func (r *Report) FilesSkipped() int {
	n := 0
	for _, f := range r.Files {
		if f.Skipped {
			n++
		}
	}
	return n
}
