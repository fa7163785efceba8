package pipeline

import "fmt"

// Result tracks counts and recoverable errors from one pipeline run.
type Result struct {
	RunID           string
	Divisions       int
	DivisionsFailed int
	RowsScraped     int
	Teams           int
	RowsDropped     int
	ProTeams        int
	RowsWritten     int
	Errors          []string
}

// AddError records an error message.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"divisions=%d failed=%d scraped=%d teams=%d dropped=%d pro=%d written=%d errors=%d",
		r.Divisions, r.DivisionsFailed, r.RowsScraped, r.Teams,
		r.RowsDropped, r.ProTeams, r.RowsWritten, len(r.Errors),
	)
}
