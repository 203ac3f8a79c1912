package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Report is the outcome of one lint run.
type Report struct {
	Documents int           `json:"documents"`
	Errors    int           `json:"errors"`
	Warnings  int           `json:"warnings"`
	Infos     int           `json:"infos"`
	Issues    []Issue       `json:"issues"`
	Duration  time.Duration `json:"-"`
}

func newReport(catalog *Catalog, issues []Issue, duration time.Duration) *Report {
	report := &Report{
		Documents: len(catalog.Documents),
		Issues:    issues,
		Duration:  duration,
	}
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			report.Errors++
		case SeverityWarning:
			report.Warnings++
		default:
			report.Infos++
		}
	}
	return report
}

// Merge combines reports from multiple catalog roots into one.
func Merge(reports ...*Report) *Report {
	merged := &Report{}
	for _, report := range reports {
		merged.Documents += report.Documents
		merged.Errors += report.Errors
		merged.Warnings += report.Warnings
		merged.Infos += report.Infos
		merged.Issues = append(merged.Issues, report.Issues...)
		merged.Duration += report.Duration
	}
	return merged
}

// Clean reports whether the run produced no error-severity issues.
func (r *Report) Clean() bool {
	return r.Errors == 0
}

// WriteText renders the report for humans, grouped by file.
func (r *Report) WriteText(w io.Writer) error {
	var lastFile string
	for _, issue := range r.Issues {
		if issue.File != lastFile {
			if lastFile != "" {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%s\n", issue.File)
			lastFile = issue.File
		}
		if issue.Line > 0 {
			fmt.Fprintf(w, "  %d: %s: %s [%s]\n", issue.Line, issue.Severity, issue.Message, issue.Rule)
		} else {
			fmt.Fprintf(w, "  %s: %s [%s]\n", issue.Severity, issue.Message, issue.Rule)
		}
	}

	if len(r.Issues) > 0 {
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Checked %d documents: %d errors, %d warnings, %d info\n",
		r.Documents, r.Errors, r.Warnings, r.Infos)
	return nil
}

// WriteJSON renders the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}
