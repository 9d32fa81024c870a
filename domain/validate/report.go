// Package validate runs a fixed battery of data-quality rules over an
// imported dataset and accumulates the findings into a report. Quality
// problems are advisory: they are recorded, never thrown.
package validate

import (
	"fmt"
	"strings"

	"lipidflow/domain/core"
)

// Severity levels for validation issues
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue categories
const (
	CategoryMissingData     = "missing_data"
	CategoryInvalidValue    = "invalid_value"
	CategoryDataConsistency = "data_consistency"
	CategoryStandardization = "standardization"
)

// Location points at the offending row, rows or sample of an issue
type Location struct {
	Row    int           `json:"row,omitempty"`
	Rows   []int         `json:"rows,omitempty"`
	Sample core.SampleID `json:"sample,omitempty"`
}

func (l *Location) String() string {
	var parts []string
	if l.Row > 0 {
		parts = append(parts, fmt.Sprintf("row %d", l.Row))
	}
	if len(l.Rows) > 0 {
		parts = append(parts, fmt.Sprintf("rows %v", l.Rows))
	}
	if l.Sample != "" {
		parts = append(parts, fmt.Sprintf("sample %s", l.Sample))
	}
	return strings.Join(parts, ", ")
}

// Issue represents a single data-quality concern found in the dataset
type Issue struct {
	Severity Severity  `json:"severity"`
	Category string    `json:"category"`
	Message  string    `json:"message"`
	Location *Location `json:"location,omitempty"`
}

func (i Issue) String() string {
	loc := ""
	if i.Location != nil {
		loc = " at " + i.Location.String()
	}
	return fmt.Sprintf("[%s] %s: %s%s", strings.ToUpper(string(i.Severity)), i.Category, i.Message, loc)
}

// Report is the ordered collection of issues from one validation run
type Report struct {
	Issues []Issue `json:"issues"`
}

// Passed is true iff no issue has error severity. Warnings and info never
// block downstream use.
func (r *Report) Passed() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return false
		}
	}
	return true
}

// HasWarnings reports whether any warning-severity issues exist
func (r *Report) HasWarnings() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// BySeverity returns all issues of the given severity in report order
func (r *Report) BySeverity(sev Severity) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == sev {
			out = append(out, issue)
		}
	}
	return out
}

// ByCategory returns all issues in the given category in report order
func (r *Report) ByCategory(category string) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Category == category {
			out = append(out, issue)
		}
	}
	return out
}

// Counts returns the number of issues per severity
func (r *Report) Counts() map[Severity]int {
	counts := make(map[Severity]int)
	for _, issue := range r.Issues {
		counts[issue.Severity]++
	}
	return counts
}

func (r *Report) add(sev Severity, category, message string, loc *Location) {
	r.Issues = append(r.Issues, Issue{
		Severity: sev,
		Category: category,
		Message:  message,
		Location: loc,
	})
}

// Markdown renders the report as a markdown document, issues grouped by
// severity
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("# Validation Report\n\n")
	if r.Passed() {
		b.WriteString("**Status: PASSED**\n\n")
	} else {
		b.WriteString("**Status: FAILED**\n\n")
	}
	fmt.Fprintf(&b, "Total issues: %d\n\n", len(r.Issues))

	counts := r.Counts()
	for _, sev := range []Severity{SeverityError, SeverityWarning, SeverityInfo} {
		if counts[sev] == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s (%d)\n\n", strings.ToUpper(string(sev)), counts[sev])
		for _, issue := range r.BySeverity(sev) {
			loc := ""
			if issue.Location != nil {
				loc = " at " + issue.Location.String()
			}
			fmt.Fprintf(&b, "- %s: %s%s\n", issue.Category, issue.Message, loc)
		}
		b.WriteString("\n")
	}
	return b.String()
}
