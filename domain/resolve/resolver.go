// Package resolve turns index-or-name column specifications into concrete,
// validated column positions against a table header. The ByIndex/ByName
// ambiguity never survives past resolution: downstream code only ever sees
// resolved Column values.
package resolve

import (
	"strconv"
	"strings"

	"lipidflow/domain/core"
)

// ColumnSpec is a tagged variant selecting a column either by zero-based
// index or by header name. The zero value is "unspecified".
type ColumnSpec struct {
	index  int
	name   string
	byName bool
	set    bool
}

// ByIndex creates a spec selecting a column by zero-based index
func ByIndex(i int) ColumnSpec {
	return ColumnSpec{index: i, set: true}
}

// ByName creates a spec selecting a column by header name
func ByName(name string) ColumnSpec {
	return ColumnSpec{name: name, byName: true, set: true}
}

// IsZero reports whether the spec was left unspecified
func (s ColumnSpec) IsZero() bool {
	return !s.set
}

// String describes the spec for error messages and logs
func (s ColumnSpec) String() string {
	if !s.set {
		return "<default>"
	}
	if s.byName {
		return "name:" + s.name
	}
	return "index:" + strconv.Itoa(s.index)
}

// Column is a resolved, concrete column position
type Column struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	ByName bool   `json:"by_name"`
}

// Resolve maps the lipid-name spec and sample specs onto the header.
//
// An unspecified lipid spec defaults to column 0. A nil sampleSpecs slice
// defaults to every column except the lipid column, skipping blank header
// names. Explicit specs are resolved in the order given, with no implicit
// reordering or silent de-duplication.
func Resolve(header []string, lipidSpec ColumnSpec, sampleSpecs []ColumnSpec) (Column, []Column, error) {
	if lipidSpec.IsZero() {
		lipidSpec = ByIndex(0)
	}

	lipidCol, err := resolveOne(header, lipidSpec)
	if err != nil {
		return Column{}, nil, err
	}

	if sampleSpecs == nil {
		return lipidCol, defaultSampleColumns(header, lipidCol.Index), nil
	}

	seen := make(map[int]bool, len(sampleSpecs))
	samples := make([]Column, 0, len(sampleSpecs))
	for _, spec := range sampleSpecs {
		col, err := resolveOne(header, spec)
		if err != nil {
			return Column{}, nil, err
		}
		if col.Index == lipidCol.Index {
			return Column{}, nil, core.NewColumnConflictError(col.Index, col.Name)
		}
		if seen[col.Index] {
			return Column{}, nil, core.NewColumnConflictError(col.Index, col.Name)
		}
		seen[col.Index] = true
		samples = append(samples, col)
	}

	return lipidCol, samples, nil
}

func resolveOne(header []string, spec ColumnSpec) (Column, error) {
	if !spec.byName {
		if spec.index < 0 || spec.index >= len(header) {
			return Column{}, core.NewColumnRangeError(spec.index, len(header))
		}
		return Column{Index: spec.index, Name: header[spec.index]}, nil
	}

	found := -1
	for i, name := range header {
		if name != spec.name {
			continue
		}
		if found >= 0 {
			// Ambiguous names are an error, never a silent first match.
			return Column{}, core.NewAmbiguousColumnError(spec.name, header)
		}
		found = i
	}
	if found < 0 {
		return Column{}, core.NewColumnNameError(spec.name, header)
	}
	return Column{Index: found, Name: spec.name, ByName: true}, nil
}

func defaultSampleColumns(header []string, lipidIndex int) []Column {
	samples := make([]Column, 0, len(header)-1)
	for i, name := range header {
		if i == lipidIndex || strings.TrimSpace(name) == "" {
			continue
		}
		samples = append(samples, Column{Index: i, Name: name})
	}
	return samples
}
