package core

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - centralized error definitions
var (
	// Loading errors
	ErrNotFound = errors.New("input file not found")
	ErrFormat   = errors.New("malformed table")

	// Column resolution errors
	ErrColumnRange    = errors.New("column index out of range")
	ErrColumnName     = errors.New("column name not resolvable")
	ErrColumnConflict = errors.New("lipid column overlaps sample columns")

	// Group mapping errors
	ErrUnknownSample            = errors.New("group mapping references unknown sample")
	ErrDuplicateGroupAssignment = errors.New("sample assigned to more than one group")

	// Validation precondition
	ErrPrecondition = errors.New("dataset too small to validate")
)

// Error constructors with context

func NewNotFoundError(path string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, path)
}

func NewFormatError(row, got, want int) error {
	return fmt.Errorf("%w: row %d has %d cells, header has %d", ErrFormat, row, got, want)
}

func NewColumnRangeError(index, headerLen int) error {
	return fmt.Errorf("%w: index %d, table has %d columns", ErrColumnRange, index, headerLen)
}

func NewColumnNameError(name string, header []string) error {
	return fmt.Errorf("%w: %q not found, available columns: [%s]",
		ErrColumnName, name, strings.Join(header, ", "))
}

func NewAmbiguousColumnError(name string, header []string) error {
	return fmt.Errorf("%w: %q matches multiple columns: [%s]",
		ErrColumnName, name, strings.Join(header, ", "))
}

func NewColumnConflictError(index int, name string) error {
	return fmt.Errorf("%w: column %d (%q) requested as both", ErrColumnConflict, index, name)
}

func NewUnknownSampleError(group, sample string, known []string) error {
	return fmt.Errorf("%w: group %q references %q, known samples: [%s]",
		ErrUnknownSample, group, sample, strings.Join(known, ", "))
}

func NewDuplicateGroupAssignmentError(sample, first, second string) error {
	return fmt.Errorf("%w: %q appears in both %q and %q",
		ErrDuplicateGroupAssignment, sample, first, second)
}

func NewPreconditionError(reason string) error {
	return fmt.Errorf("%w: %s", ErrPrecondition, reason)
}

// Error checking helpers

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsResolutionError reports whether err is fatal to an import before any
// rows are interpreted: a structural rather than a data-quality problem.
func IsResolutionError(err error) bool {
	return errors.Is(err, ErrFormat) ||
		errors.Is(err, ErrColumnRange) ||
		errors.Is(err, ErrColumnName) ||
		errors.Is(err, ErrColumnConflict) ||
		errors.Is(err, ErrUnknownSample) ||
		errors.Is(err, ErrDuplicateGroupAssignment)
}
