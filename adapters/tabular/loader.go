// Package tabular reads rectangular CSV/TSV/XLSX tables into raw string
// cells. It does no interpretation beyond structure: typing, resolution and
// quality checks happen downstream.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/csimplestring/go-csv/detector"
	"github.com/xuri/excelize/v2"

	"lipidflow/domain/core"
)

// RawTable holds one rectangular table of raw string cells. Every row has
// exactly as many cells as the header.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// RowCount returns the number of data rows
func (t *RawTable) RowCount() int {
	return len(t.Rows)
}

// ColumnCount returns the number of columns
func (t *RawTable) ColumnCount() int {
	return len(t.Header)
}

// IsEmpty reports whether the table has no data rows
func (t *RawTable) IsEmpty() bool {
	return len(t.Rows) == 0
}

// Loader reads delimited text files and Excel workbooks into RawTables
type Loader struct {
	// Delimiter forces a delimiter for text files. Zero means auto-detect:
	// tab for .tsv/.tab/.txt extensions, otherwise content sniffing with a
	// comma fallback.
	Delimiter rune
}

// NewLoader creates a loader with delimiter auto-detection
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the file at path into a RawTable. It fails with a not-found
// error when the path does not resolve and with a format error when rows
// have inconsistent cell counts.
func (l *Loader) Load(path string) (*RawTable, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, core.NewNotFoundError(path)
	}

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return l.loadWorkbook(path)
	}
	return l.loadDelimited(path)
}

func (l *Loader) loadDelimited(path string) (*RawTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, core.NewNotFoundError(path)
	}
	defer file.Close()

	delim := l.Delimiter
	if delim == 0 {
		delim = detectDelimiter(path, file)
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("failed to rewind %s: %w", path, err)
		}
	}

	reader := csv.NewReader(file)
	reader.Comma = delim
	reader.FieldsPerRecord = -1 // cell counts are checked below for a precise error

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrFormat, path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s has no header row", core.ErrFormat, path)
	}

	header := records[0]
	rows := records[1:]
	for i, row := range rows {
		if len(row) != len(header) {
			return nil, core.NewFormatError(i+1, len(row), len(header))
		}
	}

	return &RawTable{Header: header, Rows: rows}, nil
}

func (l *Loader) loadWorkbook(path string) (*RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrFormat, path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: failed to read sheet %q: %v", core.ErrFormat, path, sheet, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s has no header row", core.ErrFormat, path)
	}

	header := records[0]
	rows := make([][]string, 0, len(records)-1)
	for i, row := range records[1:] {
		// Excel row reads drop trailing empty cells; pad them back.
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		if len(row) > len(header) {
			return nil, core.NewFormatError(i+1, len(row), len(header))
		}
		rows = append(rows, row)
	}

	return &RawTable{Header: header, Rows: rows}, nil
}

// detectDelimiter picks tab for tab-style extensions and otherwise sniffs
// the file content, assuming a CSV-like layout with a comma fallback.
func detectDelimiter(path string, r io.Reader) rune {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab", ".txt":
		return '\t'
	}

	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')
	if len(delimiters) > 0 {
		return rune(delimiters[0][0])
	}
	return ','
}
