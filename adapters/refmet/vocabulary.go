// Package refmet provides a file-backed reference vocabulary in the RefMet
// tab-separated export format. The table is loaded once and read-only after,
// so concurrent imports can share a single instance.
package refmet

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"lipidflow/domain/core"
	"lipidflow/domain/standardize"
)

// Column headers recognized in RefMet exports. Missing values come back as
// a bare dash.
const (
	nameHeader = "Standardized name"
	idHeader   = "RefMet_ID"
	noValue    = "-"
)

// Vocabulary maps canonical lipid names to RefMet reference identifiers
type Vocabulary struct {
	entries map[string]string
}

// Load reads a RefMet tab-separated export from path. The first line must
// carry the column headers; rows without a standardized name or identifier
// are skipped.
func Load(path string) (*Vocabulary, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.NewNotFoundError(path)
		}
		return nil, fmt.Errorf("failed to open vocabulary %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		return nil, fmt.Errorf("%w: vocabulary %s has no header row", core.ErrFormat, path)
	}
	header := strings.Split(scanner.Text(), "\t")
	nameIdx, idIdx := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case nameHeader:
			nameIdx = i
		case idHeader:
			idIdx = i
		}
	}
	if nameIdx < 0 || idIdx < 0 {
		return nil, fmt.Errorf("%w: vocabulary %s missing %q or %q column, found: [%s]",
			core.ErrFormat, path, nameHeader, idHeader, strings.Join(header, ", "))
	}

	entries := make(map[string]string)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) <= nameIdx || len(fields) <= idIdx {
			continue
		}
		name := strings.TrimSpace(fields[nameIdx])
		id := strings.TrimSpace(fields[idIdx])
		if name == "" || name == noValue || id == "" || id == noValue {
			continue
		}
		entries[standardize.Canonicalize(name)] = id
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vocabulary %s: %w", path, err)
	}

	return &Vocabulary{entries: entries}, nil
}

// Static builds an in-memory vocabulary from a name-to-identifier map, with
// names canonicalized on the way in. Intended for tests and fixtures.
func Static(names map[string]string) *Vocabulary {
	entries := make(map[string]string, len(names))
	for name, id := range names {
		entries[standardize.Canonicalize(name)] = id
	}
	return &Vocabulary{entries: entries}
}

// Lookup returns the reference identifier for a canonical name
func (v *Vocabulary) Lookup(canonicalName string) (string, bool) {
	id, ok := v.entries[canonicalName]
	return id, ok
}

// Len returns the number of vocabulary entries
func (v *Vocabulary) Len() int {
	return len(v.entries)
}
