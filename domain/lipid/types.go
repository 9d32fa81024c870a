package lipid

import (
	"strconv"
	"strings"

	"lipidflow/domain/core"
)

// Sample represents one experimental measurement column, eventually tagged
// with a group label
type Sample struct {
	ID          core.SampleID `json:"id"`
	ColumnIndex int           `json:"column_index"`
	Group       string        `json:"group"`
}

// Group represents a named collection of samples for one experimental condition
type Group struct {
	Label     string          `json:"label"`
	SampleIDs []core.SampleID `json:"sample_ids"`
}

// Size returns the number of samples in the group
func (g Group) Size() int {
	return len(g.SampleIDs)
}

// Abundance represents a single measured cell with deterministic handling of
// missing and unparseable values. A missing cell stays missing; it is never
// coerced to zero. An unparseable cell keeps its raw text for reporting.
type Abundance struct {
	Raw       string   `json:"raw,omitempty"`
	Value     *float64 `json:"value,omitempty"`
	IsMissing bool     `json:"is_missing"`
}

// ParseAbundance converts raw cell text into an Abundance
func ParseAbundance(raw string) Abundance {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Abundance{IsMissing: true}
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return Abundance{Raw: trimmed}
	}
	return Abundance{Raw: trimmed, Value: &v}
}

// NewAbundance creates a present numeric abundance
func NewAbundance(v float64) Abundance {
	return Abundance{Value: &v}
}

// MissingAbundance creates an absent abundance
func MissingAbundance() Abundance {
	return Abundance{IsMissing: true}
}

// IsValid returns true if the abundance holds a parsed number
func (a Abundance) IsValid() bool {
	return a.Value != nil
}

// IsInvalid returns true if the cell held text that did not parse as a number
func (a Abundance) IsInvalid() bool {
	return !a.IsMissing && a.Value == nil
}

// Float64 returns the numeric value and whether one is present
func (a Abundance) Float64() (float64, bool) {
	if a.Value == nil {
		return 0, false
	}
	return *a.Value, true
}

// Record represents one measured lipid species plus its per-sample abundances.
// StandardizedName and ReferenceID stay empty until standardization succeeds.
type Record struct {
	Row              int                         `json:"row"`
	InputName        string                      `json:"input_name"`
	StandardizedName string                      `json:"standardized_name,omitempty"`
	ReferenceID      string                      `json:"reference_id,omitempty"`
	Abundances       map[core.SampleID]Abundance `json:"abundances"`
}

// IsStandardized returns true once a canonical name has been resolved
func (r *Record) IsStandardized() bool {
	return r.StandardizedName != ""
}

// DisplayName returns the standardized name when available, else the input name
func (r *Record) DisplayName() string {
	if r.StandardizedName != "" {
		return r.StandardizedName
	}
	return r.InputName
}

// Values returns the available (parsed, non-missing) abundances keyed by sample
func (r *Record) Values() map[core.SampleID]float64 {
	out := make(map[core.SampleID]float64, len(r.Abundances))
	for sid, a := range r.Abundances {
		if v, ok := a.Float64(); ok {
			out[sid] = v
		}
	}
	return out
}

// Dataset is the durable output of one import call: records, samples and
// groups in their resolved order. It is owned by the caller and not mutated
// after the import completes.
type Dataset struct {
	ID         core.DatasetID `json:"id"`
	Source     string         `json:"source"`
	ImportedAt core.Timestamp `json:"imported_at"`
	Samples    []Sample       `json:"samples"`
	Groups     []Group        `json:"groups"`
	Records    []Record       `json:"records"`
}

// SampleIDs returns sample identifiers in column order
func (d *Dataset) SampleIDs() []core.SampleID {
	ids := make([]core.SampleID, len(d.Samples))
	for i, s := range d.Samples {
		ids[i] = s.ID
	}
	return ids
}

// GroupFor returns the group label for a sample identifier
func (d *Dataset) GroupFor(id core.SampleID) (string, bool) {
	for _, s := range d.Samples {
		if s.ID == id {
			return s.Group, true
		}
	}
	return "", false
}

// UnresolvedNames returns input names whose standardization failed, in record order
func (d *Dataset) UnresolvedNames() []string {
	var names []string
	for i := range d.Records {
		if !d.Records[i].IsStandardized() {
			names = append(names, d.Records[i].InputName)
		}
	}
	return names
}

// GroupedValues returns, per group label, the available values of every
// record restricted to that group's samples
func (d *Dataset) GroupedValues() map[string]map[string][]float64 {
	grouped := make(map[string]map[string][]float64, len(d.Groups))
	for _, g := range d.Groups {
		byRecord := make(map[string][]float64, len(d.Records))
		for i := range d.Records {
			rec := &d.Records[i]
			var vals []float64
			for _, sid := range g.SampleIDs {
				if v, ok := rec.Abundances[sid].Float64(); ok {
					vals = append(vals, v)
				}
			}
			if len(vals) > 0 {
				byRecord[rec.InputName] = vals
			}
		}
		grouped[g.Label] = byRecord
	}
	return grouped
}
