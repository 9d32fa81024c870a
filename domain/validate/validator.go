package validate

import (
	"fmt"
	"sort"

	"lipidflow/domain/core"
	"lipidflow/domain/lipid"
)

// Validator runs the quality rule battery over a dataset. Rules run in a
// fixed order and each rule is independent: a finding in one rule never
// prevents later rules from running.
type Validator struct{}

// NewValidator creates a validator
func NewValidator() *Validator {
	return &Validator{}
}

// Validate runs every rule and returns the accumulated report. It returns
// an error only for a dataset with zero samples or zero records, since no
// quality judgment is possible there; data-quality problems themselves are
// reported, never raised.
func (v *Validator) Validate(d *lipid.Dataset) (*Report, error) {
	if len(d.Samples) == 0 {
		return nil, core.NewPreconditionError("dataset has no samples")
	}
	if len(d.Records) == 0 {
		return nil, core.NewPreconditionError("dataset has no lipid rows")
	}

	report := &Report{}
	v.checkMissingValues(d, report)
	v.checkNonNumericValues(d, report)
	v.checkNegativeValues(d, report)
	v.checkDuplicateLipids(d, report)
	v.checkEmptySamples(d, report)
	v.checkUnresolvedNames(d, report)
	return report, nil
}

func (v *Validator) checkMissingValues(d *lipid.Dataset, report *Report) {
	for i := range d.Records {
		rec := &d.Records[i]
		for _, s := range d.Samples {
			if rec.Abundances[s.ID].IsMissing {
				report.add(SeverityWarning, CategoryMissingData,
					fmt.Sprintf("missing abundance for %q", rec.InputName),
					&Location{Row: rec.Row, Sample: s.ID})
			}
		}
	}
}

func (v *Validator) checkNonNumericValues(d *lipid.Dataset, report *Report) {
	for i := range d.Records {
		rec := &d.Records[i]
		for _, s := range d.Samples {
			a := rec.Abundances[s.ID]
			if a.IsInvalid() {
				report.add(SeverityError, CategoryInvalidValue,
					fmt.Sprintf("non-numeric abundance %q for %q", a.Raw, rec.InputName),
					&Location{Row: rec.Row, Sample: s.ID})
			}
		}
	}
}

func (v *Validator) checkNegativeValues(d *lipid.Dataset, report *Report) {
	for i := range d.Records {
		rec := &d.Records[i]
		for _, s := range d.Samples {
			if val, ok := rec.Abundances[s.ID].Float64(); ok && val < 0 {
				report.add(SeverityWarning, CategoryInvalidValue,
					fmt.Sprintf("negative abundance %v for %q", val, rec.InputName),
					&Location{Row: rec.Row, Sample: s.ID})
			}
		}
	}
}

func (v *Validator) checkDuplicateLipids(d *lipid.Dataset, report *Report) {
	rowsByName := make(map[string][]int)
	for i := range d.Records {
		rec := &d.Records[i]
		if rec.IsStandardized() {
			rowsByName[rec.StandardizedName] = append(rowsByName[rec.StandardizedName], rec.Row)
		}
	}

	names := make([]string, 0, len(rowsByName))
	for name, rows := range rowsByName {
		if len(rows) > 1 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		report.add(SeverityWarning, CategoryDataConsistency,
			fmt.Sprintf("duplicate standardized name %q", name),
			&Location{Rows: rowsByName[name]})
	}
}

func (v *Validator) checkEmptySamples(d *lipid.Dataset, report *Report) {
	for _, s := range d.Samples {
		hasValue := false
		for i := range d.Records {
			if _, ok := d.Records[i].Abundances[s.ID].Float64(); ok {
				hasValue = true
				break
			}
		}
		if !hasValue {
			report.add(SeverityWarning, CategoryMissingData,
				fmt.Sprintf("sample %q has no values in any row", s.ID),
				&Location{Sample: s.ID})
		}
	}
}

func (v *Validator) checkUnresolvedNames(d *lipid.Dataset, report *Report) {
	for i := range d.Records {
		rec := &d.Records[i]
		if !rec.IsStandardized() {
			report.add(SeverityInfo, CategoryStandardization,
				fmt.Sprintf("no standardized name for %q", rec.InputName),
				&Location{Row: rec.Row})
		}
	}
}
