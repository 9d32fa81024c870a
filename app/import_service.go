// Package app wires the import pipeline together: load the raw table,
// resolve columns, map samples to groups, parse values, standardize names
// and optionally validate and persist the result.
package app

import (
	"context"
	"fmt"
	"strings"

	"lipidflow/adapters/tabular"
	"lipidflow/domain/core"
	"lipidflow/domain/grouping"
	"lipidflow/domain/lipid"
	"lipidflow/domain/resolve"
	"lipidflow/domain/standardize"
	"lipidflow/domain/validate"
	"lipidflow/internal"
	"lipidflow/ports"
)

// Options configures one import call
type Options struct {
	// LipidColumn selects the lipid-name column. Unspecified means column 0.
	LipidColumn resolve.ColumnSpec
	// SampleColumns selects the sample columns in order. Nil means every
	// column except the lipid column.
	SampleColumns []resolve.ColumnSpec
	// GroupMapping maps group labels to sample identifiers. Nil means the
	// assignment is inferred from sample names.
	GroupMapping map[string][]string
	// Validate runs the quality rule battery and attaches the report.
	Validate bool
	// Delimiter overrides delimiter auto-detection for text files.
	Delimiter rune
}

// ImportResult bundles the durable dataset with its validation report.
// Report is nil unless validation was requested.
type ImportResult struct {
	Dataset *lipid.Dataset   `json:"dataset"`
	Report  *validate.Report `json:"report,omitempty"`
}

// Deps contains the collaborators of the import service
type Deps struct {
	Loader       *tabular.Loader
	Standardizer *standardize.Standardizer
	Mapper       *grouping.Mapper
	Validator    *validate.Validator
	// Repository, when set, persists every successful import.
	Repository ports.DatasetRepository
	Logger     *internal.Logger
	// MaxConcurrentImports bounds ImportBatch parallelism. Zero means 4.
	MaxConcurrentImports int64
}

// ImportService orchestrates the import pipeline and exposes query access
// to imported datasets
type ImportService struct {
	deps Deps
}

// NewImportService creates the service after checking required dependencies
func NewImportService(deps Deps) (*ImportService, error) {
	if deps.Loader == nil {
		return nil, fmt.Errorf("loader dependency is required")
	}
	if deps.Standardizer == nil {
		return nil, fmt.Errorf("standardizer dependency is required")
	}
	if deps.Mapper == nil {
		deps.Mapper = grouping.NewMapper()
	}
	if deps.Validator == nil {
		deps.Validator = validate.NewValidator()
	}
	if deps.Logger == nil {
		deps.Logger = internal.NewDefaultLogger()
	}
	if deps.MaxConcurrentImports <= 0 {
		deps.MaxConcurrentImports = 4
	}
	return &ImportService{deps: deps}, nil
}

// Import runs the full pipeline for one file. Structural failures (missing
// file, malformed table, column resolution, group mapping) abort the call
// atomically; standardization misses and data-quality findings do not.
func (s *ImportService) Import(ctx context.Context, path string, opts Options) (*ImportResult, error) {
	log := s.deps.Logger
	log.Info("importing %s", path)

	loader := s.deps.Loader
	if opts.Delimiter != 0 {
		loader = &tabular.Loader{Delimiter: opts.Delimiter}
	}

	table, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	log.Debug("loaded %d rows x %d columns from %s", table.RowCount(), table.ColumnCount(), path)

	lipidCol, sampleCols, err := resolve.Resolve(table.Header, opts.LipidColumn, opts.SampleColumns)
	if err != nil {
		return nil, err
	}

	samples := make([]lipid.Sample, len(sampleCols))
	for i, col := range sampleCols {
		samples[i] = lipid.Sample{ID: core.SampleID(col.Name), ColumnIndex: col.Index}
	}

	groups, err := s.deps.Mapper.Assign(samples, opts.GroupMapping)
	if err != nil {
		return nil, err
	}

	records := s.extractRecords(table, lipidCol, samples)
	s.standardizeRecords(records)

	dataset := &lipid.Dataset{
		ID:         core.NewDatasetID(),
		Source:     path,
		ImportedAt: core.Now(),
		Samples:    samples,
		Groups:     groups,
		Records:    records,
	}

	result := &ImportResult{Dataset: dataset}
	if opts.Validate {
		report, err := s.deps.Validator.Validate(dataset)
		if err != nil {
			return nil, err
		}
		result.Report = report
		log.Info("validation: %d issues, passed=%v", len(report.Issues), report.Passed())
	}

	if s.deps.Repository != nil {
		if err := s.deps.Repository.Save(ctx, dataset, result.Report); err != nil {
			return nil, fmt.Errorf("failed to persist dataset %s: %w", dataset.ID, err)
		}
	}

	log.Info("imported %s: %d samples, %d groups, %d records",
		path, len(samples), len(groups), len(records))
	return result, nil
}

// extractRecords parses the raw rows into typed records. Rows with an empty
// lipid name carry no identity and are skipped; missing and unparseable
// cells are kept as-is for the validator to report.
func (s *ImportService) extractRecords(table *tabular.RawTable, lipidCol resolve.Column, samples []lipid.Sample) []lipid.Record {
	records := make([]lipid.Record, 0, table.RowCount())
	skipped := 0
	for i, row := range table.Rows {
		name := strings.TrimSpace(row[lipidCol.Index])
		if name == "" {
			skipped++
			continue
		}
		abundances := make(map[core.SampleID]lipid.Abundance, len(samples))
		for _, sm := range samples {
			abundances[sm.ID] = lipid.ParseAbundance(row[sm.ColumnIndex])
		}
		records = append(records, lipid.Record{
			Row:        i + 1,
			InputName:  name,
			Abundances: abundances,
		})
	}
	if skipped > 0 {
		s.deps.Logger.Info("skipped %d rows with empty lipid names", skipped)
	}
	return records
}

// standardizeRecords resolves every record name against the vocabulary.
// The standardizer's cache keeps repeated raw names to a single lookup.
// Misses leave the record unstandardized; the validator reports them.
func (s *ImportService) standardizeRecords(records []lipid.Record) {
	misses := 0
	for i := range records {
		result := s.deps.Standardizer.Standardize(records[i].InputName)
		if !result.OK {
			misses++
			continue
		}
		records[i].StandardizedName = result.StandardizedName
		records[i].ReferenceID = result.ReferenceID
	}
	if misses > 0 {
		s.deps.Logger.Info("%d of %d names had no vocabulary match", misses, len(records))
	}
}
