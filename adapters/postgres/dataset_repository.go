// Package postgres persists imported datasets and their validation reports.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"lipidflow/domain/core"
	"lipidflow/domain/lipid"
	"lipidflow/domain/validate"
	"lipidflow/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS lipid_datasets (
	id           UUID PRIMARY KEY,
	source       TEXT NOT NULL,
	imported_at  TIMESTAMPTZ NOT NULL,
	sample_count INT NOT NULL,
	group_count  INT NOT NULL,
	record_count INT NOT NULL,
	samples      JSONB NOT NULL,
	groups       JSONB NOT NULL,
	records      JSONB NOT NULL,
	report       JSONB
)`

// datasetRepository implements ports.DatasetRepository over postgres
type datasetRepository struct {
	db *sqlx.DB
}

// NewDatasetRepository creates a new dataset repository
func NewDatasetRepository(db *sqlx.DB) ports.DatasetRepository {
	return &datasetRepository{db: db}
}

// EnsureSchema creates the backing table when it does not exist yet
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create lipid_datasets table: %w", err)
	}
	return nil
}

// Save inserts a dataset and its optional validation report
func (r *datasetRepository) Save(ctx context.Context, ds *lipid.Dataset, report *validate.Report) error {
	samplesJSON, err := json.Marshal(ds.Samples)
	if err != nil {
		return fmt.Errorf("failed to marshal samples: %w", err)
	}
	groupsJSON, err := json.Marshal(ds.Groups)
	if err != nil {
		return fmt.Errorf("failed to marshal groups: %w", err)
	}
	recordsJSON, err := json.Marshal(ds.Records)
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	var reportJSON []byte
	if report != nil {
		reportJSON, err = json.Marshal(report)
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
	}

	query := `INSERT INTO lipid_datasets (
		id, source, imported_at, sample_count, group_count, record_count,
		samples, groups, records, report
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = r.db.ExecContext(ctx, query,
		ds.ID.String(), ds.Source, ds.ImportedAt.Time(),
		len(ds.Samples), len(ds.Groups), len(ds.Records),
		samplesJSON, groupsJSON, recordsJSON, reportJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save dataset: %w", err)
	}
	return nil
}

// GetByID loads a dataset and its report, if one was stored
func (r *datasetRepository) GetByID(ctx context.Context, id core.DatasetID) (*lipid.Dataset, *validate.Report, error) {
	query := `SELECT id, source, imported_at, samples, groups, records, report
		FROM lipid_datasets WHERE id = $1`

	var row struct {
		ID         string       `db:"id"`
		Source     string       `db:"source"`
		ImportedAt sql.NullTime `db:"imported_at"`
		Samples    []byte       `db:"samples"`
		Groups     []byte       `db:"groups"`
		Records    []byte       `db:"records"`
		Report     []byte       `db:"report"`
	}
	if err := r.db.GetContext(ctx, &row, query, id.String()); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, core.NewNotFoundError("dataset " + id.String())
		}
		return nil, nil, fmt.Errorf("failed to load dataset %s: %w", id, err)
	}

	ds := &lipid.Dataset{
		ID:     core.DatasetID(row.ID),
		Source: row.Source,
	}
	if row.ImportedAt.Valid {
		ds.ImportedAt = core.NewTimestamp(row.ImportedAt.Time)
	}
	if err := json.Unmarshal(row.Samples, &ds.Samples); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal samples: %w", err)
	}
	if err := json.Unmarshal(row.Groups, &ds.Groups); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal groups: %w", err)
	}
	if err := json.Unmarshal(row.Records, &ds.Records); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal records: %w", err)
	}

	var report *validate.Report
	if len(row.Report) > 0 {
		report = &validate.Report{}
		if err := json.Unmarshal(row.Report, report); err != nil {
			return nil, nil, fmt.Errorf("failed to unmarshal report: %w", err)
		}
	}

	return ds, report, nil
}

// List returns dataset summaries ordered by import time, newest first.
// Records are not loaded; use GetByID for the full dataset.
func (r *datasetRepository) List(ctx context.Context, limit, offset int) ([]*lipid.Dataset, error) {
	query := `SELECT id, source, imported_at, samples, groups
		FROM lipid_datasets ORDER BY imported_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryxContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer rows.Close()

	var out []*lipid.Dataset
	for rows.Next() {
		var row struct {
			ID         string       `db:"id"`
			Source     string       `db:"source"`
			ImportedAt sql.NullTime `db:"imported_at"`
			Samples    []byte       `db:"samples"`
			Groups     []byte       `db:"groups"`
		}
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("failed to scan dataset row: %w", err)
		}
		ds := &lipid.Dataset{
			ID:     core.DatasetID(row.ID),
			Source: row.Source,
		}
		if row.ImportedAt.Valid {
			ds.ImportedAt = core.NewTimestamp(row.ImportedAt.Time)
		}
		if err := json.Unmarshal(row.Samples, &ds.Samples); err != nil {
			return nil, fmt.Errorf("failed to unmarshal samples: %w", err)
		}
		if err := json.Unmarshal(row.Groups, &ds.Groups); err != nil {
			return nil, fmt.Errorf("failed to unmarshal groups: %w", err)
		}
		out = append(out, ds)
	}
	return out, rows.Err()
}

// Delete removes a dataset
func (r *datasetRepository) Delete(ctx context.Context, id core.DatasetID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lipid_datasets WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete dataset %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.NewNotFoundError("dataset " + id.String())
	}
	return nil
}
