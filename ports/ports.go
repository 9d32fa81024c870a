// Package ports defines the interfaces between the import pipeline and its
// external collaborators so adapters can be substituted in tests.
package ports

import (
	"context"

	"lipidflow/domain/core"
	"lipidflow/domain/lipid"
	"lipidflow/domain/validate"
)

// Vocabulary is the read-only reference nomenclature consumed by the name
// standardizer. Lookup takes a canonical lipid name and returns its reference
// identifier. Implementations must be safe for concurrent lookups.
type Vocabulary interface {
	Lookup(canonicalName string) (referenceID string, ok bool)
}

// DatasetRepository persists imported datasets and their validation reports
type DatasetRepository interface {
	Save(ctx context.Context, ds *lipid.Dataset, report *validate.Report) error
	GetByID(ctx context.Context, id core.DatasetID) (*lipid.Dataset, *validate.Report, error)
	List(ctx context.Context, limit, offset int) ([]*lipid.Dataset, error)
	Delete(ctx context.Context, id core.DatasetID) error
}
