package ports

import (
	"context"

	"gorca/domain/core"
)

// SampleLookup resolves a patient/sample identifier to its row in the
// interventional matrix. Implementations return a core.ErrNotFound
// wrapped error when the identifier is absent.
type SampleLookup interface {
	RowIndex(ctx context.Context, id core.SampleID) (int, error)
}
