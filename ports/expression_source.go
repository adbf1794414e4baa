package ports

import (
	"context"

	"gorca/domain/expr"
)

// ExpressionSource loads an observational/interventional dataset from an
// external store. Loading and persistence live entirely behind this
// port; the discovery core only ever sees an expr.Dataset.
type ExpressionSource interface {
	Load(ctx context.Context) (*expr.Dataset, error)
}
