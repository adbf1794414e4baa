package expr

import (
	"gorca/domain/core"
)

// Dataset pairs the observational baseline with interventional samples
// over one shared gene panel.
type Dataset struct {
	Observational  *Matrix
	Interventional *Matrix
}

// NewDataset validates that both matrices carry the same gene panel in
// the same column order.
func NewDataset(observational, interventional *Matrix) (*Dataset, error) {
	if observational == nil || interventional == nil {
		return nil, core.NewValidationError("dataset", "nil matrix")
	}
	if !observational.SameGenes(interventional) {
		return nil, core.NewShapeError("interventional gene panel",
			interventional.Rows(), interventional.Cols(),
			observational.Rows(), observational.Cols())
	}
	return &Dataset{Observational: observational, Interventional: interventional}, nil
}

// Genes returns the shared gene panel.
func (d *Dataset) Genes() []string {
	return d.Observational.Genes()
}

// SampleIDs returns the interventional row identifiers (may be nil).
func (d *Dataset) SampleIDs() []core.SampleID {
	return d.Interventional.Samples()
}

// Fingerprint hashes the observational matrix; the baseline defines the
// statistical identity of a run.
func (d *Dataset) Fingerprint() core.DatasetHash {
	return d.Observational.Fingerprint()
}
