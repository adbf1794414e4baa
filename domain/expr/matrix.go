package expr

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"gorca/domain/core"
)

// Matrix is the canonical expression data object for all statistical
// computation: rows are samples, columns are genes. Components treat it
// as read-only; derived matrices are always fresh allocations.
type Matrix struct {
	values  *mat.Dense
	genes   []string
	samples []core.SampleID
}

// NewMatrix builds a named expression matrix and checks that the label
// slices agree with the value shape.
func NewMatrix(values *mat.Dense, genes []string, samples []core.SampleID) (*Matrix, error) {
	if values == nil {
		return nil, core.NewValidationError("values", "nil matrix")
	}
	rows, cols := values.Dims()
	if len(genes) != cols {
		return nil, core.NewDimensionError("gene names", len(genes), cols)
	}
	if samples != nil && len(samples) != rows {
		return nil, core.NewDimensionError("sample ids", len(samples), rows)
	}
	return &Matrix{values: values, genes: genes, samples: samples}, nil
}

// FromRows builds a Matrix from row-major slices. Rows must agree in length.
func FromRows(rows [][]float64, genes []string, samples []core.SampleID) (*Matrix, error) {
	if len(rows) == 0 {
		return nil, core.NewValidationError("rows", "empty matrix")
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, core.NewDimensionError(fmt.Sprintf("row %d", i), len(row), cols)
		}
		data = append(data, row...)
	}
	return NewMatrix(mat.NewDense(len(rows), cols, data), genes, samples)
}

// Dims returns (samples, genes).
func (m *Matrix) Dims() (rows, cols int) {
	return m.values.Dims()
}

// Rows returns the sample count.
func (m *Matrix) Rows() int {
	r, _ := m.values.Dims()
	return r
}

// Cols returns the gene count.
func (m *Matrix) Cols() int {
	_, c := m.values.Dims()
	return c
}

// Values exposes the underlying dense matrix. Callers must not mutate it.
func (m *Matrix) Values() *mat.Dense {
	return m.values
}

// Genes returns the gene panel in column order.
func (m *Matrix) Genes() []string {
	return m.genes
}

// Gene returns the name of column j.
func (m *Matrix) Gene(j int) string {
	return m.genes[j]
}

// GeneIndex resolves a gene name to its column.
func (m *Matrix) GeneIndex(name string) (int, error) {
	for j, g := range m.genes {
		if g == name {
			return j, nil
		}
	}
	return -1, core.NewNotFoundError("gene", name)
}

// Samples returns the sample identifiers in row order (may be nil).
func (m *Matrix) Samples() []core.SampleID {
	return m.samples
}

// SampleIndex resolves a sample identifier to its row.
func (m *Matrix) SampleIndex(id core.SampleID) (int, error) {
	for i, s := range m.samples {
		if s == id {
			return i, nil
		}
	}
	return -1, core.NewNotFoundError("sample", id.String())
}

// Row copies row i into a fresh slice.
func (m *Matrix) Row(i int) []float64 {
	return mat.Row(nil, i, m.values)
}

// Col copies column j into a fresh slice.
func (m *Matrix) Col(j int) []float64 {
	return mat.Col(nil, j, m.values)
}

// SameGenes reports whether both matrices carry the identical gene panel
// in the identical column order.
func (m *Matrix) SameGenes(other *Matrix) bool {
	if other == nil || len(m.genes) != len(other.genes) {
		return false
	}
	for j, g := range m.genes {
		if other.genes[j] != g {
			return false
		}
	}
	return true
}

// SelectColumns returns a fresh matrix restricted to the given columns,
// in the given order. Indices must be in range.
func (m *Matrix) SelectColumns(cols []int) (*Matrix, error) {
	rows, total := m.values.Dims()
	out := mat.NewDense(rows, len(cols), nil)
	genes := make([]string, len(cols))
	for k, j := range cols {
		if j < 0 || j >= total {
			return nil, core.NewDimensionError("column index", j, total)
		}
		out.SetCol(k, mat.Col(nil, j, m.values))
		genes[k] = m.genes[j]
	}
	return &Matrix{values: out, genes: genes, samples: m.samples}, nil
}

// SelectRow copies the given columns of a single data row, preserving order.
func SelectRow(row []float64, cols []int) ([]float64, error) {
	out := make([]float64, len(cols))
	for k, j := range cols {
		if j < 0 || j >= len(row) {
			return nil, core.NewDimensionError("column index", j, len(row))
		}
		out[k] = row[j]
	}
	return out, nil
}

// Fingerprint hashes gene names and values for run provenance.
func (m *Matrix) Fingerprint() core.DatasetHash {
	rows, cols := m.values.Dims()
	return core.ComputeDatasetHash(m.genes, rows, cols, m.values.RawMatrix().Data)
}
