// Package exprio loads expression matrices from CSV and XLSX files.
// Layout, both formats: header row of gene names, first column the
// sample identifier, every other cell a numeric expression value.
package exprio

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/mat"

	"gorca/domain/core"
	"gorca/domain/expr"
	apperrors "gorca/internal/errors"
	"gorca/ports"
)

// Reader loads an observational and an interventional matrix from two
// files and pairs them as a dataset.
type Reader struct {
	ObservationalPath  string
	InterventionalPath string
}

// NewReader builds a dataset reader over the two file paths.
func NewReader(observationalPath, interventionalPath string) *Reader {
	return &Reader{
		ObservationalPath:  observationalPath,
		InterventionalPath: interventionalPath,
	}
}

// Load reads both matrices and validates that their gene panels align.
func (r *Reader) Load(ctx context.Context) (*expr.Dataset, error) {
	obs, err := ReadMatrix(r.ObservationalPath)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to load observational matrix %s", r.ObservationalPath)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	inter, err := ReadMatrix(r.InterventionalPath)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to load interventional matrix %s", r.InterventionalPath)
	}
	return expr.NewDataset(obs, inter)
}

// ReadMatrix loads one expression matrix, dispatching on the file
// extension: .csv, or .xlsx for anything else.
func ReadMatrix(path string) (*expr.Matrix, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, core.NewNotFoundError("expression file", path)
	}
	var (
		records [][]string
		err     error
	)
	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		records, err = readCSV(path)
	} else {
		records, err = readXLSX(path)
	}
	if err != nil {
		return nil, err
	}
	return parseRecords(records)
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV file: %w", err)
	}
	return records, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("XLSX file has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return records, nil
}

func parseRecords(records [][]string) (*expr.Matrix, error) {
	if len(records) < 2 {
		return nil, fmt.Errorf("expression file needs a header and at least one data row")
	}
	header := records[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("expression file needs a sample column and at least one gene column")
	}
	genes := append([]string(nil), header[1:]...)
	p := len(genes)

	values := mat.NewDense(len(records)-1, p, nil)
	samples := make([]core.SampleID, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != p+1 {
			return nil, core.NewDimensionError(fmt.Sprintf("data row %d", i+1), len(record)-1, p)
		}
		samples[i] = core.SampleID(strings.TrimSpace(record[0]))
		for j, cell := range record[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, gene %s: %w", i+1, genes[j], err)
			}
			values.Set(i, j, v)
		}
	}
	return expr.NewMatrix(values, genes, samples)
}

var _ ports.ExpressionSource = (*Reader)(nil)
