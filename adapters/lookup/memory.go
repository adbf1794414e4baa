// Package lookup maps sample identifiers to interventional matrix rows.
// The in-memory adapter serves datasets whose row order is already
// known; the Postgres adapter serves cohorts registered in a table.
package lookup

import (
	"context"

	"gorca/domain/core"
	"gorca/ports"
)

// Memory is a map-backed SampleLookup.
type Memory struct {
	rows map[core.SampleID]int
}

// NewMemory builds a lookup from an explicit identifier-to-row map.
func NewMemory(rows map[core.SampleID]int) *Memory {
	copied := make(map[core.SampleID]int, len(rows))
	for id, row := range rows {
		copied[id] = row
	}
	return &Memory{rows: copied}
}

// FromSampleIDs builds a lookup where identifier i maps to row i,
// matching a matrix whose rows carry those identifiers in order.
func FromSampleIDs(ids []core.SampleID) *Memory {
	rows := make(map[core.SampleID]int, len(ids))
	for i, id := range ids {
		rows[id] = i
	}
	return &Memory{rows: rows}
}

// RowIndex resolves an identifier, failing with core.ErrNotFound when
// the sample was never registered.
func (m *Memory) RowIndex(_ context.Context, id core.SampleID) (int, error) {
	row, ok := m.rows[id]
	if !ok {
		return 0, core.NewNotFoundError("sample", id.String())
	}
	return row, nil
}

var _ ports.SampleLookup = (*Memory)(nil)
