// SPDX-License-Identifier: MIT

// Package zonal turns per-zone land-use columns into the zonal explanatory
// variables of the mode-choice model.
//
// Raw columns arrive as a Table (one float64 slice per column, one entry per
// zone). Derive computes the model variables once per run; each variable keeps
// the side it belongs to so the resolver can broadcast it to an OD matrix as a
// production-side (row) or attraction-side (column) attribute.
package zonal

import (
	"errors"
	"fmt"
	"sort"
)

// IDColumn is the zone id column; tables carrying it are ordered by it.
const IDColumn = "TAZ_ID"

var (
	// ErrRaggedColumns indicates columns of different lengths.
	ErrRaggedColumns = errors.New("zonal: columns differ in length")

	// ErrEmptyTable indicates a table without columns or rows.
	ErrEmptyTable = errors.New("zonal: empty table")

	// ErrMissingColumn indicates a required source column is absent.
	ErrMissingColumn = errors.New("zonal: missing column")
)

// Table is a column-oriented zone table. Missing cells are NaN.
type Table struct {
	cols map[string][]float64
	rows int
}

// NewTable copies columns into a Table. When an IDColumn is present the rows
// are reordered by ascending zone id (stable).
func NewTable(columns map[string][]float64) (*Table, error) {
	if len(columns) == 0 {
		return nil, ErrEmptyTable
	}
	rows := -1
	names := make([]string, 0, len(columns))
	for name, v := range columns {
		if rows >= 0 && len(v) != rows {
			return nil, fmt.Errorf("NewTable: column %q has %d rows, want %d: %w", name, len(v), rows, ErrRaggedColumns)
		}
		rows = len(v)
		names = append(names, name)
	}
	if rows == 0 {
		return nil, ErrEmptyTable
	}
	sort.Strings(names)

	perm := make([]int, rows)
	for i := range perm {
		perm[i] = i
	}
	if ids, ok := columns[IDColumn]; ok {
		sort.SliceStable(perm, func(a, b int) bool { return ids[perm[a]] < ids[perm[b]] })
	}

	t := &Table{cols: make(map[string][]float64, len(columns)), rows: rows}
	for _, name := range names {
		src := columns[name]
		dst := make([]float64, rows)
		for i, p := range perm {
			dst[i] = src[p]
		}
		t.cols[name] = dst
	}
	return t, nil
}

// Rows returns the number of zones in the table.
func (t *Table) Rows() int { return t.rows }

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]float64, bool) {
	v, ok := t.cols[name]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(v))
	copy(out, v)
	return out, true
}

// Columns lists column names, sorted.
func (t *Table) Columns() []string {
	out := make([]string, 0, len(t.cols))
	for name := range t.cols {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (t *Table) require(names ...string) ([][]float64, error) {
	out := make([][]float64, len(names))
	for i, name := range names {
		v, ok := t.cols[name]
		if !ok {
			return nil, fmt.Errorf("%q: %w", name, ErrMissingColumn)
		}
		out[i] = v
	}
	return out, nil
}
