// SPDX-License-Identifier: MIT

// Package ingest reads the model inputs from CSV files: dense matrices,
// skim directories, zonal land-use tables, parameter tables and base trip
// tables.
//
// Matrix files hold one matrix row per line with no header; lines starting
// with '#' are comments. Zonal and parameter files carry a header row.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/modesplit/matrix"
)

var (
	// ErrEmptyFile indicates a file without data rows.
	ErrEmptyFile = errors.New("ingest: empty file")

	// ErrBadNumber indicates a cell that is not a number.
	ErrBadNumber = errors.New("ingest: invalid number")

	// ErrMissingHeader indicates a required header column is absent.
	ErrMissingHeader = errors.New("ingest: missing header column")
)

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	return cr
}

// ReadMatrix parses a headerless numeric CSV into a Dense. All rows must have
// the same number of cells; blank cells are 0.
func ReadMatrix(r io.Reader) (*matrix.Dense, error) {
	cr := newReader(r)
	var rows [][]float64
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ReadMatrix: %w", err)
		}
		row := make([]float64, len(record))
		for j, cell := range record {
			if row[j], err = parseCell(cell, 0); err != nil {
				return nil, fmt.Errorf("ReadMatrix row %d col %d: %w", len(rows)+1, j+1, err)
			}
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("ReadMatrix: %w", ErrEmptyFile)
	}
	m, err := matrix.NewDenseFromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("ReadMatrix: %w", err)
	}
	return m, nil
}

// ReadMatrixFile reads a matrix CSV from path.
func ReadMatrixFile(path string) (*matrix.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := ReadMatrix(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// WriteMatrix writes m as a headerless CSV.
func WriteMatrix(w io.Writer, m matrix.Matrix) error {
	cw := csv.NewWriter(w)
	record := make([]string, m.Cols())
	for i := 0; i < m.Rows(); i++ {
		for j := range record {
			v, err := m.At(i, j)
			if err != nil {
				return fmt.Errorf("WriteMatrix: %w", err)
			}
			record[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("WriteMatrix: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// parseCell parses a numeric cell; blank cells yield blank.
func parseCell(cell string, blank float64) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return blank, nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", cell, ErrBadNumber)
	}
	return v, nil
}

func makeIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func getField(record []string, idx map[string]int, field string) string {
	if i, ok := idx[field]; ok && i < len(record) {
		return strings.TrimSpace(record[i])
	}
	return ""
}
