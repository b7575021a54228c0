// SPDX-License-Identifier: MIT

package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/katalvlaran/modesplit/param"
)

// Parameter table columns. Every other column is a variable coefficient.
const (
	ColMode  = "mode"
	ColNest  = "nest"
	ColTheta = "nest_coefficient"
)

// ReadParams parses a purpose's parameter CSV. Blank numeric cells are 0.
// Columns named "ASC_<segment>" hold the constants; every column other than
// mode, nest, nest_coefficient and the constants is a variable, in header
// order.
func ReadParams(r io.Reader, purpose string) (*param.Table, error) {
	cr := newReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("ReadParams %s: %w", purpose, ErrEmptyFile)
	}
	if err != nil {
		return nil, fmt.Errorf("ReadParams %s: %w", purpose, err)
	}
	idx := makeIndex(header)
	for _, col := range []string{ColMode, ColNest, ColTheta} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("ReadParams %s %q: %w", purpose, col, ErrMissingHeader)
		}
	}
	var ascCols, variables []string
	for _, h := range header {
		h = strings.TrimSpace(h)
		switch {
		case h == ColMode || h == ColNest || h == ColTheta:
		case strings.HasPrefix(h, param.ASCPrefix):
			ascCols = append(ascCols, h)
		default:
			variables = append(variables, h)
		}
	}

	var rows []param.Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ReadParams %s: %w", purpose, err)
		}
		row := param.Row{
			Mode: getField(record, idx, ColMode),
			Nest: getField(record, idx, ColNest),
			ASC:  make(map[string]float64, len(ascCols)),
			Coef: make(map[string]float64, len(variables)),
		}
		num := func(col string) float64 {
			if err != nil {
				return 0
			}
			var v float64
			if v, err = parseCell(getField(record, idx, col), 0); err != nil {
				err = fmt.Errorf("mode %s %s: %w", row.Mode, col, err)
			}
			return v
		}
		row.Theta = num(ColTheta)
		for _, col := range ascCols {
			row.ASC[strings.TrimPrefix(col, param.ASCPrefix)] = num(col)
		}
		for _, col := range variables {
			row.Coef[col] = num(col)
		}
		if err != nil {
			return nil, fmt.Errorf("ReadParams %s: %w", purpose, err)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("ReadParams %s: %w", purpose, ErrEmptyFile)
	}
	t, err := param.New(purpose, variables, rows)
	if err != nil {
		return nil, fmt.Errorf("ReadParams: %w", err)
	}
	return t, nil
}

// LoadParams reads "<dir>/<purpose>.csv" for every purpose, in order. All
// unreadable tables are reported, joined.
func LoadParams(dir string, purposes []string) ([]*param.Table, error) {
	var (
		out  []*param.Table
		errs []error
	)
	for _, p := range purposes {
		t, err := readParamsFile(filepath.Join(dir, p+".csv"), p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, t)
	}
	return out, errors.Join(errs...)
}

func readParamsFile(path, purpose string) (*param.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := ReadParams(f, purpose)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
