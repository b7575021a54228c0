// SPDX-License-Identifier: MIT

package ingest

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/katalvlaran/modesplit/zonal"
)

// Zones is a parsed land-use file.
type Zones struct {
	// Table holds every numeric column; blank cells are NaN.
	Table *zonal.Table
	// Labels holds every column with a non-numeric cell ("TOWN", "BOSTON_NB").
	Labels map[string][]string
}

// ReadZones parses a zonal CSV with a header row. Rows are ordered by
// zonal.IDColumn when present, so Labels line up with Table.
func ReadZones(r io.Reader) (*Zones, error) {
	cr := newReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("ReadZones: %w", ErrEmptyFile)
	}
	if err != nil {
		return nil, fmt.Errorf("ReadZones: %w", err)
	}
	idx := makeIndex(header)
	names := make([]string, 0, len(idx))
	for name := range idx {
		names = append(names, name)
	}
	sort.Strings(names)

	raw := make(map[string][]string, len(names))
	rows := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ReadZones: %w", err)
		}
		for _, name := range names {
			raw[name] = append(raw[name], getField(record, idx, name))
		}
		rows++
	}
	if rows == 0 {
		return nil, fmt.Errorf("ReadZones: %w", ErrEmptyFile)
	}

	numeric := make(map[string][]float64, len(names))
	labels := make(map[string][]string)
	for _, name := range names {
		if v, ok := parseColumn(raw[name]); ok {
			numeric[name] = v
		} else {
			labels[name] = raw[name]
		}
	}

	if ids, ok := numeric[zonal.IDColumn]; ok {
		perm := make([]int, rows)
		for i := range perm {
			perm[i] = i
		}
		sort.SliceStable(perm, func(a, b int) bool { return ids[perm[a]] < ids[perm[b]] })
		for name, v := range numeric {
			numeric[name] = permute(v, perm)
		}
		for name, v := range labels {
			labels[name] = permute(v, perm)
		}
	}

	t, err := zonal.NewTable(numeric)
	if err != nil {
		return nil, fmt.Errorf("ReadZones: %w", err)
	}
	return &Zones{Table: t, Labels: labels}, nil
}

// ReadZonesFile reads a zonal CSV from path.
func ReadZonesFile(path string) (*Zones, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	z, err := ReadZones(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return z, nil
}

// parseColumn parses every cell as a number, blank as NaN. ok is false when
// any cell is not numeric.
func parseColumn(cells []string) ([]float64, bool) {
	out := make([]float64, len(cells))
	for i, c := range cells {
		v, err := parseCell(c, math.NaN())
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func permute[T any](v []T, perm []int) []T {
	out := make([]T, len(v))
	for i, p := range perm {
		out[i] = v[p]
	}
	return out
}
