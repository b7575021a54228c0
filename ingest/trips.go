// SPDX-License-Identifier: MIT

package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/katalvlaran/modesplit/engine"
	"github.com/katalvlaran/modesplit/matrix"
	"github.com/katalvlaran/modesplit/mode"
	"github.com/katalvlaran/modesplit/split"
)

// LoadTrips reads the base trip tables "<dir>/<purpose>_<PK|OP>_<0Auto|wAuto>.csv"
// of every purpose. Absent files are skipped; the engine reports them when the
// purpose is validated.
func LoadTrips(dir string, purposes []string) (engine.TripTables, error) {
	out := engine.TripTables{}
	for _, p := range purposes {
		for _, seg := range mode.Segments(p) {
			path := filepath.Join(dir, seg.TripTable()+".csv")
			m, err := ReadMatrixFile(path)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("LoadTrips: %w", err)
			}
			out[seg.TripTable()] = m
		}
	}
	return out, nil
}

// WriteTrips writes every mode's trips of one segment as
// "<dir>/<mode>_<segment>.csv".
func WriteTrips(dir, segmentKey string, trips split.Trips) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("WriteTrips: %w", err)
	}
	for _, m := range trips.Modes() {
		if err := writeMatrixFile(filepath.Join(dir, m+"_"+segmentKey+".csv"), trips[m]); err != nil {
			return fmt.Errorf("WriteTrips %s %s: %w", m, segmentKey, err)
		}
	}
	return nil
}

func writeMatrixFile(path string, m matrix.Matrix) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteMatrix(f, m)
}
