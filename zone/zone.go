// SPDX-License-Identifier: MIT

// Package zone fixes the OD matrix convention for a model run.
//
// Every matrix consumed or produced by the mode-choice core is N×N, where N
// is the zone count of the Index: row = production zone, column = attraction
// zone. Oversized raw inputs (skims built on a larger network, vectors with
// external stations appended) are truncated to the top-left N×N block; they
// are never resized or interpolated. Inputs smaller than N×N are fatal.
package zone

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/modesplit/matrix"
)

// ReferenceZones is the zone count of the reference deployment.
const ReferenceZones = 2730

var (
	// ErrInvalidIndex indicates a non-positive zone count.
	ErrInvalidIndex = errors.New("zone: zone count must be > 0")

	// ErrShapeTooSmall indicates an input narrower or shorter than N×N (or a vector shorter than N).
	ErrShapeTooSmall = fmt.Errorf("zone: input smaller than zone system: %w", matrix.ErrDimensionMismatch)
)

// Index describes the ordered zone set of a run.
type Index struct {
	N int // number of zones
}

// New returns an Index for n zones.
func New(n int) (Index, error) {
	if n <= 0 {
		return Index{}, ErrInvalidIndex
	}
	return Index{N: n}, nil
}

// Cells returns N*N.
func (ix Index) Cells() int { return ix.N * ix.N }

// Zeros returns a fresh N×N zero matrix.
func (ix Index) Zeros() (*matrix.Dense, error) {
	if ix.N <= 0 {
		return nil, ErrInvalidIndex
	}
	return matrix.NewDense(ix.N, ix.N)
}

// Filled returns a fresh N×N matrix with every cell set to v.
func (ix Index) Filled(v float64) (*matrix.Dense, error) {
	if ix.N <= 0 {
		return nil, ErrInvalidIndex
	}
	return matrix.NewFilled(ix.N, ix.N, v)
}

// Fit aligns m to N×N.
//   - exactly N×N: returned as a *Dense (the same value when m already is one).
//   - wider or taller: the top-left N×N block is copied out.
//   - narrower or shorter in either dimension: ErrShapeTooSmall.
func (ix Index) Fit(m matrix.Matrix) (*matrix.Dense, error) {
	if ix.N <= 0 {
		return nil, ErrInvalidIndex
	}
	if err := matrix.ValidateAtLeast(m, ix.N, ix.N); err != nil {
		if errors.Is(err, matrix.ErrNilMatrix) {
			return nil, fmt.Errorf("Fit: %w", err)
		}
		return nil, fmt.Errorf("Fit %d zones: %w: %w", ix.N, ErrShapeTooSmall, err)
	}
	r, c := m.Rows(), m.Cols()
	d, err := matrix.ToDense(m)
	if err != nil {
		return nil, fmt.Errorf("Fit: %w", err)
	}
	if r == ix.N && c == ix.N {
		return d, nil
	}
	return d.Block(ix.N, ix.N)
}

// Check asserts that m is exactly N×N without copying.
func (ix Index) Check(m matrix.Matrix) error {
	if err := matrix.ValidateShape(m, ix.N, ix.N); err != nil {
		return fmt.Errorf("Check %d zones: %w", ix.N, err)
	}
	return nil
}

// FitVector truncates v to its first N entries; shorter vectors are ErrShapeTooSmall.
// The returned slice is a copy.
func (ix Index) FitVector(v []float64) ([]float64, error) {
	if ix.N <= 0 {
		return nil, ErrInvalidIndex
	}
	if len(v) < ix.N {
		return nil, fmt.Errorf("FitVector: got %d values for %d zones: %w", len(v), ix.N, ErrShapeTooSmall)
	}
	out := make([]float64, ix.N)
	copy(out, v[:ix.N])
	return out, nil
}

// ExpandProduction broadcasts a per-zone vector across columns:
// out[i,j] = v[i], i.e. the value belongs to the production zone.
func (ix Index) ExpandProduction(v []float64) (*matrix.Dense, error) {
	fv, err := ix.FitVector(v)
	if err != nil {
		return nil, err
	}
	return matrix.ExpandRows(fv, ix.N)
}

// ExpandAttraction broadcasts a per-zone vector across rows:
// out[i,j] = v[j], i.e. the value belongs to the attraction zone.
func (ix Index) ExpandAttraction(v []float64) (*matrix.Dense, error) {
	fv, err := ix.FitVector(v)
	if err != nil {
		return nil, err
	}
	return matrix.ExpandCols(fv, ix.N)
}
