// SPDX-License-Identifier: MIT

// Package split turns a segment's base trip matrix into per-mode trip
// matrices: trips[m] = base ⊙ P_m.
//
// Wherever the mode probabilities of a pair sum to 1, the per-mode trips sum
// back to the base trips of that pair; where every nest was masked they sum
// to 0.
package split

import (
	"errors"
	"fmt"
	"sort"

	"github.com/katalvlaran/modesplit/matrix"
	"github.com/katalvlaran/modesplit/zone"
)

// ErrNoProbabilities indicates an empty probability set.
var ErrNoProbabilities = errors.New("split: no mode probabilities")

// Trips maps mode → N×N trip matrix.
type Trips map[string]*matrix.Dense

// Split multiplies base by every mode's probability matrix. base is fitted
// to the zone system first (wider inputs truncated, narrower rejected); every
// probability matrix must already be N×N.
func Split(ix zone.Index, base matrix.Matrix, probs map[string]*matrix.Dense) (Trips, error) {
	if len(probs) == 0 {
		return nil, ErrNoProbabilities
	}
	b, err := ix.Fit(base)
	if err != nil {
		return nil, fmt.Errorf("Split base: %w", err)
	}
	out := make(Trips, len(probs))
	for _, m := range sortedKeys(probs) {
		p := probs[m]
		if err = ix.Check(p); err != nil {
			return nil, fmt.Errorf("Split %s: %w", m, err)
		}
		if out[m], err = matrix.Hadamard(b, p); err != nil {
			return nil, fmt.Errorf("Split %s: %w", m, err)
		}
	}
	return out, nil
}

// Modes returns the mode names, sorted.
func (t Trips) Modes() []string { return sortedKeys(t) }

// Total returns Σ_m trips[m].
func (t Trips) Total() (*matrix.Dense, error) {
	var acc *matrix.Dense
	for _, m := range t.Modes() {
		if acc == nil {
			acc = t[m].Copy()
			continue
		}
		if err := matrix.AddInPlace(acc, t[m]); err != nil {
			return nil, fmt.Errorf("Total %s: %w", m, err)
		}
	}
	if acc == nil {
		return nil, ErrNoProbabilities
	}
	return acc, nil
}

// Sums returns the grand total of each mode's trips.
func (t Trips) Sums() (map[string]float64, error) {
	out := make(map[string]float64, len(t))
	for m, tm := range t {
		s, err := matrix.Sum(tm)
		if err != nil {
			return nil, fmt.Errorf("Sums %s: %w", m, err)
		}
		out[m] = s
	}
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
