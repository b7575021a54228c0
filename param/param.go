// SPDX-License-Identifier: MIT

// Package param holds the per-purpose parameter table of the nested logit
// model: one row per mode with its nest, the nest's dissimilarity θ, an
// alternative-specific constant per market segment and one coefficient per
// explanatory variable.
//
// A Table is validated on construction and immutable afterwards; it is safe
// for concurrent readers.
package param

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmptyMode indicates a row without a mode name.
	ErrEmptyMode = errors.New("param: empty mode name")

	// ErrDuplicateMode indicates a mode listed twice.
	ErrDuplicateMode = errors.New("param: duplicate mode")

	// ErrEmptyNest indicates a row without a nest name.
	ErrEmptyNest = errors.New("param: empty nest name")

	// ErrBadTheta indicates a nest coefficient that is not finite and > 0.
	ErrBadTheta = errors.New("param: nest coefficient must be finite and > 0")

	// ErrThetaConflict indicates two rows of one nest disagreeing on θ.
	ErrThetaConflict = errors.New("param: conflicting nest coefficients")

	// ErrModeNotInTable indicates a requested mode without a row.
	ErrModeNotInTable = errors.New("param: mode not in parameter table")

	// ErrMissingASC indicates a row without a constant for a segment.
	ErrMissingASC = errors.New("param: missing ASC for segment")

	// ErrBadValue indicates a NaN or infinite constant or coefficient.
	ErrBadValue = errors.New("param: non-finite value")
)

// ASCPrefix prefixes the per-segment constant columns ("ASC_0_PK").
const ASCPrefix = "ASC_"

// Row is one mode's parameters.
type Row struct {
	Mode  string
	Nest  string
	Theta float64
	// ASC maps a segment key ("0_PK") to the constant.
	ASC map[string]float64
	// Coef maps a variable name to its coefficient. Variables absent from
	// the map have coefficient 0.
	Coef map[string]float64
}

// Table is the validated parameter table of one purpose.
type Table struct {
	purpose   string
	rows      []Row
	index     map[string]int
	variables []string
	theta     map[string]float64
}

// New validates rows and builds a Table. variables fixes the variable order
// used by the solver; each row's Coef is restricted to those names.
func New(purpose string, variables []string, rows []Row) (*Table, error) {
	t := &Table{
		purpose:   purpose,
		rows:      make([]Row, 0, len(rows)),
		index:     make(map[string]int, len(rows)),
		variables: append([]string(nil), variables...),
		theta:     make(map[string]float64),
	}
	for _, r := range rows {
		if r.Mode == "" {
			return nil, ErrEmptyMode
		}
		if r.Nest == "" {
			return nil, fmt.Errorf("%s %s: %w", purpose, r.Mode, ErrEmptyNest)
		}
		if _, dup := t.index[r.Mode]; dup {
			return nil, fmt.Errorf("%s %s: %w", purpose, r.Mode, ErrDuplicateMode)
		}
		if math.IsNaN(r.Theta) || math.IsInf(r.Theta, 0) || r.Theta <= 0 {
			return nil, fmt.Errorf("%s %s: θ=%g: %w", purpose, r.Mode, r.Theta, ErrBadTheta)
		}
		if prev, ok := t.theta[r.Nest]; ok && prev != r.Theta {
			return nil, fmt.Errorf("%s nest %s: %g vs %g: %w", purpose, r.Nest, prev, r.Theta, ErrThetaConflict)
		}
		t.theta[r.Nest] = r.Theta

		row := Row{Mode: r.Mode, Nest: r.Nest, Theta: r.Theta,
			ASC: make(map[string]float64, len(r.ASC)), Coef: make(map[string]float64, len(variables))}
		for k, v := range r.ASC {
			if !finite(v) {
				return nil, fmt.Errorf("%s %s %s%s: %w", purpose, r.Mode, ASCPrefix, k, ErrBadValue)
			}
			row.ASC[k] = v
		}
		for _, name := range variables {
			v := r.Coef[name]
			if !finite(v) {
				return nil, fmt.Errorf("%s %s %s: %w", purpose, r.Mode, name, ErrBadValue)
			}
			row.Coef[name] = v
		}
		t.index[r.Mode] = len(t.rows)
		t.rows = append(t.rows, row)
	}
	return t, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Purpose returns the purpose the table belongs to.
func (t *Table) Purpose() string { return t.purpose }

// Modes returns the mode names in row order.
func (t *Table) Modes() []string {
	out := make([]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Mode
	}
	return out
}

// Variables returns the explanatory variables in column order.
func (t *Table) Variables() []string { return append([]string(nil), t.variables...) }

// Row returns a mode's row. The maps are shared; do not mutate.
func (t *Table) Row(modeName string) (Row, bool) {
	i, ok := t.index[modeName]
	if !ok {
		return Row{}, false
	}
	return t.rows[i], true
}

// NestOf returns the nest of modeName.
func (t *Table) NestOf(modeName string) (string, error) {
	r, ok := t.Row(modeName)
	if !ok {
		return "", fmt.Errorf("%s %s: %w", t.purpose, modeName, ErrModeNotInTable)
	}
	return r.Nest, nil
}

// Theta returns the coefficient of nest.
func (t *Table) Theta(nest string) (float64, bool) {
	v, ok := t.theta[nest]
	return v, ok
}

// ASC returns modeName's constant for the segment key.
func (t *Table) ASC(modeName, segmentKey string) (float64, error) {
	r, ok := t.Row(modeName)
	if !ok {
		return 0, fmt.Errorf("%s %s: %w", t.purpose, modeName, ErrModeNotInTable)
	}
	v, ok := r.ASC[segmentKey]
	if !ok {
		return 0, fmt.Errorf("%s %s %s%s: %w", t.purpose, modeName, ASCPrefix, segmentKey, ErrMissingASC)
	}
	return v, nil
}

// Coef returns modeName's coefficient for variable (0 when the variable is
// not a column of the table).
func (t *Table) Coef(modeName, variable string) float64 {
	r, ok := t.Row(modeName)
	if !ok {
		return 0
	}
	return r.Coef[variable]
}

// Nests returns the nests of modes in first-appearance order.
func (t *Table) Nests(modes []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range modes {
		n, err := t.NestOf(m)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[n]; !ok {
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out, nil
}

// Require checks that every mode in modes has a row and is listed once.
func (t *Table) Require(modes []string) error {
	seen := make(map[string]struct{}, len(modes))
	for _, m := range modes {
		if _, ok := t.index[m]; !ok {
			return fmt.Errorf("%s %s: %w", t.purpose, m, ErrModeNotInTable)
		}
		if _, dup := seen[m]; dup {
			return fmt.Errorf("%s %s: %w", t.purpose, m, ErrDuplicateMode)
		}
		seen[m] = struct{}{}
	}
	return nil
}

// RequireASC checks that every mode in modes has a constant for each key.
func (t *Table) RequireASC(modes, segmentKeys []string) error {
	for _, m := range modes {
		for _, k := range segmentKeys {
			if _, err := t.ASC(m, k); err != nil {
				return err
			}
		}
	}
	return nil
}
