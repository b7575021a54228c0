// SPDX-License-Identifier: MIT

// Package nlogit evaluates a two-level nested logit model over every zone
// pair at once.
//
// For each mode m in a nest n, per cell:
//
//	U_m = ASC_m + Σ_v coef_{m,v} · x_{m,v}      V_m = exp(U_m)
//	S_n = Σ_{m∈n} V_m                            mask_n = (S_n == 0)
//	L_n = ln S_n                                 W_n = exp(θ_n · L_n − c)
//	T   = Σ_n W_n
//	P_m = (W_n / T) · (V_m / S_n)
//
// c is the per-cell maximum of θ_n · L_n over unmasked nests. It cancels in
// W_n / T and keeps the largest weight at 1, so a pair with any available
// nest always has T ≥ 1.
//
// A nest whose inclusive sum is exactly zero for a pair (every member's
// utility underflowed) is masked for that pair: it gets no logsum, adds
// nothing to T and all its members get probability 0 there. Masks are
// evaluated per nest, so a pair may keep some nests and lose others. No
// division touches a masked cell, so no NaN is produced by masking.
//
// θ_n = 1 reduces nest n to a flat multinomial logit over its members.
package nlogit

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/modesplit/matrix"
	"github.com/katalvlaran/modesplit/mode"
	"github.com/katalvlaran/modesplit/param"
	"github.com/katalvlaran/modesplit/zone"
)

var (
	// ErrNoModes indicates an empty mode set.
	ErrNoModes = errors.New("nlogit: no modes to evaluate")

	// ErrNilTable indicates a nil parameter table.
	ErrNilTable = errors.New("nlogit: nil parameter table")
)

// Resolver supplies explanatory-variable matrices. *resolve.Context
// implements it.
type Resolver interface {
	Index() zone.Index
	Resolve(seg mode.Segment, variable, modeName string) (*matrix.Dense, error)
}

// Result holds the N×N outputs of one (segment, mode set) evaluation.
type Result struct {
	// Modes and Nests list the evaluated modes and their nests in order.
	Modes []string
	Nests []string

	// Probabilities maps mode → P(m | pair).
	Probabilities map[string]*matrix.Dense
	// NestLogsums maps nest → L_n, 0 on masked cells.
	NestLogsums map[string]*matrix.Dense
	// Utilities maps mode → V_m = exp(U_m).
	Utilities map[string]*matrix.Dense
	// Masks maps nest → cells where the nest is unavailable.
	Masks map[string]*matrix.Mask
	// Unavailable flags cells where every nest is masked; all probabilities
	// are 0 there.
	Unavailable *matrix.Mask
}

// Solve evaluates the model for seg over modes with the coefficients of table.
//
// Implementation:
//   - Stage 1: Check every mode has a row; collect nests in first-appearance order.
//   - Stage 2: Per mode, accumulate ASC + coef·x over every table variable and exponentiate.
//   - Stage 3: Per nest, sum member utilities, mask zero sums, take logs and shifted θ-weights.
//   - Stage 4: Combine nest shares and within-nest shares into mode probabilities.
//
// Every variable column is resolved for every mode, including zero
// coefficients, so a misconfigured (variable, mode) pair fails the run.
//
// Errors:
//   - ErrNoModes, ErrNilTable, param.ErrModeNotInTable, param.ErrDuplicateMode,
//     param.ErrMissingASC.
//   - Any resolver error, wrapped with the segment.
//
// Complexity:
//   - Time O(|modes|·|variables|·N²), Space O((|modes|+|nests|)·N²).
func Solve(r Resolver, seg mode.Segment, modes []string, table *param.Table) (*Result, error) {
	if len(modes) == 0 {
		return nil, ErrNoModes
	}
	if table == nil {
		return nil, ErrNilTable
	}
	if err := table.Require(modes); err != nil {
		return nil, fmt.Errorf("Solve %s: %w", seg, err)
	}
	nests, err := table.Nests(modes)
	if err != nil {
		return nil, fmt.Errorf("Solve %s: %w", seg, err)
	}

	res := &Result{
		Modes:         append([]string(nil), modes...),
		Nests:         nests,
		Probabilities: make(map[string]*matrix.Dense, len(modes)),
		NestLogsums:   make(map[string]*matrix.Dense, len(nests)),
		Utilities:     make(map[string]*matrix.Dense, len(modes)),
		Masks:         make(map[string]*matrix.Mask, len(nests)),
	}
	ix := r.Index()

	for _, m := range modes {
		u, err := Utility(r, seg, m, table)
		if err != nil {
			return nil, err
		}
		if res.Utilities[m], err = matrix.Exp(u); err != nil {
			return nil, fmt.Errorf("Solve %s %s: %w", seg, m, err)
		}
	}

	// inclusive sums per nest, in mode order
	sums := make(map[string]*matrix.Dense, len(nests))
	for _, n := range nests {
		if sums[n], err = ix.Zeros(); err != nil {
			return nil, err
		}
	}
	nestOf := make(map[string]string, len(modes))
	for _, m := range modes {
		n, _ := table.NestOf(m)
		nestOf[m] = n
		if err = matrix.AddInPlace(sums[n], res.Utilities[m]); err != nil {
			return nil, fmt.Errorf("Solve %s nest %s: %w", seg, n, err)
		}
	}

	// θ-scaled logsums, shifted by the per-cell maximum over available nests
	// so the largest weight is exp(0) and none underflow together.
	scaled := make([]matrix.Matrix, len(nests))
	masks := make([]*matrix.Mask, len(nests))
	if res.Unavailable, err = matrix.NewFullMask(ix.N, ix.N, true); err != nil {
		return nil, err
	}
	for k, n := range nests {
		theta, _ := table.Theta(n)
		mask, err := matrix.ZeroMask(sums[n])
		if err != nil {
			return nil, err
		}
		logsum, err := matrix.LogWhere(sums[n], mask)
		if err != nil {
			return nil, err
		}
		if scaled[k], err = matrix.Scale(logsum, theta); err != nil {
			return nil, err
		}
		if res.Unavailable, err = res.Unavailable.And(mask); err != nil {
			return nil, err
		}
		masks[k], res.Masks[n], res.NestLogsums[n] = mask, mask, logsum
	}
	shift, err := matrix.MaxWhere(scaled, masks)
	if err != nil {
		return nil, err
	}

	total, err := ix.Zeros()
	if err != nil {
		return nil, err
	}
	weights := make(map[string]*matrix.Dense, len(nests))
	for k, n := range nests {
		rel, err := matrix.Sub(scaled[k], shift)
		if err != nil {
			return nil, err
		}
		if weights[n], err = matrix.ExpScaledWhere(rel, 1, masks[k]); err != nil {
			return nil, err
		}
		if err = matrix.AddInPlace(total, weights[n]); err != nil {
			return nil, err
		}
	}

	nestShare := make(map[string]*matrix.Dense, len(nests))
	for _, n := range nests {
		if nestShare[n], err = matrix.DivWhere(weights[n], total, res.Masks[n]); err != nil {
			return nil, err
		}
	}
	for _, m := range modes {
		n := nestOf[m]
		within, err := matrix.DivWhere(res.Utilities[m], sums[n], res.Masks[n])
		if err != nil {
			return nil, err
		}
		if res.Probabilities[m], err = matrix.Hadamard(nestShare[n], within); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Utility returns U_m = ASC_m(seg) + Σ coef·x for one mode, resolving every
// variable column of table.
func Utility(r Resolver, seg mode.Segment, modeName string, table *param.Table) (*matrix.Dense, error) {
	asc, err := table.ASC(modeName, seg.Key())
	if err != nil {
		return nil, fmt.Errorf("Utility %s: %w", seg, err)
	}
	u, err := r.Index().Filled(asc)
	if err != nil {
		return nil, err
	}
	for _, v := range table.Variables() {
		x, err := r.Resolve(seg, v, modeName)
		if err != nil {
			return nil, fmt.Errorf("Utility %s: %w", seg, err)
		}
		if err = matrix.AddScaledInPlace(u, table.Coef(modeName, v), x); err != nil {
			return nil, fmt.Errorf("Utility %s %s %s: %w", seg, modeName, v, err)
		}
	}
	return u, nil
}

// ProbabilitySum returns Σ_m P_m cell by cell, counting each mode once.
func (r *Result) ProbabilitySum() (*matrix.Dense, error) {
	var acc *matrix.Dense
	seen := make(map[string]struct{}, len(r.Modes))
	for _, m := range r.Modes {
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		p := r.Probabilities[m]
		if acc == nil {
			acc = p.Copy()
			continue
		}
		if err := matrix.AddInPlace(acc, p); err != nil {
			return nil, err
		}
	}
	return acc, nil
}
