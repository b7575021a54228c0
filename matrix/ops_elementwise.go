// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Element-wise transforms (Exp, Sqrt), skim-cleaning kernels (ReplaceValue,
//     ZeroWhereAbsAbove) and broadcast constructors (ExpandRows, ExpandCols).
//
// Determinism & Performance:
//   - Fixed flat loops 0..n-1 over the row-major buffer.
//   - No hidden allocations beyond the output Dense; O(r*c) time and space.

package matrix

import (
	"math"
)

const (
	opExp          = "Exp"
	opSqrt         = "Sqrt"
	opReplaceValue = "ReplaceValue"
	opZeroAbove    = "ZeroWhereAbsAbove"
	opExpandRows   = "ExpandRows"
	opExpandCols   = "ExpandCols"
	opAllClose     = "AllClose"
)

// ewApply copies X applying f to every element.
func ewApply(tag string, X Matrix, f func(float64) float64) (*Dense, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(tag, err)
	}
	d, err := asDense(X)
	if err != nil {
		return nil, matrixErrorf(tag, err)
	}
	out, err := NewDense(d.r, d.c)
	if err != nil {
		return nil, matrixErrorf(tag, err)
	}
	for idx, v := range d.data {
		out.data[idx] = f(v)
	}

	return out, nil
}

// Exp returns e^X element-wise. Large negative inputs underflow to exactly 0,
// which the nested-logit solver relies on to detect unavailable nests.
func Exp(X Matrix) (*Dense, error) { return ewApply(opExp, X, math.Exp) }

// Sqrt returns √X element-wise (NaN for negative cells, as math.Sqrt).
func Sqrt(X Matrix) (*Dense, error) { return ewApply(opSqrt, X, math.Sqrt) }

// ReplaceValue copies X replacing every cell exactly equal to target by val.
// Transit skims use it to turn the 0 "no path found" marker into a penalty.
func ReplaceValue(X Matrix, target, val float64) (*Dense, error) {
	return ewApply(opReplaceValue, X, func(v float64) float64 {
		if v == target {
			return val
		}
		return v
	})
}

// ZeroWhereAbsAbove copies X setting cells with |v| > limit to 0.
// NaN cells are left untouched.
func ZeroWhereAbsAbove(X Matrix, limit float64) (*Dense, error) {
	if math.IsNaN(limit) {
		return nil, matrixErrorf(opZeroAbove, ErrNaNInf)
	}
	return ewApply(opZeroAbove, X, func(v float64) float64 {
		if math.Abs(v) > limit {
			return 0
		}
		return v
	})
}

// ExpandRows builds a len(v)×cols matrix with out[i,j] = v[i].
// For OD matrices this is the production-side expansion of a zonal vector.
func ExpandRows(v []float64, cols int) (*Dense, error) {
	if len(v) == 0 || cols <= 0 {
		return nil, matrixErrorf(opExpandRows, ErrInvalidDimensions)
	}
	out, err := NewDense(len(v), cols)
	if err != nil {
		return nil, matrixErrorf(opExpandRows, err)
	}
	for i, x := range v {
		row := out.data[i*cols : (i+1)*cols]
		for j := range row {
			row[j] = x
		}
	}

	return out, nil
}

// ExpandCols builds a rows×len(v) matrix with out[i,j] = v[j].
// For OD matrices this is the attraction-side expansion of a zonal vector.
func ExpandCols(v []float64, rows int) (*Dense, error) {
	if len(v) == 0 || rows <= 0 {
		return nil, matrixErrorf(opExpandCols, ErrInvalidDimensions)
	}
	c := len(v)
	out, err := NewDense(rows, c)
	if err != nil {
		return nil, matrixErrorf(opExpandCols, err)
	}
	for i := 0; i < rows; i++ {
		copy(out.data[i*c:(i+1)*c], v)
	}

	return out, nil
}

// AllClose checks element-wise |a-b| ≤ atol + rtol*|b| for identical shapes.
// Returns (true,nil) if all elements satisfy the relation; (false,nil) otherwise.
//
// Policy:
//   - a and b must be non-nil and have identical shapes.
//   - rtol, atol are treated as |rtol|, |atol|.
func AllClose(a, b Matrix, rtol, atol float64) (bool, error) {
	if math.IsNaN(rtol) || math.IsNaN(atol) || math.IsInf(rtol, 0) || math.IsInf(atol, 0) {
		return false, matrixErrorf(opAllClose, ErrNaNInf)
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)
	if err := ValidateBinarySameShape(a, b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	da, err := asDense(a)
	if err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	db, err := asDense(b)
	if err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	for idx, av := range da.data {
		bv := db.data[idx]
		if math.Abs(av-bv) > atol+rtol*math.Abs(bv) {
			return false, nil // early-exit on first violation
		}
	}

	return true, nil
}
