// SPDX-License-Identifier: MIT
// Package matrix provides element-wise arithmetic on any Matrix implementation.
// All functions perform fail-fast validation and return clear errors on
// dimension mismatches. Flat loops are delegated to gonum/floats, which carries
// assembly kernels for the hot paths over ~7.5M-cell zone matrices.

package matrix

import (
	"gonum.org/v1/gonum/floats"
)

// Operation name constants for unified error wrapping.
const (
	opAdd        = "Add"
	opSub        = "Sub"
	opHadamard   = "Hadamard"
	opScale      = "Scale"
	opAddScalar  = "AddScalar"
	opDivScalar  = "DivScalar"
	opAddInPlace = "AddInPlace"
	opAddScaled  = "AddScaledInPlace"
	opSum        = "Sum"
	opRowSums    = "RowSums"
	opColSums    = "ColSums"
)

// binaryOperands validates a and b and returns them as *Dense plus a fresh output.
func binaryOperands(tag string, a, b Matrix) (da, db, out *Dense, err error) {
	if err = ValidateBinarySameShape(a, b); err != nil {
		return nil, nil, nil, matrixErrorf(tag, err)
	}
	if da, err = asDense(a); err != nil {
		return nil, nil, nil, matrixErrorf(tag, err)
	}
	if db, err = asDense(b); err != nil {
		return nil, nil, nil, matrixErrorf(tag, err)
	}
	if out, err = NewDense(da.r, da.c); err != nil {
		return nil, nil, nil, matrixErrorf(tag, err)
	}

	return da, db, out, nil
}

// Add computes the element-wise sum C = A + B and returns a fresh Dense result.
//
// Errors:
//   - ErrNilMatrix (nil input), ErrDimensionMismatch (shape mismatch).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func Add(a, b Matrix) (*Dense, error) {
	da, db, out, err := binaryOperands(opAdd, a, b)
	if err != nil {
		return nil, err
	}
	floats.AddTo(out.data, da.data, db.data)

	return out, nil
}

// Sub computes the element-wise difference C = A − B.
func Sub(a, b Matrix) (*Dense, error) {
	da, db, out, err := binaryOperands(opSub, a, b)
	if err != nil {
		return nil, err
	}
	floats.SubTo(out.data, da.data, db.data)

	return out, nil
}

// Hadamard computes the element-wise product C = A ⊙ B.
// This is the trip-splitting primitive: base trips ⊙ mode probability.
func Hadamard(a, b Matrix) (*Dense, error) {
	da, db, out, err := binaryOperands(opHadamard, a, b)
	if err != nil {
		return nil, err
	}
	floats.MulTo(out.data, da.data, db.data)

	return out, nil
}

// Scale returns alpha*m.
func Scale(m Matrix, alpha float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	out := d.clone()
	floats.Scale(alpha, out.data)

	return out, nil
}

// AddScalar returns m + c (c added to every cell).
func AddScalar(m Matrix, c float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opAddScalar, err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opAddScalar, err)
	}
	out := d.clone()
	floats.AddConst(c, out.data)

	return out, nil
}

// DivScalar returns m / d. Each cell is divided by d, not multiplied by 1/d.
func DivScalar(m Matrix, d float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opDivScalar, err)
	}
	src, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opDivScalar, err)
	}
	out := src.clone()
	for i := range out.data {
		out.data[i] /= d
	}

	return out, nil
}

// AddInPlace accumulates dst += src. dst must be a *Dense owned by the caller.
func AddInPlace(dst *Dense, src Matrix) error {
	if err := ValidateBinarySameShape(dst, src); err != nil {
		return matrixErrorf(opAddInPlace, err)
	}
	s, err := asDense(src)
	if err != nil {
		return matrixErrorf(opAddInPlace, err)
	}
	floats.Add(dst.data, s.data)

	return nil
}

// AddScaledInPlace accumulates dst += alpha*src.
// Utility accumulation uses it once per (mode, variable) term.
func AddScaledInPlace(dst *Dense, alpha float64, src Matrix) error {
	if err := ValidateBinarySameShape(dst, src); err != nil {
		return matrixErrorf(opAddScaled, err)
	}
	s, err := asDense(src)
	if err != nil {
		return matrixErrorf(opAddScaled, err)
	}
	floats.AddScaled(dst.data, alpha, s.data)

	return nil
}

// Sum returns the total of all cells.
func Sum(m Matrix) (float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return 0, matrixErrorf(opSum, err)
	}
	d, err := asDense(m)
	if err != nil {
		return 0, matrixErrorf(opSum, err)
	}

	return floats.Sum(d.data), nil
}

// RowSums returns the per-row totals (production marginals for OD matrices).
func RowSums(m Matrix) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opRowSums, err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opRowSums, err)
	}
	out := make([]float64, d.r)
	for i := 0; i < d.r; i++ {
		out[i] = floats.Sum(d.data[i*d.c : (i+1)*d.c])
	}

	return out, nil
}

// ColSums returns the per-column totals (attraction marginals for OD matrices).
func ColSums(m Matrix) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opColSums, err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opColSums, err)
	}
	out := make([]float64, d.c)
	// Row-by-row accumulation keeps the walk over the buffer sequential.
	for i := 0; i < d.r; i++ {
		floats.Add(out, d.data[i*d.c:(i+1)*d.c])
	}

	return out, nil
}
