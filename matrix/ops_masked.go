// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Masked kernels: operations applied only on cells where a boolean mask is
//     false ("unmasked"); masked cells are written as 0 and never evaluated, so
//     log(0) and 0/0 cannot occur there.
//
// Determinism:
//   - Flat 0..n-1 loops; masks are plain []bool aligned with the row-major buffer.

package matrix

import (
	"math"
)

const (
	opZeroMask = "ZeroMask"
	opLogWhere = "LogWhere"
	opExpWhere = "ExpScaledWhere"
	opDivWhere = "DivWhere"
	opMaxWhere = "MaxWhere"
)

// Mask flags cells of an r×c matrix; true means "masked" (excluded).
type Mask struct {
	r, c int
	bits []bool
}

// Rows returns the mask row count.
func (k *Mask) Rows() int { return k.r }

// Cols returns the mask column count.
func (k *Mask) Cols() int { return k.c }

// Masked reports whether cell (i, j) is masked. Out-of-range cells report false.
func (k *Mask) Masked(i, j int) bool {
	if i < 0 || i >= k.r || j < 0 || j >= k.c {
		return false
	}
	return k.bits[i*k.c+j]
}

// Count returns the number of masked cells.
func (k *Mask) Count() int {
	n := 0
	for _, b := range k.bits {
		if b {
			n++
		}
	}
	return n
}

// And returns a mask that is set where both k and other are set.
func (k *Mask) And(other *Mask) (*Mask, error) {
	if other == nil || k.r != other.r || k.c != other.c {
		return nil, matrixErrorf("Mask.And", ErrDimensionMismatch)
	}
	out := &Mask{r: k.r, c: k.c, bits: make([]bool, len(k.bits))}
	for idx, b := range k.bits {
		out.bits[idx] = b && other.bits[idx]
	}
	return out, nil
}

// NewFullMask returns an r×c mask with every cell set to v.
func NewFullMask(rows, cols int, v bool) (*Mask, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	bits := make([]bool, rows*cols)
	if v {
		for i := range bits {
			bits[i] = true
		}
	}
	return &Mask{r: rows, c: cols, bits: bits}, nil
}

// maskOperand checks that mask conforms to d.
func maskOperand(tag string, d *Dense, mask *Mask) error {
	if mask == nil {
		return matrixErrorf(tag, ErrNilMatrix)
	}
	if mask.r != d.r || mask.c != d.c {
		return matrixErrorf(tag, ErrDimensionMismatch)
	}
	return nil
}

// ZeroMask returns the mask of cells whose value is exactly 0.
func ZeroMask(X Matrix) (*Mask, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opZeroMask, err)
	}
	d, err := asDense(X)
	if err != nil {
		return nil, matrixErrorf(opZeroMask, err)
	}
	out := &Mask{r: d.r, c: d.c, bits: make([]bool, len(d.data))}
	for idx, v := range d.data {
		out.bits[idx] = v == 0
	}

	return out, nil
}

// LogWhere returns ln(X) on unmasked cells and 0 on masked cells.
func LogWhere(X Matrix, mask *Mask) (*Dense, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opLogWhere, err)
	}
	d, err := asDense(X)
	if err != nil {
		return nil, matrixErrorf(opLogWhere, err)
	}
	if err = maskOperand(opLogWhere, d, mask); err != nil {
		return nil, err
	}
	out, err := NewDense(d.r, d.c)
	if err != nil {
		return nil, matrixErrorf(opLogWhere, err)
	}
	for idx, v := range d.data {
		if !mask.bits[idx] {
			out.data[idx] = math.Log(v)
		}
	}

	return out, nil
}

// ExpScaledWhere returns exp(theta*X) on unmasked cells and 0 on masked cells.
func ExpScaledWhere(X Matrix, theta float64, mask *Mask) (*Dense, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opExpWhere, err)
	}
	d, err := asDense(X)
	if err != nil {
		return nil, matrixErrorf(opExpWhere, err)
	}
	if err = maskOperand(opExpWhere, d, mask); err != nil {
		return nil, err
	}
	out, err := NewDense(d.r, d.c)
	if err != nil {
		return nil, matrixErrorf(opExpWhere, err)
	}
	for idx, v := range d.data {
		if !mask.bits[idx] {
			out.data[idx] = math.Exp(theta * v)
		}
	}

	return out, nil
}

// DivWhere returns a/b on unmasked cells and 0 on masked cells.
// An unmasked cell whose denominator is 0 also yields 0: a ratio with an empty
// denominator carries no probability mass.
func DivWhere(a, b Matrix, mask *Mask) (*Dense, error) {
	da, db, out, err := binaryOperands(opDivWhere, a, b)
	if err != nil {
		return nil, err
	}
	if err = maskOperand(opDivWhere, da, mask); err != nil {
		return nil, err
	}
	for idx, num := range da.data {
		if mask.bits[idx] {
			continue
		}
		if den := db.data[idx]; den != 0 {
			out.data[idx] = num / den
		}
	}

	return out, nil
}

// MaxWhere returns the cell-wise maximum over xs, taking xs[k] only where
// masks[k] is unset. Cells masked in every operand are 0.
//
// Errors:
//   - ErrInvalidDimensions (no operands or len(xs) != len(masks)).
//   - ErrNilMatrix, ErrDimensionMismatch.
func MaxWhere(xs []Matrix, masks []*Mask) (*Dense, error) {
	if len(xs) == 0 || len(xs) != len(masks) {
		return nil, matrixErrorf(opMaxWhere, ErrInvalidDimensions)
	}
	var out *Dense
	var seen []bool
	for k, x := range xs {
		if err := ValidateNotNil(x); err != nil {
			return nil, matrixErrorf(opMaxWhere, err)
		}
		d, err := asDense(x)
		if err != nil {
			return nil, matrixErrorf(opMaxWhere, err)
		}
		if out == nil {
			if out, err = NewDense(d.r, d.c); err != nil {
				return nil, matrixErrorf(opMaxWhere, err)
			}
			seen = make([]bool, len(out.data))
		}
		if err = ValidateSameShape(out, d); err != nil {
			return nil, matrixErrorf(opMaxWhere, err)
		}
		if err = maskOperand(opMaxWhere, d, masks[k]); err != nil {
			return nil, err
		}
		for idx, v := range d.data {
			if masks[k].bits[idx] {
				continue
			}
			if !seen[idx] || v > out.data[idx] {
				out.data[idx] = v
				seen[idx] = true
			}
		}
	}

	return out, nil
}
