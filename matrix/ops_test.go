// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/modesplit/matrix"
)

// --- linear --------------------------------------------------------------------

func TestAddSubHadamard_FastAndFallback_Match(t *testing.T) {
	t.Parallel()
	a := NewFilledDense(t, 2, 2, []float64{1, 2, 3, 4})
	b := NewFilledDense(t, 2, 2, []float64{10, 20, 30, 40})

	cases := []struct {
		name string
		op   func(x, y matrix.Matrix) (*matrix.Dense, error)
		want []float64
	}{
		{"Add", matrix.Add, []float64{11, 22, 33, 44}},
		{"Sub", matrix.Sub, []float64{-9, -18, -27, -36}},
		{"Hadamard", matrix.Hadamard, []float64{10, 40, 90, 160}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			fast, err := tc.op(a, b)
			require.NoError(t, err)
			slow, err := tc.op(hide{a}, b)
			require.NoError(t, err)
			requireCells(t, fast, tc.want, 0)
			requireCells(t, slow, tc.want, 0)
		})
	}
}

func TestBinary_DimensionMismatch(t *testing.T) {
	t.Parallel()
	a := NewFilledDense(t, 2, 2, []float64{1, 2, 3, 4})
	b := NewFilledDense(t, 1, 2, []float64{1, 2})
	_, err := matrix.Add(a, b)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.Hadamard(a, nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestScaleAndAddScalar(t *testing.T) {
	t.Parallel()
	a := NewFilledDense(t, 1, 3, []float64{1, -2, 4})
	s, err := matrix.Scale(a, 0.5)
	require.NoError(t, err)
	requireCells(t, s, []float64{0.5, -1, 2}, 0)

	p, err := matrix.AddScalar(a, 3)
	require.NoError(t, err)
	requireCells(t, p, []float64{4, 1, 7}, 0)

	// operands are never mutated
	requireCells(t, a, []float64{1, -2, 4}, 0)
}

func TestAddScaledInPlace_Accumulates(t *testing.T) {
	t.Parallel()
	acc, err := matrix.NewFilled(1, 2, 1)
	require.NoError(t, err)
	require.NoError(t, matrix.AddScaledInPlace(acc, -2, NewFilledDense(t, 1, 2, []float64{3, 4})))
	require.NoError(t, matrix.AddInPlace(acc, NewFilledDense(t, 1, 2, []float64{1, 1})))
	requireCells(t, acc, []float64{-4, -6}, 0)

	err = matrix.AddScaledInPlace(acc, 1, NewFilledDense(t, 2, 1, []float64{1, 1}))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestSums(t *testing.T) {
	t.Parallel()
	m := NewFilledDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})
	total, err := matrix.Sum(m)
	require.NoError(t, err)
	require.Equal(t, 21.0, total)

	rows, err := matrix.RowSums(m)
	require.NoError(t, err)
	require.Equal(t, []float64{6, 15}, rows)

	cols, err := matrix.ColSums(hide{m})
	require.NoError(t, err)
	require.Equal(t, []float64{5, 7, 9}, cols)
}

// --- element-wise ----------------------------------------------------------------

func TestExpSqrt(t *testing.T) {
	t.Parallel()
	m := NewFilledDense(t, 1, 3, []float64{0, 1, 4})
	e, err := matrix.Exp(m)
	require.NoError(t, err)
	requireCells(t, e, []float64{1, math.E, math.Exp(4)}, 1e-12)

	s, err := matrix.Sqrt(m)
	require.NoError(t, err)
	requireCells(t, s, []float64{0, 1, 2}, 0)

	under, err := matrix.Exp(NewFilledDense(t, 1, 1, []float64{-1e6}))
	require.NoError(t, err)
	require.Equal(t, 0.0, MustAt(t, under, 0, 0), "exp underflow must be exactly zero")
}

func TestReplaceValue_OnlyExactMatches(t *testing.T) {
	t.Parallel()
	m := NewFilledDense(t, 1, 4, []float64{0, 1e-12, 5, 0})
	out, err := matrix.ReplaceValue(m, 0, 1e4)
	require.NoError(t, err)
	requireCells(t, out, []float64{1e4, 1e-12, 5, 1e4}, 0)
	requireCells(t, m, []float64{0, 1e-12, 5, 0}, 0)
}

func TestZeroWhereAbsAbove(t *testing.T) {
	t.Parallel()
	m := NewFilledDense(t, 1, 5, []float64{2, 1e6, 1e6 + 1, -1e7, 3.5})
	out, err := matrix.ZeroWhereAbsAbove(m, 1e6)
	require.NoError(t, err)
	requireCells(t, out, []float64{2, 1e6, 0, 0, 3.5}, 0)

	_, err = matrix.ZeroWhereAbsAbove(m, math.NaN())
	require.ErrorIs(t, err, matrix.ErrNaNInf)
}

func TestExpandRowsCols(t *testing.T) {
	t.Parallel()
	v := []float64{1, 2, 3}
	prod, err := matrix.ExpandRows(v, 3)
	require.NoError(t, err)
	requireCells(t, prod, []float64{1, 1, 1, 2, 2, 2, 3, 3, 3}, 0)

	attr, err := matrix.ExpandCols(v, 2)
	require.NoError(t, err)
	requireCells(t, attr, []float64{1, 2, 3, 1, 2, 3}, 0)

	_, err = matrix.ExpandRows(nil, 3)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

func TestAllClose(t *testing.T) {
	t.Parallel()
	a := NewFilledDense(t, 1, 2, []float64{1, 2})
	b := NewFilledDense(t, 1, 2, []float64{1 + 1e-12, 2})
	ok, err := matrix.AllClose(a, b, 0, 1e-9)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = matrix.AllClose(a, NewFilledDense(t, 1, 2, []float64{1, 3}), 0, 1e-9)
	require.NoError(t, err)
	require.False(t, ok)
}

// --- masked ----------------------------------------------------------------------

func TestMaskedKernels(t *testing.T) {
	t.Parallel()
	s := NewFilledDense(t, 2, 2, []float64{0, math.E, 1, 0})
	mask, err := matrix.ZeroMask(s)
	require.NoError(t, err)
	require.Equal(t, 2, mask.Count())
	require.True(t, mask.Masked(0, 0))
	require.False(t, mask.Masked(0, 1))
	require.False(t, mask.Masked(5, 5))

	l, err := matrix.LogWhere(s, mask)
	require.NoError(t, err)
	requireCells(t, l, []float64{0, 1, 0, 0}, 1e-15)

	w, err := matrix.ExpScaledWhere(l, 0.5, mask)
	require.NoError(t, err)
	requireCells(t, w, []float64{0, math.Exp(0.5), 1, 0}, 1e-15)

	num := NewFilledDense(t, 2, 2, []float64{3, 2, 1, 5})
	den := NewFilledDense(t, 2, 2, []float64{0, 4, 0, 0})
	q, err := matrix.DivWhere(num, den, mask)
	require.NoError(t, err)
	// masked cells and zero denominators both yield 0, never NaN
	requireCells(t, q, []float64{0, 0.5, 0, 0}, 0)
}

func TestMask_ShapeMismatch(t *testing.T) {
	t.Parallel()
	mask, err := matrix.NewFullMask(1, 1, true)
	require.NoError(t, err)
	_, err = matrix.LogWhere(NewFilledDense(t, 1, 2, []float64{1, 1}), mask)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	other, err := matrix.NewFullMask(1, 1, false)
	require.NoError(t, err)
	both, err := mask.And(other)
	require.NoError(t, err)
	require.Equal(t, 0, both.Count())
}

func TestMaxWhere(t *testing.T) {
	t.Parallel()
	a := NewFilledDense(t, 2, 2, []float64{-5, 3, 7, 1})
	b := NewFilledDense(t, 2, 2, []float64{-2, 9, -1, 4})
	ma, err := matrix.ZeroMask(NewFilledDense(t, 2, 2, []float64{1, 1, 1, 0}))
	require.NoError(t, err)
	mb, err := matrix.ZeroMask(NewFilledDense(t, 2, 2, []float64{1, 0, 1, 0}))
	require.NoError(t, err)

	out, err := matrix.MaxWhere([]matrix.Matrix{a, b}, []*matrix.Mask{ma, mb})
	require.NoError(t, err)
	// cell 1 takes a despite b being larger; cell 3 is masked everywhere
	requireCells(t, out, []float64{-2, 3, 7, 0}, 0)

	_, err = matrix.MaxWhere(nil, nil)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
	_, err = matrix.MaxWhere([]matrix.Matrix{a}, []*matrix.Mask{ma, mb})
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
	small, err := matrix.NewFullMask(1, 1, false)
	require.NoError(t, err)
	_, err = matrix.MaxWhere([]matrix.Matrix{a}, []*matrix.Mask{small})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}
