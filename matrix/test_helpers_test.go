// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   • Provide small, deterministic fixtures for kernels.
//   • hide{} masks the concrete *Dense type to force the materializing path.

package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/modesplit/matrix"
)

// hide wraps any Matrix to hide its concrete type from type assertions.
type hide struct{ matrix.Matrix }

// NewFilledDense builds an r×c Dense from row-major values or fails the test.
func NewFilledDense(t *testing.T, r, c int, vals []float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFromData(r, c, vals)
	require.NoError(t, err)
	return m
}

// MustAt reads (i, j) or fails the test.
func MustAt(t *testing.T, m matrix.Matrix, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)
	return v
}

// requireCells compares every cell of m against want (row-major) within tol.
func requireCells(t *testing.T, m matrix.Matrix, want []float64, tol float64) {
	t.Helper()
	require.Equal(t, len(want), m.Rows()*m.Cols(), "cell count")
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			require.InDelta(t, want[i*m.Cols()+j], MustAt(t, m, i, j), tol, "cell (%d,%d)", i, j)
		}
	}
}
