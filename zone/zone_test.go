// SPDX-License-Identifier: MIT

package zone_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/modesplit/matrix"
	"github.com/katalvlaran/modesplit/zone"
)

func TestNew_Invalid(t *testing.T) {
	t.Parallel()
	_, err := zone.New(0)
	require.ErrorIs(t, err, zone.ErrInvalidIndex)

	ix, err := zone.New(zone.ReferenceZones)
	require.NoError(t, err)
	require.Equal(t, zone.ReferenceZones*zone.ReferenceZones, ix.Cells())
}

func TestFit_ExactIsIdentity(t *testing.T) {
	t.Parallel()
	ix := zone.Index{N: 2}
	m, err := matrix.NewFilled(2, 2, 3)
	require.NoError(t, err)
	out, err := ix.Fit(m)
	require.NoError(t, err)
	require.Same(t, m, out)
}

func TestFit_TruncatesWider(t *testing.T) {
	t.Parallel()
	ix := zone.Index{N: 2}
	m, err := matrix.NewDenseFromRows([][]float64{
		{1, 2, 99},
		{3, 4, 99},
		{99, 99, 99},
	})
	require.NoError(t, err)
	out, err := ix.Fit(m)
	require.NoError(t, err)
	require.NoError(t, ix.Check(out))
	want, _ := matrix.NewDenseFromRows([][]float64{{1, 2}, {3, 4}})
	require.Equal(t, want, out)
}

func TestFit_RejectsNarrower(t *testing.T) {
	t.Parallel()
	ix := zone.Index{N: 3}
	for _, shape := range [][2]int{{2, 3}, {3, 2}, {2, 5}} {
		m, err := matrix.NewDense(shape[0], shape[1])
		require.NoError(t, err)
		_, err = ix.Fit(m)
		require.ErrorIs(t, err, zone.ErrShapeTooSmall)
		require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()
	ix := zone.Index{N: 2}
	m, _ := matrix.NewDense(3, 3)
	require.ErrorIs(t, ix.Check(m), matrix.ErrDimensionMismatch)
	require.ErrorIs(t, ix.Check(nil), matrix.ErrNilMatrix)
}

func TestExpand_ProductionAttraction(t *testing.T) {
	t.Parallel()
	ix := zone.Index{N: 2}
	v := []float64{5, 7, 1000} // trailing value beyond the zone system is dropped

	prod, err := ix.ExpandProduction(v)
	require.NoError(t, err)
	want, _ := matrix.NewDenseFromRows([][]float64{{5, 5}, {7, 7}})
	require.Equal(t, want, prod)

	attr, err := ix.ExpandAttraction(v)
	require.NoError(t, err)
	want, _ = matrix.NewDenseFromRows([][]float64{{5, 7}, {5, 7}})
	require.Equal(t, want, attr)

	_, err = ix.ExpandProduction([]float64{1})
	require.ErrorIs(t, err, zone.ErrShapeTooSmall)
}
