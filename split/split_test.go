// SPDX-License-Identifier: MIT

package split_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/modesplit/matrix"
	"github.com/katalvlaran/modesplit/split"
	"github.com/katalvlaran/modesplit/zone"
)

func filled(t *testing.T, r, c int, v float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewFilled(r, c, v)
	require.NoError(t, err)
	return m
}

func TestSplit_UniformShares(t *testing.T) {
	t.Parallel()
	ix := zone.Index{N: 3}
	trips, err := split.Split(ix, filled(t, 3, 3, 10), map[string]*matrix.Dense{
		"A": filled(t, 3, 3, 0.3),
		"B": filled(t, 3, 3, 0.7),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, trips.Modes())

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			a, _ := trips["A"].At(i, j)
			b, _ := trips["B"].At(i, j)
			assert.InDelta(t, 3.0, a, 1e-12)
			assert.InDelta(t, 7.0, b, 1e-12)
		}
	}
	sums, err := trips.Sums()
	require.NoError(t, err)
	assert.InDelta(t, 27.0, sums["A"], 1e-9)
}

func TestSplit_ConservesBaseTrips(t *testing.T) {
	t.Parallel()
	ix := zone.Index{N: 2}
	base, err := matrix.NewDenseFromRows([][]float64{{4, 8, 100}, {12, 16, 100}, {100, 100, 100}})
	require.NoError(t, err)
	// pair (1,1) has every nest masked: probabilities sum to 0 there
	pa, _ := matrix.NewDenseFromRows([][]float64{{0.25, 0.5}, {1, 0}})
	pb, _ := matrix.NewDenseFromRows([][]float64{{0.75, 0.5}, {0, 0}})

	trips, err := split.Split(ix, base, map[string]*matrix.Dense{"A": pa, "B": pb})
	require.NoError(t, err)
	total, err := trips.Total()
	require.NoError(t, err)

	want, _ := matrix.NewDenseFromRows([][]float64{{4, 8}, {12, 0}})
	ok, err := matrix.AllClose(total, want, 0, 1e-12)
	require.NoError(t, err)
	assert.True(t, ok, total.String())
}

func TestSplit_Errors(t *testing.T) {
	t.Parallel()
	ix := zone.Index{N: 2}
	_, err := split.Split(ix, filled(t, 2, 2, 1), nil)
	require.ErrorIs(t, err, split.ErrNoProbabilities)

	_, err = split.Split(ix, filled(t, 1, 2, 1), map[string]*matrix.Dense{"A": filled(t, 2, 2, 1)})
	require.ErrorIs(t, err, zone.ErrShapeTooSmall)

	_, err = split.Split(ix, filled(t, 2, 2, 1), map[string]*matrix.Dense{"A": filled(t, 3, 3, 1)})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = split.Trips{}.Total()
	require.ErrorIs(t, err, split.ErrNoProbabilities)
}
