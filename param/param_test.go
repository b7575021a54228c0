// SPDX-License-Identifier: MIT

package param_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/modesplit/param"
)

func rows() []param.Row {
	return []param.Row{
		{Mode: "DA", Nest: "auto", Theta: 0.8, ASC: map[string]float64{"0_PK": 0, "1_PK": 0.5}, Coef: map[string]float64{"IVTT": -0.02, "Cost": -0.3}},
		{Mode: "SR2", Nest: "auto", Theta: 0.8, ASC: map[string]float64{"0_PK": -1, "1_PK": -0.5}, Coef: map[string]float64{"IVTT": -0.02}},
		{Mode: "Walk", Nest: "active", Theta: 1, ASC: map[string]float64{"0_PK": 1}, Coef: map[string]float64{"length": -1.5, "ignored": 9}},
	}
}

func TestNew_Accessors(t *testing.T) {
	t.Parallel()
	tbl, err := param.New("HBW", []string{"IVTT", "Cost", "length"}, rows())
	require.NoError(t, err)

	assert.Equal(t, "HBW", tbl.Purpose())
	assert.Equal(t, []string{"DA", "SR2", "Walk"}, tbl.Modes())
	assert.Equal(t, []string{"IVTT", "Cost", "length"}, tbl.Variables())

	nests, err := tbl.Nests([]string{"Walk", "DA", "SR2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"active", "auto"}, nests)

	theta, ok := tbl.Theta("auto")
	require.True(t, ok)
	assert.Equal(t, 0.8, theta)

	asc, err := tbl.ASC("SR2", "1_PK")
	require.NoError(t, err)
	assert.Equal(t, -0.5, asc)
	_, err = tbl.ASC("Walk", "1_PK")
	require.ErrorIs(t, err, param.ErrMissingASC)

	assert.Equal(t, -0.3, tbl.Coef("DA", "Cost"))
	assert.Zero(t, tbl.Coef("SR2", "Cost"))
	assert.Zero(t, tbl.Coef("Walk", "ignored"), "coefficients outside the variable list are dropped")

	require.ErrorIs(t, tbl.Require([]string{"DA", "Bike"}), param.ErrModeNotInTable)
	require.ErrorIs(t, tbl.Require([]string{"DA", "Walk", "DA"}), param.ErrDuplicateMode)
	require.ErrorIs(t, tbl.RequireASC([]string{"DA", "Walk"}, []string{"0_PK", "1_PK"}), param.ErrMissingASC)
	require.NoError(t, tbl.RequireASC([]string{"DA", "SR2"}, []string{"0_PK", "1_PK"}))
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		mutate func(r []param.Row) []param.Row
		want   error
	}{
		{"empty mode", func(r []param.Row) []param.Row { r[0].Mode = ""; return r }, param.ErrEmptyMode},
		{"empty nest", func(r []param.Row) []param.Row { r[2].Nest = ""; return r }, param.ErrEmptyNest},
		{"duplicate", func(r []param.Row) []param.Row { r[1].Mode = "DA"; return r }, param.ErrDuplicateMode},
		{"zero theta", func(r []param.Row) []param.Row { r[2].Theta = 0; return r }, param.ErrBadTheta},
		{"nan theta", func(r []param.Row) []param.Row { r[2].Theta = math.NaN(); return r }, param.ErrBadTheta},
		{"theta conflict", func(r []param.Row) []param.Row { r[1].Theta = 0.5; return r }, param.ErrThetaConflict},
		{"inf coef", func(r []param.Row) []param.Row { r[0].Coef["IVTT"] = math.Inf(-1); return r }, param.ErrBadValue},
		{"nan asc", func(r []param.Row) []param.Row { r[0].ASC["0_PK"] = math.NaN(); return r }, param.ErrBadValue},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := param.New("HBO", []string{"IVTT", "Cost", "length"}, tc.mutate(rows()))
			require.ErrorIs(t, err, tc.want)
		})
	}
}
