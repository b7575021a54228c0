// SPDX-License-Identifier: MIT

package nlogit_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/modesplit/matrix"
	"github.com/katalvlaran/modesplit/mode"
	"github.com/katalvlaran/modesplit/param"
	"github.com/katalvlaran/modesplit/zone"
)

// stubResolver serves fixed matrices keyed by variable and mode; anything
// else resolves to zeros, like a not-applicable rule.
type stubResolver struct {
	ix   zone.Index
	vals map[string]map[string]*matrix.Dense
	fail map[string]error
}

func newStub(n int) *stubResolver {
	return &stubResolver{ix: zone.Index{N: n}, vals: map[string]map[string]*matrix.Dense{}, fail: map[string]error{}}
}

func (s *stubResolver) Index() zone.Index { return s.ix }

func (s *stubResolver) Resolve(_ mode.Segment, variable, modeName string) (*matrix.Dense, error) {
	if err, ok := s.fail[variable+"/"+modeName]; ok {
		return nil, err
	}
	if m, ok := s.vals[variable][modeName]; ok {
		return m, nil
	}
	return s.ix.Zeros()
}

func (s *stubResolver) set(variable, modeName string, m *matrix.Dense) {
	if s.vals[variable] == nil {
		s.vals[variable] = map[string]*matrix.Dense{}
	}
	s.vals[variable][modeName] = m
}

func filled(t testing.TB, n int, v float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewFilled(n, n, v)
	require.NoError(t, err)
	return m
}

func fromData(t testing.TB, n int, data ...float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFromData(n, n, data)
	require.NoError(t, err)
	return m
}

func at(t testing.TB, m *matrix.Dense, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)
	return v
}

type rowDef struct {
	mode, nest string
	theta, asc float64
	coef       map[string]float64
}

var seg = mode.Segment{Purpose: mode.HBW, Period: mode.Peak, Autos: 0}

func table(t testing.TB, variables []string, rows ...rowDef) *param.Table {
	t.Helper()
	pr := make([]param.Row, len(rows))
	for i, r := range rows {
		pr[i] = param.Row{Mode: r.mode, Nest: r.nest, Theta: r.theta,
			ASC: map[string]float64{seg.Key(): r.asc}, Coef: r.coef}
	}
	tbl, err := param.New(seg.Purpose, variables, pr)
	require.NoError(t, err)
	return tbl
}

func cellName(i, j int) string { return fmt.Sprintf("(%d,%d)", i, j) }
