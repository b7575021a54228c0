// SPDX-License-Identifier: MIT

package nlogit_test

import (
	"fmt"

	"github.com/katalvlaran/modesplit/matrix"
	"github.com/katalvlaran/modesplit/mode"
	"github.com/katalvlaran/modesplit/nlogit"
	"github.com/katalvlaran/modesplit/param"
	"github.com/katalvlaran/modesplit/zone"
)

// costResolver returns a constant Cost per mode.
type costResolver struct {
	ix   zone.Index
	cost map[string]float64
}

func (c costResolver) Index() zone.Index { return c.ix }

func (c costResolver) Resolve(_ mode.Segment, _ string, m string) (*matrix.Dense, error) {
	return c.ix.Filled(c.cost[m])
}

// Two modes share one nest with θ = 1 and differ only in cost.
func ExampleSolve() {
	seg := mode.Segment{Purpose: mode.HBO, Period: mode.OffPeak, Autos: 1}
	row := func(name string) param.Row {
		return param.Row{Mode: name, Nest: "all", Theta: 1,
			ASC: map[string]float64{seg.Key(): 0}, Coef: map[string]float64{"Cost": -1}}
	}
	tbl, err := param.New(seg.Purpose, []string{"Cost"}, []param.Row{row("A"), row("B")})
	if err != nil {
		fmt.Println(err)
		return
	}
	r := costResolver{ix: zone.Index{N: 4}, cost: map[string]float64{"A": 2, "B": 4}}

	res, err := nlogit.Solve(r, seg, []string{"A", "B"}, tbl)
	if err != nil {
		fmt.Println(err)
		return
	}
	pa, _ := res.Probabilities["A"].At(3, 1)
	pb, _ := res.Probabilities["B"].At(0, 2)
	fmt.Printf("P(A)=%.4f P(B)=%.4f\n", pa, pb)
	// Output:
	// P(A)=0.8808 P(B)=0.1192
}
