// SPDX-License-Identifier: MIT

package report

import (
	"fmt"

	"github.com/katalvlaran/modesplit/mode"
	"github.com/katalvlaran/modesplit/result"
	"github.com/katalvlaran/modesplit/zone"
)

// Ridership is the number of transit trips by period.
type Ridership struct {
	Total    float64
	ByPeriod map[mode.Period]float64
}

// TransitRidership sums the trips of every transit mode over the computed
// purposes and segments, restricted to pairs (i, j) with from[i] and to[j].
// A nil selector selects every zone.
//
// Errors:
//   - ErrNilInput, ErrNoResults.
//   - mode.ErrUnknownMode for a trip table not in catalog.
//   - zone.ErrShapeTooSmall for a selector shorter than the zone count.
func TransitRidership(c *result.Container, catalog *mode.Catalog, from, to []bool) (*Ridership, error) {
	if c == nil || catalog == nil {
		return nil, ErrNilInput
	}
	purposes := c.Purposes()
	if len(purposes) == 0 {
		return nil, ErrNoResults
	}
	r := &Ridership{ByPeriod: map[mode.Period]float64{mode.Peak: 0, mode.OffPeak: 0}}
	for _, p := range purposes {
		segs, _ := c.Get(p)
		for _, key := range segmentKeys(segs) {
			seg, err := mode.ParseSegment(p, key)
			if err != nil {
				return nil, fmt.Errorf("TransitRidership: %w", err)
			}
			for _, m := range segs[key].Modes() {
				md, err := catalog.Lookup(m)
				if err != nil {
					return nil, fmt.Errorf("TransitRidership %s %s: %w", p, key, err)
				}
				if md.Class.Category() != mode.CategoryTransit {
					continue
				}
				tm := segs[key][m]
				if err = checkSelector(from, tm.Rows()); err != nil {
					return nil, fmt.Errorf("TransitRidership origins: %w", err)
				}
				if err = checkSelector(to, tm.Cols()); err != nil {
					return nil, fmt.Errorf("TransitRidership destinations: %w", err)
				}
				var sum float64
				for i := 0; i < tm.Rows(); i++ {
					if from != nil && !from[i] {
						continue
					}
					row, err := tm.Row(i)
					if err != nil {
						return nil, fmt.Errorf("TransitRidership %s %s %s: %w", p, key, m, err)
					}
					for j, v := range row {
						if to == nil || to[j] {
							sum += v
						}
					}
				}
				r.ByPeriod[seg.Period] += sum
				r.Total += sum
			}
		}
	}
	return r, nil
}

// GroupSelector marks the zones whose label is one of groups.
func GroupSelector(labels []string, groups ...string) []bool {
	want := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		want[g] = struct{}{}
	}
	out := make([]bool, len(labels))
	for i, l := range labels {
		_, out[i] = want[l]
	}
	return out
}

func checkSelector(sel []bool, n int) error {
	if sel != nil && len(sel) < n {
		return fmt.Errorf("got %d zones for %d: %w", len(sel), n, zone.ErrShapeTooSmall)
	}
	return nil
}
