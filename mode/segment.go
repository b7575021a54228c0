// SPDX-License-Identifier: MIT

package mode

import (
	"fmt"
	"strings"
)

// Period is the time-of-day slice whose skims a segment reads.
type Period string

const (
	Peak    Period = "PK"
	OffPeak Period = "OP"
)

// Valid reports whether p is PK or OP.
func (p Period) Valid() bool { return p == Peak || p == OffPeak }

// Travel purposes of the reference deployment, in run order.
const (
	HBW   = "HBW"
	HBO   = "HBO"
	NHB   = "NHB"
	HBSc1 = "HBSc1"
	HBSc2 = "HBSc2"
	HBSc3 = "HBSc3"
)

// DefaultPurposes returns the purposes of the reference deployment.
func DefaultPurposes() []string {
	return []string{HBW, HBO, NHB, HBSc1, HBSc2, HBSc3}
}

// Segment is one market segment inside a purpose: a period and a household
// auto-ownership class (0 = no vehicle, 1 = one or more).
type Segment struct {
	Purpose string
	Period  Period
	Autos   int
}

// Key returns the segment key used for ASC columns and result maps ("0_PK").
func (s Segment) Key() string { return fmt.Sprintf("%d_%s", s.Autos, s.Period) }

// String includes the purpose for diagnostics ("HBW/0_PK").
func (s Segment) String() string { return s.Purpose + "/" + s.Key() }

// TripTable returns the name of the segment's base trip matrix,
// e.g. "HBW_PK_0Auto" or "HBW_OP_wAuto".
func (s Segment) TripTable() string {
	own := "0Auto"
	if s.Autos > 0 {
		own = "wAuto"
	}
	return fmt.Sprintf("%s_%s_%s", s.Purpose, s.Period, own)
}

// ASCColumn is the parameter-table column holding the segment's constants.
func (s Segment) ASCColumn() string { return "ASC_" + s.Key() }

// ParseSegment parses a "<autos>_<period>" key for purpose.
func ParseSegment(purpose, key string) (Segment, error) {
	autos, period, ok := strings.Cut(key, "_")
	if !ok {
		return Segment{}, fmt.Errorf("ParseSegment %q: %w", key, ErrBadSegment)
	}
	p := Period(period)
	if !p.Valid() {
		return Segment{}, fmt.Errorf("ParseSegment %q: period: %w", key, ErrBadSegment)
	}
	switch autos {
	case "0":
		return Segment{Purpose: purpose, Period: p, Autos: 0}, nil
	case "1":
		return Segment{Purpose: purpose, Period: p, Autos: 1}, nil
	default:
		return Segment{}, fmt.Errorf("ParseSegment %q: autos: %w", key, ErrBadSegment)
	}
}

// SegmentKeys are the segment keys in run order.
var SegmentKeys = []string{"0_PK", "1_PK", "0_OP", "1_OP"}

// Segments returns the four segments of purpose in run order.
func Segments(purpose string) []Segment {
	return []Segment{
		{Purpose: purpose, Period: Peak, Autos: 0},
		{Purpose: purpose, Period: Peak, Autos: 1},
		{Purpose: purpose, Period: OffPeak, Autos: 0},
		{Purpose: purpose, Period: OffPeak, Autos: 1},
	}
}
