// SPDX-License-Identifier: MIT

package report

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/modesplit/mode"
)

var (
	// ErrNoResults indicates a summary over a container with no computed purpose.
	ErrNoResults = errors.New("report: no computed purpose")

	// ErrNilInput indicates a nil container, skim reader or catalog.
	ErrNilInput = errors.New("report: nil input")
)

// DefaultAutoModes are the modes whose trips travel in road vehicles.
var DefaultAutoModes = []string{mode.DA, mode.SR2, mode.SR3, mode.SMRA, mode.SMSH}

// Breakdown splits a travel summary into parts by one segment dimension.
type Breakdown int

// Breakdown dimensions.
const (
	// NoBreakdown reports totals only.
	NoBreakdown Breakdown = iota
	// ByPeriod keys parts by "PK" and "OP".
	ByPeriod
	// ByOwnership keys parts by "0" (no car) and "1" (with car).
	ByOwnership
	// ByPurpose keys parts by trip purpose.
	ByPurpose
)

// key returns the part key of seg, or "" for NoBreakdown.
func (b Breakdown) key(seg mode.Segment) string {
	switch b {
	case ByPeriod:
		return string(seg.Period)
	case ByOwnership:
		return fmt.Sprintf("%d", seg.Autos)
	case ByPurpose:
		return seg.Purpose
	default:
		return ""
	}
}

type options struct {
	groups    []string
	autoModes []string
	breakdown Breakdown
}

func defaultOptions() options {
	return options{autoModes: DefaultAutoModes}
}

// Option configures a travel or category summary.
type Option func(*options)

// WithZoneGroups labels each zone with a group (a neighborhood, a town) and
// adds per-group marginals. labels[i] belongs to zone i; extra labels are
// ignored and an empty label keeps the zone out of every group.
func WithZoneGroups(labels []string) Option {
	return func(o *options) {
		o.groups = append([]string(nil), labels...)
	}
}

// WithAutoModes replaces DefaultAutoModes in VMT and PMT.
func WithAutoModes(modes ...string) Option {
	return func(o *options) {
		o.autoModes = append([]string(nil), modes...)
	}
}

// WithBreakdown adds per-part summaries to VMT and PMT, each with its own
// marginals and groups.
func WithBreakdown(b Breakdown) Option {
	return func(o *options) {
		o.breakdown = b
	}
}
