// SPDX-License-Identifier: MIT

package resolve

import (
	"errors"
	"strings"
)

// Sentinel errors. Every failure returned by Resolve or Validate is an *Error
// that unwraps to one of these.
var (
	// ErrUnknownVariable indicates a variable with no rule row.
	ErrUnknownVariable = errors.New("resolve: unknown variable")

	// ErrUnknownMode indicates a mode missing from the catalog, or a class
	// without a rule for the variable.
	ErrUnknownMode = errors.New("resolve: unknown mode")

	// ErrMissingSkim indicates a skim field the rule needs is not loaded.
	ErrMissingSkim = errors.New("resolve: missing skim field")

	// ErrMissingOccupancy indicates no average occupancy for a drive mode.
	ErrMissingOccupancy = errors.New("resolve: missing average occupancy")

	// ErrMissingZonal indicates a zonal variable the rule needs was not derived.
	ErrMissingZonal = errors.New("resolve: missing zonal variable")
)

// Error locates a resolution failure.
type Error struct {
	Purpose  string
	Segment  string
	Mode     string
	Variable string
	Err      error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("resolve")
	for _, kv := range [][2]string{
		{"purpose", e.Purpose}, {"segment", e.Segment}, {"mode", e.Mode}, {"variable", e.Variable},
	} {
		if kv[1] != "" {
			sb.WriteString(" ")
			sb.WriteString(kv[0])
			sb.WriteString("=")
			sb.WriteString(kv[1])
		}
	}
	sb.WriteString(": ")
	sb.WriteString(e.Err.Error())
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }
