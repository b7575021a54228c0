// SPDX-License-Identifier: MIT

package resolve

import (
	"errors"
	"sort"

	"github.com/katalvlaran/modesplit/matrix"
	"github.com/katalvlaran/modesplit/mode"
	"github.com/katalvlaran/modesplit/param"
)

// Resolve returns the N×N matrix of variable for modeName in segment seg.
//
// Implementation:
//   - Stage 1: Look up the variable row (ErrUnknownVariable) and the mode (ErrUnknownMode).
//   - Stage 2: Dispatch on the mode's class; classes the variable does not
//     describe return the shared all-zero matrix.
//   - Stage 3: Assert the result is exactly N×N.
//
// Errors:
//   - *Error wrapping ErrUnknownVariable, ErrUnknownMode, ErrMissingSkim,
//     ErrMissingOccupancy, ErrMissingZonal, or a zone shape error.
//
// Determinism:
//   - Pure in the Context: the same call twice yields bit-identical matrices.
//
// The result may alias context storage and must not be modified.
func (c *Context) Resolve(seg mode.Segment, variable, modeName string) (*matrix.Dense, error) {
	wrap := func(err error) error {
		return &Error{Purpose: seg.Purpose, Segment: seg.Key(), Mode: modeName, Variable: variable, Err: err}
	}
	r, m, err := c.lookup(variable, modeName)
	if err != nil {
		return nil, wrap(err)
	}
	out, err := r(c, request{seg: seg, mode: m})
	if err != nil {
		return nil, wrap(err)
	}
	if err = c.ix.Check(out); err != nil {
		return nil, wrap(err)
	}
	return out, nil
}

func (c *Context) lookup(variable, modeName string) (rule, mode.Mode, error) {
	row, ok := rules[variable]
	if !ok {
		return nil, mode.Mode{}, ErrUnknownVariable
	}
	m, err := c.catalog.Lookup(modeName)
	if err != nil {
		return nil, mode.Mode{}, errors.Join(ErrUnknownMode, err)
	}
	r, ok := row[m.Class]
	if !ok {
		return nil, mode.Mode{}, ErrUnknownMode
	}
	if r == nil {
		r = zeroRule
	}
	return r, m, nil
}

// Applies reports whether variable contributes a non-zero rule for class.
func Applies(variable string, class mode.Class) bool {
	row, ok := rules[variable]
	if !ok {
		return false
	}
	r, ok := row[class]
	return ok && r != nil
}

// Variables returns the known variable names, sorted.
func Variables() []string {
	out := make([]string, 0, len(rules))
	for v := range rules {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Validate checks, without computing any matrix, that every (variable, mode)
// pair of table restricted to modes has a rule, and that every drive mode
// using Cost has an occupancy for the table's purpose. All problems are
// returned joined.
func (c *Context) Validate(table *param.Table, modes []string) error {
	var errs []error
	if err := table.Require(modes); err != nil {
		errs = append(errs, err)
	}
	for _, variable := range table.Variables() {
		for _, name := range modes {
			_, m, err := c.lookup(variable, name)
			if err != nil {
				errs = append(errs, &Error{Purpose: table.Purpose(), Mode: name, Variable: variable, Err: err})
				continue
			}
			if variable == Cost && m.Class == mode.Drive {
				if _, ok := c.Occupancy(table.Purpose(), name); !ok {
					errs = append(errs, &Error{Purpose: table.Purpose(), Mode: name, Variable: variable, Err: ErrMissingOccupancy})
				}
			}
		}
	}
	return errors.Join(errs...)
}
