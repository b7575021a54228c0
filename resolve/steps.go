// SPDX-License-Identifier: MIT

package resolve

import "github.com/katalvlaran/modesplit/matrix"

// SubstituteNoPath replaces transit in-vehicle times of exactly 0 with
// penalty. A zero in a transit skim means the path builder found no path;
// the penalty drives the mode's utility, and so its probability, toward zero
// for that pair. Nonzero cells, however small, are kept. The input is not
// modified.
func SubstituteNoPath(ivtt matrix.Matrix, penalty float64) (*matrix.Dense, error) {
	return matrix.ReplaceValue(ivtt, 0, penalty)
}

// SanitizeToll zeroes toll cells whose magnitude exceeds limit. Such values
// are same-zone artifacts of the highway skim. The input is not modified.
func SanitizeToll(toll matrix.Matrix, limit float64) (*matrix.Dense, error) {
	return matrix.ZeroWhereAbsAbove(toll, limit)
}
