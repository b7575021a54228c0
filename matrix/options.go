// SPDX-License-Identifier: MIT

// Package matrix: numeric policy defaults.
// These constants are the single source of truth for zero-value behavior.
package matrix

// Numeric policy.
const (
	// DefaultEpsilon is the tolerance used by AllClose callers that do not
	// supply their own (probability simplex checks use it).
	DefaultEpsilon = 1e-9

	// DefaultValidateNaNInf toggles strict finite-value validation in Set.
	// Kernels write the backing buffer directly and are not subject to it.
	DefaultValidateNaNInf = true
)
