// SPDX-License-Identifier: MIT

// Package matrix provides the dense origin–destination matrix used across modesplit.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with safe At/Set accessors that return
//     errors instead of panicking.
//   - Element-wise kernels (Add, Hadamard, Scale, Exp, Sqrt, AddScaledInPlace)
//     with a flat-slice fast path backed by gonum/floats.
//   - Broadcast constructors (ExpandRows, ExpandCols) that turn a per-zone
//     vector into a production-side or attraction-side OD matrix.
//   - Masked kernels (ZeroMask, LogWhere, PowWhere, DivWhere) used by the
//     nested-logit solver to skip cells where a nest is unavailable.
//   - Cleaning kernels (ReplaceValue, ZeroWhereAbsAbove) for skim artifacts.
//
// All kernels allocate a fresh result and never mutate their operands, except
// the explicitly named *InPlace accumulators.
//
// Matrices here are square N×N in practice (N = zone count), but nothing in this
// package assumes squareness; the zone package owns that convention.
package matrix
