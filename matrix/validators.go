// SPDX-License-Identifier: MIT

// Package matrix: shape and nil checks shared by the kernels and by callers
// aligning inputs to a zone system. Composite checks run NotNil before shape.
package matrix

import "fmt"

func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil rejects a nil Matrix, including a typed nil *Dense.
func ValidateNotNil(m Matrix) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}
	if d, ok := m.(*Dense); ok && d == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateSameShape ensures a and b have equal dimensions. Both must be non-nil.
func ValidateSameShape(a, b Matrix) error {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return validatorErrorf(
			fmt.Sprintf("ValidateSameShape: %d×%d vs %d×%d", a.Rows(), a.Cols(), b.Rows(), b.Cols()),
			ErrDimensionMismatch)
	}

	return nil
}

// ValidateBinarySameShape: NotNil(a) → NotNil(b) → SameShape.
func ValidateBinarySameShape(a, b Matrix) error {
	if err := ValidateNotNil(a); err != nil {
		return validatorErrorf("ValidateBinarySameShape", err)
	}
	if err := ValidateNotNil(b); err != nil {
		return validatorErrorf("ValidateBinarySameShape", err)
	}
	if err := ValidateSameShape(a, b); err != nil {
		return validatorErrorf("ValidateBinarySameShape", err)
	}

	return nil
}

// ValidateShape ensures m is non-nil and exactly rows×cols.
func ValidateShape(m Matrix, rows, cols int) error {
	if err := ValidateNotNil(m); err != nil {
		return validatorErrorf("ValidateShape", err)
	}
	if m.Rows() != rows || m.Cols() != cols {
		return validatorErrorf(
			fmt.Sprintf("ValidateShape: got %d×%d, want %d×%d", m.Rows(), m.Cols(), rows, cols),
			ErrDimensionMismatch)
	}

	return nil
}

// ValidateAtLeast ensures m is non-nil and covers at least rows×cols, so its
// top-left rows×cols block can be taken.
func ValidateAtLeast(m Matrix, rows, cols int) error {
	if err := ValidateNotNil(m); err != nil {
		return validatorErrorf("ValidateAtLeast", err)
	}
	if m.Rows() < rows || m.Cols() < cols {
		return validatorErrorf(
			fmt.Sprintf("ValidateAtLeast: got %d×%d, want %d×%d", m.Rows(), m.Cols(), rows, cols),
			ErrDimensionMismatch)
	}

	return nil
}
