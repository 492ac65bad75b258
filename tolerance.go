// Package tilegemm tolerance-based verification for floating-point comparisons
package tilegemm

import (
	"fmt"
	"math"
)

// Tolerance defines tolerance parameters for floating-point comparison.
type Tolerance struct {
	// AbsTol is the absolute tolerance for values near zero
	AbsTol float64

	// RelTol is the relative tolerance as a fraction of the larger value
	RelTol float64

	// CheckNaN determines if NaN values should be considered equal
	CheckNaN bool

	// CheckInf determines if same-signed Inf values should be considered equal
	CheckInf bool
}

// DefaultTolerance returns the default tolerance configuration.
func DefaultTolerance() Tolerance {
	return Tolerance{
		AbsTol:   1e-6,
		RelTol:   1e-5,
		CheckNaN: true,
		CheckInf: true,
	}
}

// StrictTolerance returns a tolerance admitting only exact equality
// (modulo NaN/Inf matching). Used for variants that must reproduce the
// reference summation order bit for bit.
func StrictTolerance() Tolerance {
	return Tolerance{CheckNaN: true, CheckInf: true}
}

// RelaxedTolerance returns a relaxed tolerance for long accumulations.
func RelaxedTolerance() Tolerance {
	return Tolerance{
		AbsTol:   1e-4,
		RelTol:   1e-3,
		CheckNaN: true,
		CheckInf: true,
	}
}

// NearEqual checks if two values are equal within tolerance.
func NearEqual[T Float](a, b T, tol Tolerance) bool {
	fa, fb := float64(a), float64(b)

	if tol.CheckNaN && math.IsNaN(fa) && math.IsNaN(fb) {
		return true
	}
	if tol.CheckInf {
		if math.IsInf(fa, 1) && math.IsInf(fb, 1) {
			return true
		}
		if math.IsInf(fa, -1) && math.IsInf(fb, -1) {
			return true
		}
	}

	// Exact equality handles ±0.
	if fa == fb {
		return true
	}

	diff := math.Abs(fa - fb)
	if diff <= tol.AbsTol {
		return true
	}

	larger := math.Max(math.Abs(fa), math.Abs(fb))
	return diff <= larger*tol.RelTol
}

// MatricesNearEqual compares two matrices element by element and
// returns a description of the first mismatch, or "" when they match.
func MatricesNearEqual[T Float](got, want Matrix[T], tol Tolerance) string {
	if got.Rows != want.Rows || got.Cols != want.Cols {
		return fmt.Sprintf("shape mismatch: got %dx%d, want %dx%d",
			got.Rows, got.Cols, want.Rows, want.Cols)
	}
	for r := 0; r < got.Rows; r++ {
		for c := 0; c < got.Cols; c++ {
			if !NearEqual(got.At(r, c), want.At(r, c), tol) {
				return fmt.Sprintf("mismatch at (%d,%d): got %v, want %v",
					r, c, got.At(r, c), want.At(r, c))
			}
		}
	}
	return ""
}
