package tilegemm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNearEqual(t *testing.T) {
	tol := DefaultTolerance()

	assert.True(t, NearEqual[float32](1.0, 1.0, tol))
	assert.True(t, NearEqual[float32](0, -0, tol))
	assert.True(t, NearEqual[float32](1e-8, 0, tol), "within absolute tolerance")
	assert.True(t, NearEqual[float32](1000.0, 1000.001, tol), "within relative tolerance")
	assert.False(t, NearEqual[float32](1.0, 1.1, tol))

	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	assert.True(t, NearEqual(nan, nan, tol))
	assert.True(t, NearEqual(inf, inf, tol))
	assert.False(t, NearEqual(inf, float32(math.Inf(-1)), tol))
	assert.False(t, NearEqual(nan, 0, tol))
}

func TestStrictToleranceIsExact(t *testing.T) {
	tol := StrictTolerance()
	assert.True(t, NearEqual[float64](2.5, 2.5, tol))
	assert.False(t, NearEqual[float64](2.5, 2.5000001, tol))
}

func TestMatricesNearEqual(t *testing.T) {
	a := NewMatrix[float32](2, 2)
	b := NewMatrix[float32](2, 2)
	assert.Empty(t, MatricesNearEqual(a, b, DefaultTolerance()))

	b.Set(1, 0, 3)
	msg := MatricesNearEqual(a, b, DefaultTolerance())
	assert.Contains(t, msg, "(1,0)")

	c := NewMatrix[float32](2, 3)
	assert.Contains(t, MatricesNearEqual(a, c, DefaultTolerance()), "shape mismatch")
}
