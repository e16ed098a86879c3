// Package math32 provides float32 vector primitives for the embedding engine.
// This is an internal package - external users should not depend on it.
package math32

import "math"

// Axpy computes dst += alpha * x element-wise.
// Both slices must have the same length.
func Axpy(dst, x []float32, alpha float32) {
	for i := range dst {
		dst[i] += alpha * x[i]
	}
}

// Norm returns the Euclidean (L2) norm of a.
func Norm(a []float32) float32 {
	var sum float32
	for _, v := range a {
		sum += v * v
	}

	return float32(math.Sqrt(float64(sum)))
}

// ScaleInPlace multiplies all elements of a by scalar.
func ScaleInPlace(a []float32, scalar float32) {
	for i := range a {
		a[i] *= scalar
	}
}

// NormalizeL2InPlace rescales a to unit Euclidean norm.
// It reports false and leaves a unchanged when the norm is zero or not
// finite, so callers decide what a degenerate vector becomes.
func NormalizeL2InPlace(a []float32) bool {
	n := Norm(a)
	if n == 0 || math.IsNaN(float64(n)) || math.IsInf(float64(n), 0) {
		return false
	}

	ScaleInPlace(a, 1/n)

	return true
}

// Zero sets all elements of a to zero.
func Zero(a []float32) {
	for i := range a {
		a[i] = 0
	}
}
