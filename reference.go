// Package tilegemm reference implementation for verification
package tilegemm

// ReferenceGEMM accumulates a·b into dst with a sequential triple
// nested loop over (row, col, k): dst[row,col] += a[row,k]*b[k,col].
// No blocking, no parallelism. It is the tolerance oracle for every
// accelerator variant; the naive and coalescing kernels reproduce its
// summation order exactly.
//
// dst must be zeroed beforehand to obtain a plain product.
func ReferenceGEMM[T Float](dst, a, b Matrix[T]) {
	for row := 0; row < dst.Rows; row++ {
		for col := 0; col < dst.Cols; col++ {
			for k := 0; k < a.Cols; k++ {
				dst.Data[row*dst.Stride+col] += a.At(row, k) * b.At(k, col)
			}
		}
	}
}
