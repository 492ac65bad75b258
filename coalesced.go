package tilegemm

// coalescedKernel has the same arithmetic as naiveKernel; only the
// thread→(row,col) mapping is swapped so that lockstep neighbors
// (consecutive thread X) address consecutive output columns, and with
// them consecutive elements of each B row. The summation order is
// unchanged, so its output is bit-for-bit identical to the naive
// kernel's.
type coalescedKernel[T Float] struct {
	c, a, b Matrix[T]
}

func (k *coalescedKernel[T]) spec() kernelSpec {
	return kernelSpec{
		name:  "coalescing",
		grid:  Dim3{X: ceilDiv(k.c.Cols, naiveBN), Y: ceilDiv(k.c.Rows, naiveBM), Z: 1},
		block: Dim3{X: naiveBN, Y: naiveBM, Z: 1},
	}
}

func (k *coalescedKernel[T]) thread(t *Thread[T]) {
	row := t.ID.BlockIdx.Y*naiveBM + t.ID.ThreadIdx.Y
	col := t.ID.BlockIdx.X*naiveBN + t.ID.ThreadIdx.X
	if row >= k.c.Rows || col >= k.c.Cols {
		return
	}
	var acc T
	for kk := 0; kk < k.a.Cols; kk++ {
		acc += k.a.At(row, kk) * k.b.At(kk, col)
	}
	k.c.Data[row*k.c.Stride+col] += acc
}
