package tilegemm

// Tile-size constants shared by the naive and coalescing kernels. One
// thread computes one output element; a block covers a BM×BN tile.
const (
	naiveBM = 32
	naiveBN = 32
)

// naiveKernel is the baseline accelerator variant: each thread
// accumulates the full K-dimension dot product for its element,
// reading both operands from bulk memory on every step. Thread X walks
// output rows, so lockstep neighbors hit addresses a full stride
// apart: every step costs one memory transaction per thread.
type naiveKernel[T Float] struct {
	c, a, b Matrix[T]
}

func (k *naiveKernel[T]) spec() kernelSpec {
	return kernelSpec{
		name:  "naive",
		grid:  Dim3{X: ceilDiv(k.c.Cols, naiveBN), Y: ceilDiv(k.c.Rows, naiveBM), Z: 1},
		block: Dim3{X: naiveBM, Y: naiveBN, Z: 1},
	}
}

func (k *naiveKernel[T]) thread(t *Thread[T]) {
	row := t.ID.BlockIdx.Y*naiveBM + t.ID.ThreadIdx.X
	col := t.ID.BlockIdx.X*naiveBN + t.ID.ThreadIdx.Y
	if row >= k.c.Rows || col >= k.c.Cols {
		return
	}
	var acc T
	for kk := 0; kk < k.a.Cols; kk++ {
		acc += k.a.At(row, kk) * k.b.At(kk, col)
	}
	k.c.Data[row*k.c.Stride+col] += acc
}
