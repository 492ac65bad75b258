package tilegemm

// fillBlockSize is the flat block size for element-wise fill launches.
const fillBlockSize = 256

// fillKernel writes one value to one element per thread.
type fillKernel[T Float] struct {
	buf []T
	val T
}

func (k *fillKernel[T]) spec() kernelSpec {
	return kernelSpec{
		name:  "fill",
		grid:  Dim3{X: ceilDiv(len(k.buf), fillBlockSize), Y: 1, Z: 1},
		block: Dim3{X: fillBlockSize, Y: 1, Z: 1},
	}
}

func (k *fillKernel[T]) thread(t *Thread[T]) {
	idx := t.ID.BlockIdx.X*t.ID.BlockDim.X + t.ID.ThreadIdx.X
	if idx < len(k.buf) {
		k.buf[idx] = k.val
	}
}

// ZeroFill zero-fills a device-resident buffer through a kernel
// launch. The dispatcher uses it to clear the output before launching
// accumulation kernels; it is exported as part of the device contract.
func ZeroFill[T Float](ctx *Context, buf []T) error {
	return launch(ctx, &fillKernel[T]{buf: buf}, ctx.defaultStream)
}
