package tilegemm

// Tile-size constants for the register-tiled kernel. Each thread owns
// a TM-long column slice of the block's output tile, so a block of
// BM*BN/TM threads covers BM×BN.
const (
	rtBM = 64
	rtBN = 64
	rtBK = 8
	rtTM = 8
)

// regTileKernel extends the tiled kernel with 1D register tiling:
// each staged B element is read once and amortized over TM
// accumulations. The accumulator is seeded from the thread's existing
// destination values before the K loop, and the terminal store
// overwrites the destination from the register tile; accumulation into
// the output happens only through the seed read.
type regTileKernel[T Float] struct {
	c, a, b Matrix[T]
}

func (k *regTileKernel[T]) spec() kernelSpec {
	return kernelSpec{
		name:        "tiled_register",
		grid:        Dim3{X: ceilDiv(k.c.Cols, rtBN), Y: ceilDiv(k.c.Rows, rtBM), Z: 1},
		block:       Dim3{X: rtBM * rtBN / rtTM, Y: 1, Z: 1},
		sharedWords: rtBM*rtBK + rtBK*rtBN,
		cooperative: true,
	}
}

func (k *regTileKernel[T]) thread(t *Thread[T]) {
	lin := t.ID.ThreadIdx.X
	threadCol := lin % rtBN
	threadRow := lin / rtBN
	blockRow := t.ID.BlockIdx.Y * rtBM
	blockCol := t.ID.BlockIdx.X * rtBN
	rowBase := blockRow + threadRow*rtTM
	col := blockCol + threadCol

	as := t.Shared[:rtBM*rtBK]
	bs := t.Shared[rtBM*rtBK : rtBM*rtBK+rtBK*rtBN]

	// Seed the register tile from the destination.
	var acc [rtTM]T
	if col < k.c.Cols {
		for i := 0; i < rtTM; i++ {
			if rowBase+i < k.c.Rows {
				acc[i] = k.c.At(rowBase+i, col)
			}
		}
	}

	for k0 := 0; k0 < k.a.Cols; k0 += rtBK {
		stageTile(t, as, rtBK, k.a, blockRow, k0, rtBM, rtBK)
		stageTile(t, bs, rtBN, k.b, k0, blockCol, rtBK, rtBN)
		t.WaitCopies()
		t.Sync()

		for dot := 0; dot < rtBK; dot++ {
			bv := bs[dot*rtBN+threadCol]
			for i := 0; i < rtTM; i++ {
				acc[i] += as[(threadRow*rtTM+i)*rtBK+dot] * bv
			}
		}
		t.Sync()
	}

	// Full overwrite from the register tile, not a second add.
	if col < k.c.Cols {
		for i := 0; i < rtTM; i++ {
			if rowBase+i < k.c.Rows {
				k.c.Set(rowBase+i, col, acc[i])
			}
		}
	}
}
