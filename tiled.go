package tilegemm

// Tile-size constants for the shared-memory tiled kernel.
const (
	tiledBM = 32
	tiledBN = 32
	tiledBK = 8
)

// tiledKernel introduces the staging protocol every later variant
// reuses. Per block, for each of ceil(K/BK) steps: cooperatively stage
// a BM×BK tile of A and a BK×BN tile of B into scratch, wait for the
// copies, barrier, accumulate from scratch, barrier again before the
// next step overwrites scratch. Each thread still owns one output
// element; the win is that every staged element is read BM (or BN)
// times from fast memory instead of bulk memory.
type tiledKernel[T Float] struct {
	c, a, b Matrix[T]
}

func (k *tiledKernel[T]) spec() kernelSpec {
	return kernelSpec{
		name:        "tiled",
		grid:        Dim3{X: ceilDiv(k.c.Cols, tiledBN), Y: ceilDiv(k.c.Rows, tiledBM), Z: 1},
		block:       Dim3{X: tiledBN, Y: tiledBM, Z: 1},
		sharedWords: tiledBM*tiledBK + tiledBK*tiledBN,
		cooperative: true,
	}
}

func (k *tiledKernel[T]) thread(t *Thread[T]) {
	tx := t.ID.ThreadIdx.X
	ty := t.ID.ThreadIdx.Y
	blockRow := t.ID.BlockIdx.Y * tiledBM
	blockCol := t.ID.BlockIdx.X * tiledBN
	row := blockRow + ty
	col := blockCol + tx

	as := t.Shared[:tiledBM*tiledBK]
	bs := t.Shared[tiledBM*tiledBK : tiledBM*tiledBK+tiledBK*tiledBN]

	inside := row < k.c.Rows && col < k.c.Cols

	var acc T
	for k0 := 0; k0 < k.a.Cols; k0 += tiledBK {
		stageTile(t, as, tiledBK, k.a, blockRow, k0, tiledBM, tiledBK)
		stageTile(t, bs, tiledBN, k.b, k0, blockCol, tiledBK, tiledBN)
		t.WaitCopies()
		t.Sync()

		if inside {
			for dot := 0; dot < tiledBK; dot++ {
				acc += as[ty*tiledBK+dot] * bs[dot*tiledBN+tx]
			}
		}
		// Keep fast threads from restaging over data slow threads
		// are still reading.
		t.Sync()
	}

	if inside {
		k.c.Data[row*k.c.Stride+col] += acc
	}
}
