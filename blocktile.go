package tilegemm

// Tile-size constants for the 2D block-tiled kernel (and its
// vectorized twin). Each thread owns a TM×TN register tile, so a block
// of (BM/TM)*(BN/TN) threads covers BM×BN.
const (
	btBM = 64
	btBN = 64
	btBK = 8
	btTM = 8
	btTN = 8
)

// blockTileKernel generalizes register tiling to two dimensions. Per
// K step each thread loads a TM vector from staged A and a TN vector
// from staged B into registers, then accumulates their outer product
// into its TM×TN register tile. The per-thread inner loop is a small
// dense micro-kernel: more register pressure, far less scratch traffic
// per output element.
type blockTileKernel[T Float] struct {
	c, a, b Matrix[T]
}

func blockTileSpec(name string, c Layout) kernelSpec {
	return kernelSpec{
		name:        name,
		grid:        Dim3{X: ceilDiv(c.Cols, btBN), Y: ceilDiv(c.Rows, btBM), Z: 1},
		block:       Dim3{X: (btBM / btTM) * (btBN / btTN), Y: 1, Z: 1},
		sharedWords: btBM*btBK + btBK*btBN,
		cooperative: true,
	}
}

func (k *blockTileKernel[T]) spec() kernelSpec {
	return blockTileSpec("block_tiled", k.c.Layout())
}

func (k *blockTileKernel[T]) thread(t *Thread[T]) {
	lin := t.ID.ThreadIdx.X
	threadCol := lin % (btBN / btTN)
	threadRow := lin / (btBN / btTN)
	blockRow := t.ID.BlockIdx.Y * btBM
	blockCol := t.ID.BlockIdx.X * btBN
	rowBase := blockRow + threadRow*btTM
	colBase := blockCol + threadCol*btTN

	as := t.Shared[:btBM*btBK]
	bs := t.Shared[btBM*btBK : btBM*btBK+btBK*btBN]

	var acc [btTM * btTN]T
	var regM [btTM]T
	var regN [btTN]T

	for k0 := 0; k0 < k.a.Cols; k0 += btBK {
		stageTile(t, as, btBK, k.a, blockRow, k0, btBM, btBK)
		stageTile(t, bs, btBN, k.b, k0, blockCol, btBK, btBN)
		t.WaitCopies()
		t.Sync()

		for dot := 0; dot < btBK; dot++ {
			for i := 0; i < btTM; i++ {
				regM[i] = as[(threadRow*btTM+i)*btBK+dot]
			}
			for j := 0; j < btTN; j++ {
				regN[j] = bs[dot*btBN+threadCol*btTN+j]
			}
			// Rank-1 update of the register tile.
			for i := 0; i < btTM; i++ {
				for j := 0; j < btTN; j++ {
					acc[i*btTN+j] += regM[i] * regN[j]
				}
			}
		}
		t.Sync()
	}

	for i := 0; i < btTM; i++ {
		row := rowBase + i
		if row >= k.c.Rows {
			break
		}
		for j := 0; j < btTN; j++ {
			col := colBase + j
			if col >= k.c.Cols {
				break
			}
			k.c.Data[row*k.c.Stride+col] += acc[i*btTN+j]
		}
	}
}
