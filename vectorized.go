package tilegemm

// vecWidth is the fixed lane-group width of the vectorized kernel:
// every staging copy and register transfer moves vecWidth contiguous
// elements at a time.
const vecWidth = 4

// vecBlockTileKernel runs the block-tiled algorithm with wide
// transfers. The staged copy of A is stored transposed (column-major)
// purely so that both its staging reads and the per-thread TM register
// loads stay contiguous lane groups; B stages and loads row-major as
// before. The arithmetic and summation order match blockTileKernel
// exactly, so outputs are numerically identical.
type vecBlockTileKernel[T Float] struct {
	c, a, b Matrix[T]
}

func (k *vecBlockTileKernel[T]) spec() kernelSpec {
	return blockTileSpec("block_tiled_vectorized", k.c.Layout())
}

func (k *vecBlockTileKernel[T]) thread(t *Thread[T]) {
	lin := t.ID.ThreadIdx.X
	threadCol := lin % (btBN / btTN)
	threadRow := lin / (btBN / btTN)
	blockRow := t.ID.BlockIdx.Y * btBM
	blockCol := t.ID.BlockIdx.X * btBN
	rowBase := blockRow + threadRow*btTM
	colBase := blockCol + threadCol*btTN

	// A's tile lives transposed: asT[dot*btBM+row] = A tile (row, dot).
	asT := t.Shared[:btBK*btBM]
	bs := t.Shared[btBK*btBM : btBK*btBM+btBK*btBN]

	var acc [btTM * btTN]T
	var regM [btTM]T
	var regN [btTN]T

	for k0 := 0; k0 < k.a.Cols; k0 += btBK {
		stageTileTransposedWide(t, asT, btBM, k.a, blockRow, k0, btBM, btBK, vecWidth)
		stageTileWide(t, bs, btBN, k.b, k0, blockCol, btBK, btBN, vecWidth)
		t.WaitCopies()
		t.Sync()

		for dot := 0; dot < btBK; dot++ {
			aRow := asT[dot*btBM+threadRow*btTM:]
			bRow := bs[dot*btBN+threadCol*btTN:]
			for i := 0; i < btTM; i += vecWidth {
				copy(regM[i:i+vecWidth], aRow[i:i+vecWidth])
			}
			for j := 0; j < btTN; j += vecWidth {
				copy(regN[j:j+vecWidth], bRow[j:j+vecWidth])
			}
			for i := 0; i < btTM; i++ {
				for j := 0; j < btTN; j++ {
					acc[i*btTN+j] += regM[i] * regN[j]
				}
			}
		}
		t.Sync()
	}

	// Wide read-modify-write of the destination tile, one lane group
	// at a time, clamped at the matrix edge.
	var group [vecWidth]T
	for i := 0; i < btTM; i++ {
		row := rowBase + i
		if row >= k.c.Rows {
			break
		}
		cRow := k.c.Data[row*k.c.Stride:]
		for j := 0; j < btTN; j += vecWidth {
			g := vecWidth
			if colBase+j+g > k.c.Cols {
				g = k.c.Cols - (colBase + j)
			}
			if g <= 0 {
				break
			}
			copy(group[:g], cRow[colBase+j:colBase+j+g])
			for l := 0; l < g; l++ {
				group[l] += acc[i*btTN+j+l]
			}
			copy(cRow[colBase+j:colBase+j+g], group[:g])
		}
	}
}
