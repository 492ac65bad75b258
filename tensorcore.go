package tilegemm

// Tile-size constants for the tensor-core kernel. A block covers
// BM×BN; each warp owns a WM×WN warp-tile of it and decomposes the
// work into fixed-shape mmaM×mmaN×mmaK instruction calls. WM, WN and
// the full K extent must be exact multiples of the matching MMA
// dimension; the dispatcher checks that before any launch.
const (
	tcBM = 64
	tcBN = 64
	tcBK = 16
	tcWM = 32
	tcWN = 32

	mmaM = 16
	mmaN = 8
	mmaK = 8
)

// fragment is the fixed-shape accumulator register format of one MMA
// tile. A warp holds its fragments across the entire K loop and
// unpacks them into the output tile exactly once, after the loop.
type fragment[T Float] struct {
	d [mmaM * mmaN]T
}

// mmaSync performs one fixed-shape matrix-multiply-accumulate:
// acc += aTile(mmaM×mmaK) · bTile(mmaK×mmaN), operands register- or
// scratch-resident with row strides lda and ldb.
func mmaSync[T Float](acc *fragment[T], aTile []T, lda int, bTile []T, ldb int) {
	for i := 0; i < mmaM; i++ {
		for j := 0; j < mmaN; j++ {
			var sum T
			for kk := 0; kk < mmaK; kk++ {
				sum += aTile[i*lda+kk] * bTile[kk*ldb+j]
			}
			acc.d[i*mmaN+j] += sum
		}
	}
}

// tensorCoreKernel maps each warp to a WM×WN warp-tile. Per K block of
// width BK the operand tiles are staged once into scratch, then sliced
// into MMA-shaped fragments and fed to mmaSync. All threads of the
// block cooperate in staging and barriers; lane 0 drives its warp's
// MMA issue, and each output element is written by exactly one warp.
type tensorCoreKernel[T Float] struct {
	c, a, b Matrix[T]
}

func (k *tensorCoreKernel[T]) spec() kernelSpec {
	return kernelSpec{
		name:        "tensor_core",
		grid:        Dim3{X: ceilDiv(k.c.Cols, tcBN), Y: ceilDiv(k.c.Rows, tcBM), Z: 1},
		block:       Dim3{X: (tcBM / tcWM) * (tcBN / tcWN) * WarpSize, Y: 1, Z: 1},
		sharedWords: tcBM*tcBK + tcBK*tcBN,
		cooperative: true,
	}
}

func (k *tensorCoreKernel[T]) thread(t *Thread[T]) {
	lin := t.ID.ThreadIdx.X
	warpID := lin / WarpSize
	lane := lin % WarpSize
	warpRow := warpID / (tcBN / tcWN)
	warpCol := warpID % (tcBN / tcWN)
	blockRow := t.ID.BlockIdx.Y * tcBM
	blockCol := t.ID.BlockIdx.X * tcBN

	as := t.Shared[:tcBM*tcBK]
	bs := t.Shared[tcBM*tcBK : tcBM*tcBK+tcBK*tcBN]

	// Accumulator fragments for the warp's WM/mmaM × WN/mmaN grid of
	// MMA tiles, held across the whole K loop.
	var frags [tcWM / mmaM][tcWN / mmaN]fragment[T]

	for k0 := 0; k0 < k.a.Cols; k0 += tcBK {
		stageTile(t, as, tcBK, k.a, blockRow, k0, tcBM, tcBK)
		stageTile(t, bs, tcBN, k.b, k0, blockCol, tcBK, tcBN)
		t.WaitCopies()
		t.Sync()

		if lane == 0 {
			for kk := 0; kk < tcBK; kk += mmaK {
				for mi := 0; mi < tcWM/mmaM; mi++ {
					aOff := (warpRow*tcWM + mi*mmaM) * tcBK
					for ni := 0; ni < tcWN/mmaN; ni++ {
						bOff := kk*tcBN + warpCol*tcWN + ni*mmaN
						mmaSync(&frags[mi][ni], as[aOff+kk:], tcBK, bs[bOff:], tcBN)
					}
				}
			}
		}
		t.Sync()
	}

	if lane != 0 {
		return
	}
	// Unpack the fragments into the output warp-tile, once.
	for mi := 0; mi < tcWM/mmaM; mi++ {
		for ni := 0; ni < tcWN/mmaN; ni++ {
			frag := &frags[mi][ni]
			for i := 0; i < mmaM; i++ {
				row := blockRow + warpRow*tcWM + mi*mmaM + i
				if row >= k.c.Rows {
					break
				}
				for j := 0; j < mmaN; j++ {
					col := blockCol + warpCol*tcWN + ni*mmaN + j
					if col >= k.c.Cols {
						break
					}
					k.c.Data[row*k.c.Stride+col] += frag.d[i*mmaN+j]
				}
			}
		}
	}
}
