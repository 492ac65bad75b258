package tilegemm

// Cooperative staging of operand tiles into block-local scratch.
//
// Every thread of a block calls the same stage function with the same
// arguments; rows of the tile are dealt round-robin over the block's
// threads by linear thread id. Out-of-range source elements are
// zero-filled so edge blocks compute with padded operands. The caller
// follows the protocol: stage, WaitCopies, Sync, compute, Sync.

// stageTile copies the rows×cols window of src starting at (r0, c0)
// into dst, dstStride elements per staged row.
func stageTile[T Float](t *Thread[T], dst []T, dstStride int, src Matrix[T], r0, c0, rows, cols int) {
	lin := t.ID.Linear()
	threads := t.BlockThreads()
	for r := lin; r < rows; r += threads {
		drow := dst[r*dstStride : r*dstStride+cols]
		sr := r0 + r
		valid := 0
		if sr < src.Rows && c0 < src.Cols {
			valid = src.Cols - c0
			if valid > cols {
				valid = cols
			}
			off := sr*src.Stride + c0
			t.CopyAsync(drow[:valid], src.Data[off:off+valid])
		}
		for i := valid; i < cols; i++ {
			drow[i] = 0
		}
	}
}

// stageTileWide is stageTile with every copy issued as fixed-width
// groups of vw contiguous elements.
func stageTileWide[T Float](t *Thread[T], dst []T, dstStride int, src Matrix[T], r0, c0, rows, cols, vw int) {
	lin := t.ID.Linear()
	threads := t.BlockThreads()
	for r := lin; r < rows; r += threads {
		drow := dst[r*dstStride : r*dstStride+cols]
		sr := r0 + r
		valid := 0
		if sr < src.Rows && c0 < src.Cols {
			valid = src.Cols - c0
			if valid > cols {
				valid = cols
			}
			srow := src.Data[sr*src.Stride+c0:]
			for c := 0; c < valid; c += vw {
				g := vw
				if c+g > valid {
					g = valid - c
				}
				t.CopyAsync(drow[c:c+g], srow[c:c+g])
			}
		}
		for i := valid; i < cols; i++ {
			drow[i] = 0
		}
	}
}

// stageTileTransposedWide stages the rows×cols window of src in
// transposed (column-major) orientation: dst[c*dstStride+r] holds
// src(r0+r, c0+c). The source side of every transfer stays a wide
// contiguous group; only the scratch-side store scatters.
func stageTileTransposedWide[T Float](t *Thread[T], dst []T, dstStride int, src Matrix[T], r0, c0, rows, cols, vw int) {
	lin := t.ID.Linear()
	threads := t.BlockThreads()
	for r := lin; r < rows; r += threads {
		sr := r0 + r
		valid := 0
		if sr < src.Rows && c0 < src.Cols {
			valid = src.Cols - c0
			if valid > cols {
				valid = cols
			}
			srow := src.Data[sr*src.Stride+c0:]
			for c := 0; c < valid; c += vw {
				g := vw
				if c+g > valid {
					g = valid - c
				}
				t.CopyAsyncStrided(dst[c*dstStride+r:], dstStride, srow[c:c+g])
			}
		}
		for c := valid; c < cols; c++ {
			dst[c*dstStride+r] = 0
		}
	}
}
