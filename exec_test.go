package tilegemm

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarrierPhases(t *testing.T) {
	const parties = 16
	const phases = 50
	bar := newBarrier(parties)

	var counter int64
	var wg sync.WaitGroup
	for i := 0; i < parties; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := 0; p < phases; p++ {
				atomic.AddInt64(&counter, 1)
				bar.await()
				// After the barrier every party has bumped the counter
				// for this phase.
				got := atomic.LoadInt64(&counter)
				if got < int64((p+1)*parties) {
					t.Errorf("phase %d: counter %d, want >= %d", p, got, (p+1)*parties)
				}
				bar.await()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, int64(parties*phases), counter)
}

// markKernel writes each thread's global index, covering the grid.
type markKernel struct {
	buf  []int32
	grid Dim3
}

func (k *markKernel) spec() kernelSpec {
	return kernelSpec{name: "mark", grid: k.grid, block: Dim3{X: 64, Y: 1, Z: 1}}
}

func (k *markKernel) thread(t *Thread[float32]) {
	idx := t.ID.BlockIdx.X*t.ID.BlockDim.X + t.ID.ThreadIdx.X
	if idx < len(k.buf) {
		k.buf[idx]++
	}
}

func TestLaunchCoversGridOnce(t *testing.T) {
	ctx := NewContext()
	const n = 1000
	k := &markKernel{
		buf:  make([]int32, n),
		grid: Dim3{X: ceilDiv(n, 64), Y: 1, Z: 1},
	}
	require.NoError(t, launch[float32](ctx, k, ctx.defaultStream))
	for i, v := range k.buf {
		require.Equal(t, int32(1), v, "element %d", i)
	}
}

// stagingKernel exercises the STAGE → WAIT_COPY → BARRIER protocol:
// thread 0 stages a block of source data, then every thread checks it.
type stagingKernel struct {
	src  []float32
	bad  int64
	grid Dim3
}

func (k *stagingKernel) spec() kernelSpec {
	return kernelSpec{
		name:        "staging",
		grid:        k.grid,
		block:       Dim3{X: 32, Y: 1, Z: 1},
		sharedWords: len(k.src),
		cooperative: true,
	}
}

func (k *stagingKernel) thread(t *Thread[float32]) {
	if t.ID.ThreadIdx.X == 0 {
		t.CopyAsync(t.Shared, k.src)
	}
	t.WaitCopies()
	t.Sync()
	for i, v := range k.src {
		if t.Shared[i] != v {
			atomic.AddInt64(&k.bad, 1)
		}
	}
}

func TestAsyncCopyVisibleAfterBarrier(t *testing.T) {
	ctx := NewContext()
	src := make([]float32, 512)
	for i := range src {
		src[i] = float32(i) * 0.5
	}
	k := &stagingKernel{src: src, grid: Dim3{X: 16, Y: 1, Z: 1}}
	require.NoError(t, launch[float32](ctx, k, ctx.defaultStream))
	assert.Zero(t, k.bad, "staged data not visible after wait+barrier")
}

func TestZeroFill(t *testing.T) {
	ctx := NewContext()
	buf := make([]float32, 10000)
	for i := range buf {
		buf[i] = 3
	}
	require.NoError(t, ZeroFill(ctx, buf))
	for i, v := range buf {
		require.Zero(t, v, "element %d", i)
	}
	// Zero-length buffers are a no-op.
	require.NoError(t, ZeroFill(ctx, []float32{}))
}

func TestScratchPoolReuse(t *testing.T) {
	pool := newScratchPool[float32]()
	s := pool.get(256)
	require.Len(t, s, 256)
	pool.put(s)
	s2 := pool.get(128)
	require.Len(t, s2, 128)

	grabs, reuse := pool.stats()
	assert.Equal(t, int64(2), grabs)
	assert.Equal(t, int64(1), reuse, "second get should come from the free list")
}

// panicKernel dies on one thread of one block; the launch must report
// an execution error instead of deadlocking the block at its barrier.
type panicKernel struct{}

func (k *panicKernel) spec() kernelSpec {
	return kernelSpec{
		name:        "panic",
		grid:        Dim3{X: 2, Y: 1, Z: 1},
		block:       Dim3{X: 8, Y: 1, Z: 1},
		sharedWords: 8,
		cooperative: true,
	}
}

func (k *panicKernel) thread(t *Thread[float32]) {
	if t.ID.BlockIdx.X == 1 && t.ID.ThreadIdx.X == 3 {
		panic("kernel fault")
	}
	t.Sync()
}

func TestLaunchFailurePassedThrough(t *testing.T) {
	ctx := NewContext()
	err := launch[float32](ctx, &panicKernel{}, ctx.defaultStream)
	require.Error(t, err)
	assert.True(t, IsExecutionError(err), "got %v", err)
}

func TestStreamOrdering(t *testing.T) {
	ctx := NewContext()
	stream := ctx.CreateStream()

	var order []int
	for i := 0; i < 20; i++ {
		i := i
		stream.Submit(func() { order = append(order, i) })
	}
	stream.Synchronize()
	require.Len(t, order, 20)
	for i, v := range order {
		require.Equal(t, i, v)
	}
}

func TestDeviceProbe(t *testing.T) {
	d := probeDevice()
	require.NotNil(t, d)
	assert.Equal(t, WarpSize, d.WarpSize)
	assert.Greater(t, d.NumCores, 0)
	assert.NotEmpty(t, d.String())
}
