package tilegemm

import (
	"sync"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// kernelSpec fixes the launch geometry of one kernel variant. Grid and
// block dimensions derive from the variant's tile-size constants, never
// from runtime tuning.
type kernelSpec struct {
	name        string
	grid        Dim3
	block       Dim3
	sharedWords int  // block-local scratch size in elements
	cooperative bool // threads need barriers and async staging
}

// blockKernel is a kernel variant specialized for element type T.
// thread is the per-thread body; it runs once for every thread of
// every block in the grid.
type blockKernel[T Float] interface {
	spec() kernelSpec
	thread(t *Thread[T])
}

// Thread carries one thread's view of the execution hierarchy: its
// coordinates, the block's shared scratch memory, the block barrier,
// and its private async-copy state.
//
// The only suspension points a kernel body may use are WaitCopies and
// Sync. Shared scratch must not be read until the writing threads have
// called WaitCopies and the whole block has passed a Sync.
type Thread[T Float] struct {
	ID     ThreadID
	Shared []T
	bar    *barrier
	copies sync.WaitGroup
}

// BlockThreads returns the number of threads in this thread's block.
func (t *Thread[T]) BlockThreads() int {
	return t.ID.BlockDim.Size()
}

// Sync blocks until every thread of the block has reached the same
// barrier point.
func (t *Thread[T]) Sync() {
	t.bar.await()
}

// CopyAsync starts an asynchronous copy of src into dst and returns
// immediately. The copy is only guaranteed complete after this thread
// calls WaitCopies; other threads additionally need a Sync before the
// data is visible to them.
func (t *Thread[T]) CopyAsync(dst, src []T) {
	t.copies.Add(1)
	go func() {
		copy(dst, src)
		t.copies.Done()
	}()
}

// CopyAsyncStrided is CopyAsync with a strided destination:
// dst[i*stride] = src[i]. Used for transposed staging, where a wide
// contiguous read scatters into column-major scratch.
func (t *Thread[T]) CopyAsyncStrided(dst []T, stride int, src []T) {
	t.copies.Add(1)
	go func() {
		for i, v := range src {
			dst[i*stride] = v
		}
		t.copies.Done()
	}()
}

// WaitCopies blocks until all copies issued by this thread have
// completed.
func (t *Thread[T]) WaitCopies() {
	t.copies.Wait()
}

// launch enqueues a full-grid sweep of the kernel on the stream and
// waits for it, returning any failure the device reported.
func launch[T Float](ctx *Context, k blockKernel[T], stream *Stream) error {
	sp := k.spec()
	klog.V(2).Infof("launch %s: grid=%v block=%v shared=%d words",
		sp.name, sp.grid, sp.block, sp.sharedWords)
	errc := make(chan error, 1)
	stream.Submit(func() {
		errc <- sweepGrid(ctx, k, sp)
	})
	return <-errc
}

// sweepGrid executes every block of the grid, spreading blocks over a
// span of workers. Blocks are independently scheduled: there is no
// ordering guarantee and no synchronization between them.
func sweepGrid[T Float](ctx *Context, k blockKernel[T], sp kernelSpec) error {
	gridSize := sp.grid.Size()
	blockSize := sp.block.Size()
	if gridSize == 0 || blockSize == 0 {
		return nil
	}

	workers := ctx.workers
	if workers > gridSize {
		workers = gridSize
	}
	span := ceilDiv(gridSize, workers)
	pool := newScratchPool[T]()

	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
	)
	record := func(err error) {
		errMu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		errMu.Unlock()
	}

	for w := 0; w < workers; w++ {
		start := w * span
		end := start + span
		if end > gridSize {
			end = gridSize
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for blockID := start; blockID < end; blockID++ {
				if err := runBlock(k, sp, linearTo3D(blockID, sp.grid), pool); err != nil {
					record(err)
				}
			}
		}(start, end)
	}
	wg.Wait()
	return firstErr
}

// runBlock executes one block. Simple kernels run their threads
// sequentially; cooperative kernels get one goroutine per thread so
// barriers and async staging behave like the hardware they model.
func runBlock[T Float](k blockKernel[T], sp kernelSpec, blockIdx Dim3, pool *scratchPool[T]) (err error) {
	blockSize := sp.block.Size()
	var shared []T
	if sp.sharedWords > 0 {
		shared = pool.get(sp.sharedWords)
		defer pool.put(shared)
	}

	tid := func(i int) ThreadID {
		return ThreadID{
			BlockIdx:  blockIdx,
			ThreadIdx: linearTo3D(i, sp.block),
			BlockDim:  sp.block,
			GridDim:   sp.grid,
		}
	}

	if !sp.cooperative {
		defer func() {
			if r := recover(); r != nil {
				err = NewExecutionError(sp.name, "kernel panicked", errors.Errorf("%v", r))
			}
		}()
		for i := 0; i < blockSize; i++ {
			t := Thread[T]{ID: tid(i), Shared: shared}
			k.thread(&t)
		}
		return nil
	}

	bar := newBarrier(blockSize)
	var (
		wg       sync.WaitGroup
		panicMu  sync.Mutex
		panicErr error
	)
	for i := 0; i < blockSize; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					panicMu.Lock()
					if panicErr == nil {
						panicErr = NewExecutionError(sp.name, "kernel panicked", errors.Errorf("%v", r))
					}
					panicMu.Unlock()
					// Release block mates stuck at the barrier.
					bar.breakBarrier()
				}
			}()
			t := Thread[T]{ID: tid(i), Shared: shared, bar: bar}
			k.thread(&t)
			t.copies.Wait()
		}(i)
	}
	wg.Wait()
	return panicErr
}
