package tilegemm

import "sync"

// scratchPool recycles block-local shared-memory slices across block
// invocations of one launch. A block's scratch allocation is created
// at kernel entry and returned at kernel exit; the pool keeps a free
// list so a grid of thousands of blocks reuses a handful of slices.
type scratchPool[T Float] struct {
	mu    sync.Mutex
	free  [][]T
	grabs int64
	reuse int64
}

func newScratchPool[T Float]() *scratchPool[T] {
	return &scratchPool[T]{}
}

// get returns a slice of exactly n elements. Contents are undefined;
// kernels stage into scratch before reading it.
func (p *scratchPool[T]) get(n int) []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.grabs++
	for i, s := range p.free {
		if cap(s) >= n {
			p.free = append(p.free[:i], p.free[i+1:]...)
			p.reuse++
			return s[:n]
		}
	}
	return make([]T, n)
}

// put returns a slice to the free list.
func (p *scratchPool[T]) put(s []T) {
	if s == nil {
		return
	}
	p.mu.Lock()
	p.free = append(p.free, s)
	p.mu.Unlock()
}

// stats reports total gets and how many were served from the free list.
func (p *scratchPool[T]) stats() (grabs, reuse int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.grabs, p.reuse
}
