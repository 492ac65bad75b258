package tilegemm

import "sync"

// barrier is a reusable block-wide barrier. Every thread of a block
// calls await at the same program point; none proceeds until all have
// arrived. The barrier resets itself for the next phase, so one
// instance serves the whole K loop of a tiled kernel.
type barrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	parties int
	waiting int
	phase   uint64
	broken  bool
}

func newBarrier(parties int) *barrier {
	b := &barrier{parties: parties}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// await blocks until all parties have reached the barrier, then
// releases them together and arms the next phase.
func (b *barrier) await() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.broken {
		return
	}
	phase := b.phase
	b.waiting++
	if b.waiting == b.parties {
		b.waiting = 0
		b.phase++
		b.cond.Broadcast()
		return
	}
	for b.phase == phase && !b.broken {
		b.cond.Wait()
	}
}

// breakBarrier releases all waiters permanently. Used when a thread
// dies mid-kernel so its block mates do not wait forever.
func (b *barrier) breakBarrier() {
	b.mu.Lock()
	b.broken = true
	b.cond.Broadcast()
	b.mu.Unlock()
}
