// Package syncutil provides the small set of concurrency primitives the
// benchmark engine needs beyond what sync provides directly: a
// count-and-release barrier, and a per-thread RNG. Locking itself uses
// plain sync.RWMutex throughout (see internal/fileset) — Go's RWMutex
// already gives the "multiple readers or one writer, no writer-preference
// guarantee" semantics the spec calls for, so no wrapper type is needed
// there.
package syncutil

import "sync"

// Barrier is a count-down rendezvous: exactly n parties must call Wait
// before any of them proceed. Unlike sync.WaitGroup (which has no "release
// everyone at once" semantics without a second primitive), Barrier is
// built for exactly this: a driver or coordinator sizes it up front and
// every party calls Wait once per generation.
//
// A Barrier is reusable across generations: once n parties have arrived
// and all have been released, the counter resets and the next Wait starts
// a new generation.
type Barrier struct {
	mu       sync.Mutex
	cond     *sync.Cond
	n        int
	count    int
	gen      uint64
}

// NewBarrier returns a Barrier that releases all waiters once n of them
// have called Wait.
func NewBarrier(n int) *Barrier {
	b := &Barrier{n: n}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Wait blocks until n parties have called Wait for the current
// generation, then returns.
func (b *Barrier) Wait() {
	b.mu.Lock()
	defer b.mu.Unlock()

	gen := b.gen
	b.count++

	if b.count == b.n {
		b.count = 0
		b.gen++
		b.cond.Broadcast()
		return
	}

	for gen == b.gen {
		b.cond.Wait()
	}
}
