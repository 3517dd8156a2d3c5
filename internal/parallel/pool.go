// Package parallel runs the pipeline's kernel dispatches across a pool
// of worker goroutines.
//
// Each pipeline stage is one Dispatch call: a flat index range executed
// by all workers, with the call returning only when every index has run.
// The return acts as the barrier between stages, so kernels never need
// internal ordering beyond their atomic operations.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a fixed set of worker goroutines that execute kernel
// dispatches.
//
// Workers pull chunks of the dispatch range from a shared atomic cursor,
// so uneven per-index cost (a tile with thousands of fills next to an
// empty one) self-balances without per-item scheduling overhead.
//
// Thread safety: Pool is safe for concurrent use, but Dispatch calls
// from different goroutines serialize against each other.
type Pool struct {
	// workers is the number of worker goroutines.
	workers int

	// dispatch hands the current dispatch to the workers.
	dispatch chan *dispatchState

	// done signals workers to stop.
	done chan struct{}

	// wg waits for all workers to exit.
	wg sync.WaitGroup

	// running indicates whether the pool accepts dispatches.
	running atomic.Bool

	// mu serializes Dispatch calls.
	mu sync.Mutex
}

// dispatchState is one in-flight Dispatch: the kernel, the index range,
// the shared cursor, and the completion barrier.
type dispatchState struct {
	fn     func(start, end int)
	n      int
	chunk  int
	cursor atomic.Int64
	wg     sync.WaitGroup
}

// NewPool creates a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		workers:  workers,
		dispatch: make(chan *dispatchState),
		done:     make(chan struct{}),
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// worker is the main loop of one worker goroutine.
func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case d := <-p.dispatch:
			p.run(d)
			d.wg.Done()
		}
	}
}

// run consumes chunks of d's index range until the cursor is exhausted.
func (p *Pool) run(d *dispatchState) {
	for {
		start := int(d.cursor.Add(int64(d.chunk))) - d.chunk
		if start >= d.n {
			return
		}
		end := start + d.chunk
		if end > d.n {
			end = d.n
		}
		d.fn(start, end)
	}
}

// Dispatch executes fn over the index range [0, n), split into chunks,
// across all workers, and returns when every index has been processed.
// fn receives half-open [start, end) chunks and is called concurrently
// from multiple goroutines.
//
// If the pool is closed or n <= 0, Dispatch is a no-op.
func (p *Pool) Dispatch(n int, fn func(start, end int)) {
	if n <= 0 || !p.running.Load() {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Aim for several chunks per worker so slow chunks rebalance.
	chunk := n / (p.workers * 4)
	if chunk < 1 {
		chunk = 1
	}

	d := &dispatchState{fn: fn, n: n, chunk: chunk}

	// Recruit idle workers, then help from the calling goroutine. A
	// worker that never picks up the dispatch is fine: the cursor
	// guarantees the range completes on whoever runs.
	for i := 0; i < p.workers; i++ {
		d.wg.Add(1)
		select {
		case p.dispatch <- d:
		default:
			d.wg.Done()
		}
	}
	p.run(d)
	d.wg.Wait()
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.workers
}

// Close shuts the pool down. In-flight dispatches finish on the calling
// goroutine. Close is safe to call multiple times.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}
