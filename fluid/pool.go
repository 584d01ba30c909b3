package fluid

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a fixed set of long-lived worker goroutines. Each worker owns one
// slot with a single-entry queue; work is addressed to a slot explicitly so a
// caller can pin a band to the same worker every sweep.
type Pool struct {
	slots []*slot

	mu      sync.Mutex
	cond    *sync.Cond
	pending int
	closed  bool

	wg sync.WaitGroup
}

type slot struct {
	work    chan func()
	running atomic.Bool
}

// NewPool starts n workers. n <= 0 uses GOMAXPROCS.
func NewPool(n int) *Pool {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}

	p := &Pool{slots: make([]*slot, n)}
	p.cond = sync.NewCond(&p.mu)

	for i := range p.slots {
		s := &slot{work: make(chan func(), 1)}
		p.slots[i] = s
		p.wg.Add(1)
		go p.worker(s)
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.slots) }

// Busy reports whether slot i has work queued or running.
func (p *Pool) Busy(i int) bool { return p.slots[i].running.Load() }

// Submit queues fn on slot i, blocking until the slot is idle.
// After Close, fn runs on the caller's goroutine.
func (p *Pool) Submit(i int, fn func()) {
	s := p.slots[i]

	p.mu.Lock()
	for s.running.Load() && !p.closed {
		p.cond.Wait()
	}
	if p.closed {
		p.mu.Unlock()
		fn()
		return
	}
	s.running.Store(true)
	p.pending++
	p.mu.Unlock()

	s.work <- fn
}

// Wait blocks until every submitted task has finished.
func (p *Pool) Wait() {
	p.mu.Lock()
	for p.pending > 0 {
		p.cond.Wait()
	}
	p.mu.Unlock()
}

// Close drains outstanding work and stops the workers. Safe to call twice.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	for p.pending > 0 {
		p.cond.Wait()
	}
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()

	for _, s := range p.slots {
		close(s.work)
	}
	p.wg.Wait()
}

func (p *Pool) worker(s *slot) {
	defer p.wg.Done()

	for fn := range s.work {
		fn()

		p.mu.Lock()
		s.running.Store(false)
		p.pending--
		p.cond.Broadcast()
		p.mu.Unlock()
	}
}
