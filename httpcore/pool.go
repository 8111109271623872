package httpcore

import (
	"net"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/packetd/imgserve/common"
	"github.com/packetd/imgserve/internal/rescue"
)

var (
	busyWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: common.App,
		Name:      "busy_workers",
		Help:      "worker-pool slots currently serving a connection",
	})
	idleWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: common.App,
		Name:      "idle_workers",
		Help:      "worker-pool slots currently awaiting a connection",
	})
)

type slotState int

const (
	slotInitial slotState = iota
	slotAwaitingTask
	slotRunning
	slotStopped
)

// slot is one fixed worker in the pool. Its state transitions are
// guarded by mu and signalled by cond; there is no external work
// queue, so a slot that is still slotRunning when a new connection
// arrives is simply not eligible and the acceptor keeps scanning --
// this is where the server's backpressure actually comes from.
type slot struct {
	mu    sync.Mutex
	cond  *sync.Cond
	state slotState
	conn  net.Conn
}

func newSlot() *slot {
	s := &slot{state: slotInitial}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// run drives one slot's lifecycle until stop is called. It is meant to
// be launched once per slot as its own goroutine.
func (s *slot) run(resolver *Resolver) {
	defer rescue.HandleCrash()

	s.mu.Lock()
	if s.state == slotInitial {
		s.state = slotAwaitingTask
	}
	s.mu.Unlock()
	idleWorkers.Inc()

	for {
		s.mu.Lock()
		for s.state == slotAwaitingTask {
			s.cond.Wait()
		}
		if s.state == slotStopped {
			s.mu.Unlock()
			idleWorkers.Dec()
			return
		}
		conn := s.conn
		s.mu.Unlock()
		idleWorkers.Dec()
		busyWorkers.Inc()

		resolver.serve(conn)
		_ = conn.Close()

		busyWorkers.Dec()
		idleWorkers.Inc()

		s.mu.Lock()
		s.conn = nil
		if s.state == slotStopped {
			s.mu.Unlock()
			idleWorkers.Dec()
			return
		}
		s.state = slotAwaitingTask
		s.mu.Unlock()
	}
}

// tryAssign hands conn to the slot if it is idle. It reports whether
// the assignment succeeded.
func (s *slot) tryAssign(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != slotAwaitingTask {
		return false
	}
	s.conn = conn
	s.state = slotRunning
	s.cond.Signal()
	return true
}

func (s *slot) stop() {
	s.mu.Lock()
	s.state = slotStopped
	s.mu.Unlock()
	s.cond.Signal()
}

// Pool is the fixed-size worker pool the acceptor hands connections to.
// Its size never changes after New: there is no dynamic scaling and no
// queue behind it, by design -- a burst of connections beyond pool
// capacity simply waits in the listen backlog.
type Pool struct {
	slots []*slot
	wg    sync.WaitGroup
}

// NewPool creates a pool of n workers, all initially idle.
func NewPool(n int, resolver *Resolver) *Pool {
	p := &Pool{slots: make([]*slot, n)}
	for i := range p.slots {
		p.slots[i] = newSlot()
	}
	for _, s := range p.slots {
		s := s
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			s.run(resolver)
		}()
	}
	return p
}

// Dispatch assigns conn to the first idle slot, scanning slots linearly
// from the first one and rescanning until one is found. It blocks until
// a slot becomes free.
func (p *Pool) Dispatch(conn net.Conn) {
	start := 0
	for {
		for i := 0; i < len(p.slots); i++ {
			idx := (start + i) % len(p.slots)
			if p.slots[idx].tryAssign(conn) {
				return
			}
		}
		start = (start + 1) % len(p.slots)
	}
}

// Stop signals every slot to exit and waits for them to drain. It does
// not interrupt a slot mid-request; in-flight connections finish first.
func (p *Pool) Stop() {
	for _, s := range p.slots {
		s.stop()
	}
	p.wg.Wait()
}
