package stackboot

import (
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// SignalState represents the lifecycle state of a [Signal].
//
// State Machine:
//
//	SignalPending → SignalFired   [Fire()]
//	SignalFired   → SignalFreed   [Free()]
//
// Transitions are irreversible, and each happens at most once.
type SignalState uint32

const (
	// SignalPending indicates the signal has not been fired.
	SignalPending SignalState = iota
	// SignalFired indicates the signal has been fired, releasing any waiter.
	SignalFired
	// SignalFreed indicates the signal's resources have been released.
	SignalFreed
)

// String returns a human-readable representation of the state.
func (s SignalState) String() string {
	switch s {
	case SignalPending:
		return "Pending"
	case SignalFired:
		return "Fired"
	case SignalFreed:
		return "Freed"
	default:
		return "Unknown"
	}
}

type (
	// Signal is a one-shot completion signal, shared by exactly two parties:
	// the goroutine that fires it, and the goroutine that waits on it.
	//
	// Instances must be allocated via [NewSignal] or [SignalPool.New], and
	// must not be reused once freed.
	Signal struct {
		// prevent copying
		_ [0]func()

		done  chan struct{}
		pool  *SignalPool
		state atomic.Uint32
	}

	// SignalPool is a bounded supply of signals. It models the finite number
	// of synchronization primitives available to the process, and is how
	// [Initialize] may fail.
	//
	// A nil *SignalPool allocates without limit.
	SignalPool struct {
		sem         *semaphore.Weighted
		limit       int64
		outstanding atomic.Int64
	}
)

// NewSignal allocates a signal that isn't accounted for by any pool.
func NewSignal() *Signal {
	return newSignal(nil)
}

func newSignal(pool *SignalPool) *Signal {
	return &Signal{
		done: make(chan struct{}),
		pool: pool,
	}
}

// Fire transitions the signal from pending to fired, releasing the waiter.
//
// Firing a signal that is not pending is a programming error, and panics.
func (s *Signal) Fire() {
	if !s.state.CompareAndSwap(uint32(SignalPending), uint32(SignalFired)) {
		panic(`stackboot: fire on ` + s.State().String() + ` signal`)
	}
	close(s.done)
}

// Wait blocks until the signal has been fired. It returns immediately if
// that has already happened.
func (s *Signal) Wait() {
	<-s.done
}

// Done returns a channel that is closed when the signal is fired.
func (s *Signal) Done() <-chan struct{} {
	return s.done
}

// State returns the current state of the signal.
func (s *Signal) State() SignalState {
	return SignalState(s.state.Load())
}

// Free releases the signal, returning its slot to the pool it was allocated
// from. Calling Free on an already freed signal is a no-op.
//
// Freeing a pending signal is a programming error, and panics, as the
// signal may still be fired.
func (s *Signal) Free() {
	if s.state.CompareAndSwap(uint32(SignalFired), uint32(SignalFreed)) {
		if s.pool != nil {
			s.pool.release()
		}
		return
	}
	if s.State() == SignalPending {
		panic(`stackboot: free on Pending signal`)
	}
}

// Completion returns the capability to fire s, for handing to the external
// stack.
func (s *Signal) Completion() Completion {
	return Completion{signal: s}
}

// NewSignalPool initializes a pool that allows at most limit signals to be
// outstanding (allocated, but not yet freed) at a time. A limit <= 0 results
// in a pool that never allocates.
func NewSignalPool(limit int64) *SignalPool {
	p := SignalPool{limit: limit}
	if limit > 0 {
		p.sem = semaphore.NewWeighted(limit)
	}
	return &p
}

// New allocates a signal, without blocking. If the pool has no free slots,
// a [*ResourceExhaustedError] is returned.
func (p *SignalPool) New() (*Signal, error) {
	if p == nil {
		return newSignal(nil), nil
	}
	if p.sem == nil || !p.sem.TryAcquire(1) {
		return nil, &ResourceExhaustedError{Resource: `signal`, Limit: p.limit}
	}
	p.outstanding.Add(1)
	return newSignal(p), nil
}

// Outstanding returns the number of signals allocated from the pool, that
// have not yet been freed.
func (p *SignalPool) Outstanding() int64 {
	if p == nil {
		return 0
	}
	return p.outstanding.Load()
}

// Limit returns the maximum number of outstanding signals.
func (p *SignalPool) Limit() int64 {
	if p == nil {
		return 0
	}
	return p.limit
}

func (p *SignalPool) release() {
	p.outstanding.Add(-1)
	p.sem.Release(1)
}
