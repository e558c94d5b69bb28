package stackboot

import (
	"sync"
	"sync/atomic"
)

// Once guards a stack against being started more than once. The zero value
// is ready to use. It must not be copied after first use.
//
// Unlike [sync.Once], a failed attempt does not count: the next call will
// try again.
type Once struct {
	// prevent copying
	_ [0]func()

	ready Ready
	mu    sync.Mutex
	done  atomic.Bool
}

// Initialize calls [Initialize] if, and only if, no previous call on x has
// succeeded. Otherwise, it returns the [Ready] value of the first successful
// call. Concurrent calls block until the in-progress attempt finishes.
func (x *Once) Initialize(starter Starter, opts ...Option) (Ready, error) {
	if x.done.Load() {
		return x.ready, nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if x.done.Load() {
		return x.ready, nil
	}

	return x.initializeLocked(starter, opts)
}

// Exclusive behaves like [Once.Initialize], except that it fails with
// [ErrAlreadyInitialized], rather than returning the earlier result, if the
// stack has already been started.
func (x *Once) Exclusive(starter Starter, opts ...Option) (Ready, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.done.Load() {
		return Ready{}, ErrAlreadyInitialized
	}

	return x.initializeLocked(starter, opts)
}

// Done returns true if a call to [Once.Initialize] or [Once.Exclusive] has
// succeeded.
func (x *Once) Done() bool {
	return x.done.Load()
}

func (x *Once) initializeLocked(starter Starter, opts []Option) (Ready, error) {
	ready, err := Initialize(starter, opts...)
	if err != nil {
		return Ready{}, err
	}
	x.ready = ready
	x.done.Store(true)
	return ready, nil
}
