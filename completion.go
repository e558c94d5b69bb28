package stackboot

type (
	// Starter models the external stack's asynchronous start-up entry point.
	Starter interface {
		// StartProcessing requests that the stack start its internal
		// processing context. It must not block on that context becoming
		// ready. Once the context has initialized, the stack must call
		// done.Complete exactly once, from within that context, and must not
		// retain done afterwards.
		StartProcessing(done Completion)
	}

	// StarterFunc implements [Starter] using a function.
	StarterFunc func(done Completion)

	// Completion is the capability to report that a processing context is
	// ready. It is the only handle to the bootstrap [Signal] that the
	// external stack receives.
	Completion struct {
		signal *Signal
	}
)

var (
	// compile time assertions

	_ Starter = StarterFunc(nil)
)

// StartProcessing calls f(done).
func (f StarterFunc) StartProcessing(done Completion) { f(done) }

// Complete fires the underlying signal, waking the caller of [Initialize].
// It must be called exactly once. A second call panics.
func (x Completion) Complete() {
	if x.signal == nil {
		panic(`stackboot: zero Completion`)
	}
	x.signal.Fire()
}
