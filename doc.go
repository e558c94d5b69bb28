// Package stackboot starts the internal processing context of an embeddable,
// single-threaded TCP/IP stack, and blocks until that context is ready to
// accept work.
//
// # Architecture
//
// The stack being bootstrapped is an external collaborator, modelled by the
// [Starter] interface. Its start routine is asynchronous: it spins up its own
// processing context (typically a dedicated goroutine running an event loop)
// and, once that context has initialized, reports completion exactly once.
//
// [Initialize] converts that callback-driven start-up into an ordinary
// blocking call:
//
//  1. A one-shot [Signal] is allocated from a [SignalPool]. Allocation is the
//     only failure this package can observe, reported as an error matching
//     [ErrResourceExhausted]. On failure the stack is never started.
//  2. [Starter.StartProcessing] is called with a [Completion], a narrow
//     capability that can do nothing but fire the signal.
//  3. The caller blocks until the signal fires, then frees it and returns a
//     [Ready] value.
//
// No statement following a successful [Initialize] can run before the stack's
// processing context has completed its own initialization.
//
// # Limitations
//
// There is no timeout, retry, or cancellation. If the stack never calls
// [Completion.Complete], [Initialize] blocks forever. This is part of the
// contract, not an oversight: a hang is indistinguishable from a slow start,
// from the adapter's point of view.
//
// [Initialize] does not guard against being called more than once. Use
// [Once] where a process-wide, at-most-once start is required.
//
// # Usage
//
//	stack, err := loopstack.New(caps)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer stack.Close(context.Background())
//
//	if _, err := stackboot.Initialize(stack); err != nil {
//	    log.Fatal(err)
//	}
//
//	// the stack's processing context is now live
package stackboot
