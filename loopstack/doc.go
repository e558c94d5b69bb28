// Package loopstack implements a minimal, in-process network stack, whose
// internal processing context is a [github.com/joeycumines/go-eventloop]
// loop, running on its own goroutine.
//
// It exists as a concrete, embeddable stack to bootstrap via
// [github.com/joeycumines/go-stackboot.Initialize], honouring the same
// contract as the C stacks stackboot was designed around: StartProcessing
// returns immediately, and readiness is signalled exactly once, from the
// processing goroutine.
//
// Behavior is governed by a [capability.Set]. Disabled IP versions and
// protocols are dropped on input, local addresses are limited per the set,
// and every trace channel logs at debug level, with a module field, when
// the diagnostic master switch is on.
//
// # Usage
//
//	stack, err := loopstack.New(caps, loopstack.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	if _, err := stackboot.Initialize(stack); err != nil {
//		return err
//	}
//	defer stack.Close(context.Background())
//
//	verdict, err := stack.Input(ctx, packet)
package loopstack
