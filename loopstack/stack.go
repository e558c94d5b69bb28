package loopstack

import (
	"context"
	"errors"
	"net/netip"
	"sync/atomic"

	"github.com/joeycumines/go-eventloop"
	stackboot "github.com/joeycumines/go-stackboot"
	"github.com/joeycumines/go-stackboot/capability"
	"github.com/joeycumines/logiface"
)

// State represents the lifecycle state of a [Stack].
//
// State Machine:
//
//	StateNew      → StateStarting [StartProcessing()]
//	StateStarting → StateRunning  [init task, on the loop]
//	StateNew      → StateClosed   [Close()]
//	StateStarting → StateClosed   [Close()]
//	StateRunning  → StateClosed   [Close()]
//	StateClosed   → (terminal)
type State uint32

const (
	// StateNew indicates the stack has been created but not started.
	StateNew State = iota
	// StateStarting indicates the processing goroutine has been started, but
	// initialization has not finished.
	StateStarting
	// StateRunning indicates the stack is initialized, and accepting input.
	StateRunning
	// StateClosed indicates the stack has been shut down.
	StateClosed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateNew:
		return "New"
	case StateStarting:
		return "Starting"
	case StateRunning:
		return "Running"
	case StateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// Stack is a minimal, in-process network stack, with a single interface.
// All of its state is owned by an event loop, which is the stack's internal
// processing context: every operation is a task submitted to that loop.
//
// Stack implements [stackboot.Starter], and must be started exactly once,
// e.g. via [stackboot.Initialize].
type Stack struct {
	// prevent copying
	_ [0]func()

	caps     *capability.Set
	loop     *eventloop.Loop
	logger   *logiface.Logger[logiface.Event]
	initHook func()
	ctx      context.Context
	cancel   context.CancelFunc
	runDone  chan struct{}
	onRemove atomic.Pointer[func(netip.Addr)]
	onStatus atomic.Pointer[func(up bool)]

	// owned by the loop

	addrs []netip.Addr
	stats Stats
	dec   *decoder

	state      atomic.Uint32
	noComplete bool
}

var _ stackboot.Starter = (*Stack)(nil)

// New creates a stack, configured by caps, which may be nil (defaults).
// The stack does nothing until [Stack.StartProcessing] is called.
func New(caps *capability.Set, opts ...Option) (*Stack, error) {
	cfg, err := resolveStackOptions(opts)
	if err != nil {
		return nil, err
	}

	if caps == nil {
		caps = capability.Default()
	}

	loop, err := eventloop.New()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Stack{
		caps:       caps,
		loop:       loop,
		ctx:        ctx,
		cancel:     cancel,
		logger:     cfg.logger,
		initHook:   cfg.initHook,
		runDone:    make(chan struct{}),
		noComplete: cfg.noComplete,
		stats:      newStats(),
		dec:        newDecoder(),
	}, nil
}

// Capabilities returns the set the stack was configured with.
func (x *Stack) Capabilities() *capability.Set {
	return x.caps
}

// State returns the current lifecycle state.
func (x *Stack) State() State {
	return State(x.state.Load())
}

// Running returns true if the stack has finished initializing, and has not
// been closed.
func (x *Stack) Running() bool {
	return x.State() == StateRunning
}

// StartProcessing starts the processing goroutine, and requests that it
// initialize the stack. It does not block. Once initialized, done will be
// completed, from the processing goroutine.
//
// A panic will occur if called more than once, or after [Stack.Close].
func (x *Stack) StartProcessing(done stackboot.Completion) {
	if !x.state.CompareAndSwap(uint32(StateNew), uint32(StateStarting)) {
		panic(`loopstack: already started`)
	}

	go func() {
		defer close(x.runDone)
		if err := x.loop.Run(x.ctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, eventloop.ErrLoopTerminated) {
			x.logger.Err().
				Err(err).
				Log(`processing context stopped`)
		}
	}()

	if err := x.loop.Submit(func() { x.initialize(done) }); err != nil {
		// the loop was created by New, and only Close terminates it
		panic(err)
	}
}

// initialize runs on the loop.
func (x *Stack) initialize(done stackboot.Completion) {
	if x.initHook != nil {
		x.initHook()
	}

	if !x.state.CompareAndSwap(uint32(StateStarting), uint32(StateRunning)) {
		// closed before the init task ran
		return
	}

	if b := x.trace(capability.TCPIPDebug); b != nil {
		b.Str(`fingerprint`, x.caps.Fingerprint()).
			Log(`tcpip_thread: initialized`)
	}

	if x.caps.Enabled(capability.NetifStatusCallback) {
		if fn := x.onStatus.Load(); fn != nil {
			(*fn)(true)
		}
	}

	if b := x.logger.Info(); b != nil {
		b.Str(`capabilities`, x.caps.String()).Log(`stack initialized`)
	}

	if x.noComplete {
		return
	}

	done.Complete()
}

// OnNetifStatus registers fn, to be called from the processing goroutine
// when the interface comes up, or goes down. It is only called if
// [capability.NetifStatusCallback] is enabled. A nil fn clears the callback.
func (x *Stack) OnNetifStatus(fn func(up bool)) {
	if fn == nil {
		x.onStatus.Store(nil)
		return
	}
	x.onStatus.Store(&fn)
}

// Close shuts the stack down, waiting for queued operations to finish, or
// for ctx to be done. It is safe to call more than once.
//
// If the stack is closed before it finishes initializing, it will never
// signal completion.
func (x *Stack) Close(ctx context.Context) error {
	for {
		state := x.State()
		if state == StateClosed {
			return nil
		}
		if !x.state.CompareAndSwap(uint32(state), uint32(StateClosed)) {
			continue
		}

		if state == StateNew {
			x.cancel()
			if err := x.loop.Close(); err != nil && !errors.Is(err, eventloop.ErrLoopTerminated) {
				return err
			}
			return nil
		}

		if state == StateRunning && x.caps.Enabled(capability.NetifStatusCallback) {
			if fn := x.onStatus.Load(); fn != nil {
				// best effort: ignored if the loop is already gone
				_ = x.loop.Submit(func() { (*fn)(false) })
			}
		}

		err := x.loop.Shutdown(ctx)
		x.cancel()
		if errors.Is(err, eventloop.ErrLoopTerminated) {
			err = nil
		}

		select {
		case <-x.runDone:
		case <-ctx.Done():
			if err == nil {
				err = ctx.Err()
			}
		}

		x.logger.Info().Log(`stack closed`)

		return err
	}
}

// do runs fn on the loop, waiting for it to finish, or ctx to be done.
func (x *Stack) do(ctx context.Context, fn func()) error {
	if !x.Running() {
		return ErrNotRunning
	}
	done := make(chan struct{})
	if err := x.loop.Submit(func() {
		defer close(done)
		fn()
	}); err != nil {
		if errors.Is(err, eventloop.ErrLoopTerminated) {
			return ErrNotRunning
		}
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// trace returns a debug level builder, tagged with the channel's module, or
// nil if the channel is disabled.
func (x *Stack) trace(ch capability.DebugChannel) *logiface.Builder[logiface.Event] {
	if !x.caps.Tracing(ch) {
		return nil
	}
	return x.logger.Debug().Str(`module`, ch.Module())
}
