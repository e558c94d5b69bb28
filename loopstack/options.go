package loopstack

import (
	"github.com/joeycumines/logiface"
)

// stackOptions holds configuration options for Stack creation.
type stackOptions struct {
	logger     *logiface.Logger[logiface.Event]
	initHook   func()
	noComplete bool
}

// --- Stack Options ---

// Option configures a Stack instance.
type Option interface {
	applyStack(*stackOptions) error
}

// stackOptionImpl implements Option.
type stackOptionImpl struct {
	applyStackFunc func(*stackOptions) error
}

func (o *stackOptionImpl) applyStack(opts *stackOptions) error {
	return o.applyStackFunc(opts)
}

// WithLogger sets the logger, used for lifecycle events, and for the trace
// channels enabled by the capability set. Defaults to no logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &stackOptionImpl{func(opts *stackOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithInitHook sets a func that is run on the processing goroutine, as part
// of initialization, before readiness is signalled.
func WithInitHook(fn func()) Option {
	return &stackOptionImpl{func(opts *stackOptions) error {
		opts.initHook = fn
		return nil
	}}
}

// WithoutCompletion causes the stack to initialize, but never signal that
// it has done so. It exists to exercise callers that wait for readiness.
func WithoutCompletion() Option {
	return &stackOptionImpl{func(opts *stackOptions) error {
		opts.noComplete = true
		return nil
	}}
}

// resolveStackOptions applies Option instances to stackOptions.
func resolveStackOptions(opts []Option) (*stackOptions, error) {
	cfg := &stackOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyStack(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
