package stackboot

import (
	"time"

	"github.com/joeycumines/logiface"
)

// bootOptions holds configuration options for Initialize.
type bootOptions struct {
	pool    *SignalPool
	logger  *logiface.Logger[logiface.Event]
	metrics *Metrics
	now     func() time.Time
}

// --- Boot Options ---

// Option configures a call to [Initialize].
type Option interface {
	applyBoot(*bootOptions)
}

// bootOptionImpl implements Option.
type bootOptionImpl struct {
	applyBootFunc func(*bootOptions)
}

func (o *bootOptionImpl) applyBoot(opts *bootOptions) {
	o.applyBootFunc(opts)
}

// WithSignalPool sets the pool the completion signal is allocated from.
// If not set, or nil, allocation is unbounded, and cannot fail.
func WithSignalPool(pool *SignalPool) Option {
	return &bootOptionImpl{func(opts *bootOptions) {
		opts.pool = pool
	}}
}

// WithLogger sets the logger used to report bootstrap progress.
// Logging is disabled if not set, or nil.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &bootOptionImpl{func(opts *bootOptions) {
		opts.logger = logger
	}}
}

// WithMetrics sets the metrics that bootstrap attempts are recorded to.
func WithMetrics(metrics *Metrics) Option {
	return &bootOptionImpl{func(opts *bootOptions) {
		opts.metrics = metrics
	}}
}

// WithClock overrides the source of the current time, used to populate
// [Ready]. A nil clock will cause a panic.
func WithClock(now func() time.Time) Option {
	if now == nil {
		panic(`stackboot: nil clock`)
	}
	return &bootOptionImpl{func(opts *bootOptions) {
		opts.now = now
	}}
}

// resolveOptions applies Option instances to bootOptions.
func resolveOptions(opts []Option) *bootOptions {
	cfg := &bootOptions{
		now: time.Now,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyBoot(cfg)
	}
	return cfg
}
