package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/joeycumines/logiface"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	stackboot "github.com/joeycumines/go-stackboot"
	"github.com/joeycumines/go-stackboot/capability"
	"github.com/joeycumines/go-stackboot/internal/logging"
	"github.com/joeycumines/go-stackboot/loopstack"
)

type (
	// environment is what the process is run with, supplied to the app.
	environment struct {
		stderr io.Writer
		getenv func(string) string
	}

	// bootResult is populated once the stack is ready.
	bootResult struct {
		ready stackboot.Ready
	}

	stackParams struct {
		fx.In

		Lifecycle fx.Lifecycle
		Options   *options
		Caps      *capability.Set
		Logger    *logiface.Logger[logiface.Event]
		Metrics   *stackboot.Metrics
		Result    *bootResult
	}
)

// module wires every component of the command.
func module(opts *options, env environment) fx.Option {
	return fx.Module(`stackboot`,
		fx.Supply(opts, env),
		fx.Provide(
			newLogger,
			loadCapabilities,
			prometheus.NewRegistry,
			newMetrics,
			func() *bootResult { return new(bootResult) },
			newStack,
		),
		fx.Invoke(func(*loopstack.Stack) {}),
	)
}

func newLogger(opts *options, env environment) (*logiface.Logger[logiface.Event], error) {
	return logging.New(env.stderr, opts.logLevel)
}

// loadCapabilities reads the capability file from --config, else from
// $STACKBOOT_CONFIG, applying --debug if it was set.
func loadCapabilities(opts *options, env environment) (*capability.Set, error) {
	var overrides []capability.Option
	if opts.debugSet {
		overrides = append(overrides, capability.WithDebug(opts.debug))
	}
	if opts.config != `` {
		return capability.Load(opts.config, overrides...)
	}
	return capability.LoadFromEnv(env.getenv, overrides...)
}

func newMetrics(reg *prometheus.Registry) (*stackboot.Metrics, error) {
	return stackboot.NewMetrics(reg)
}

func newStack(p stackParams) (*loopstack.Stack, error) {
	stack, err := loopstack.New(p.Caps, loopstack.WithLogger(p.Logger))
	if err != nil {
		return nil, err
	}

	var pool *stackboot.SignalPool
	if p.Options.signalLimit > 0 {
		pool = stackboot.NewSignalPool(p.Options.signalLimit)
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ready, err := bootstrap(stack, p.Logger, p.Options.waitWarn,
				stackboot.WithLogger(p.Logger),
				stackboot.WithMetrics(p.Metrics),
				stackboot.WithSignalPool(pool),
			)
			if err == nil {
				err = configure(ctx, stack, p.Options)
			}
			if err != nil {
				// OnStop only runs for hooks that started successfully
				return errors.Join(err, stack.Close(ctx))
			}
			p.Result.ready = ready
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return stack.Close(ctx)
		},
	})

	return stack, nil
}

// bootstrap blocks until the stack is ready, warning periodically while it
// waits. It never gives up.
func bootstrap(stack stackboot.Starter, logger *logiface.Logger[logiface.Event], interval time.Duration, opts ...stackboot.Option) (stackboot.Ready, error) {
	if interval > 0 {
		done := make(chan struct{})
		defer close(done)
		go func() {
			start := time.Now()
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					logger.Warning().
						Dur(`waited`, time.Since(start)).
						Log(`still waiting for the processing context`)
				}
			}
		}()
	}
	return stackboot.Initialize(stack, opts...)
}

func configure(ctx context.Context, stack *loopstack.Stack, opts *options) error {
	for _, addr := range opts.addresses {
		if err := stack.AddAddress(ctx, addr); err != nil {
			return fmt.Errorf("address %s: %w", addr, err)
		}
	}
	return nil
}
