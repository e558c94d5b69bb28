// stackboot bootstraps the in-process reference network stack, blocking
// until its processing context reports that it is ready.
//
// Capabilities are read from the file named by --config, or by
// $STACKBOOT_CONFIG, falling back to the built-in defaults. There is no
// search path.
//
// With --emit-header, the capabilities are rendered as an lwipopts.h header,
// for builds of a C stack, and nothing is started.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/pflag"
	"go.uber.org/fx"

	"github.com/joeycumines/go-stackboot/capability"
	"github.com/joeycumines/go-stackboot/loopstack"
)

func main() {
	ctx, stop := notifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// notifyContext is [signal.NotifyContext], except that default handling is
// restored by the first signal. Bootstrap cannot be cancelled, so a second
// signal must be able to terminate the process while it blocks.
func notifyContext(parent context.Context, sigs ...os.Signal) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, sigs...)
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx, stop
}

// run executes the command. Unless --once is set, it waits for ctx, or for
// the app to receive a shutdown signal, before stopping the stack.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	env := environment{stderr: stderr, getenv: getenv}

	if opts.emitHeader != `` {
		caps, err := loadCapabilities(opts, env)
		if err != nil {
			return err
		}
		return emitHeader(caps, opts.emitHeader, stdout)
	}

	var (
		stack  *loopstack.Stack
		result *bootResult
		reg    *prometheus.Registry
	)
	app := fx.New(
		fx.NopLogger,
		module(opts, env),
		fx.Populate(&stack, &result, &reg),
	)
	if err := app.Err(); err != nil {
		return err
	}

	// no timeout: bootstrap waits for as long as it takes
	if err := app.Start(context.Background()); err != nil {
		if reg != nil && opts.metrics {
			_ = dumpMetrics(stderr, reg)
		}
		return err
	}

	if opts.once {
		_, _ = fmt.Fprintf(stdout, "ready elapsed=%s fingerprint=%s\n",
			result.ready.Elapsed, stack.Capabilities().Fingerprint())
	} else {
		select {
		case <-app.Done():
		case <-ctx.Done():
		}
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), opts.stopTimeout)
	defer cancel()
	err = app.Stop(stopCtx)

	if opts.metrics {
		err = errors.Join(err, dumpMetrics(stderr, reg))
	}

	return err
}

func emitHeader(caps *capability.Set, path string, stdout io.Writer) (err error) {
	if path == `-` {
		return caps.WriteHeader(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if e := f.Close(); err == nil {
			err = e
		}
	}()
	return caps.WriteHeader(f)
}

func dumpMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
