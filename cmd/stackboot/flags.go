package main

import (
	"fmt"
	"io"
	"net/netip"
	"time"

	"github.com/spf13/pflag"
)

type options struct {
	config      string
	logLevel    string
	emitHeader  string
	rawAddrs    []string
	addresses   []netip.Addr
	waitWarn    time.Duration
	stopTimeout time.Duration
	signalLimit int64
	debug       bool
	debugSet    bool
	once        bool
	metrics     bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	var opts options

	flagSet := pflag.NewFlagSet("stackboot", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&opts.config, "config", "", "capability file, .yaml or .toml (default: $STACKBOOT_CONFIG, then built-in defaults)")
	flagSet.BoolVar(&opts.debug, "debug", false, "override the diagnostic master switch, enabling every trace channel")
	flagSet.StringVar(&opts.logLevel, "log-level", "info", "log level: trace, debug, info, notice, warning, err, crit, alert, emerg, or disabled")
	flagSet.StringVar(&opts.emitHeader, "emit-header", "", "write the capabilities as an lwipopts.h header to this path (- for stdout), then exit")
	flagSet.StringArrayVar(&opts.rawAddrs, "address", nil, "address to configure on the interface, once ready (repeatable)")
	flagSet.BoolVar(&opts.once, "once", false, "exit as soon as the stack is ready, instead of waiting for a signal")
	flagSet.BoolVar(&opts.metrics, "metrics", false, "write bootstrap metrics to stderr, in the Prometheus text format, on exit")
	flagSet.DurationVar(&opts.waitWarn, "wait-warn", time.Second*5, "interval between warnings, while waiting for the stack (0 disables)")
	flagSet.DurationVar(&opts.stopTimeout, "stop-timeout", time.Second*10, "maximum time to wait for the stack to shut down")
	flagSet.Int64Var(&opts.signalLimit, "signal-limit", 0, "maximum outstanding completion signals (0 is unlimited)")
	flagSet.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Bootstraps an in-process network stack, blocking until it is ready.\n\nUsage:\n  stackboot [flags]\n\nFlags:\n")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}

	if args := flagSet.Args(); len(args) > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", args[0])
	}

	opts.debugSet = flagSet.Changed("debug")

	for _, raw := range opts.rawAddrs {
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid --address: %w", err)
		}
		opts.addresses = append(opts.addresses, addr)
	}

	if opts.signalLimit < 0 {
		return nil, fmt.Errorf("invalid --signal-limit: %d", opts.signalLimit)
	}

	return &opts, nil
}
