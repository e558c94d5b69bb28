package stackboot

import (
	"time"
)

// Ready is the outcome of a successful [Initialize].
type Ready struct {
	// Started is when the start request was issued.
	Started time.Time
	// Elapsed is how long the caller was blocked, waiting for the stack.
	Elapsed time.Duration
}

// Initialize starts the stack's internal processing context, blocking until
// that context reports that it is ready. A panic will occur if starter is
// nil.
//
// The only possible error is a failure to allocate the completion signal,
// which will match [ErrResourceExhausted]. In that case, starter is never
// called.
//
// WARNING: There is no timeout. If starter never completes, Initialize never
// returns. It is also not safe to call more than once, for the same stack,
// see [Once].
func Initialize(starter Starter, opts ...Option) (Ready, error) {
	if starter == nil {
		panic(`stackboot: nil starter`)
	}

	cfg := resolveOptions(opts)

	signal, err := cfg.pool.New()
	if err != nil {
		cfg.metrics.exhausted()
		cfg.logger.Err().
			Err(err).
			Log(`cannot allocate completion signal`)
		return Ready{}, err
	}
	cfg.metrics.allocated()

	started := cfg.now()
	cfg.logger.Debug().Log(`starting processing context`)

	starter.StartProcessing(signal.Completion())

	// the single rendezvous point: fired from the stack's own context
	signal.Wait()

	signal.Free()
	cfg.metrics.freed()

	ready := Ready{
		Started: started,
		Elapsed: cfg.now().Sub(started),
	}
	cfg.metrics.ready(ready.Elapsed)
	cfg.logger.Info().
		Dur(`elapsed`, ready.Elapsed).
		Log(`processing context ready`)

	return ready, nil
}
