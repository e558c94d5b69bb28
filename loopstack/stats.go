package loopstack

import (
	"context"
	"maps"
)

// Stats is a snapshot of the stack's input counters.
type Stats struct {
	// Verdicts counts packets by outcome.
	Verdicts map[Verdict]uint64
	// Protocols counts accepted packets by handler, e.g. tcp, udp, raw.
	Protocols map[string]uint64
	// TimestampsIgnored counts TCP segments carrying a timestamp option,
	// while timestamps are disabled.
	TimestampsIgnored uint64
}

func newStats() Stats {
	return Stats{
		Verdicts:  make(map[Verdict]uint64, verdictCount),
		Protocols: make(map[string]uint64),
	}
}

// Total returns the number of packets input.
func (x Stats) Total() (n uint64) {
	for _, v := range x.Verdicts {
		n += v
	}
	return
}

// Stats returns a snapshot of the counters, read on the processing
// goroutine.
func (x *Stack) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	if err := x.do(ctx, func() {
		stats = Stats{
			Verdicts:          maps.Clone(x.stats.Verdicts),
			Protocols:         maps.Clone(x.stats.Protocols),
			TimestampsIgnored: x.stats.TimestampsIgnored,
		}
	}); err != nil {
		return Stats{}, err
	}
	return stats, nil
}
