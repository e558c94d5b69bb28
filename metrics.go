package stackboot

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeReady             = `ready`
	outcomeResourceExhausted = `resource_exhausted`
)

// Metrics records bootstrap attempts as Prometheus metrics. A nil *Metrics
// is valid, and records nothing.
type Metrics struct {
	attempts    *prometheus.CounterVec
	wait        prometheus.Histogram
	outstanding prometheus.Gauge
}

// NewMetrics initializes the bootstrap metrics, registering them with reg,
// if it is non-nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := Metrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: `stackboot`,
			Name:      `bootstrap_attempts_total`,
			Help:      `Bootstrap attempts, by outcome.`,
		}, []string{`outcome`}),
		wait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: `stackboot`,
			Name:      `bootstrap_wait_seconds`,
			Help:      `Time spent blocked, waiting for the processing context to become ready.`,
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		outstanding: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: `stackboot`,
			Name:      `signals_outstanding`,
			Help:      `Completion signals allocated, but not yet freed.`,
		}),
	}

	// pre-populate, so both outcomes are always exported
	m.attempts.WithLabelValues(outcomeReady)
	m.attempts.WithLabelValues(outcomeResourceExhausted)

	if reg != nil {
		for _, c := range [...]prometheus.Collector{m.attempts, m.wait, m.outstanding} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}

	return &m, nil
}

func (x *Metrics) allocated() {
	if x != nil {
		x.outstanding.Inc()
	}
}

func (x *Metrics) freed() {
	if x != nil {
		x.outstanding.Dec()
	}
}

func (x *Metrics) exhausted() {
	if x != nil {
		x.attempts.WithLabelValues(outcomeResourceExhausted).Inc()
	}
}

func (x *Metrics) ready(elapsed time.Duration) {
	if x != nil {
		x.attempts.WithLabelValues(outcomeReady).Inc()
		x.wait.Observe(elapsed.Seconds())
	}
}
