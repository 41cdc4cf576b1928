package core

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts what the two state machines do. A nil *Metrics is
// valid and counts nothing.
type Metrics struct {
	putAttempts   prometheus.Counter
	putRetries    prometheus.Counter
	putConflicts  prometheus.Counter
	putSuccesses  prometheus.Counter
	putFailures   prometheus.Counter
	probesSent    prometheus.Counter
	probeFailures prometheus.Counter
	reconciled    prometheus.Counter
}

// NewMetrics creates the core metrics and registers them on the given
// registerer. A nil registerer keeps the collectors unregistered.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		putAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vstore_put_attempts",
			Help: "Number of put requests issued, retries included",
		}),
		putRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vstore_put_retries",
			Help: "Number of puts reissued after a transient failure",
		}),
		putConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vstore_put_conflicts",
			Help: "Number of puts refused by a version conflict",
		}),
		putSuccesses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vstore_put_successes",
			Help: "Number of puts verified and accepted",
		}),
		putFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vstore_put_failures",
			Help: "Number of puts that gave up",
		}),
		probesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vstore_probes_sent",
			Help: "Number of liveness probes sent to known locations",
		}),
		probeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vstore_probe_failures",
			Help: "Number of liveness probes that could not be sent",
		}),
		reconciled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vstore_reconciliations",
			Help: "Number of finished location reconciliations",
		}),
	}
	if registerer != nil {
		collectors := []prometheus.Collector{
			m.putAttempts,
			m.putRetries,
			m.putConflicts,
			m.putSuccesses,
			m.putFailures,
			m.probesSent,
			m.probeFailures,
			m.reconciled,
		}
		for _, collector := range collectors {
			if err := registerer.Register(collector); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) putAttempt() {
	if m != nil {
		m.putAttempts.Inc()
	}
}

func (m *Metrics) putRetry() {
	if m != nil {
		m.putRetries.Inc()
	}
}

func (m *Metrics) putConflict() {
	if m != nil {
		m.putConflicts.Inc()
	}
}

func (m *Metrics) putSuccess() {
	if m != nil {
		m.putSuccesses.Inc()
	}
}

func (m *Metrics) putFailure() {
	if m != nil {
		m.putFailures.Inc()
	}
}

func (m *Metrics) probeSent() {
	if m != nil {
		m.probesSent.Inc()
	}
}

func (m *Metrics) probeFailure() {
	if m != nil {
		m.probeFailures.Inc()
	}
}

func (m *Metrics) reconciliation() {
	if m != nil {
		m.reconciled.Inc()
	}
}
