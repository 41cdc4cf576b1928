package types

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// DefaultPutRetries bounds how many times a transiently failed put
	// is reissued before giving up.
	DefaultPutRetries = 3

	// DefaultContactPeersAwait bounds how long a reconciliation waits
	// for the probed peers to answer.
	DefaultContactPeersAwait = 10 * time.Second
)

// Configuration holds the process wide knobs of the core. Tests shrink
// the timing values to keep runs fast.
type Configuration struct {
	// How many times a failed put will be issued again.
	PutRetries int

	// For how long probed peers can answer before the locations are
	// rebuilt from whatever arrived.
	ContactPeersAwait time.Duration

	// Logger utilities used by every component.
	Logger Logger

	// Registry receives the core metrics. A nil registry keeps the
	// metrics unregistered but still usable.
	Registry prometheus.Registerer
}
