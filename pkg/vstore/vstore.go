// Package vstore holds the write verification and liveness coordination
// layer of a peer to peer versioned store. A Session binds one logged in
// user to the storage and overlay facades and exposes the two
// operations the layer is responsible for: driving a versioned put to a
// verified completion, and rebuilding the user locations from a
// liveness pass right after login.
package vstore

import (
	"errors"

	"github.com/jabolina/go-vstore/pkg/vstore/core"
	"github.com/jabolina/go-vstore/pkg/vstore/definition"
	"github.com/jabolina/go-vstore/pkg/vstore/types"
)

var (
	// ErrNilDataManager is returned when creating a session without the
	// storage facade.
	ErrNilDataManager = errors.New("session requires a data manager")

	// ErrNilNetworkManager is returned when creating a session without
	// the overlay facade.
	ErrNilNetworkManager = errors.New("session requires a network manager")
)

// Session glues one logged in user to the DHT facades. Sessions are
// cheap, every operation spawns its own single use state machine, no
// state is shared between operations.
type Session struct {
	configuration *types.Configuration
	data          types.DataManager
	network       types.NetworkManager
	metrics       *core.Metrics
}

// NewSession creates a session over the given facades. A nil
// configuration falls back to the defaults.
func NewSession(configuration *types.Configuration, data types.DataManager, network types.NetworkManager) (*Session, error) {
	if data == nil {
		return nil, ErrNilDataManager
	}
	if network == nil {
		return nil, ErrNilNetworkManager
	}
	if configuration == nil {
		configuration = definition.DefaultConfiguration()
	}
	metrics, err := core.NewMetrics(configuration.Registry)
	if err != nil {
		return nil, err
	}
	return &Session{
		configuration: configuration,
		data:          data,
		network:       network,
		metrics:       metrics,
	}, nil
}

// VerifyPut drives a put of the given content revision to completion,
// notifying exactly one of the listener methods when done.
func (s *Session) VerifyPut(location types.LocationKey, content types.ContentKey, value types.NetworkContent, listener core.PutListener) error {
	verifier := core.NewPutVerifier(s.configuration, s.data, s.metrics, location, content, value, listener)
	return verifier.Verify()
}

// ReconcileLocations probes every endpoint on the input locations and
// publishes the pruned set plus the master election verdict on the
// returned channel.
func (s *Session) ReconcileLocations(input types.Locations) (<-chan core.ReconcileOutcome, error) {
	reconciler := core.NewReconciler(s.configuration, s.network, s.metrics)
	return reconciler.Reconcile(input)
}
