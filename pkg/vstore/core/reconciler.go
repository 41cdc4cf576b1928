package core

import (
	"errors"
	"sync"
	"time"

	"github.com/luxfi/ids"

	"github.com/jabolina/go-vstore/pkg/vstore/helper"
	"github.com/jabolina/go-vstore/pkg/vstore/types"
)

var (
	// ErrReconcilerUsed is returned when starting a reconciler that
	// already ran. Instances are single use.
	ErrReconcilerUsed = errors.New("reconciler is single use and was already started")
)

// ReconcileOutcome is the result of one reconciliation: the rebuilt
// locations holding only the responsive peers plus self, and whether the
// local peer was elected master of the shared message queue.
type ReconcileOutcome struct {
	Locations types.Locations
	IsMaster  bool
}

// Reconciler rebuilds the stored locations of a user right after login.
// Every previously known endpoint is probed with a fresh evidence nonce
// under a bounded wait, unresponsive peers are dropped, and one member
// of the surviving set is deterministically elected master. The
// reconciler never fails, at the deadline it emits a best effort view.
type Reconciler struct {
	mutex   sync.Mutex
	started bool
	done    bool

	configuration *types.Configuration
	network       types.NetworkManager
	metrics       *Metrics
	log           types.Logger

	user      string
	pending   []ids.NodeID
	evidence  map[ids.NodeID]string
	responses map[ids.NodeID]bool
	timer     *time.Timer
	outcome   chan ReconcileOutcome
}

// NewReconciler creates a single use reconciler for one login session.
func NewReconciler(configuration *types.Configuration, network types.NetworkManager, metrics *Metrics) *Reconciler {
	return &Reconciler{
		configuration: configuration,
		network:       network,
		metrics:       metrics,
		log:           configuration.Logger,
		evidence:      make(map[ids.NodeID]string),
		responses:     make(map[ids.NodeID]bool),
		outcome:       make(chan ReconcileOutcome, 1),
	}
}

// Reconcile probes every endpoint of the input except self and publishes
// the rebuilt locations on the returned channel, either when every probe
// answered or when the await deadline fired. Returns ErrReconcilerUsed
// when the instance already ran.
func (r *Reconciler) Reconcile(input types.Locations) (<-chan ReconcileOutcome, error) {
	self := r.network.PeerAddress()

	r.mutex.Lock()
	if r.started {
		r.mutex.Unlock()
		return nil, ErrReconcilerUsed
	}
	r.started = true
	r.user = input.UserID
	for _, peer := range input.Peers() {
		if peer != self {
			r.pending = append(r.pending, peer)
		}
	}
	empty := len(r.pending) == 0
	if !empty {
		r.timer = time.AfterFunc(r.configuration.ContactPeersAwait, r.finalize)
	}
	pending := r.pending
	r.mutex.Unlock()

	if empty {
		r.finalize()
		return r.outcome, nil
	}
	for _, peer := range pending {
		r.probe(peer)
	}
	return r.outcome, nil
}

// Send the liveness probe to a single peer, recording the evidence the
// reply must echo.
func (r *Reconciler) probe(peer ids.NodeID) {
	nonce := helper.GenerateNonce()

	r.mutex.Lock()
	r.evidence[peer] = nonce
	r.mutex.Unlock()

	message := types.ContactPeerMessage{
		Receiver: peer,
		Nonce:    nonce,
	}
	r.metrics.probeSent()
	r.network.SendDirect(message, r.network.KeyPair().Public, &probeHandler{
		reconciler: r,
		peer:       peer,
	})
}

// Routes the transport callbacks of one probe back into the reconciler.
type probeHandler struct {
	reconciler *Reconciler
	peer       ids.NodeID
}

func (h *probeHandler) OnResponse(response types.DirectResponse) {
	h.reconciler.onProbeResponse(h.peer, response)
}

func (h *probeHandler) OnSendFailure(err error) {
	h.reconciler.onProbeFailure(h.peer, err)
}

// A probe reply arrived. Only a byte exact echo of the recorded evidence
// marks the peer alive, a mismatch is neither success nor failure and
// the peer is left to the deadline.
func (r *Reconciler) onProbeResponse(peer ids.NodeID, response types.DirectResponse) {
	r.mutex.Lock()
	if r.done {
		r.mutex.Unlock()
		r.log.Warnf("discarding reply of peer %s arrived after the locations were rebuilt", peer)
		return
	}
	if response.Content != r.evidence[peer] {
		r.mutex.Unlock()
		r.log.Warnf("peer %s echoed the wrong evidence, ignoring", peer)
		return
	}
	r.responses[peer] = true
	complete := len(r.responses) >= len(r.pending)
	r.mutex.Unlock()

	if complete {
		r.finalize()
	}
}

// The probe could not even be sent. Recording the failure at once keeps
// the deadline from waiting on a peer known to be gone.
func (r *Reconciler) onProbeFailure(peer ids.NodeID, err error) {
	r.mutex.Lock()
	if r.done {
		r.mutex.Unlock()
		return
	}
	r.log.Warnf("failed contacting peer %s. %v", peer, err)
	r.responses[peer] = false
	r.metrics.probeFailure()
	complete := len(r.responses) >= len(r.pending)
	r.mutex.Unlock()

	if complete {
		r.finalize()
	}
}

// Rebuild the locations from whatever answered so far and elect the
// master. Runs at most once, every later response or timer fire is a
// no-op.
func (r *Reconciler) finalize() {
	r.mutex.Lock()
	if r.done {
		r.mutex.Unlock()
		return
	}
	r.done = true
	if r.timer != nil {
		r.timer.Stop()
	}
	user := r.user
	var alive, dropped []ids.NodeID
	for _, peer := range r.pending {
		if r.responses[peer] {
			alive = append(alive, peer)
		} else {
			dropped = append(dropped, peer)
		}
	}
	r.mutex.Unlock()

	self := r.network.PeerAddress()
	locations := types.NewLocations(user)
	locations.Add(self)
	pool := []ids.NodeID{self}
	for _, peer := range alive {
		locations.Add(peer)
		pool = append(pool, peer)
	}
	master := helper.ChooseFirst(pool)

	r.notifyDropped(dropped)
	r.metrics.reconciliation()
	r.log.Infof("node %s rebuilt %d locations, master %s", r.network.NodeID(), locations.Len(), master)
	r.outcome <- ReconcileOutcome{
		Locations: locations,
		IsMaster:  master == self,
	}
}

// Hook for telling unresponsive peers they were dropped.
func (r *Reconciler) notifyDropped(peers []ids.NodeID) {
	if len(peers) == 0 {
		return
	}
	// TODO: send the dropped peers a direct message so they stop holding
	// a stale view of the user locations.
	r.log.Debugf("dropped %d unresponsive locations", len(peers))
}
