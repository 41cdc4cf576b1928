package core

import (
	"errors"
	"sync"

	"github.com/luxfi/ids"

	"github.com/jabolina/go-vstore/pkg/vstore/types"
)

var (
	// ErrVerifierUsed is returned when starting a verifier that already
	// drove a put. Instances are single use.
	ErrVerifierUsed = errors.New("put verifier is single use and was already started")
)

// The states a verified put moves through. A terminal state is reached
// exactly once and notifies the listener through the reporter.
type putState uint8

const (
	putIssuing putState = iota
	putClassifying
	putRetrying
	putVerifying
	putFailing
	putSuccessNotified
	putFailureNotified
)

// What the classification of a put completion decided.
type putDecision uint8

const (
	// The failure looks transient, issue the put again.
	decideRetry putDecision = iota

	// A quorum accepted, check the digests for concurrent writers.
	decideVerify

	// A semantic constraint was violated, give up without retrying.
	decideFail
)

// PutVerifier drives one versioned put to completion. The write goes to
// the replica set and the per replica reply codes are classified, a
// transient failure is retried, and an accepted quorum is checked
// against the version digests to detect concurrent writers. The
// listener receives exactly one terminal verdict.
type PutVerifier struct {
	mutex   sync.Mutex
	state   putState
	retries int
	started bool

	configuration *types.Configuration
	data          types.DataManager
	invoker       Invoker
	metrics       *Metrics
	reporter      *CompletionReporter
	log           types.Logger

	location types.LocationKey
	content  types.ContentKey
	value    types.NetworkContent
}

// NewPutVerifier creates a single use verifier bound to one write of the
// given content revision.
func NewPutVerifier(
	configuration *types.Configuration,
	data types.DataManager,
	metrics *Metrics,
	location types.LocationKey,
	content types.ContentKey,
	value types.NetworkContent,
	listener PutListener,
) *PutVerifier {
	return &PutVerifier{
		state:         putIssuing,
		configuration: configuration,
		data:          data,
		invoker:       InvokerInstance(),
		metrics:       metrics,
		reporter:      NewCompletionReporter(listener, configuration.Logger),
		log:           configuration.Logger,
		location:      location,
		content:       content,
		value:         value,
	}
}

// Verify starts driving the put on its own routine. Returns
// ErrVerifierUsed when the instance already ran.
func (v *PutVerifier) Verify() error {
	v.mutex.Lock()
	if v.started {
		v.mutex.Unlock()
		return ErrVerifierUsed
	}
	v.started = true
	v.mutex.Unlock()

	v.invoker.Spawn(v.run)
	return nil
}

// The attempt loop. Every iteration issues the put, waits the completion
// and classifies it. Only a retry decision loops again, the other
// decisions leave through a terminal state.
func (v *PutVerifier) run() {
	for {
		v.transition(putIssuing)
		v.metrics.putAttempt()
		completion := <-v.data.Put(v.location, v.content, v.value)

		v.transition(putClassifying)
		switch v.classify(completion) {
		case decideFail:
			v.fail()
			return
		case decideVerify:
			v.transition(putVerifying)
			if v.verify() {
				v.succeed()
			} else {
				v.fail()
			}
			return
		case decideRetry:
			v.mutex.Lock()
			exhausted := v.retries >= v.configuration.PutRetries
			if !exhausted {
				v.retries++
			}
			v.mutex.Unlock()
			if exhausted {
				v.log.Warnf("put of %s gave up after %d retries", v.value.VersionKey, v.configuration.PutRetries)
				v.fail()
				return
			}
			v.transition(putRetrying)
			v.metrics.putRetry()
			// Remove whatever replicas accepted before issuing again, so
			// a retry does not layer duplicates on top of itself.
			v.rollback()
		}
	}
}

// Classify one put completion into a decision, in order: any conflicting
// replica fails the put at once, a strict minority of failed responses
// moves on to verification, everything else is retried.
func (v *PutVerifier) classify(completion types.PutResult) putDecision {
	if completion.Failure != nil {
		v.log.Warnf("put of %s failed. %v", v.value.VersionKey, completion.Failure)
		return decideRetry
	}
	if len(completion.Responses) == 0 {
		v.log.Warnf("put of %s received no response", v.value.VersionKey)
		return decideRetry
	}

	responses, failures, conflicts := 0, 0, 0
	for peer, entries := range completion.Responses {
		if entries == nil {
			responses++
			failures++
			v.log.Warnf("peer %s answered the put with nothing", peer)
			continue
		}
		for key, status := range entries {
			responses++
			switch {
			case status == types.PutOK:
			case status.IsConflict():
				conflicts++
				v.log.Errorf("put of %s hit %s on peer %s, key %s", v.value.VersionKey, status, peer, key)
			default:
				failures++
			}
		}
	}

	if conflicts > 0 {
		v.metrics.putConflict()
		return decideFail
	}
	if failures*2 < responses {
		return decideVerify
	}
	return decideRetry
}

// Probe the version digests of the replica set to detect a concurrent
// writer that raced our accepted put. Returns true when every answering
// replica either ranks our revision newest, holds it in history, or
// loses the winner rule against it.
func (v *PutVerifier) verify() bool {
	fetch := <-v.data.GetDigest(v.location, v.content, ids.Empty, types.MaxVersionKey)
	if fetch.Failure != nil {
		v.log.Warnf("digest of %s unavailable. %v", v.content, fetch.Failure)
		return false
	}
	if len(fetch.Digests) == 0 {
		v.log.Warnf("digest of %s came back empty", v.content)
		return false
	}

	for peer, digest := range fetch.Digests {
		if first, ok := digest.First(); ok && first.VersionKey == v.value.VersionKey {
			// This replica ranks our write as the newest revision.
			continue
		}
		if digest.ContainsVersion(v.value.VersionKey) {
			// A newer write layered on top, but ours is in the history.
			continue
		}
		if !v.wins(peer, digest) {
			return false
		}
	}
	return true
}

// The winner rule over one replica digest, deciding deterministically
// between our write and the concurrent one the replica recorded instead.
func (v *PutVerifier) wins(peer ids.NodeID, digest types.KeyDigest) bool {
	if !digest.ContainsVersion(v.value.BasedOn) {
		// The replica does not even know our parent revision. One broken
		// replica must not veto the write.
		v.log.Warnf("peer %s holds no parent %s, overruling replica", peer, v.value.BasedOn)
		return true
	}

	successor, ok := digest.SuccessorOf(v.value.BasedOn)
	if !ok {
		if first, has := digest.First(); has && first.VersionKey == v.value.BasedOn {
			v.log.Warnf("peer %s records no successor of %s", peer, v.value.BasedOn)
		} else {
			v.log.Warnf("peer %s holds a corrupt history for key %s", peer, v.content)
		}
		return true
	}

	switch types.CompareVersions(successor.VersionKey, v.value.VersionKey) {
	case 0:
		// Both writers drew the same version key. Favor the local write,
		// a deterministic answer breaks the livelock.
		v.log.Errorf("concurrent write on peer %s carries our version key %s", peer, v.value.VersionKey)
		return true
	case -1:
		return false
	default:
		return true
	}
}

func (v *PutVerifier) succeed() {
	v.transition(putSuccessNotified)
	if !v.reporter.Success() {
		return
	}
	v.metrics.putSuccess()
}

func (v *PutVerifier) fail() {
	v.transition(putFailing)
	if !v.reporter.Failure(func() {
		v.rollback()
		v.transition(putFailureNotified)
	}) {
		return
	}
	v.metrics.putFailure()
}

// Best effort removal of our revision from whatever replicas accepted
// it. The outcome is logged and never gates the caller.
func (v *PutVerifier) rollback() {
	completion := <-v.data.RemoveVersion(v.location, v.content, v.value.VersionKey)
	if completion.Failure != nil {
		v.log.Warnf("failed removing version %s of key %s. %v", v.value.VersionKey, v.content, completion.Failure)
	}
}

func (v *PutVerifier) transition(next putState) {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	if v.state == putSuccessNotified || v.state == putFailureNotified {
		return
	}
	v.state = next
}

func (v *PutVerifier) currentState() putState {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	return v.state
}
