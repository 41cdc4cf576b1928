package core

import (
	"sync"

	"github.com/jabolina/go-vstore/pkg/vstore/types"
)

// PutListener receives the terminal verdict of one verified put. Exactly
// one of the methods is invoked, exactly once.
type PutListener interface {
	OnPutSuccess()
	OnPutFailure()
}

// CompletionReporter mediates the terminal notification of a verifier.
// The reporter guarantees a single terminal call no matter how many
// events race into it, and that the compensating cleanup ran before a
// failure is delivered. The cleanup outcome can never turn a failure
// into a success.
type CompletionReporter struct {
	mutex    sync.Mutex
	notified bool

	listener PutListener
	log      types.Logger
}

func NewCompletionReporter(listener PutListener, log types.Logger) *CompletionReporter {
	return &CompletionReporter{
		listener: listener,
		log:      log,
	}
}

// Success delivers the success verdict. Returns false when a verdict was
// already delivered and this call was discarded.
func (r *CompletionReporter) Success() bool {
	if !r.claim() {
		return false
	}
	r.listener.OnPutSuccess()
	return true
}

// Failure runs the compensating cleanup and delivers the failure
// verdict. Returns false when a verdict was already delivered, in which
// case the cleanup does not run either.
func (r *CompletionReporter) Failure(cleanup func()) bool {
	if !r.claim() {
		return false
	}
	if cleanup != nil {
		cleanup()
	}
	r.listener.OnPutFailure()
	return true
}

// Atomically claim the single terminal delivery.
func (r *CompletionReporter) claim() bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.notified {
		r.log.Debugf("discarding completion arrived after the verdict")
		return false
	}
	r.notified = true
	return true
}
