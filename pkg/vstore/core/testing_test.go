package core

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/luxfi/ids"

	"github.com/jabolina/go-vstore/pkg/vstore/definition"
	"github.com/jabolina/go-vstore/pkg/vstore/types"
)

func testConfiguration() *types.Configuration {
	logger := definition.NewDefaultLogger()
	logger.ToggleDebug(false)
	return &types.Configuration{
		PutRetries:        types.DefaultPutRetries,
		ContactPeersAwait: 150 * time.Millisecond,
		Logger:            logger,
	}
}

// A data manager fake playing scripted put completions in order and
// recording every operation it was asked for.
type fakeDataManager struct {
	mutex sync.Mutex

	puts    []types.PutResult
	digest  types.DigestFetch
	removed []ids.ID
	events  []string
}

func newFakeDataManager(puts ...types.PutResult) *fakeDataManager {
	return &fakeDataManager{puts: puts}
}

func (f *fakeDataManager) Put(types.LocationKey, types.ContentKey, types.NetworkContent) <-chan types.PutResult {
	completion := make(chan types.PutResult, 1)
	f.mutex.Lock()
	f.events = append(f.events, "put")
	result := types.PutResult{Failure: errors.New("put not scripted")}
	if len(f.puts) > 0 {
		result = f.puts[0]
		f.puts = f.puts[1:]
	}
	f.mutex.Unlock()
	completion <- result
	return completion
}

func (f *fakeDataManager) RemoveVersion(_ types.LocationKey, _ types.ContentKey, version ids.ID) <-chan types.RemoveResult {
	completion := make(chan types.RemoveResult, 1)
	f.mutex.Lock()
	f.events = append(f.events, "remove")
	f.removed = append(f.removed, version)
	f.mutex.Unlock()
	completion <- types.RemoveResult{}
	return completion
}

func (f *fakeDataManager) GetDigest(types.LocationKey, types.ContentKey, ids.ID, ids.ID) <-chan types.DigestFetch {
	completion := make(chan types.DigestFetch, 1)
	f.mutex.Lock()
	f.events = append(f.events, "digest")
	digest := f.digest
	f.mutex.Unlock()
	completion <- digest
	return completion
}

func (f *fakeDataManager) countEvent(name string) int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	count := 0
	for _, event := range f.events {
		if event == name {
			count++
		}
	}
	return count
}

func (f *fakeDataManager) removedVersions() []ids.ID {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]ids.ID(nil), f.removed...)
}

// A listener recording the verdicts and signalling each terminal call.
type recordingListener struct {
	mutex     sync.Mutex
	successes int
	failures  int
	onFailure func()
	terminal  chan struct{}
}

func newRecordingListener() *recordingListener {
	return &recordingListener{terminal: make(chan struct{}, 8)}
}

func (l *recordingListener) OnPutSuccess() {
	l.mutex.Lock()
	l.successes++
	l.mutex.Unlock()
	l.terminal <- struct{}{}
}

func (l *recordingListener) OnPutFailure() {
	l.mutex.Lock()
	l.failures++
	hook := l.onFailure
	l.mutex.Unlock()
	if hook != nil {
		hook()
	}
	l.terminal <- struct{}{}
}

func (l *recordingListener) counts() (int, int) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.successes, l.failures
}

func waitTerminal(t *testing.T, l *recordingListener) {
	t.Helper()
	select {
	case <-l.terminal:
	case <-time.After(3 * time.Second):
		t.Fatal("no terminal verdict arrived")
	}
}

// How a probed peer behaves on the fake overlay.
type peerBehavior uint8

const (
	behaviorEcho peerBehavior = iota
	behaviorSilent
	behaviorSendFailure
	behaviorMismatch
)

type sentProbe struct {
	message types.ContactPeerMessage
	handler types.ResponseHandler
}

// A network manager fake delivering probe callbacks from its own
// routines, the way a transport would.
type fakeNetworkManager struct {
	mutex sync.Mutex

	self      ids.NodeID
	behaviors map[ids.NodeID]peerBehavior
	sent      []sentProbe
}

func newFakeNetworkManager(self ids.NodeID) *fakeNetworkManager {
	return &fakeNetworkManager{
		self:      self,
		behaviors: make(map[ids.NodeID]peerBehavior),
	}
}

func (f *fakeNetworkManager) PeerAddress() ids.NodeID {
	return f.self
}

func (f *fakeNetworkManager) NodeID() string {
	return "node-" + f.self.String()
}

func (f *fakeNetworkManager) KeyPair() types.KeyPair {
	return types.KeyPair{Public: types.PublicKey("test-public-key")}
}

func (f *fakeNetworkManager) SendDirect(message types.ContactPeerMessage, _ types.PublicKey, handler types.ResponseHandler) {
	f.mutex.Lock()
	f.sent = append(f.sent, sentProbe{message: message, handler: handler})
	behavior := f.behaviors[message.Receiver]
	f.mutex.Unlock()

	// Round trip the wire shape, the real transport hands bytes over.
	data, err := json.Marshal(message)
	if err != nil {
		go handler.OnSendFailure(err)
		return
	}
	var decoded types.ContactPeerMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		go handler.OnSendFailure(err)
		return
	}

	switch behavior {
	case behaviorEcho:
		go handler.OnResponse(types.DirectResponse{Sender: decoded.Receiver, Content: decoded.Nonce})
	case behaviorMismatch:
		go handler.OnResponse(types.DirectResponse{Sender: decoded.Receiver, Content: "not-the-evidence"})
	case behaviorSendFailure:
		go handler.OnSendFailure(errors.New("peer unreachable"))
	case behaviorSilent:
	}
}

func (f *fakeNetworkManager) sentProbes() []sentProbe {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]sentProbe(nil), f.sent...)
}

func waitOutcome(t *testing.T, outcome <-chan ReconcileOutcome) ReconcileOutcome {
	t.Helper()
	select {
	case result := <-outcome:
		return result
	case <-time.After(3 * time.Second):
		t.Fatal("reconciliation never finished")
		return ReconcileOutcome{}
	}
}
