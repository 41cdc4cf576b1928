package helper

import (
	"github.com/google/uuid"
	"github.com/luxfi/ids"
)

// ChooseFirst returns the least peer under the stable total order the
// transport defines over peer identities. The choice is deterministic,
// every peer evaluating the same set elects the same member. Panics when
// the set is empty.
func ChooseFirst(peers []ids.NodeID) ids.NodeID {
	if len(peers) == 0 {
		panic("choosing between an empty set of peers")
	}
	first := peers[0]
	for _, peer := range peers[1:] {
		if peer.Compare(first) < 0 {
			first = peer
		}
	}
	return first
}

// GenerateNonce creates the single use evidence placed on a liveness
// probe, expected to be echoed back verbatim.
func GenerateNonce() string {
	return uuid.New().String()
}
