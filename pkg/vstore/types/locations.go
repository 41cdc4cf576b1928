package types

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/luxfi/ids"
)

// LocationEntry is one known client endpoint of a user. Uniqueness inside
// a Locations value is given by the wrapped peer identity.
type LocationEntry struct {
	Peer ids.NodeID
}

// Locations holds every endpoint a single user is known to be logged in
// at. The entry set is unordered. After a reconciliation the local peer
// is always a member, exactly once.
type Locations struct {
	UserID string

	entries mapset.Set[LocationEntry]
}

// NewLocations creates an empty locations set for the given user.
func NewLocations(user string) Locations {
	return Locations{
		UserID:  user,
		entries: mapset.NewSet[LocationEntry](),
	}
}

// Add inserts the peer endpoint, a no-op when already present.
func (l Locations) Add(peer ids.NodeID) {
	l.entries.Add(LocationEntry{Peer: peer})
}

// Remove drops the peer endpoint if present.
func (l Locations) Remove(peer ids.NodeID) {
	l.entries.Remove(LocationEntry{Peer: peer})
}

// Contains tells if the peer endpoint is a member.
func (l Locations) Contains(peer ids.NodeID) bool {
	return l.entries.Contains(LocationEntry{Peer: peer})
}

// Len is the number of distinct endpoints.
func (l Locations) Len() int {
	return l.entries.Cardinality()
}

// Peers lists the member peer identities, in no particular order.
func (l Locations) Peers() []ids.NodeID {
	peers := make([]ids.NodeID, 0, l.entries.Cardinality())
	l.entries.Each(func(entry LocationEntry) bool {
		peers = append(peers, entry.Peer)
		return false
	})
	return peers
}

// Entries lists the member endpoints, in no particular order.
func (l Locations) Entries() []LocationEntry {
	return l.entries.ToSlice()
}
