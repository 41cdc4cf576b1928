package helper

import (
	"testing"

	"github.com/google/uuid"
	"github.com/luxfi/ids"
)

func TestChooseFirst_ReturnsLeastPeer(t *testing.T) {
	a := ids.BuildTestNodeID([]byte{0x01})
	b := ids.BuildTestNodeID([]byte{0x02})
	c := ids.BuildTestNodeID([]byte{0x03})

	for _, peers := range [][]ids.NodeID{
		{a, b, c},
		{c, b, a},
		{b, a, c},
		{a},
	} {
		if chosen := ChooseFirst(peers); chosen != a {
			t.Errorf("expected %s to be chosen from %v, found %s", a, peers, chosen)
		}
	}
}

func TestChooseFirst_IsDeterministic(t *testing.T) {
	peers := []ids.NodeID{
		ids.GenerateTestNodeID(),
		ids.GenerateTestNodeID(),
		ids.GenerateTestNodeID(),
	}
	first := ChooseFirst(peers)
	for i := 0; i < 10; i++ {
		if chosen := ChooseFirst(peers); chosen != first {
			t.Fatalf("expected %s on every evaluation, found %s", first, chosen)
		}
	}
}

func TestChooseFirst_PanicsOnEmptySet(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic choosing from an empty set")
		}
	}()
	ChooseFirst(nil)
}

func TestGenerateNonce(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		nonce := GenerateNonce()
		if _, err := uuid.Parse(nonce); err != nil {
			t.Fatalf("nonce %s is not uuid shaped. %v", nonce, err)
		}
		if seen[nonce] {
			t.Fatalf("nonce %s generated twice", nonce)
		}
		seen[nonce] = true
	}
}
