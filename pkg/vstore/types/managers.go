package types

import "github.com/luxfi/ids"

// PublicKey is the serialized public half of a key pair. The core never
// inspects it, the bytes are forwarded to the transport when signing a
// direct message.
type PublicKey []byte

// KeyPair holds the signing material of the local node.
type KeyPair struct {
	Public  PublicKey
	Private []byte
}

// PutResult completes a DataManager.Put future. When the underlying
// operation failed outright the Failure field is set and the responses
// must be ignored.
type PutResult struct {
	Responses RawPutResult
	Failure   error
}

// RemoveResult completes a DataManager.RemoveVersion future.
type RemoveResult struct {
	Failure error
}

// DigestFetch completes a DataManager.GetDigest future with the version
// history every answering replica holds.
type DigestFetch struct {
	Digests map[ids.NodeID]KeyDigest
	Failure error
}

// DataManager fronts the storage operations of the DHT. Every operation
// is asynchronous, completion is published once on the returned channel.
type DataManager interface {
	// Put publishes one content revision to the replica set responsible
	// for the location and content keys.
	Put(location LocationKey, content ContentKey, value NetworkContent) <-chan PutResult

	// RemoveVersion removes a single revision from the replica set, used
	// to compensate a write that will not be kept.
	RemoveVersion(location LocationKey, content ContentKey, version ids.ID) <-chan RemoveResult

	// GetDigest queries the replica set for the version history of the
	// content item, bounded by the given version key range.
	GetDigest(location LocationKey, content ContentKey, from, to ids.ID) <-chan DigestFetch
}

// ContactPeerMessage is the liveness probe sent to a previously known
// endpoint. The receiver must echo the nonce verbatim.
type ContactPeerMessage struct {
	Receiver ids.NodeID `json:"receiver"`
	Nonce    string     `json:"nonce"`
}

// DirectResponse is the reply of a direct message, carrying back the
// probe evidence on the content field.
type DirectResponse struct {
	Sender  ids.NodeID `json:"sender"`
	Content string     `json:"content"`
}

// ResponseHandler receives the completion of a direct send. OnSendFailure
// fires when the message could not even be handed to the peer, OnResponse
// fires when the peer answered.
type ResponseHandler interface {
	OnResponse(response DirectResponse)
	OnSendFailure(err error)
}

// NetworkManager fronts the overlay network the peers communicate over.
type NetworkManager interface {
	// PeerAddress is the identity of the local peer on the overlay.
	PeerAddress() ids.NodeID

	// NodeID is the human readable name of the local node.
	NodeID() string

	// KeyPair is the signing material of the local node.
	KeyPair() KeyPair

	// SendDirect fires a direct message to the receiver named inside the
	// message, signed with the given key. Delivery is not guaranteed, the
	// handler is invoked from a transport owned routine.
	SendDirect(message ContactPeerMessage, key PublicKey, handler ResponseHandler)
}
