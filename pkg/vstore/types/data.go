package types

import (
	"bytes"

	"github.com/luxfi/ids"
)

// LocationKey addresses the domain a content item lives in. The value is
// opaque for the core, the DHT will hash it into its fixed width
// identifier space.
type LocationKey []byte

// ContentKey names a single content item inside a location domain.
type ContentKey []byte

// MaxVersionKey is the upper bound used when querying a digest over the
// whole version range of a content item.
var MaxVersionKey = func() ids.ID {
	var id ids.ID
	for i := range id {
		id[i] = 0xff
	}
	return id
}()

// CompareVersions orders two version keys by the natural ordering of the
// fixed width identifier.
func CompareVersions(a, b ids.ID) int {
	return bytes.Compare(a[:], b[:])
}

// NetworkContent is one immutable revision of a content item. The BasedOn
// key names the parent revision, a root revision holds the zero sentinel.
type NetworkContent struct {
	VersionKey ids.ID
	BasedOn    ids.ID
	Payload    []byte
}

// PutStatus is the reply code a replica answers to a put request.
type PutStatus uint8

const (
	// The replica accepted the write.
	PutOK PutStatus = iota

	// The replica refused the write.
	PutFailed

	// The replica refused because an entry already exists.
	PutFailedNotAbsent

	// The replica refused the write signature.
	PutFailedSecurity

	// The replica detected a concurrent writer.
	PutVersionConflict

	// The replica does not know the parent the write is based on.
	PutVersionConflictNoBasedOn

	// The write carried no version key.
	PutVersionConflictNoVersionKey

	// The write carried a timestamp older than the replica head.
	PutVersionConflictOldTimestamp
)

// IsFailure tells if the status counts into the fail majority test.
func (s PutStatus) IsFailure() bool {
	return s == PutFailed || s == PutFailedNotAbsent || s == PutFailedSecurity
}

// IsConflict tells if the status signals a concurrent writer. A single
// conflicting replica fails the whole put.
func (s PutStatus) IsConflict() bool {
	return s == PutVersionConflict ||
		s == PutVersionConflictNoBasedOn ||
		s == PutVersionConflictNoVersionKey ||
		s == PutVersionConflictOldTimestamp
}

func (s PutStatus) String() string {
	switch s {
	case PutOK:
		return "OK"
	case PutFailed:
		return "FAILED"
	case PutFailedNotAbsent:
		return "FAILED_NOT_ABSENT"
	case PutFailedSecurity:
		return "FAILED_SECURITY"
	case PutVersionConflict:
		return "VERSION_CONFLICT"
	case PutVersionConflictNoBasedOn:
		return "VERSION_CONFLICT_NO_BASED_ON"
	case PutVersionConflictNoVersionKey:
		return "VERSION_CONFLICT_NO_VERSION_KEY"
	case PutVersionConflictOldTimestamp:
		return "VERSION_CONFLICT_OLD_TIMESTAMP"
	}
	return "UNKNOWN"
}

// RawPutResult maps each answering replica to the status it gave for every
// storage key touched by the put. A replica present with a nil entry counts
// as a single failed response.
type RawPutResult map[ids.NodeID]map[string]PutStatus

// DigestEntry is one revision a replica reports for a content item,
// together with the parent the revision was based on.
type DigestEntry struct {
	VersionKey ids.ID
	BasedOn    ids.ID
}

// KeyDigest is the version history one replica holds for a content item.
// Entries are ordered newest first.
type KeyDigest struct {
	Entries []DigestEntry
}

// First returns the newest entry of the digest.
func (d KeyDigest) First() (DigestEntry, bool) {
	if len(d.Entries) == 0 {
		return DigestEntry{}, false
	}
	return d.Entries[0], true
}

// ContainsVersion tells if the digest holds an entry for the given
// version key.
func (d KeyDigest) ContainsVersion(version ids.ID) bool {
	for _, entry := range d.Entries {
		if entry.VersionKey == version {
			return true
		}
	}
	return false
}

// SuccessorOf returns the first entry recorded on top of the given parent.
func (d KeyDigest) SuccessorOf(parent ids.ID) (DigestEntry, bool) {
	for _, entry := range d.Entries {
		if entry.BasedOn == parent {
			return entry, true
		}
	}
	return DigestEntry{}, false
}
