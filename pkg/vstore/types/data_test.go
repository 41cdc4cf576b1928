package types

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"
)

func TestPutStatus_Classification(t *testing.T) {
	for status, expected := range map[PutStatus]struct {
		failure  bool
		conflict bool
	}{
		PutOK:                          {},
		PutFailed:                      {failure: true},
		PutFailedNotAbsent:             {failure: true},
		PutFailedSecurity:              {failure: true},
		PutVersionConflict:             {conflict: true},
		PutVersionConflictNoBasedOn:    {conflict: true},
		PutVersionConflictNoVersionKey: {conflict: true},
		PutVersionConflictOldTimestamp: {conflict: true},
	} {
		require.Equal(t, expected.failure, status.IsFailure(), "failure of %s", status)
		require.Equal(t, expected.conflict, status.IsConflict(), "conflict of %s", status)
	}
}

func TestKeyDigest_Accessors(t *testing.T) {
	parent := ids.ID{0x01}
	newest := ids.ID{0x09}
	digest := KeyDigest{Entries: []DigestEntry{
		{VersionKey: newest, BasedOn: parent},
		{VersionKey: parent, BasedOn: ids.Empty},
	}}

	first, ok := digest.First()
	require.True(t, ok)
	require.Equal(t, newest, first.VersionKey)

	require.True(t, digest.ContainsVersion(parent))
	require.False(t, digest.ContainsVersion(ids.ID{0xff}))

	successor, ok := digest.SuccessorOf(parent)
	require.True(t, ok)
	require.Equal(t, newest, successor.VersionKey)

	_, ok = digest.SuccessorOf(newest)
	require.False(t, ok)

	_, ok = KeyDigest{}.First()
	require.False(t, ok)
}

func TestCompareVersions(t *testing.T) {
	small := ids.ID{0x01}
	large := ids.ID{0x02}
	require.Equal(t, -1, CompareVersions(small, large))
	require.Equal(t, 1, CompareVersions(large, small))
	require.Equal(t, 0, CompareVersions(small, small))
	require.Equal(t, 1, CompareVersions(MaxVersionKey, large))
}
