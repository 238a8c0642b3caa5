package identity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidatorID_RoundTripsThroughBytes(t *testing.T) {
	var id ValidatorID
	id.Type = Ed25519
	id.Raw[0] = 0xab
	id.Raw[31] = 0xcd

	got, err := FromBytes(id.Bytes())
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestValidatorID_StringRoundTripsThroughFromString(t *testing.T) {
	var id ValidatorID
	id.Type = Ed25519
	id.Raw[0] = 0x01

	got, err := FromString(id.String())
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestValidatorID_Empty(t *testing.T) {
	require.True(t, ValidatorID{}.Empty())
	require.False(t, (ValidatorID{Type: Ed25519}).Empty())
}

func TestFromBytes_RejectsWrongLength(t *testing.T) {
	_, err := FromBytes([]byte{0x01, 0x02})
	require.Error(t, err)
}

func TestCanonicalKey_IsLowercaseHexOfRawOnly(t *testing.T) {
	var id ValidatorID
	id.Type = Ed25519
	id.Raw[0] = 0xab
	require.Equal(t, 64, len(id.CanonicalKey()))
	require.Equal(t, byte('a'), id.CanonicalKey()[0])
}
