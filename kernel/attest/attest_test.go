package attest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/50gramx/civilisation-os-kernel/kernel/hashing"
	"github.com/50gramx/civilisation-os-kernel/kernel/merkle"
)

func TestComputeBundleHash_IsDeterministicAndOrderSensitive(t *testing.T) {
	bond := []merkle.LeafMutation{{Key: []byte("a"), OldValue: []byte("1"), NewValue: []byte("2")}}
	h1 := ComputeBundleHash(bond, nil, nil)
	h2 := ComputeBundleHash(bond, nil, nil)
	require.Equal(t, h1, h2)

	h3 := ComputeBundleHash(nil, bond, nil)
	require.NotEqual(t, h1, h3)
}

func TestComputeEpochSigningRoot_ChangesWithEpochNumber(t *testing.T) {
	var prevRoot, bundleHash, kernelHash hashing.Digest
	r1 := ComputeEpochSigningRoot(prevRoot, bundleHash, 1, kernelHash)
	r2 := ComputeEpochSigningRoot(prevRoot, bundleHash, 2, kernelHash)
	require.NotEqual(t, r1, r2)
}

func TestVerifyQuorum_PassthroughAcceptsAscendingUniquePubkeys(t *testing.T) {
	sigs := []Signature{
		{ValidatorPubkey: [32]byte{0x01}},
		{ValidatorPubkey: [32]byte{0x02}},
	}
	var root hashing.Digest
	err := VerifyQuorum(PassthroughVerifier{}, sigs, root, 3)
	require.NoError(t, err)
}

func TestVerifyQuorum_RejectsDuplicatePubkey(t *testing.T) {
	sigs := []Signature{
		{ValidatorPubkey: [32]byte{0x01}},
		{ValidatorPubkey: [32]byte{0x01}},
	}
	var root hashing.Digest
	err := VerifyQuorum(PassthroughVerifier{}, sigs, root, 2)
	require.Error(t, err)
}

func TestVerifyQuorum_RejectsReversedOrder(t *testing.T) {
	sigs := []Signature{
		{ValidatorPubkey: [32]byte{0x02}},
		{ValidatorPubkey: [32]byte{0x01}},
	}
	var root hashing.Digest
	err := VerifyQuorum(PassthroughVerifier{}, sigs, root, 2)
	require.Error(t, err)
}

func TestVerifyQuorum_RejectsBelowThreshold(t *testing.T) {
	sigs := []Signature{{ValidatorPubkey: [32]byte{0x01}}}
	var root hashing.Digest
	err := VerifyQuorum(PassthroughVerifier{}, sigs, root, 10)
	require.Error(t, err)
}

func TestVerifyQuorum_ZeroOptimalCountAcceptsEmptySignatures(t *testing.T) {
	var root hashing.Digest
	err := VerifyQuorum(PassthroughVerifier{}, nil, root, 0)
	require.NoError(t, err)
}

type rejectingVerifier struct{}

func (rejectingVerifier) Verify([32]byte, hashing.Digest, [64]byte) bool { return false }

func TestVerifyQuorum_RejectsWhenVerifierRejects(t *testing.T) {
	sigs := []Signature{{ValidatorPubkey: [32]byte{0x01}}}
	var root hashing.Digest
	err := VerifyQuorum(rejectingVerifier{}, sigs, root, 0)
	require.Error(t, err)
}
