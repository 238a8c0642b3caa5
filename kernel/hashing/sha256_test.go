package hashing

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func nist(t *testing.T, hexStr string) Digest {
	t.Helper()
	b, err := hex.DecodeString(hexStr)
	require.NoError(t, err)
	require.Len(t, b, 32)
	var d Digest
	copy(d[:], b)
	return d
}

func TestSum256_FIPSVectors(t *testing.T) {
	t.Run("empty string", func(t *testing.T) {
		require.Equal(t, nist(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"), Sum256([]byte("")))
	})

	t.Run("abc", func(t *testing.T) {
		require.Equal(t, nist(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"), Sum256([]byte("abc")))
	})

	t.Run("448-bit message", func(t *testing.T) {
		msg := []byte("abcdbcdecdefdefgefghfghighijhijkijkljklmklmnlmnomnopnopq")
		require.Equal(t, nist(t, "248d6a61d20638b8e5c026930c3e6039a33ce45964ff2167f6ecedd419db06c1"), Sum256(msg))
	})
}

func TestEmptyTreeRoot_MatchesHashOfEmptyLeaf(t *testing.T) {
	require.Equal(t, HashLeaf(nil), EmptyTreeRoot())
	require.Equal(t, Sum256([]byte{LeafPrefix}), EmptyTreeRoot())
}

func TestDomainSeparation_LeafAndNodeDiffer(t *testing.T) {
	leaf := HashLeaf([]byte("test"))
	d := Sum256([]byte("test"))
	node := HashNode(d, d)
	require.NotEqual(t, leaf, node)
}

func TestDeterminism(t *testing.T) {
	require.Equal(t, HashLeaf([]byte("hello")), HashLeaf([]byte("hello")))
	d := Sum256([]byte("x"))
	require.Equal(t, HashNode(d, d), HashNode(d, d))
}
