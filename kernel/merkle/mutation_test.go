package merkle

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/50gramx/civilisation-os-kernel/kernel/hashing"
	"github.com/50gramx/civilisation-os-kernel/kernel/kerr"
)

func makeMutation(key, oldValue, newValue []byte, sibling hashing.Digest, pos NodePosition) LeafMutation {
	path, err := NewPath([]PathNode{{Sibling: sibling, Position: pos}})
	if err != nil {
		panic(err)
	}
	return LeafMutation{Key: key, OldValue: oldValue, NewValue: newValue, Path: path}
}

func TestApplyMutations_EmptyReturnsRootUnchanged(t *testing.T) {
	root := hashing.HashNode(hashing.HashLeaf([]byte("a")), hashing.HashLeaf([]byte("b")))
	got, err := ApplyMutations(root, nil)
	require.NoError(t, err)
	require.Equal(t, root, got)
}

func TestApplyMutations_SingleMutation(t *testing.T) {
	leafA := hashing.HashLeaf([]byte("a"))
	leafB := hashing.HashLeaf([]byte("b"))
	root := hashing.HashNode(leafA, leafB)

	m := makeMutation([]byte("a"), []byte("a"), []byte("a2"), leafB, Left)
	newRoot, err := ApplyMutations(root, []LeafMutation{m})
	require.NoError(t, err)
	require.Equal(t, hashing.HashNode(hashing.HashLeaf([]byte("a2")), leafB), newRoot)
}

// Pinned constitutional vector: two sequential mutations under Model A.
func TestApplyMutations_TwoSequential_PinnedVector(t *testing.T) {
	leafA := hashing.HashLeaf([]byte("a"))
	leafB := hashing.HashLeaf([]byte("b"))
	leafA2 := hashing.HashLeaf([]byte("a2"))
	leafB2 := hashing.HashLeaf([]byte("b2"))

	originalRoot := hashing.HashNode(leafA, leafB)

	m1 := makeMutation([]byte("a"), []byte("a"), []byte("a2"), leafB, Left)
	m2 := makeMutation([]byte("b"), []byte("b"), []byte("b2"), leafA2, Right)

	finalRoot, err := ApplyMutations(originalRoot, []LeafMutation{m1, m2})
	require.NoError(t, err)
	require.Equal(t, hashing.HashNode(leafA2, leafB2), finalRoot)

	expectedFinalRoot := hashing.Digest{
		0x07, 0x91, 0x61, 0xdd, 0x45, 0xf4, 0x65, 0x34,
		0x77, 0xaa, 0xc1, 0x3c, 0x77, 0xf7, 0xa0, 0x34,
		0x30, 0x0c, 0x61, 0xf3, 0xfb, 0x86, 0x27, 0xeb,
		0xec, 0xde, 0xe8, 0x7d, 0x86, 0xf8, 0x30, 0x18,
	}
	require.Equal(t, expectedFinalRoot, finalRoot)
}

func TestApplyMutations_DuplicateKeyRejected(t *testing.T) {
	leafA := hashing.HashLeaf([]byte("a"))
	leafB := hashing.HashLeaf([]byte("b"))
	root := hashing.HashNode(leafA, leafB)

	m1 := makeMutation([]byte("a"), []byte("a"), []byte("a2"), leafB, Left)
	m2 := makeMutation([]byte("a"), []byte("a2"), []byte("a3"), leafB, Left)

	_, err := ApplyMutations(root, []LeafMutation{m1, m2})
	require.Error(t, err)
	kErr, ok := err.(*kerr.Error)
	require.True(t, ok)
	require.Equal(t, kerr.InvalidSerialization, kErr.Code)
}

func TestApplyMutations_ReversedKeyOrderRejected(t *testing.T) {
	leafA := hashing.HashLeaf([]byte("a"))
	leafB := hashing.HashLeaf([]byte("b"))
	root := hashing.HashNode(leafA, leafB)

	mB := makeMutation([]byte("b"), []byte("b"), []byte("b2"), leafA, Right)
	mA := makeMutation([]byte("a"), []byte("a"), []byte("a2"), leafB, Left)

	_, err := ApplyMutations(root, []LeafMutation{mB, mA})
	require.Error(t, err)
}

func TestApplyMutations_StalePathFailsModelAEnforced(t *testing.T) {
	leafA := hashing.HashLeaf([]byte("a"))
	leafB := hashing.HashLeaf([]byte("b"))
	root := hashing.HashNode(leafA, leafB)

	m1 := makeMutation([]byte("a"), []byte("a"), []byte("a2"), leafB, Left)
	// m2's sibling is the stale original leafA, not the post-m1 leafA2.
	m2 := makeMutation([]byte("b"), []byte("b"), []byte("b2"), leafA, Right)

	_, err := ApplyMutations(root, []LeafMutation{m1, m2})
	require.Error(t, err)
	kErr, ok := err.(*kerr.Error)
	require.True(t, ok)
	require.Equal(t, kerr.InvalidMerkleWitness, kErr.Code)
}

func TestLeafMutation_ValidateSizes(t *testing.T) {
	empty, err := NewPath(nil)
	require.NoError(t, err)

	m := LeafMutation{Key: nil, OldValue: nil, NewValue: nil, Path: empty}
	require.Error(t, m.ValidateSizes())

	oversized := LeafMutation{
		Key:      []byte("k"),
		OldValue: make([]byte, MaxValueBytes+1),
		NewValue: nil,
		Path:     empty,
	}
	require.Error(t, oversized.ValidateSizes())
}

// A Path built directly as a struct literal (bypassing NewPath's
// constructor check) must still be rejected once it reaches
// ApplyMutations, the walk apply_epoch runs every pool through, not just
// the optional constructor.
func TestApplyMutations_OversizedPathBuiltByLiteralIsRejected(t *testing.T) {
	root := hashing.HashNode(hashing.HashLeaf([]byte("a")), hashing.HashLeaf([]byte("b")))

	nodes := make([]PathNode, MaxDepth+1)
	for i := range nodes {
		nodes[i] = PathNode{Sibling: hashing.HashLeaf([]byte("x")), Position: Left}
	}
	m := LeafMutation{
		Key:      []byte("a"),
		OldValue: []byte("a"),
		NewValue: []byte("a2"),
		Path:     Path{Nodes: nodes},
	}

	_, err := ApplyMutations(root, []LeafMutation{m})
	require.Error(t, err)
	kErr, ok := err.(*kerr.Error)
	require.True(t, ok)
	require.Equal(t, kerr.InvalidMerkleWitness, kErr.Code)
}

func TestLeafMutation_ValidateSizes_OversizedPathRejected(t *testing.T) {
	nodes := make([]PathNode, MaxDepth+1)
	for i := range nodes {
		nodes[i] = PathNode{Sibling: hashing.Digest{}, Position: Left}
	}
	m := LeafMutation{Key: []byte("k"), Path: Path{Nodes: nodes}}
	err := m.ValidateSizes()
	require.Error(t, err)
	kErr, ok := err.(*kerr.Error)
	require.True(t, ok)
	require.Equal(t, kerr.InvalidMerkleWitness, kErr.Code)
}
