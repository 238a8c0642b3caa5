package merkle

import (
	"bytes"

	"github.com/50gramx/civilisation-os-kernel/kernel/hashing"
	"github.com/50gramx/civilisation-os-kernel/kernel/kerr"
)

// MaxKeyBytes and MaxValueBytes bound a single leaf mutation.
const (
	MaxKeyBytes   = 64
	MaxValueBytes = 4096
)

// LeafMutation is a single authenticated leaf update in a Merkle pool:
// the canonical identifier, the leaf's value before and after, and an
// authentication path relative to the pool root as it stood before this
// mutation (Model A: that root evolves with every prior mutation in the
// same ApplyMutations call).
type LeafMutation struct {
	Key      []byte
	OldValue []byte
	NewValue []byte
	Path     Path
}

// ValidateSizes checks the key and value length bounds, and the
// authentication path's depth bound. It does not verify the path against
// a root — that happens inside ApplyMutations via Path.Verify.
func (m LeafMutation) ValidateSizes() error {
	if len(m.Key) == 0 || len(m.Key) > MaxKeyBytes {
		return kerr.New(kerr.InvalidSerialization, "leaf mutation key length out of bounds")
	}
	if len(m.OldValue) > MaxValueBytes {
		return kerr.New(kerr.InvalidSerialization, "leaf mutation old_value exceeds MaxValueBytes")
	}
	if len(m.NewValue) > MaxValueBytes {
		return kerr.New(kerr.InvalidSerialization, "leaf mutation new_value exceeds MaxValueBytes")
	}
	if len(m.Path.Nodes) > MaxDepth {
		return kerr.New(kerr.InvalidMerkleWitness, "leaf mutation path exceeds MaxDepth")
	}
	return nil
}

// ApplyMutations applies a sequence of authenticated leaf mutations to a
// pool root under Model A (evolving-root verification): each mutation's
// path is checked against the root produced by the preceding mutation,
// not the original root passed in. Mutations must be strictly ascending
// by key; an empty slice returns currentRoot unchanged.
func ApplyMutations(currentRoot hashing.Digest, mutations []LeafMutation) (hashing.Digest, error) {
	if len(mutations) == 0 {
		return currentRoot, nil
	}

	for i := 1; i < len(mutations); i++ {
		if bytes.Compare(mutations[i-1].Key, mutations[i].Key) >= 0 {
			return hashing.Digest{}, kerr.New(kerr.InvalidSerialization, "mutations out of strictly ascending key order")
		}
	}

	intermediate := currentRoot
	for _, m := range mutations {
		if err := m.ValidateSizes(); err != nil {
			return hashing.Digest{}, err
		}
		oldLeafHash := hashing.HashLeaf(m.OldValue)
		if err := m.Path.Verify(oldLeafHash, intermediate); err != nil {
			return hashing.Digest{}, err
		}
		newLeafHash := hashing.HashLeaf(m.NewValue)
		intermediate = m.Path.ReconstructRoot(newLeafHash)
	}
	return intermediate, nil
}
