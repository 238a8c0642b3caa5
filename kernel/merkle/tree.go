// Package merkle implements the kernel's perfect binary padded Merkle
// tree: leaf hashing, root computation, authentication-path verification,
// and the Model A evolving-root mutation walk used by apply_epoch.
package merkle

import (
	"github.com/50gramx/civilisation-os-kernel/kernel/hashing"
	"github.com/50gramx/civilisation-os-kernel/kernel/kerr"
)

// MaxDepth is the maximum authentication path length, corresponding to
// 2^40 leaves. It is the same constant kernel/canonjson uses for nesting.
const MaxDepth = 40

// ComputeRoot computes the Merkle root over already-serialized leaf byte
// slices. Leaves must already be sorted lexicographically by the caller —
// this function does not sort them. An empty slice yields
// hashing.EmptyTreeRoot().
func ComputeRoot(leaves [][]byte) (hashing.Digest, error) {
	if len(leaves) == 0 {
		return hashing.EmptyTreeRoot(), nil
	}

	maxLeaves := uint64(1) << MaxDepth
	if uint64(len(leaves)) > maxLeaves {
		return hashing.Digest{}, kerr.New(kerr.PayloadLimitExceeded, "leaf count exceeds 2^MaxDepth")
	}

	nodes := make([]hashing.Digest, len(leaves))
	for i, leaf := range leaves {
		nodes[i] = hashing.HashLeaf(leaf)
	}

	// Padding is level by level: whenever a level has odd cardinality, its
	// rightmost node is duplicated before pairing.
	for len(nodes) > 1 {
		if len(nodes)%2 != 0 {
			nodes = append(nodes, nodes[len(nodes)-1])
		}
		next := make([]hashing.Digest, 0, len(nodes)/2)
		for i := 0; i+1 < len(nodes); i += 2 {
			next = append(next, hashing.HashNode(nodes[i], nodes[i+1]))
		}
		nodes = next
	}
	return nodes[0], nil
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	result := 1
	for result < n {
		result <<= 1
	}
	return result
}

// NodePosition records which side of its parent a path node's current
// digest occupies.
type NodePosition int

const (
	// Left means the current node is the left child: parent = HashNode(current, sibling).
	Left NodePosition = iota
	// Right means the current node is the right child: parent = HashNode(sibling, current).
	Right
)

// PathNode is one level of an authentication path.
type PathNode struct {
	Sibling  hashing.Digest
	Position NodePosition
}

// Path is an authentication path from a leaf to the Merkle root. Nodes[0]
// is closest to the leaf; the last node is closest to the root.
type Path struct {
	Nodes []PathNode
}

// NewPath constructs a Path, enforcing MaxDepth immediately.
func NewPath(nodes []PathNode) (Path, error) {
	if len(nodes) > MaxDepth {
		return Path{}, kerr.New(kerr.InvalidMerkleWitness, "authentication path exceeds MaxDepth")
	}
	return Path{Nodes: nodes}, nil
}

func (p Path) walk(start hashing.Digest) hashing.Digest {
	current := start
	for _, n := range p.Nodes {
		if n.Position == Left {
			current = hashing.HashNode(current, n.Sibling)
		} else {
			current = hashing.HashNode(n.Sibling, current)
		}
	}
	return current
}

// Verify checks that walking this path from leafHash reaches expectedRoot.
// MaxDepth is enforced here unconditionally, not only in NewPath, since a
// Path can also reach this method as a bare struct literal built directly
// by a caller that never went through the constructor.
func (p Path) Verify(leafHash, expectedRoot hashing.Digest) error {
	if len(p.Nodes) > MaxDepth {
		return kerr.New(kerr.InvalidMerkleWitness, "authentication path exceeds MaxDepth")
	}
	if p.walk(leafHash) != expectedRoot {
		return kerr.New(kerr.InvalidMerkleWitness, "authentication path does not reach expected root")
	}
	return nil
}

// ReconstructRoot walks the path with a new leaf hash to derive the root
// after a mutation. The caller must have already verified the old leaf
// hash against the current root; ReconstructRoot does not re-verify.
func (p Path) ReconstructRoot(newLeafHash hashing.Digest) hashing.Digest {
	return p.walk(newLeafHash)
}
