// Package attest verifies quorum-signed epoch attestations: the set of
// Ed25519 signatures a committee produces over one epoch's signing root.
// Grounded on the reference implementation's state::witness signature-gate
// functions (compute_bundle_hash, compute_epoch_signing_root, verify_quorum).
// The actual cryptographic check is a stubbed hook exactly like the VDF
// verifier in kernel/vdf: Verifier is injected, and PassthroughVerifier is
// the only implementation wired in this profile. A future production
// profile plugs in a real Ed25519 verifier without touching the structural
// quorum rules below.
package attest

import (
	"bytes"
	"encoding/binary"

	"github.com/50gramx/civilisation-os-kernel/kernel/hashing"
	"github.com/50gramx/civilisation-os-kernel/kernel/kerr"
	"github.com/50gramx/civilisation-os-kernel/kernel/merkle"
)

// signingDomainPrefix distinguishes an epoch signing root from a Merkle
// leaf (0x00) or node (0x01) hash.
const signingDomainPrefix = 0x02

// MaxValidatorSignatures bounds the signature set the same way
// MaxPayloadsPerEpoch bounds witness mutations.
const MaxValidatorSignatures = 10_000

// Signature pairs an Ed25519 public key with its signature over an
// epoch's signing root.
type Signature struct {
	ValidatorPubkey [32]byte
	Signature       [64]byte
}

// Verifier is the injected Ed25519 verification hook. It reports whether
// signature is a valid Ed25519 signature by pubkey over message.
type Verifier interface {
	Verify(pubkey [32]byte, message hashing.Digest, signature [64]byte) bool
}

// PassthroughVerifier is the stubbed default: every signature verifies.
// It exists so the kernel's determinism tests can exercise the full
// quorum pipeline (ordering, threshold) without depending on a production
// Ed25519 implementation.
type PassthroughVerifier struct{}

func (PassthroughVerifier) Verify([32]byte, hashing.Digest, [64]byte) bool { return true }

// ComputeBundleHash hashes the three mutation vectors (bond, impact,
// validator — decay witnesses are never part of the signed bundle) in a
// frozen binary format. Paths are structural and excluded; only key,
// old value, and new value are covered.
func ComputeBundleHash(bond, impact, validator []merkle.LeafMutation) hashing.Digest {
	var buf bytes.Buffer
	serializeMutations(&buf, bond)
	serializeMutations(&buf, impact)
	serializeMutations(&buf, validator)
	return hashing.Sum256(buf.Bytes())
}

func serializeMutations(buf *bytes.Buffer, mutations []merkle.LeafMutation) {
	var countBE [4]byte
	binary.BigEndian.PutUint32(countBE[:], uint32(len(mutations)))
	buf.Write(countBE[:])
	for _, m := range mutations {
		writeLenPrefixed16(buf, m.Key)
		writeLenPrefixed16(buf, m.OldValue)
		writeLenPrefixed16(buf, m.NewValue)
	}
}

func writeLenPrefixed16(buf *bytes.Buffer, data []byte) {
	var lenBE [2]byte
	binary.BigEndian.PutUint16(lenBE[:], uint16(len(data)))
	buf.Write(lenBE[:])
	buf.Write(data)
}

// ComputeEpochSigningRoot computes the digest validators sign:
// SHA256(0x02 || prevStateRoot || bundleHash || epochNumber_be8 || kernelHash).
func ComputeEpochSigningRoot(prevStateRoot, bundleHash hashing.Digest, epochNumber uint64, kernelHash hashing.Digest) hashing.Digest {
	var buf [105]byte
	buf[0] = signingDomainPrefix
	copy(buf[1:33], prevStateRoot[:])
	copy(buf[33:65], bundleHash[:])
	binary.BigEndian.PutUint64(buf[65:73], epochNumber)
	copy(buf[73:105], kernelHash[:])
	return hashing.Sum256(buf[:])
}

// VerifyQuorum enforces the three constitutional rules: strictly
// ascending, duplicate-free pubkey order; every signature cryptographically
// valid against signingRoot via the injected verifier; and a count meeting
// the two-thirds-rounded-up threshold over optimalValidatorCount. All
// signatures are checked before the threshold is evaluated, so an
// undersized but otherwise valid quorum fails for the same reason a
// forged one does — no early exit on count.
//
// HOST-TRUSTED: pubkeys are not checked against validator_set_root here;
// that membership proof is the caller's responsibility.
func VerifyQuorum(verifier Verifier, signatures []Signature, signingRoot hashing.Digest, optimalValidatorCount uint64) error {
	for i := 1; i < len(signatures); i++ {
		if bytes.Compare(signatures[i].ValidatorPubkey[:], signatures[i-1].ValidatorPubkey[:]) <= 0 {
			return kerr.New(kerr.InvalidSerialization, "validator signatures not in strict ascending pubkey order")
		}
	}

	for _, sig := range signatures {
		if !verifier.Verify(sig.ValidatorPubkey, signingRoot, sig.Signature) {
			// kerr.InvalidVdfProof is reused deliberately: spec §7 defines
			// it as "delegated verifier rejection" (not "VDF verifier
			// rejection" specifically), the same generic wording also
			// covering this package's Ed25519 verifier stub. The six-code
			// taxonomy is frozen, so no dedicated signature code exists —
			// see DESIGN.md's kernel/attest entry.
			return kerr.New(kerr.InvalidVdfProof, "validator signature failed delegated verifier")
		}
	}

	threshold := (2*optimalValidatorCount + 2) / 3
	if uint64(len(signatures)) < threshold {
		return kerr.New(kerr.InvalidSerialization, "signature count below quorum threshold")
	}
	return nil
}
