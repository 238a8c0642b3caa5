// Package witness holds the host-supplied inputs to one epoch transition:
// the Merkle pool mutation arrays, the host-trusted entropy statistics,
// and the size limits that bound them before any hashing begins.
package witness

import (
	"encoding/hex"

	"github.com/50gramx/civilisation-os-kernel/kernel/canonjson"
	"github.com/50gramx/civilisation-os-kernel/kernel/kerr"
	"github.com/50gramx/civilisation-os-kernel/kernel/merkle"
)

// MaxPayloadsPerEpoch bounds the combined count of validator, impact,
// bond, and decay mutations accepted in a single epoch transition.
const MaxPayloadsPerEpoch = 10_000

// EntropyStats carries aggregate figures the kernel cannot independently
// re-derive from Merkle evidence alone. It is the one acknowledged
// host-trust surface: the kernel checks the two internally-verifiable
// invariants below and trusts the rest.
type EntropyStats struct {
	ActiveBondedMagnitudeRaw uint64
	TotalSupplyRaw           uint64
	UniqueActiveValidators   uint64
	OptimalValidatorCount    uint64
}

// Validate checks the constraints the kernel can verify without external
// evidence: bonded magnitude cannot exceed total supply, and the optimal
// validator count must be positive (it is the base of the quorum
// threshold attest.VerifyQuorum computes).
func (e EntropyStats) Validate() error {
	if e.ActiveBondedMagnitudeRaw > e.TotalSupplyRaw {
		return kerr.New(kerr.MathOverflow, "active_bonded_magnitude_raw exceeds total_supply_raw")
	}
	if e.OptimalValidatorCount == 0 {
		return kerr.New(kerr.MathOverflow, "optimal_validator_count is zero")
	}
	return nil
}

// ValidatorSignature is one Ed25519 attestation over the epoch signing
// root, keyed by validator identity. See kernel/attest for verification.
type ValidatorSignature struct {
	ValidatorPubkey [32]byte
	Signature       [64]byte
}

// Bundle is everything the host supplies for one epoch transition: the
// four pool mutation arrays, the entropy statistics, and the validator
// signatures authorizing the transition. Within each array, entries must
// be in strictly ascending key order; no key may appear in more than one
// array — that cross-pool check is NoCrossPoolKeyOverlap, which
// transition.ApplyEpoch runs before any pool is applied.
type Bundle struct {
	ValidatorWitnesses []merkle.LeafMutation
	ImpactWitnesses    []merkle.LeafMutation
	BondWitnesses      []merkle.LeafMutation
	DecayWitnesses     []merkle.LeafMutation
	EntropyStats       EntropyStats
	Signatures         []ValidatorSignature
}

// ValidateLimits checks the combined payload count against
// MaxPayloadsPerEpoch before any Merkle verification is attempted.
func (b Bundle) ValidateLimits() error {
	total := len(b.ValidatorWitnesses) + len(b.ImpactWitnesses) + len(b.BondWitnesses) + len(b.DecayWitnesses)
	if total > MaxPayloadsPerEpoch {
		return kerr.New(kerr.PayloadLimitExceeded, "combined mutation count exceeds MaxPayloadsPerEpoch")
	}
	if len(b.Signatures) > MaxPayloadsPerEpoch {
		return kerr.New(kerr.PayloadLimitExceeded, "validator signature count exceeds MaxPayloadsPerEpoch")
	}
	return nil
}

// NoCrossPoolKeyOverlap checks that no key appears in more than one of
// the four mutation arrays. Within-array ordering and duplicate checks
// happen inside merkle.ApplyMutations; this check is the cross-array rule
// apply_epoch must additionally enforce.
func (b Bundle) NoCrossPoolKeyOverlap() error {
	seen := make(map[string]struct{})
	pools := [][]merkle.LeafMutation{b.ValidatorWitnesses, b.ImpactWitnesses, b.BondWitnesses, b.DecayWitnesses}
	for _, pool := range pools {
		for _, m := range pool {
			k := string(m.Key)
			if _, dup := seen[k]; dup {
				return kerr.New(kerr.InvalidSerialization, "key shared across more than one mutation pool")
			}
			seen[k] = struct{}{}
		}
	}
	return nil
}

// CheckKeyFieldMatches re-parses a non-empty leaf value as canonical JSON
// and asserts its "key" field equals the hex encoding of m.Key. Insert
// mutations (old_value empty) skip the old-value check; delete mutations
// (new_value empty) skip the new-value check. This is the kernel's
// defense against a witness whose declared key diverges from the payload
// it actually authenticates.
func CheckKeyFieldMatches(m merkle.LeafMutation) error {
	wantKey := hex.EncodeToString(m.Key)
	for _, value := range [][]byte{m.OldValue, m.NewValue} {
		if len(value) == 0 {
			continue
		}
		v, err := canonjson.Parse(value)
		if err != nil {
			return err
		}
		obj, ok := v.(*canonjson.Object)
		if !ok {
			return kerr.New(kerr.InvalidSerialization, "leaf value is not a canonical object")
		}
		found := false
		for _, member := range obj.Members {
			if member.Key != "key" {
				continue
			}
			s, ok := member.Value.(canonjson.String)
			if !ok || string(s) != wantKey {
				return kerr.New(kerr.InvalidSerialization, "leaf value key field does not match mutation key")
			}
			found = true
		}
		if !found {
			return kerr.New(kerr.InvalidSerialization, "leaf value missing key field")
		}
	}
	return nil
}
