// Package fraud implements the kernel's fraud window, rewind eligibility,
// and one-slash-per-epoch bookkeeping. Both rewind.rs and slashing.rs in
// the reference implementation are stubs that name the constitutional
// rules without an executable body; this package gives those rules a
// concrete, tested implementation in the teacher's idiom.
package fraud

import (
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/Fantom-foundation/lachesis-base/lachesis"

	"github.com/50gramx/civilisation-os-kernel/kernel/fixedpoint"
	"github.com/50gramx/civilisation-os-kernel/kernel/hashing"
)

// MaxFraudWindowEpochs bounds how many epochs back a rewind may reach.
// Only the immediately preceding epoch is rewindable.
const MaxFraudWindowEpochs = 1

// Proof is a single fraud accusation against a validator at a specific
// epoch, identified by the JCS hash of its canonical payload. Proofs are
// processed in ascending lexicographic order of this hash.
type Proof struct {
	JCSHash       hashing.Digest
	TargetEpoch   uint64
	TargetValidator idx.ValidatorID
}

// RewindEligible reports whether a proof targeting targetEpoch may still
// trigger a rewind, given the chain is currently at currentEpoch and both
// epochs share the same kernel_hash. Rewind across a kernel_hash boundary
// is forbidden regardless of window — the caller must check that
// separately, since this package has no notion of kernel_hash values.
func RewindEligible(currentEpoch, targetEpoch uint64) bool {
	if targetEpoch >= currentEpoch {
		return false
	}
	return currentEpoch-targetEpoch <= MaxFraudWindowEpochs
}

// SlashTracker records which validators have already been slashed in the
// current epoch, using a lachesis.Cheaters-shaped slice — the same type
// the teacher's BlockState.EpochCheaters field uses — so at most one slash
// per validator per epoch is ever applied.
//
// Slashing itself is driven by the host's fraud-proof flow (RewindEligible
// above) and keyed by idx.ValidatorID, the auxiliary lachesis-base
// ordinal kernel/validatorset also uses. apply_epoch's bond-processing
// step never carries that ordinal into the consensus path — it only ever
// sees raw identity-key bytes (the same representation as a Merkle pool
// key) — so the tracker additionally records slashed validators in that
// byte-key space via MarkSlashedByKey/WasSlashedKey, letting step 5
// consult the same epoch's slashed set without pulling lachesis-base
// types into the transition pipeline.
type SlashTracker struct {
	cheaters lachesis.Cheaters
	seen     map[idx.ValidatorID]struct{}
	seenKeys map[string]struct{}
}

// NewSlashTracker returns an empty tracker for one epoch's worth of
// slashing activity.
func NewSlashTracker() *SlashTracker {
	return &SlashTracker{seen: make(map[idx.ValidatorID]struct{}), seenKeys: make(map[string]struct{})}
}

// TrySlash applies balance deducted from slash to bondedBalance via
// SaturatingSubForSlash and records validatorID as slashed this epoch,
// unless it was already slashed — in which case it returns the balance
// unchanged and reports false. Slashed amounts are burned: the caller
// must not redistribute the difference.
func (t *SlashTracker) TrySlash(validatorID idx.ValidatorID, bondedBalance, slash fixedpoint.Fixed) (fixedpoint.Fixed, bool) {
	if _, already := t.seen[validatorID]; already {
		return bondedBalance, false
	}
	t.seen[validatorID] = struct{}{}
	t.cheaters = append(t.cheaters, validatorID)
	return bondedBalance.SaturatingSubForSlash(slash), true
}

// Cheaters returns the set of validators slashed so far this epoch, in
// the order they were slashed.
func (t *SlashTracker) Cheaters() lachesis.Cheaters {
	out := make(lachesis.Cheaters, len(t.cheaters))
	copy(out, t.cheaters)
	return out
}

// WasSlashed reports whether validatorID has already been slashed this
// epoch.
func (t *SlashTracker) WasSlashed(validatorID idx.ValidatorID) bool {
	_, ok := t.seen[validatorID]
	return ok
}

// MarkSlashedByKey records key — a validator's raw identity-key bytes —
// as slashed this epoch, in the byte-key space bond processing operates
// in. It is independent of TrySlash/WasSlashed's idx.ValidatorID-keyed
// bookkeeping above.
func (t *SlashTracker) MarkSlashedByKey(key []byte) {
	t.seenKeys[string(key)] = struct{}{}
}

// WasSlashedKey reports whether the validator identified by its raw
// identity-key bytes has already been slashed this epoch. Consulted by
// the transition pipeline's bond-processing step (step 5) when a bond's
// target validator must be checked against the current epoch's slashed
// set.
func (t *SlashTracker) WasSlashedKey(key []byte) bool {
	_, ok := t.seenKeys[string(key)]
	return ok
}

// SortProofsByJCSHash is grounded on rewind.rs's "processed in ascending
// lexicographical order of their JCS hash" rule: callers must sort a
// batch of Proof values with this before applying them, so replay traces
// are byte-for-byte reproducible.
func SortProofsByJCSHash(proofs []Proof) []Proof {
	sorted := append([]Proof{}, proofs...)
	for i := 1; i < len(sorted); i++ {
		j := i
		for j > 0 && greaterDigest(sorted[j-1].JCSHash, sorted[j].JCSHash) {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
			j--
		}
	}
	return sorted
}

func greaterDigest(a, b hashing.Digest) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return false
}
