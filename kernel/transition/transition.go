// Package transition implements apply_epoch, the kernel's single public
// operation: a frozen, chronological pipeline that consumes a prior
// EpochState and a witness bundle and produces either a fully committed
// next EpochState or a typed failure. Grounded on the reference
// implementation's transition.rs dry-run skeleton (epoch increment,
// previous_root chaining, payload bounding, self-commit), extended with
// the real pool-mutation, decay, and quorum machinery described in the
// witness bundle and physics modules that transition.rs left as stubs.
package transition

import (
	"math"
	"math/big"

	"github.com/50gramx/civilisation-os-kernel/kernel/attest"
	"github.com/50gramx/civilisation-os-kernel/kernel/decay"
	"github.com/50gramx/civilisation-os-kernel/kernel/emission"
	"github.com/50gramx/civilisation-os-kernel/kernel/epoch"
	"github.com/50gramx/civilisation-os-kernel/kernel/fixedpoint"
	"github.com/50gramx/civilisation-os-kernel/kernel/fraud"
	"github.com/50gramx/civilisation-os-kernel/kernel/hashing"
	"github.com/50gramx/civilisation-os-kernel/kernel/kerr"
	"github.com/50gramx/civilisation-os-kernel/kernel/merkle"
	"github.com/50gramx/civilisation-os-kernel/kernel/vdf"
	"github.com/50gramx/civilisation-os-kernel/kernel/witness"
)

// Input bundles everything apply_epoch needs beyond the previous state.
// VDFVerifier and Emission default to their stubbed pass-throughs when
// left nil, so a caller exercising only the deterministic core never
// needs to know the injection points exist.
type Input struct {
	Witnesses      witness.Bundle
	VDFProof       vdf.Proof
	VDFVerifier    vdf.Verifier
	QuorumVerifier attest.Verifier
	Emission       emission.Policy
	KernelHash     hashing.Digest
	// SlashTracker is the current epoch's already-computed slashed
	// validator set, consulted (never mutated) by step 5's bond
	// processing. A nil tracker means no validator has been slashed yet
	// this epoch — every bond target passes the slashed-set check.
	SlashTracker *fraud.SlashTracker
}

// ApplyEpoch runs the frozen pipeline described in the component design:
// pre-entry bounds, VDF check, quorum gate, validator set update,
// thermodynamic decay, impact processing, bond processing, yield
// distribution, entropy recomputation, and self-commit. Any failing step
// aborts the whole transition; prev is never mutated.
func ApplyEpoch(prev epoch.State, in Input) (epoch.State, error) {
	vdfVerifier := in.VDFVerifier
	if vdfVerifier == nil {
		vdfVerifier = vdf.PassthroughVerifier{}
	}
	quorumVerifier := in.QuorumVerifier
	if quorumVerifier == nil {
		quorumVerifier = attest.PassthroughVerifier{}
	}
	policy := in.Emission
	if policy == nil {
		policy = emission.ZeroEmission{}
	}

	// Step 0: pre-entry bounds, before any hashing begins.
	if err := in.Witnesses.ValidateLimits(); err != nil {
		return epoch.State{}, err
	}
	if err := in.Witnesses.NoCrossPoolKeyOverlap(); err != nil {
		return epoch.State{}, err
	}
	// An all-zero EntropyStats means the host supplied none this epoch —
	// the dry-run profile transition.rs still supports, where entropy and
	// quorum enforcement are not yet wired in. A non-zero EntropyStats
	// commits the host to both checks.
	statsSupplied := in.Witnesses.EntropyStats != (witness.EntropyStats{})
	if statsSupplied {
		if err := in.Witnesses.EntropyStats.Validate(); err != nil {
			return epoch.State{}, err
		}
	}
	for _, pool := range [][]merkle.LeafMutation{
		in.Witnesses.ValidatorWitnesses,
		in.Witnesses.ImpactWitnesses,
		in.Witnesses.BondWitnesses,
		in.Witnesses.DecayWitnesses,
	} {
		for _, m := range pool {
			if err := m.ValidateSizes(); err != nil {
				return epoch.State{}, err
			}
			if err := witness.CheckKeyFieldMatches(m); err != nil {
				return epoch.State{}, err
			}
		}
	}

	if prev.EpochNumber == math.MaxUint64 {
		return epoch.State{}, kerr.New(kerr.MathOverflow, "epoch_number would overflow")
	}
	newEpochNumber := prev.EpochNumber + 1

	// Step 1: VDF check.
	newVdfSeed, ok := vdfVerifier.Verify(prev.VdfChallengeSeed, in.VDFProof)
	if !ok {
		return epoch.State{}, kerr.New(kerr.InvalidVdfProof, "vdf proof rejected")
	}

	// Quorum gate: only enforced once the host has committed to a
	// production profile by supplying EntropyStats (see statsSupplied
	// above) — the same dry-run/production split.
	if statsSupplied {
		bundleHash := attest.ComputeBundleHash(in.Witnesses.BondWitnesses, in.Witnesses.ImpactWitnesses, in.Witnesses.ValidatorWitnesses)
		signingRoot := attest.ComputeEpochSigningRoot(prev.StateRoot, bundleHash, newEpochNumber, in.KernelHash)
		signatures := make([]attest.Signature, len(in.Witnesses.Signatures))
		for i, s := range in.Witnesses.Signatures {
			signatures[i] = attest.Signature{ValidatorPubkey: s.ValidatorPubkey, Signature: s.Signature}
		}
		if err := attest.VerifyQuorum(quorumVerifier, signatures, signingRoot, in.Witnesses.EntropyStats.OptimalValidatorCount); err != nil {
			return epoch.State{}, err
		}
	}

	// Step 2: validator set update (registration pass).
	validatorRoot, err := merkle.ApplyMutations(prev.ValidatorSetRoot, in.Witnesses.ValidatorWitnesses)
	if err != nil {
		return epoch.State{}, err
	}

	// Step 3: thermodynamic decay (second pass over the same tree, Model
	// A evolving root continues from validatorRoot rather than restarting).
	for _, m := range in.Witnesses.DecayWitnesses {
		if err := decay.VerifyMutation(m); err != nil {
			return epoch.State{}, err
		}
	}
	validatorRoot, err = merkle.ApplyMutations(validatorRoot, in.Witnesses.DecayWitnesses)
	if err != nil {
		return epoch.State{}, err
	}

	// Step 4: impact processing. Ascending-order and duplicate-key
	// enforcement already happens inside ApplyMutations.
	impactRoot, err := merkle.ApplyMutations(prev.ImpactPoolRoot, in.Witnesses.ImpactWitnesses)
	if err != nil {
		return epoch.State{}, err
	}

	// Step 5: bond processing. Insufficient-balance and slashed-target
	// bonds are dropped individually rather than failing the epoch; an
	// anti-reflexive bond fails the whole transition.
	survivingBonds, err := filterBonds(in.Witnesses.BondWitnesses, in.SlashTracker)
	if err != nil {
		return epoch.State{}, err
	}
	bondRoot, err := merkle.ApplyMutations(prev.BondPoolRoot, survivingBonds)
	if err != nil {
		return epoch.State{}, err
	}

	// Step 6: yield distribution. Stubbed: the policy is invoked so the
	// interface point is exercised, but its zero-valued result never
	// perturbs state.
	if _, err := policy.CalculateValidatorFee(fixedpoint.Zero()); err != nil {
		return epoch.State{}, err
	}

	// Step 7: entropy recomputation.
	newEntropy, err := recomputeEntropy(prev.EntropyMetricScaled, in.Witnesses.EntropyStats)
	if err != nil {
		return epoch.State{}, err
	}

	next := epoch.State{
		BondPoolRoot:        bondRoot,
		EntropyMetricScaled: newEntropy,
		EpochNumber:         newEpochNumber,
		ImpactPoolRoot:      impactRoot,
		KernelHash:          in.KernelHash,
		PreviousRoot:        prev.StateRoot,
		ValidatorSetRoot:    validatorRoot,
		VdfChallengeSeed:    newVdfSeed,
	}

	// Step 8: self-committing root.
	return next.Commit()
}

// recomputeEntropy implements the Open Question decision recorded in
// DESIGN.md: when a host supplies no aggregate statistics at all (the
// all-zero EntropyStats of an empty epoch), the metric carries forward
// unchanged so the pinned empty-epoch vectors hold. Otherwise it is the
// scaled ratio of active bonded magnitude over total supply.
func recomputeEntropy(prevMetric fixedpoint.Fixed, stats witness.EntropyStats) (fixedpoint.Fixed, error) {
	if stats == (witness.EntropyStats{}) {
		return prevMetric, nil
	}
	bonded, err := fixedpoint.FromRaw(uint64ToBig(stats.ActiveBondedMagnitudeRaw))
	if err != nil {
		return fixedpoint.Fixed{}, err
	}
	supply, err := fixedpoint.FromRaw(uint64ToBig(stats.TotalSupplyRaw))
	if err != nil {
		return fixedpoint.Fixed{}, err
	}
	return bonded.DivScaled(supply)
}

func uint64ToBig(n uint64) *big.Int {
	return new(big.Int).SetUint64(n)
}

// filterBonds drops bonds whose staked weight exceeds the bonder's
// declared post-decay balance, drops bonds whose target validator is
// already in the current epoch's slashed set (per tracker, which may be
// nil if no validator has been slashed yet this epoch), and hard-rejects
// any bond whose target is itself one of the batch's own bond
// identifiers (the anti-reflexivity rule).
func filterBonds(mutations []merkle.LeafMutation, tracker *fraud.SlashTracker) ([]merkle.LeafMutation, error) {
	identifiers := make(map[string]struct{}, len(mutations))
	for _, m := range mutations {
		identifiers[string(m.Key)] = struct{}{}
	}

	surviving := make([]merkle.LeafMutation, 0, len(mutations))
	for _, m := range mutations {
		record, err := parseBondRecord(m)
		if err != nil {
			return nil, err
		}
		if _, selfReferential := identifiers[string(record.target)]; selfReferential {
			return nil, kerr.New(kerr.InvalidSerialization, "bond target is itself a bond identifier")
		}
		if record.stakedWeight.Cmp(record.bonderBalance) > 0 {
			continue
		}
		if tracker != nil && tracker.WasSlashedKey(record.target) {
			continue
		}
		surviving = append(surviving, m)
	}
	return surviving, nil
}
