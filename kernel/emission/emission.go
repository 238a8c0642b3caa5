// Package emission defines the interface between the kernel's physics
// (decay, entropy, Merkle commitments) and whatever economic policy
// decides how many tokens a bond mints. The physics layer compiles and
// passes its determinism tests with no emission logic wired in at all —
// that decoupling is the point of this package.
package emission

import "github.com/50gramx/civilisation-os-kernel/kernel/fixedpoint"

// Policy is the interface apply_epoch's yield-distribution step (§4.5
// step 6) calls through. A future SublinearBondEmission implementation
// is injected only after adversarial simulation proves it stable; until
// then ZeroEmission is the only implementation in this tree.
type Policy interface {
	// CalculateBondMint computes tokens minted for a single bond, per the
	// constitutional formula:
	//   minted = isqrt[(bondMagnitude * lockDurationEpochs) / Scale] * globalEntropy
	CalculateBondMint(bondMagnitude fixedpoint.Fixed, lockDurationEpochs uint64, globalEntropy fixedpoint.Fixed) (fixedpoint.Fixed, error)

	// CalculateValidatorFee computes the committee's cut of one epoch's
	// total minted amount.
	CalculateValidatorFee(totalEpochMinted fixedpoint.Fixed) (fixedpoint.Fixed, error)
}

// ZeroEmission is the default policy: every mint calculation returns
// zero, so the kernel can prove deterministic replay without any economic
// contamination.
type ZeroEmission struct{}

func (ZeroEmission) CalculateBondMint(fixedpoint.Fixed, uint64, fixedpoint.Fixed) (fixedpoint.Fixed, error) {
	return fixedpoint.Zero(), nil
}

func (ZeroEmission) CalculateValidatorFee(fixedpoint.Fixed) (fixedpoint.Fixed, error) {
	return fixedpoint.Zero(), nil
}
