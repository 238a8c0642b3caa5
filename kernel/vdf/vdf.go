// Package vdf provides the injected verifier for step 1 of apply_epoch:
// checking a VDF-SNARK proof against the previous epoch's challenge seed
// and extracting the next seed. The reference implementation defers the
// real arkworks-backed SNARK check to a later version; this package
// preserves that same stubbed-hook shape so the kernel's determinism
// tests exercise the full pipeline without a production proof system.
package vdf

import "github.com/50gramx/civilisation-os-kernel/kernel/hashing"

// Proof is an opaque VDF-SNARK proof. The kernel never interprets its
// bytes except by handing them to a Verifier.
type Proof []byte

// Verifier checks proof against the previous challenge seed and, on
// success, returns the next epoch's challenge seed.
type Verifier interface {
	Verify(previousSeed hashing.Digest, proof Proof) (nextSeed hashing.Digest, ok bool)
}

// PassthroughVerifier is the stubbed default: every proof is accepted and
// the next challenge seed is always the all-zero digest, matching the
// reference implementation's dry-run profile.
type PassthroughVerifier struct{}

func (PassthroughVerifier) Verify(hashing.Digest, Proof) (hashing.Digest, bool) {
	return hashing.Digest{}, true
}
