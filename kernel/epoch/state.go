// Package epoch implements EpochState: the kernel's single self-committing
// state root. Every other kernel package produces evidence that feeds into
// one of EpochState's eight committed fields; this package owns the
// canonical serialization and hashing that turns those fields into the
// ninth, state_root.
package epoch

import (
	"github.com/50gramx/civilisation-os-kernel/kernel/canonjson"
	"github.com/50gramx/civilisation-os-kernel/kernel/fixedpoint"
	"github.com/50gramx/civilisation-os-kernel/kernel/hashing"
	"github.com/50gramx/civilisation-os-kernel/kernel/kerr"
)

// MaxFraudWindowEpochs bounds how old a fraud proof may be before it is
// permanently rejected (SUPPLEMENTED FEATURES item 4, kernel/fraud).
const MaxFraudWindowEpochs = 1

// State is the canonical committed state at the end of one epoch: a flat
// set of fields, each either a hashing.Digest, a uint64, or a
// fixedpoint.Fixed. Only Merkle roots are stored, never materialized
// state.
type State struct {
	BondPoolRoot        hashing.Digest
	EntropyMetricScaled fixedpoint.Fixed
	EpochNumber         uint64
	ImpactPoolRoot      hashing.Digest
	KernelHash          hashing.Digest
	PreviousRoot        hashing.Digest
	StateRoot           hashing.Digest
	ValidatorSetRoot    hashing.Digest
	VdfChallengeSeed    hashing.Digest
}

// Genesis returns the placeholder genesis state: epoch 0, every root
// all-zero, with its state_root computed over those zero fields. kernelHash
// identifies the kernel build that produced this genesis; a production
// deployment would instead derive it from a signed genesis manifest.
func Genesis(kernelHash hashing.Digest) (State, error) {
	s := State{KernelHash: kernelHash}
	root, err := s.ComputeStateRoot()
	if err != nil {
		return State{}, err
	}
	s.StateRoot = root
	return s, nil
}

// decimalString renders n as a decimal string with no leading zeros,
// matching the kernel's canonical-number-as-string convention.
func decimalString(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// commitmentObject builds the canonical-JSON object over the eight
// fields that contribute to state_root, in the frozen alphabetical key
// order: bond_pool_root, entropy_metric_scaled, epoch_number,
// impact_pool_root, kernel_hash, previous_root, validator_set_root,
// vdf_challenge_seed. state_root itself is excluded.
func (s State) commitmentObject() (*canonjson.Object, error) {
	return canonjson.NewObject(
		canonjson.Member{Key: "bond_pool_root", Value: canonjson.HexDigest(s.BondPoolRoot)},
		canonjson.Member{Key: "entropy_metric_scaled", Value: canonjson.String(s.EntropyMetricScaled.CanonicalString())},
		canonjson.Member{Key: "epoch_number", Value: canonjson.String(decimalString(s.EpochNumber))},
		canonjson.Member{Key: "impact_pool_root", Value: canonjson.HexDigest(s.ImpactPoolRoot)},
		canonjson.Member{Key: "kernel_hash", Value: canonjson.HexDigest(s.KernelHash)},
		canonjson.Member{Key: "previous_root", Value: canonjson.HexDigest(s.PreviousRoot)},
		canonjson.Member{Key: "validator_set_root", Value: canonjson.HexDigest(s.ValidatorSetRoot)},
		canonjson.Member{Key: "vdf_challenge_seed", Value: canonjson.HexDigest(s.VdfChallengeSeed)},
	)
}

// CanonicalBytes produces the canonical JSON bytes that commit to this
// state. It round-trips the built object through Marshal as a
// constitutional sanity check — a hand-built object that does not already
// match its own canonical form signals a kernel bug, not a caller error.
func (s State) CanonicalBytes() ([]byte, error) {
	obj, err := s.commitmentObject()
	if err != nil {
		return nil, err
	}
	raw, err := canonjson.Marshal(obj)
	if err != nil {
		return nil, err
	}
	reparsed, err := canonjson.Canonicalize(raw)
	if err != nil {
		return nil, err
	}
	if string(reparsed) != string(raw) {
		return nil, kerr.New(kerr.InvalidSerialization, "commitment object diverged from its own canonical form")
	}
	return raw, nil
}

// ComputeStateRoot computes SHA256(CanonicalBytes(s)) without mutating s.
func (s State) ComputeStateRoot() (hashing.Digest, error) {
	bytes, err := s.CanonicalBytes()
	if err != nil {
		return hashing.Digest{}, err
	}
	return hashing.Sum256(bytes), nil
}

// Commit computes and assigns state_root, returning the committed state.
// Call this as the last step of state construction, after every other
// field has been set.
func (s State) Commit() (State, error) {
	root, err := s.ComputeStateRoot()
	if err != nil {
		return State{}, err
	}
	s.StateRoot = root
	return s, nil
}

// VerifyContinuation checks testable property 8's chain invariants —
// next.previous_root equals prev.state_root and next.epoch_number is
// prev.epoch_number+1 — without recomputing either root. It is for a
// verifier that receives a candidate (prev, next) pair from outside this
// process (a fraud-proof replay, a peer-supplied state) and must reject
// a chain that does not actually continue, rather than for
// kernel/transition's own ApplyEpoch, which always derives next from
// prev directly and so cannot produce a mismatch against itself.
func VerifyContinuation(prev, next State) error {
	if next.PreviousRoot != prev.StateRoot {
		return kerr.New(kerr.ChainMismatch, "next.previous_root does not equal prev.state_root")
	}
	if next.EpochNumber != prev.EpochNumber+1 {
		return kerr.New(kerr.ChainMismatch, "next.epoch_number does not continue prev.epoch_number")
	}
	return nil
}
