package replay

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/50gramx/civilisation-os-kernel/kernel/epoch"
	"github.com/50gramx/civilisation-os-kernel/kernel/kerr"
	"github.com/50gramx/civilisation-os-kernel/kernel/transition"
)

// WitnessSource supplies the transition.Input for one epoch's worth of
// apply_epoch. A caller replaying an empty chain (S3's pinned 100-epoch
// vector) can pass a source that always returns transition.Input{}; a
// caller replaying a live chain supplies the witnesses recorded for that
// epoch number.
type WitnessSource func(epochNumber uint64) (transition.Input, error)

// Result is what the harness hands back once a run completes or aborts.
type Result struct {
	FinalState    epoch.State
	EpochsApplied uint64
}

// Run drives apply_epoch from genesis through cfg.TargetEpoch,
// logging one structured entry per epoch and aborting the whole run on
// the first failing transition — the kernel's own all-or-nothing
// contract extended to the multi-epoch harness. The first kernel error
// encountered is returned unwrapped so callers can still errors.Is
// against kerr's taxonomy.
func Run(cfg Config, genesis epoch.State, source WitnessSource) (Result, error) {
	log, err := newLogger(cfg)
	if err != nil {
		return Result{}, err
	}

	state := genesis
	for state.EpochNumber < cfg.TargetEpoch {
		in, err := source(state.EpochNumber + 1)
		if err != nil {
			log.WithFields(logrus.Fields{
				"epoch": state.EpochNumber + 1,
			}).WithError(err).Error("replay: witness source failed")
			return Result{FinalState: state, EpochsApplied: state.EpochNumber - genesis.EpochNumber}, err
		}

		start := time.Now()
		next, err := transition.ApplyEpoch(state, in)
		durationMs := time.Since(start).Milliseconds()
		if err != nil {
			log.WithFields(logrus.Fields{
				"epoch":       state.EpochNumber + 1,
				"duration_ms": durationMs,
			}).WithError(err).Error("replay: apply_epoch aborted")
			return Result{FinalState: state, EpochsApplied: state.EpochNumber - genesis.EpochNumber}, err
		}

		log.WithFields(logrus.Fields{
			"epoch":       next.EpochNumber,
			"duration_ms": durationMs,
		}).Debug("replay: epoch applied")
		state = next
	}

	return Result{FinalState: state, EpochsApplied: state.EpochNumber - genesis.EpochNumber}, nil
}

// EmptySource is the WitnessSource for the empty-epoch replay vectors:
// every epoch carries no witnesses, no VDF proof, and the zero-value
// stubbed hooks.
func EmptySource(epochNumber uint64) (transition.Input, error) {
	return transition.Input{}, nil
}

// VerifyExternalChain checks that a sequence of states received from
// outside this process — a peer, a fraud-proof replay submission — forms
// a genuine chain: each state's own root is recomputed and compared
// against what it claims, and each consecutive pair is checked with
// epoch.VerifyContinuation. Unlike Run, this never calls apply_epoch;
// it only verifies commitments already made. states must have at least
// one entry.
func VerifyExternalChain(states []epoch.State) error {
	if len(states) == 0 {
		return kerr.New(kerr.ChainMismatch, "empty chain has nothing to verify")
	}
	for i, s := range states {
		root, err := s.ComputeStateRoot()
		if err != nil {
			return err
		}
		if root != s.StateRoot {
			return kerr.New(kerr.ChainMismatch, "state_root does not match its own canonical commitment")
		}
		if i > 0 {
			if err := epoch.VerifyContinuation(states[i-1], s); err != nil {
				return err
			}
		}
	}
	return nil
}
