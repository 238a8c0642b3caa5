// Package validatorset maintains an auxiliary, non-consensus view of the
// active validator set: a weighted index the host and kernel/fraud can use
// to look up a validator's bond weight and ordinal index cheaply. It is
// built on github.com/Fantom-foundation/lachesis-base's pos.Validators and
// idx.ValidatorID exactly as the teacher's iblockproc.BlockState does —
// GetValidatorState(id, validators) — but it never supplies the
// consensus-relevant validator_set_root. That root is always
// kernel/merkle over kernel/hashing; this package only helps the host
// and kernel/fraud answer "how much is validator X bonded for" quickly.
package validatorset

import (
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/Fantom-foundation/lachesis-base/inter/pos"

	"github.com/50gramx/civilisation-os-kernel/kernel/identity"
	"github.com/50gramx/civilisation-os-kernel/kernel/kerr"
)

// Set pairs the lachesis-base weighted validator index with the
// identifiers the kernel's Merkle pool keys are built from.
type Set struct {
	validators *pos.Validators
	ids        map[idx.ValidatorID]identity.ValidatorID
}

// Entry is one validator's bond weight and ordinal position, as recorded
// outside the consensus commitment.
type Entry struct {
	LachesisID idx.ValidatorID
	Identity   identity.ValidatorID
	Weight     pos.Weight
	Index      idx.Validator
}

// New builds a Set from a weighted validator table and the mapping from
// its lachesis-base identifiers to the kernel's own ValidatorID layout.
func New(validators *pos.Validators, ids map[idx.ValidatorID]identity.ValidatorID) *Set {
	copied := make(map[idx.ValidatorID]identity.ValidatorID, len(ids))
	for k, v := range ids {
		copied[k] = v
	}
	return &Set{validators: validators, ids: copied}
}

// Lookup returns the bookkeeping Entry for a lachesis-base validator ID.
func (s *Set) Lookup(id idx.ValidatorID) (Entry, error) {
	if !s.validators.Exists(id) {
		return Entry{}, kerr.New(kerr.InvalidSerialization, "validator id not present in auxiliary validator set")
	}
	identityID, ok := s.ids[id]
	if !ok {
		return Entry{}, kerr.New(kerr.InvalidSerialization, "validator id has no associated kernel identity")
	}
	return Entry{
		LachesisID: id,
		Identity:   identityID,
		Weight:     s.validators.Get(id),
		Index:      s.validators.GetIdx(id),
	}, nil
}

// Len returns the number of validators tracked.
func (s *Set) Len() int {
	return int(s.validators.Len())
}

// TotalWeight sums the bond weight across every tracked validator.
func (s *Set) TotalWeight() pos.Weight {
	var total pos.Weight
	for _, id := range s.validators.IDs() {
		total += s.validators.Get(id)
	}
	return total
}
