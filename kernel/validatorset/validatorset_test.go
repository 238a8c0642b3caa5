package validatorset

import (
	"testing"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/Fantom-foundation/lachesis-base/inter/pos"
	"github.com/stretchr/testify/require"

	"github.com/50gramx/civilisation-os-kernel/kernel/identity"
)

func buildValidators(t *testing.T) (*pos.Validators, idx.ValidatorID) {
	t.Helper()
	builder := pos.NewBuilder()
	id := idx.ValidatorID(1)
	builder.Set(id, pos.Weight(100))
	return builder.Build(), id
}

func TestLookup_ReturnsWeightAndIndex(t *testing.T) {
	validators, id := buildValidators(t)
	var kernelID identity.ValidatorID
	kernelID.Type = identity.Ed25519
	kernelID.Raw[0] = 0x01

	set := New(validators, map[idx.ValidatorID]identity.ValidatorID{id: kernelID})

	entry, err := set.Lookup(id)
	require.NoError(t, err)
	require.Equal(t, pos.Weight(100), entry.Weight)
	require.Equal(t, kernelID, entry.Identity)
}

func TestLookup_RejectsUnknownID(t *testing.T) {
	validators, _ := buildValidators(t)
	set := New(validators, nil)

	_, err := set.Lookup(idx.ValidatorID(999))
	require.Error(t, err)
}

func TestTotalWeight_SumsAllValidators(t *testing.T) {
	builder := pos.NewBuilder()
	builder.Set(idx.ValidatorID(1), pos.Weight(40))
	builder.Set(idx.ValidatorID(2), pos.Weight(60))
	validators := builder.Build()

	set := New(validators, nil)
	require.Equal(t, pos.Weight(100), set.TotalWeight())
	require.Equal(t, 2, set.Len())
}
