package emission

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/50gramx/civilisation-os-kernel/kernel/fixedpoint"
)

func TestZeroEmission_BondMintIsAlwaysZero(t *testing.T) {
	bond, err := fixedpoint.FromUnits(500)
	require.NoError(t, err)
	entropy, err := fixedpoint.FromUnits(3)
	require.NoError(t, err)

	var policy Policy = ZeroEmission{}
	minted, err := policy.CalculateBondMint(bond, 10, entropy)
	require.NoError(t, err)
	require.True(t, minted.IsZero())
}

func TestZeroEmission_ValidatorFeeIsAlwaysZero(t *testing.T) {
	total, err := fixedpoint.FromUnits(1_000_000)
	require.NoError(t, err)

	var policy Policy = ZeroEmission{}
	fee, err := policy.CalculateValidatorFee(total)
	require.NoError(t, err)
	require.True(t, fee.IsZero())
}
