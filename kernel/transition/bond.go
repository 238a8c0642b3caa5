package transition

import (
	"encoding/hex"

	"github.com/50gramx/civilisation-os-kernel/kernel/canonjson"
	"github.com/50gramx/civilisation-os-kernel/kernel/fixedpoint"
	"github.com/50gramx/civilisation-os-kernel/kernel/kerr"
	"github.com/50gramx/civilisation-os-kernel/kernel/merkle"
)

var bondSchema = []string{"key", "target", "staked_weight", "bonder_balance"}

type bondRecord struct {
	target        []byte
	stakedWeight  fixedpoint.Fixed
	bonderBalance fixedpoint.Fixed
}

// parseBondRecord reads a bond mutation's new value — the proposed
// post-transition bond — as a canonical object carrying the fields step
// 5 needs: the bond's target identifier, the weight it stakes, and the
// bonder's balance after decay (step 3), against which the stake is
// checked.
func parseBondRecord(m merkle.LeafMutation) (bondRecord, error) {
	value, err := canonjson.Parse(m.NewValue)
	if err != nil {
		return bondRecord{}, err
	}
	obj, ok := value.(*canonjson.Object)
	if !ok {
		return bondRecord{}, kerr.New(kerr.InvalidSerialization, "bond value is not an object")
	}
	if err := canonjson.ValidateSchema(obj, bondSchema); err != nil {
		return bondRecord{}, err
	}

	var targetHex, stakedWeightStr, bonderBalanceStr string
	for _, member := range obj.Members {
		s, ok := member.Value.(canonjson.String)
		if !ok {
			return bondRecord{}, kerr.New(kerr.InvalidSerialization, "bond field is not a string")
		}
		switch member.Key {
		case "target":
			targetHex = string(s)
		case "staked_weight":
			stakedWeightStr = string(s)
		case "bonder_balance":
			bonderBalanceStr = string(s)
		}
	}

	target, err := hex.DecodeString(targetHex)
	if err != nil {
		return bondRecord{}, kerr.New(kerr.InvalidSerialization, "bond target is not valid hex")
	}

	stakedWeight, err := fixedpoint.FromCanonicalString(stakedWeightStr)
	if err != nil {
		return bondRecord{}, err
	}
	bonderBalance, err := fixedpoint.FromCanonicalString(bonderBalanceStr)
	if err != nil {
		return bondRecord{}, err
	}

	return bondRecord{target: target, stakedWeight: stakedWeight, bonderBalance: bonderBalance}, nil
}
