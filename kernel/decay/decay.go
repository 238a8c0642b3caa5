// Package decay implements the thermodynamic decay rule applied to
// validator balances during step 3 of apply_epoch: every active
// identity's balance is multiplied by a frozen scaled constant and
// truncated toward zero. Grounded on the constitutional fixed-point
// truncation property (§8 testable property 6 — mul_scaled of the same
// constant must truncate toward zero with the remainder burned) and on
// witness.rs's note that validator_witnesses are "processed in two
// passes: registration first, then decay."
package decay

import (
	"encoding/hex"

	"github.com/50gramx/civilisation-os-kernel/kernel/canonjson"
	"github.com/50gramx/civilisation-os-kernel/kernel/fixedpoint"
	"github.com/50gramx/civilisation-os-kernel/kernel/kerr"
	"github.com/50gramx/civilisation-os-kernel/kernel/merkle"
)

// Factor is the frozen offline truncation of e^-0.0577 at scale 10^12.
const Factor = 943_932_824_245

func factorFixed() fixedpoint.Fixed {
	f, err := fixedpoint.FromCanonicalString("943932824245")
	if err != nil {
		panic("decay.Factor must parse as a canonical fixed-point magnitude")
	}
	return f
}

// Apply multiplies balance by Factor and truncates toward zero, per the
// contract fixedpoint.MulScaled already enforces.
func Apply(balance fixedpoint.Fixed) (fixedpoint.Fixed, error) {
	return balance.MulScaled(factorFixed())
}

var decaySchema = []string{"key", "balance"}

// VerifyMutation checks that a decay leaf mutation's new value is exactly
// Apply(oldBalance), and that both old and new values carry the
// mutation's declared key — the same Gap-1 invariant every pool mutation
// is held to, extended here with the decay arithmetic check itself.
func VerifyMutation(m merkle.LeafMutation) error {
	oldBalance, err := parseBalance(m.OldValue, m.Key)
	if err != nil {
		return err
	}
	newBalance, err := parseBalance(m.NewValue, m.Key)
	if err != nil {
		return err
	}
	expected, err := Apply(oldBalance)
	if err != nil {
		return err
	}
	if expected.Cmp(newBalance) != 0 {
		return kerr.New(kerr.InvalidSerialization, "decay mutation new balance does not equal decayed old balance")
	}
	return nil
}

func parseBalance(raw []byte, key []byte) (fixedpoint.Fixed, error) {
	value, err := canonjson.Parse(raw)
	if err != nil {
		return fixedpoint.Fixed{}, kerr.Wrap(kerr.InvalidSerialization, "decay value is not canonical JSON", err)
	}
	obj, ok := value.(*canonjson.Object)
	if !ok {
		return fixedpoint.Fixed{}, kerr.New(kerr.InvalidSerialization, "decay value is not an object")
	}
	if err := canonjson.ValidateSchema(obj, decaySchema); err != nil {
		return fixedpoint.Fixed{}, err
	}
	var keyField, balanceField canonjson.Value
	for _, m := range obj.Members {
		switch m.Key {
		case "key":
			keyField = m.Value
		case "balance":
			balanceField = m.Value
		}
	}
	keyStr, ok := keyField.(canonjson.String)
	if !ok || string(keyStr) != hex.EncodeToString(key) {
		return fixedpoint.Fixed{}, kerr.New(kerr.InvalidSerialization, "decay value key field does not match mutation key")
	}
	balanceStr, ok := balanceField.(canonjson.String)
	if !ok {
		return fixedpoint.Fixed{}, kerr.New(kerr.InvalidSerialization, "decay value balance field is not a string")
	}
	return fixedpoint.FromCanonicalString(string(balanceStr))
}
