// Package fixedpoint implements the kernel's constitutional fixed-point
// type: an opaque scaled 128-bit magnitude with checked arithmetic and
// frozen truncation-toward-zero rounding.
//
// All balance-shaped magnitudes in the kernel are Fixed values. The inner
// magnitude is never exposed directly; only Raw() does, for canonical
// encoding, and is documented as such.
package fixedpoint

import (
	"math/big"
	"regexp"

	"github.com/50gramx/civilisation-os-kernel/kernel/kerr"
)

// Scale is the fixed-point scaling factor: 1.0 unit = Fixed(Scale).
var Scale = big.NewInt(1_000_000_000_000)

// maxUint128 is 2^128 - 1.
var maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// MaxSafeBalanceRaw is the ceiling a raw magnitude may not exceed:
// 2^128 / Scale. Staying under it guarantees that a subsequent
// mul_scaled's intermediate product cannot overflow a 128-bit magnitude
// before the /Scale reduction.
var MaxSafeBalanceRaw = new(big.Int).Div(maxUint128, Scale)

// Fixed is the opaque scaled-integer value type. The zero value is the
// Fixed representation of zero.
type Fixed struct {
	raw *big.Int
}

var canonicalMagnitude = regexp.MustCompile(`^(0|[1-9][0-9]*)$`)

func clampCheck(raw *big.Int) error {
	if raw.Sign() < 0 {
		return kerr.New(kerr.MathOverflow, "negative fixed-point magnitude")
	}
	if raw.Cmp(MaxSafeBalanceRaw) > 0 {
		return kerr.New(kerr.MathOverflow, "raw magnitude exceeds safe balance ceiling")
	}
	return nil
}

// FromRaw constructs a Fixed from a pre-scaled raw magnitude. It fails if
// raw exceeds MaxSafeBalanceRaw, since such a value could overflow during
// a subsequent decay multiplication.
func FromRaw(raw *big.Int) (Fixed, error) {
	r := new(big.Int).Set(raw)
	if err := clampCheck(r); err != nil {
		return Fixed{}, err
	}
	return Fixed{raw: r}, nil
}

// FromUnits constructs a Fixed from a whole-unit count: wholeUnits * Scale.
func FromUnits(wholeUnits uint64) (Fixed, error) {
	raw := new(big.Int).Mul(big.NewInt(0).SetUint64(wholeUnits), Scale)
	return FromRaw(raw)
}

// FromCanonicalString parses a Fixed from a canonical magnitude string
// matching ^(0|[1-9][0-9]*)$. The string represents the raw, already
// scaled, inner magnitude.
func FromCanonicalString(s string) (Fixed, error) {
	if !canonicalMagnitude.MatchString(s) {
		return Fixed{}, kerr.New(kerr.InvalidSerialization, "malformed magnitude string")
	}
	raw, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Fixed{}, kerr.New(kerr.MathOverflow, "magnitude string does not parse")
	}
	return FromRaw(raw)
}

// Zero is the Fixed representation of 0.
func Zero() Fixed {
	return Fixed{raw: big.NewInt(0)}
}

func (f Fixed) ensureInit() *big.Int {
	if f.raw == nil {
		return big.NewInt(0)
	}
	return f.raw
}

// Raw returns the inner raw magnitude, for canonical encoding only.
func (f Fixed) Raw() *big.Int {
	return new(big.Int).Set(f.ensureInit())
}

// CanonicalString renders the raw magnitude as a canonical magnitude string.
func (f Fixed) CanonicalString() string {
	return f.ensureInit().String()
}

// IsZero reports whether f is zero.
func (f Fixed) IsZero() bool {
	return f.ensureInit().Sign() == 0
}

// MulScaled computes (f * other) / Scale using a full-precision multiply
// followed by an integer divide, truncating toward zero. This is the
// kernel's only multiplicative primitive; chaining it across three or more
// operands without an intervening reduction is forbidden by construction —
// there is no three-operand overload.
func (f Fixed) MulScaled(other Fixed) (Fixed, error) {
	product := new(big.Int).Mul(f.ensureInit(), other.ensureInit())
	if product.Cmp(maxUint128) > 0 {
		return Fixed{}, kerr.New(kerr.MathOverflow, "mul_scaled intermediate product overflow")
	}
	result := new(big.Int).Div(product, Scale)
	return FromRaw(result)
}

// DivScaled computes (f * Scale) / other, truncating toward zero. A zero
// divisor returns MathOverflow rather than trapping.
func (f Fixed) DivScaled(other Fixed) (Fixed, error) {
	if other.IsZero() {
		return Fixed{}, kerr.New(kerr.MathOverflow, "division by zero")
	}
	numerator := new(big.Int).Mul(f.ensureInit(), Scale)
	if numerator.Cmp(maxUint128) > 0 {
		return Fixed{}, kerr.New(kerr.MathOverflow, "div_scaled numerator overflow")
	}
	result := new(big.Int).Div(numerator, other.ensureInit())
	return FromRaw(result)
}

// CheckedAdd adds two Fixed values, failing if the result would exceed
// MaxSafeBalanceRaw.
func (f Fixed) CheckedAdd(other Fixed) (Fixed, error) {
	sum := new(big.Int).Add(f.ensureInit(), other.ensureInit())
	return FromRaw(sum)
}

// CheckedSub subtracts other from f, failing on underflow. For slashing,
// use SaturatingSubForSlash instead.
func (f Fixed) CheckedSub(other Fixed) (Fixed, error) {
	diff := new(big.Int).Sub(f.ensureInit(), other.ensureInit())
	if diff.Sign() < 0 {
		return Fixed{}, kerr.New(kerr.MathOverflow, "checked subtraction underflow")
	}
	return Fixed{raw: diff}, nil
}

// SaturatingSubForSlash subtracts slashAmount from f, clamping to zero
// instead of failing. Constitutionally restricted to slashing penalties —
// no other balance arithmetic may call it.
func (f Fixed) SaturatingSubForSlash(slashAmount Fixed) Fixed {
	diff := new(big.Int).Sub(f.ensureInit(), slashAmount.ensureInit())
	if diff.Sign() < 0 {
		return Zero()
	}
	return Fixed{raw: diff}
}

// Cmp compares f and other the way big.Int.Cmp does: -1, 0, or 1.
func (f Fixed) Cmp(other Fixed) int {
	return f.ensureInit().Cmp(other.ensureInit())
}
