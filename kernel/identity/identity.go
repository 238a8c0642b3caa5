// Package identity provides the kernel's identifier byte layout for
// validators and the hex rendering the host uses to log and display them.
// Adapted from the teacher's validatorpk.PubKey: a typed-prefix-plus-raw
// key shape, with hex conversion delegated to go-ethereum/common exactly
// as the teacher does, and never used inside the canonical-JSON or
// hashing code paths.
package identity

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/50gramx/civilisation-os-kernel/kernel/kerr"
)

// KeyType identifies the signature scheme a ValidatorID's raw bytes use.
// The kernel's constitutional scheme is Ed25519; the type byte exists so
// a future scheme migration does not require changing the identifier
// layout itself.
type KeyType uint8

// Ed25519 is the only currently supported scheme.
const Ed25519 KeyType = 0xed

// ValidatorID is a validator's public key, decoupled from the raw bytes so
// a future key-scheme migration does not ripple through every caller that
// stores or compares identifiers.
type ValidatorID struct {
	Type KeyType
	Raw  [32]byte
}

// Empty reports whether id is the zero value.
func (id ValidatorID) Empty() bool {
	return id.Type == 0 && id.Raw == [32]byte{}
}

// Bytes returns the flat encoding: the type byte followed by the 32 raw
// key bytes.
func (id ValidatorID) Bytes() []byte {
	out := make([]byte, 0, 33)
	out = append(out, byte(id.Type))
	out = append(out, id.Raw[:]...)
	return out
}

// String renders id as a "0x"-prefixed hex string, matching the
// teacher's PubKey.String() convention.
func (id ValidatorID) String() string {
	return "0x" + common.Bytes2Hex(id.Bytes())
}

// FromBytes reconstructs a ValidatorID from its flat encoding.
func FromBytes(b []byte) (ValidatorID, error) {
	if len(b) != 33 {
		return ValidatorID{}, kerr.New(kerr.InvalidSerialization, "validator identifier must be exactly 33 bytes")
	}
	var id ValidatorID
	id.Type = KeyType(b[0])
	copy(id.Raw[:], b[1:])
	return id, nil
}

// FromString parses a "0x"-prefixed (or bare) hex string into a ValidatorID.
func FromString(s string) (ValidatorID, error) {
	return FromBytes(common.FromHex(s))
}

// CanonicalKey returns the lowercase hex of the raw key bytes, the form
// used as a LeafMutation key for this validator's entry in the Merkle
// pool — matching the "lowercase hex of Ed25519 public key" convention.
func (id ValidatorID) CanonicalKey() string {
	return common.Bytes2Hex(id.Raw[:])
}
