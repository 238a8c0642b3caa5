// Package canonjson implements the kernel's canonical serialization: a
// strictly bounded subset of JSON that produces exactly one byte sequence
// per admissible logical value. It is not a general JSON library — it
// forbids numbers, duplicate keys, and anything outside the
// object/array/string value space. Marshal never emits whitespace outside
// strings and always sorts keys; Parse accepts insignificant whitespace
// and object members in any key order, so it does not reject input for
// being non-canonical in those two respects.
package canonjson

import (
	"regexp"

	"github.com/50gramx/civilisation-os-kernel/kernel/kerr"
)

// MaxDepth bounds object/array nesting. The kernel reuses the Merkle
// path-length ceiling (40) for this guard, per the spec's explicit
// statement that the two limits are the same constant.
const MaxDepth = 40

// MaxObjectFields and MaxArrayItems and MaxInputBytes are supplemental
// pathological-input guards drawn from the wider bound the reference
// implementation enforces; spec.md names only the depth guard explicitly,
// but also says bounded guards exist "to prevent pathological inputs" —
// these size caps serve the same stated purpose without contradicting
// anything frozen.
const (
	MaxObjectFields = 64
	MaxArrayItems   = 1024
	MaxInputBytes   = 65536
)

var keyPattern = regexp.MustCompile(`^[a-z0-9_]+$`)
var magnitudePattern = regexp.MustCompile(`^(0|[1-9][0-9]*)$`)

// Value is an admissible canonical-JSON value: an Object, an Array, or a
// String (which may additionally satisfy the magnitude-string grammar).
type Value interface {
	// isValue is unexported so Value cannot be implemented outside this package.
	isValue()
}

// String is a JSON string value. Whether it is a "magnitude-string" is a
// schema-level distinction (checked at the point of use, e.g. MagnitudeString),
// not a distinct Go type.
type String string

func (String) isValue() {}

// Member is one key/value pair of an Object, in insertion order as parsed
// (or constructed); Marshal always emits members in sorted-key order
// regardless of Member slice order.
type Member struct {
	Key   string
	Value Value
}

// Object is a canonical-JSON object: an ordered set of Members with unique,
// pattern-conforming keys.
type Object struct {
	Members []Member
}

func (*Object) isValue() {}

// Array is a canonical-JSON array; element order is significant and preserved.
type Array struct {
	Items []Value
}

func (*Array) isValue() {}

// NewObject validates key conformance and duplicate-freedom and returns an
// Object. Key order in members is irrelevant to the result Marshal
// produces, but is preserved for callers that inspect the Object directly.
func NewObject(members ...Member) (*Object, error) {
	if len(members) > MaxObjectFields {
		return nil, kerr.New(kerr.InvalidSerialization, "object exceeds MaxObjectFields")
	}
	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		if !keyPattern.MatchString(m.Key) {
			return nil, kerr.New(kerr.InvalidSerialization, "object key fails ^[a-z0-9_]+$: "+m.Key)
		}
		if _, dup := seen[m.Key]; dup {
			return nil, kerr.New(kerr.InvalidSerialization, "duplicate object key: "+m.Key)
		}
		seen[m.Key] = struct{}{}
	}
	return &Object{Members: append([]Member{}, members...)}, nil
}

// NewArray validates the bounded item count and returns an Array.
func NewArray(items ...Value) (*Array, error) {
	if len(items) > MaxArrayItems {
		return nil, kerr.New(kerr.InvalidSerialization, "array exceeds MaxArrayItems")
	}
	return &Array{Items: append([]Value{}, items...)}, nil
}

// MagnitudeString validates s against ^(0|[1-9][0-9]*)$ and returns it as a
// canonical-JSON String value.
func MagnitudeString(s string) (String, error) {
	if !magnitudePattern.MatchString(s) {
		return "", kerr.New(kerr.InvalidSerialization, "magnitude string fails ^(0|[1-9][0-9]*)$: "+s)
	}
	return String(s), nil
}

// HexDigest renders a 32-byte digest as 64 lowercase hex characters and
// returns it as a canonical-JSON String value.
func HexDigest(d [32]byte) String {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, 64)
	for i, b := range d {
		out[i*2] = hexDigits[b>>4]
		out[i*2+1] = hexDigits[b&0x0f]
	}
	return String(out)
}
