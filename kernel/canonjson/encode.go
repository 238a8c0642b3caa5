package canonjson

import "github.com/50gramx/civilisation-os-kernel/kernel/kerr"

// Marshal emits v as canonical bytes: sorted object keys, no whitespace,
// every string escaped per the grammar's canonical escape rules. Marshal
// re-validates key conformance and nesting depth on its way down rather
// than trusting that every Value in the tree was built through NewObject —
// a Value can be assembled directly as a struct literal, bypassing that
// constructor's checks.
func Marshal(v Value) ([]byte, error) {
	w := newWriter(256)
	if err := encodeValue(w, v, 0); err != nil {
		return nil, err
	}
	return w.bytes(), nil
}

func encodeValue(w *writer, v Value, depth int) error {
	if depth > MaxDepth {
		return kerr.New(kerr.InvalidSerialization, "value nesting exceeds MaxDepth")
	}
	switch val := v.(type) {
	case String:
		w.writeEscapedString(string(val))
		return nil
	case *Array:
		return encodeArray(w, val, depth)
	case *Object:
		return encodeObject(w, val, depth)
	default:
		return kerr.New(kerr.InvalidSerialization, "value outside object/array/string grammar")
	}
}

func encodeArray(w *writer, a *Array, depth int) error {
	if len(a.Items) > MaxArrayItems {
		return kerr.New(kerr.InvalidSerialization, "array exceeds MaxArrayItems")
	}
	w.writeByte('[')
	for i, item := range a.Items {
		if i > 0 {
			w.writeByte(',')
		}
		if err := encodeValue(w, item, depth+1); err != nil {
			return err
		}
	}
	w.writeByte(']')
	return nil
}

func encodeObject(w *writer, o *Object, depth int) error {
	if len(o.Members) > MaxObjectFields {
		return kerr.New(kerr.InvalidSerialization, "object exceeds MaxObjectFields")
	}
	order := sortedMemberIndices(o.Members)

	w.writeByte('{')
	for i, idx := range order {
		m := o.Members[idx]
		if !keyPattern.MatchString(m.Key) {
			return kerr.New(kerr.InvalidSerialization, "object key fails ^[a-z0-9_]+$: "+m.Key)
		}
		if i > 0 {
			if o.Members[order[i-1]].Key == m.Key {
				return kerr.New(kerr.InvalidSerialization, "duplicate object key: "+m.Key)
			}
			w.writeByte(',')
		}
		w.writeEscapedString(m.Key)
		w.writeByte(':')
		if err := encodeValue(w, m.Value, depth+1); err != nil {
			return err
		}
	}
	w.writeByte('}')
	return nil
}

// sortedMemberIndices returns the indices of members in ascending
// byte-lexicographic key order, per RFC 8785 §3.2.3.
func sortedMemberIndices(members []Member) []int {
	order := make([]int, len(members))
	for i := range order {
		order[i] = i
	}
	// Simple insertion sort: object member counts are bounded by
	// MaxObjectFields (64), so this never needs to be asymptotically clever.
	for i := 1; i < len(order); i++ {
		j := i
		for j > 0 && members[order[j-1]].Key > members[order[j]].Key {
			order[j-1], order[j] = order[j], order[j-1]
			j--
		}
	}
	return order
}

// Canonicalize parses input and immediately re-emits it in canonical form,
// the composition RFC 8785 calls "canonicalization": arbitrary valid input
// in, the one canonical byte sequence for that logical value out.
func Canonicalize(input []byte) ([]byte, error) {
	v, err := Parse(input)
	if err != nil {
		return nil, err
	}
	return Marshal(v)
}
