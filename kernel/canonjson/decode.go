package canonjson

import (
	"unicode/utf8"

	"github.com/50gramx/civilisation-os-kernel/kernel/kerr"
)

// Parse decodes input into a Value tree. Parsing is lenient about input
// formatting — insignificant whitespace between tokens and any object key
// order are both accepted — but strict about everything the grammar itself
// forbids: numbers, booleans, null, duplicate keys, malformed keys, raw
// control characters in strings, unterminated input, trailing content, a
// leading UTF-8 BOM, and nesting beyond MaxDepth. Re-emitting the result
// with Marshal always yields the unique canonical byte form regardless of
// how the input was spaced or ordered.
func Parse(input []byte) (Value, error) {
	if len(input) > MaxInputBytes {
		return nil, kerr.New(kerr.InvalidSerialization, "input exceeds MaxInputBytes")
	}
	if len(input) >= 3 && input[0] == 0xEF && input[1] == 0xBB && input[2] == 0xBF {
		return nil, kerr.New(kerr.InvalidSerialization, "leading UTF-8 BOM")
	}

	p := &parser{src: input}
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipWhitespace()
	if p.pos != len(p.src) {
		return nil, kerr.New(kerr.InvalidSerialization, "trailing content after root value")
	}
	return v, nil
}

type parser struct {
	src   []byte
	pos   int
	depth int
}

func (p *parser) peek() (byte, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *parser) advance() (byte, bool) {
	b, ok := p.peek()
	if ok {
		p.pos++
	}
	return b, ok
}

func (p *parser) expect(want byte) error {
	b, ok := p.advance()
	if !ok || b != want {
		return kerr.New(kerr.InvalidSerialization, "unexpected byte")
	}
	return nil
}

func (p *parser) skipWhitespace() {
	for {
		b, ok := p.peek()
		if !ok {
			return
		}
		switch b {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) parseValue() (Value, error) {
	p.skipWhitespace()
	b, ok := p.peek()
	if !ok {
		return nil, kerr.New(kerr.InvalidSerialization, "unexpected end of input")
	}
	switch {
	case b == '"':
		s, err := p.parseString()
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case b == '{':
		return p.parseObject()
	case b == '[':
		return p.parseArray()
	default:
		// Numbers, booleans, and null are all outside the admissible
		// value space (objects, arrays, strings only) and rejected here.
		return nil, kerr.New(kerr.InvalidSerialization, "value outside object/array/string grammar")
	}
}

func (p *parser) parseString() (string, error) {
	if err := p.expect('"'); err != nil {
		return "", err
	}
	var out []byte
	for {
		b, ok := p.advance()
		if !ok {
			return "", kerr.New(kerr.InvalidSerialization, "unterminated string")
		}
		switch b {
		case '"':
			if !utf8.Valid(out) {
				return "", kerr.New(kerr.InvalidSerialization, "string is not valid UTF-8")
			}
			return string(out), nil
		case '\\':
			esc, ok := p.advance()
			if !ok {
				return "", kerr.New(kerr.InvalidSerialization, "unterminated escape")
			}
			switch esc {
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			case '/':
				out = append(out, '/')
			case 'b':
				out = append(out, 0x08)
			case 'f':
				out = append(out, 0x0C)
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'u':
				cp, err := p.readHex4()
				if err != nil {
					return "", err
				}
				var buf [4]byte
				n := utf8.EncodeRune(buf[:], rune(cp))
				out = append(out, buf[:n]...)
			default:
				return "", kerr.New(kerr.InvalidSerialization, "invalid escape sequence")
			}
		default:
			if b < 0x20 {
				return "", kerr.New(kerr.InvalidSerialization, "raw control character in string")
			}
			out = append(out, b)
		}
	}
}

func (p *parser) readHex4() (uint32, error) {
	if p.pos+4 > len(p.src) {
		return 0, kerr.New(kerr.InvalidSerialization, "truncated \\u escape")
	}
	var cp uint32
	for i := 0; i < 4; i++ {
		c := p.src[p.pos+i]
		var v uint32
		switch {
		case c >= '0' && c <= '9':
			v = uint32(c - '0')
		case c >= 'a' && c <= 'f':
			v = uint32(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v = uint32(c-'A') + 10
		default:
			return 0, kerr.New(kerr.InvalidSerialization, "invalid hex digit in \\u escape")
		}
		cp = cp<<4 | v
	}
	p.pos += 4
	return cp, nil
}

func isKeyByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9') || b == '_'
}

func (p *parser) parseObject() (Value, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	p.depth++
	if p.depth > MaxDepth {
		return nil, kerr.New(kerr.InvalidSerialization, "object nesting exceeds MaxDepth")
	}
	defer func() { p.depth-- }()

	var members []Member
	p.skipWhitespace()
	if b, ok := p.peek(); ok && b == '}' {
		p.pos++
		return &Object{Members: members}, nil
	}

	seen := make(map[string]struct{})
	for {
		if len(members) >= MaxObjectFields {
			return nil, kerr.New(kerr.InvalidSerialization, "object exceeds MaxObjectFields")
		}
		p.skipWhitespace()
		key, err := p.parseString()
		if err != nil {
			return nil, err
		}
		if key == "" {
			return nil, kerr.New(kerr.InvalidSerialization, "empty object key")
		}
		for i := 0; i < len(key); i++ {
			if !isKeyByte(key[i]) {
				return nil, kerr.New(kerr.InvalidSerialization, "object key fails ^[a-z0-9_]+$: "+key)
			}
		}
		if _, dup := seen[key]; dup {
			return nil, kerr.New(kerr.InvalidSerialization, "duplicate object key: "+key)
		}
		seen[key] = struct{}{}

		p.skipWhitespace()
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		p.skipWhitespace()
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		members = append(members, Member{Key: key, Value: val})
		p.skipWhitespace()

		b, ok := p.advance()
		if !ok {
			return nil, kerr.New(kerr.InvalidSerialization, "unterminated object")
		}
		if b == ',' {
			continue
		}
		if b == '}' {
			break
		}
		return nil, kerr.New(kerr.InvalidSerialization, "expected ',' or '}' in object")
	}
	return &Object{Members: members}, nil
}

func (p *parser) parseArray() (Value, error) {
	if err := p.expect('['); err != nil {
		return nil, err
	}
	p.depth++
	if p.depth > MaxDepth {
		return nil, kerr.New(kerr.InvalidSerialization, "array nesting exceeds MaxDepth")
	}
	defer func() { p.depth-- }()

	var items []Value
	p.skipWhitespace()
	if b, ok := p.peek(); ok && b == ']' {
		p.pos++
		return &Array{Items: items}, nil
	}

	for {
		if len(items) >= MaxArrayItems {
			return nil, kerr.New(kerr.InvalidSerialization, "array exceeds MaxArrayItems")
		}
		p.skipWhitespace()
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
		p.skipWhitespace()

		b, ok := p.advance()
		if !ok {
			return nil, kerr.New(kerr.InvalidSerialization, "unterminated array")
		}
		if b == ',' {
			continue
		}
		if b == ']' {
			break
		}
		return nil, kerr.New(kerr.InvalidSerialization, "expected ',' or ']' in array")
	}
	return &Array{Items: items}, nil
}

// ValidateSchema checks that obj contains exactly allowedKeys, no more and
// no fewer. Schema enforcement is deliberately separate from Parse: first
// parse (or build) the value, then validate it against each payload type's
// expected key set.
func ValidateSchema(obj *Object, allowedKeys []string) error {
	allowed := make(map[string]struct{}, len(allowedKeys))
	for _, k := range allowedKeys {
		allowed[k] = struct{}{}
	}
	present := make(map[string]struct{}, len(obj.Members))
	for _, m := range obj.Members {
		if _, ok := allowed[m.Key]; !ok {
			return kerr.New(kerr.InvalidSerialization, "unknown field: "+m.Key)
		}
		present[m.Key] = struct{}{}
	}
	for _, k := range allowedKeys {
		if _, ok := present[k]; !ok {
			return kerr.New(kerr.InvalidSerialization, "missing field: "+k)
		}
	}
	return nil
}
