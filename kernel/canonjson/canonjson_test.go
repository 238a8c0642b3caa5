package canonjson

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/50gramx/civilisation-os-kernel/kernel/kerr"
)

func asErr(t *testing.T, err error) *kerr.Error {
	t.Helper()
	kErr, ok := err.(*kerr.Error)
	require.True(t, ok, "expected *kerr.Error, got %T", err)
	return kErr
}

func TestMarshal_SortsKeysRegardlessOfInsertionOrder(t *testing.T) {
	obj, err := NewObject(
		Member{Key: "b", Value: String("2")},
		Member{Key: "a", Value: String("1")},
	)
	require.NoError(t, err)

	got, err := Marshal(obj)
	require.NoError(t, err)
	require.Equal(t, `{"a":"1","b":"2"}`, string(got))
}

func TestParse_ToleratesWhitespaceAndOutOfOrderKeys(t *testing.T) {
	input := []byte("{\n  \"b\" : \"2\",\n  \"a\" : \"1\"\n}\n")
	v, err := Parse(input)
	require.NoError(t, err)

	got, err := Marshal(v)
	require.NoError(t, err)
	require.Equal(t, `{"a":"1","b":"2"}`, string(got))
}

func TestCanonicalize_IsIdempotent(t *testing.T) {
	once, err := Canonicalize([]byte(`{"z":"9","a":["x","y"]}`))
	require.NoError(t, err)

	twice, err := Canonicalize(once)
	require.NoError(t, err)
	require.Equal(t, once, twice)
}

func TestParse_RejectsDuplicateKey(t *testing.T) {
	_, err := Parse([]byte(`{"a":"1","a":"2"}`))
	require.Error(t, err)
	require.Equal(t, kerr.InvalidSerialization, asErr(t, err).Code)
}

func TestParse_RejectsUppercaseKey(t *testing.T) {
	_, err := Parse([]byte(`{"Abc":"1"}`))
	require.Error(t, err)
	require.Equal(t, kerr.InvalidSerialization, asErr(t, err).Code)
}

func TestParse_RejectsNumber(t *testing.T) {
	_, err := Parse([]byte(`{"a":1}`))
	require.Error(t, err)
}

func TestParse_RejectsBooleanAndNull(t *testing.T) {
	_, err := Parse([]byte(`{"a":true}`))
	require.Error(t, err)

	_, err = Parse([]byte(`{"a":null}`))
	require.Error(t, err)
}

func TestParse_RejectsTrailingContent(t *testing.T) {
	_, err := Parse([]byte(`{"a":"1"} garbage`))
	require.Error(t, err)
}

func TestParse_RejectsBOM(t *testing.T) {
	_, err := Parse(append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{}`)...))
	require.Error(t, err)
}

func TestParse_RejectsExcessiveDepth(t *testing.T) {
	var sb []byte
	for i := 0; i < MaxDepth+1; i++ {
		sb = append(sb, '[')
	}
	for i := 0; i < MaxDepth+1; i++ {
		sb = append(sb, ']')
	}
	_, err := Parse(sb)
	require.Error(t, err)
}

func TestParse_RejectsRawControlCharacterInString(t *testing.T) {
	_, err := Parse([]byte("{\"a\":\"x\ny\"}"))
	require.Error(t, err)
}

func TestMagnitudeString_RejectsLeadingZero(t *testing.T) {
	_, err := MagnitudeString("007")
	require.Error(t, err)
	require.Equal(t, kerr.InvalidSerialization, asErr(t, err).Code)
}

func TestMagnitudeString_AcceptsZeroAndLargeValues(t *testing.T) {
	_, err := MagnitudeString("0")
	require.NoError(t, err)
	_, err = MagnitudeString("123456789012345678901234567890")
	require.NoError(t, err)
}

func TestValidateSchema_RejectsUnknownField(t *testing.T) {
	obj, err := NewObject(Member{Key: "a", Value: String("1")}, Member{Key: "b", Value: String("2")})
	require.NoError(t, err)

	err = ValidateSchema(obj, []string{"a"})
	require.Error(t, err)
}

func TestValidateSchema_RejectsMissingField(t *testing.T) {
	obj, err := NewObject(Member{Key: "a", Value: String("1")})
	require.NoError(t, err)

	err = ValidateSchema(obj, []string{"a", "b"})
	require.Error(t, err)
}

func TestValidateSchema_AcceptsExactMatch(t *testing.T) {
	obj, err := NewObject(Member{Key: "a", Value: String("1")}, Member{Key: "b", Value: String("2")})
	require.NoError(t, err)

	require.NoError(t, ValidateSchema(obj, []string{"a", "b"}))
}

func TestHexDigest_RendersLowercase64Chars(t *testing.T) {
	var d [32]byte
	d[0] = 0xab
	d[31] = 0x0f
	got := HexDigest(d)
	require.Len(t, string(got), 64)
	require.Equal(t, byte('a'), got[0])
	require.Equal(t, byte('b'), got[1])
}

func TestNewObject_RejectsDuplicateAndBadKey(t *testing.T) {
	_, err := NewObject(Member{Key: "a", Value: String("1")}, Member{Key: "a", Value: String("2")})
	require.Error(t, err)

	_, err = NewObject(Member{Key: "Bad-Key", Value: String("1")})
	require.Error(t, err)
}
