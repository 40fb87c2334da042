package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify_SingleTags(t *testing.T) {
	tests := []struct {
		octet byte
		want  Kind
	}{
		{'N', KindNull},
		{'T', KindTrue},
		{'F', KindFalse},
		{'I', KindInt32},
		{0x59, KindLong32},
		{'L', KindLong64},
		{0x5B, KindDoubleZero},
		{0x5C, KindDoubleOne},
		{0x5D, KindDoubleByte},
		{0x5E, KindDoubleShort},
		{0x5F, KindDoubleMilli},
		{'D', KindDouble64},
		{0x4A, KindDateMillis},
		{0x4B, KindDateMinutes},
		{0x41, KindBinaryChunk},
		{'B', KindBinaryFinal},
		{0x52, KindStringChunk},
		{'S', KindStringFinal},
		{0x55, KindListVarTyped},
		{'V', KindListFixedTyped},
		{0x57, KindListVarUntyped},
		{0x58, KindListFixedUntyped},
		{'M', KindMapTyped},
		{'H', KindMapUntyped},
		{'C', KindDefinition},
		{'O', KindObject},
		{0x51, KindRef},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, Classify(tt.octet), "octet 0x%02X", tt.octet)
	}
}

func TestClassify_Ranges(t *testing.T) {
	ranges := []struct {
		lo, hi byte
		want   Kind
	}{
		{0x00, 0x1F, KindStringCompact},
		{0x20, 0x2F, KindBinaryCompact},
		{0x30, 0x33, KindStringTwoOctet},
		{0x34, 0x37, KindBinaryTwoOctet},
		{0x38, 0x3F, KindLongCompact3},
		{0x60, 0x6F, KindObjectCompact},
		{0x70, 0x77, KindListShortTyped},
		{0x78, 0x7F, KindListShortUntyped},
		{0x80, 0xBF, KindIntCompact1},
		{0xC0, 0xCF, KindIntCompact2},
		{0xD0, 0xD7, KindIntCompact3},
		{0xD8, 0xEF, KindLongCompact1},
		{0xF0, 0xFF, KindLongCompact2},
	}

	for _, r := range ranges {
		for c := int(r.lo); c <= int(r.hi); c++ {
			require.Equal(t, r.want, Classify(byte(c)), "octet 0x%02X", c)
		}
	}
}

func TestClassify_Unknown(t *testing.T) {
	// 0x5A ('Z') terminates variable-length containers and is not a value
	// tag of its own.
	for _, c := range []byte{0x40, 0x45, 0x47, 0x50, 0x5A} {
		require.Equal(t, KindUnknown, Classify(c), "octet 0x%02X", c)
	}
}

func TestClassify_EveryOctetCovered(t *testing.T) {
	// Every octet classifies deterministically and non-unknown octets map
	// back to a real category.
	for c := 0; c < 256; c++ {
		kind := Classify(byte(c))
		if kind == KindUnknown {
			continue
		}
		require.NotEqual(t, CatUnknown, kind.Category(), "octet 0x%02X", c)
	}
}

func TestCategory_Strings(t *testing.T) {
	require.Equal(t, "int", Classify(0x90).String())
	require.Equal(t, "long", Classify(0xE0).String())
	require.Equal(t, "string", Classify(0x00).String())
	require.Equal(t, "binary", Classify(0x20).String())
	require.Equal(t, "map", Classify('H').String())
	require.Equal(t, "definition", Classify('C').String())
	require.Equal(t, "unknown", Classify(0x45).String())
}

func TestCompressionType_String(t *testing.T) {
	require.Equal(t, "None", CompressionNone.String())
	require.Equal(t, "Zstd", CompressionZstd.String())
	require.Equal(t, "S2", CompressionS2.String())
	require.Equal(t, "LZ4", CompressionLZ4.String())
	require.Equal(t, "Unknown", CompressionType(0xFF).String())
}
