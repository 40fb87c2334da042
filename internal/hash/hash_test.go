package hash

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBytes_DomainSeparation(t *testing.T) {
	require.NotEqual(t, Bytes(0x01, []byte("abc")), Bytes(0x02, []byte("abc")))
	require.Equal(t, Bytes(0x01, []byte("abc")), Bytes(0x01, []byte("abc")))
}

func TestString_MatchesBytes(t *testing.T) {
	require.Equal(t, Bytes(0x03, []byte("hello")), String(0x03, "hello"))
}

func TestUint64_Distinct(t *testing.T) {
	require.NotEqual(t, Uint64(0x01, 1), Uint64(0x01, 2))
	require.NotEqual(t, Uint64(0x01, 1), Uint64(0x02, 1))
}

func TestCombine_OrderSensitive(t *testing.T) {
	a, b := Uint64(0, 1), Uint64(0, 2)
	require.NotEqual(t, Combine(Combine(0, a), b), Combine(Combine(0, b), a))
}

func TestFloatBits_NaNCanonical(t *testing.T) {
	require.Equal(t, FloatBits(math.NaN()), FloatBits(math.Float64frombits(0x7FF8000000000001)))
	require.Equal(t, FloatBits(math.NaN()), FloatBits(math.Float64frombits(0xFFF8000000000042)))

	require.NotEqual(t, FloatBits(0.0), FloatBits(math.Copysign(0, -1)))
	require.Equal(t, math.Float64bits(12.25), FloatBits(12.25))
}
