package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/hessian/format"
)

func testPayload() []byte {
	var buf bytes.Buffer
	for i := 0; i < 1024; i++ {
		buf.WriteString("hessian payload chunk ")
		buf.WriteByte(byte(i))
	}

	return buf.Bytes()
}

func TestCodecs_Roundtrip(t *testing.T) {
	payload := testPayload()

	for _, ct := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		codec, err := GetCodec(ct)
		require.NoError(t, err, ct.String())

		compressed, err := codec.Compress(payload)
		require.NoError(t, err, ct.String())

		got, err := codec.Decompress(compressed)
		require.NoError(t, err, ct.String())
		require.Equal(t, payload, got, ct.String())
	}
}

func TestCodecs_EmptyInput(t *testing.T) {
	for _, ct := range []format.CompressionType{
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		codec, err := GetCodec(ct)
		require.NoError(t, err)

		compressed, err := codec.Compress(nil)
		require.NoError(t, err)

		got, err := codec.Decompress(compressed)
		require.NoError(t, err)
		require.Empty(t, got)
	}
}

func TestLZ4_IncompressibleInput(t *testing.T) {
	// High-entropy input roundtrips. Compress gives the block compressor a
	// destination of full CompressBlockBound size, so it emits a literal-only
	// block rather than reporting the input incompressible.
	payload := make([]byte, 512)
	state := uint32(0x12345678)
	for i := range payload {
		state = state*1664525 + 1013904223
		payload[i] = byte(state >> 24)
	}

	codec := NewLZ4Codec()
	compressed, err := codec.Compress(payload)
	require.NoError(t, err)

	got, err := codec.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestGetCodec_Unknown(t *testing.T) {
	_, err := GetCodec(format.CompressionType(0x7E))
	require.Error(t, err)
}

func TestNoOp_PassesThrough(t *testing.T) {
	codec := NewNoOpCodec()
	payload := []byte{1, 2, 3}

	compressed, err := codec.Compress(payload)
	require.NoError(t, err)
	require.Equal(t, payload, compressed)

	got, err := codec.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}
