package pool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBuffer_WriteAndReset(t *testing.T) {
	bb := NewByteBuffer(16)

	bb.MustWrite([]byte("abc"))
	require.NoError(t, bb.WriteByte('d'))
	require.Equal(t, 4, bb.Len())
	require.Equal(t, []byte("abcd"), bb.Bytes())

	bb.Reset()
	require.Equal(t, 0, bb.Len())
	require.GreaterOrEqual(t, bb.Cap(), 16)
}

func TestByteBuffer_GrowReservesCapacity(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.MustWrite([]byte("12345678"))

	bb.Grow(1024)
	require.GreaterOrEqual(t, bb.Cap()-bb.Len(), 1024)
	require.Equal(t, []byte("12345678"), bb.Bytes())

	// A chunk-sized run after Grow stays within the reservation.
	capBefore := bb.Cap()
	bb.MustWrite(make([]byte, 1024))
	require.Equal(t, capBefore, bb.Cap())
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.MustWrite([]byte("payload"))

	var sink bytes.Buffer
	n, err := bb.WriteTo(&sink)
	require.NoError(t, err)
	require.Equal(t, int64(7), n)
	require.Equal(t, "payload", sink.String())
}

func TestCodecBufferPool_Reuse(t *testing.T) {
	bb := GetCodecBuffer()
	require.NotNil(t, bb)
	require.GreaterOrEqual(t, bb.Cap(), CodecBufferDefaultSize)

	bb.MustWrite([]byte("x"))
	PutCodecBuffer(bb)

	got := GetCodecBuffer()
	require.Equal(t, 0, got.Len())
	PutCodecBuffer(got)
}

func TestCodecBufferPool_DropsOversized(t *testing.T) {
	bb := GetCodecBuffer()
	bb.Grow(codecBufferMaxPooled + 1)

	// Returning an oversized buffer must not panic; it is silently dropped.
	PutCodecBuffer(bb)
	PutCodecBuffer(nil)

	got := GetCodecBuffer()
	require.Equal(t, 0, got.Len())
	PutCodecBuffer(got)
}
