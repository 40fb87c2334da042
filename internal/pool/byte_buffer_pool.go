// Package pool provides the pooled output buffers used by the encoder.
//
// Encoded Hessian output is dominated by tiny writes (a tag octet plus a
// payload of at most nine bytes) with occasional large runs bounded by the
// chunk sizes (a binary chunk is at most 64KiB, a string chunk at most
// 0x7FFF characters of up to four bytes each, each plus a three-byte
// header). Small writes rely on append's amortized doubling; chunk emitters
// call Grow up front so a whole chunk lands in one allocation.
package pool

import (
	"io"
	"slices"
	"sync"
)

const (
	// CodecBufferDefaultSize holds a typical encoded RPC payload without
	// growing.
	CodecBufferDefaultSize = 1024 * 4

	// codecBufferMaxPooled is one 64KiB binary chunk above the default;
	// buffers that grew past it are not returned to the pool.
	codecBufferMaxPooled = CodecBufferDefaultSize + 0x10000
)

// ByteBuffer is an append-only sink for encoded bytes.
type ByteBuffer struct {
	// B is the underlying byte slice. The encoder appends to it directly
	// when emitting through an endian.EndianEngine.
	B []byte
}

// NewByteBuffer creates a ByteBuffer with the given initial capacity.
func NewByteBuffer(capacity int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, capacity)}
}

// Bytes returns the accumulated output.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Len returns the number of bytes written.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the underlying slice.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Reset empties the buffer, keeping the allocation for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Grow ensures room for n more bytes without reallocating. Chunk emitters
// call it with the exact chunk size before a run of writes.
func (bb *ByteBuffer) Grow(n int) {
	bb.B = slices.Grow(bb.B, n)
}

// MustWrite appends data, growing as needed.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// WriteByte appends a single byte. The error is always nil; the signature
// satisfies io.ByteWriter.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.B = append(bb.B, c)
	return nil
}

// Write appends data and satisfies io.Writer.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteTo writes the accumulated output to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

var codecPool = sync.Pool{
	New: func() any {
		return NewByteBuffer(CodecBufferDefaultSize)
	},
}

// GetCodecBuffer retrieves an empty ByteBuffer from the pool.
func GetCodecBuffer() *ByteBuffer {
	bb, _ := codecPool.Get().(*ByteBuffer)
	return bb
}

// PutCodecBuffer returns a ByteBuffer to the pool. Buffers that grew past
// the pooling threshold are dropped so one oversized payload does not pin
// its allocation for the life of the pool.
func PutCodecBuffer(bb *ByteBuffer) {
	if bb == nil || cap(bb.B) > codecBufferMaxPooled {
		return
	}

	bb.Reset()
	codecPool.Put(bb)
}
