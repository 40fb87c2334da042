package compress

// NoOpCodec passes data through unmodified.
//
// Both directions return the input slice as-is without copying, so callers
// must not modify the input while holding the result.
type NoOpCodec struct{}

var _ Codec = (*NoOpCodec)(nil)

// NewNoOpCodec creates a pass-through codec.
func NewNoOpCodec() NoOpCodec {
	return NoOpCodec{}
}

// Compress returns the input data directly.
func (c NoOpCodec) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns the input data directly.
func (c NoOpCodec) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
