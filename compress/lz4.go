package compress

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances; the compressor keeps
// internal hash-table state that benefits from reuse.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

const (
	lz4BlockStored     = 0 // payload stored verbatim (incompressible input)
	lz4BlockCompressed = 1
)

// LZ4Codec compresses payloads with the LZ4 block format. LZ4 blocks carry
// neither the original length nor a stored-block marker, so each payload is
// prefixed with a flag byte and a 4-byte little-endian original length.
type LZ4Codec struct{}

var _ Codec = (*LZ4Codec)(nil)

// NewLZ4Codec creates a new LZ4 codec.
func NewLZ4Codec() LZ4Codec {
	return LZ4Codec{}
}

// Compress compresses the input data using LZ4.
func (c LZ4Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, 5+lz4.CompressBlockBound(len(data)))
	dst[0] = lz4BlockCompressed
	binary.LittleEndian.PutUint32(dst[1:], uint32(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst[5:])
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Incompressible input is stored verbatim.
		dst[0] = lz4BlockStored
		dst = append(dst[:5], data...)

		return dst, nil
	}

	return dst[:5+n], nil
}

// Decompress decompresses LZ4-compressed data.
func (c LZ4Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) < 5 {
		return nil, fmt.Errorf("lz4: truncated block header: %d bytes", len(data))
	}

	origLen := binary.LittleEndian.Uint32(data[1:])
	if origLen == 0 {
		return nil, nil
	}

	if data[0] == lz4BlockStored {
		if uint32(len(data)-5) != origLen {
			return nil, fmt.Errorf("lz4: stored block length mismatch: header %d, payload %d", origLen, len(data)-5)
		}
		dst := make([]byte, origLen)
		copy(dst, data[5:])

		return dst, nil
	}

	dst := make([]byte, origLen)
	n, err := lz4.UncompressBlock(data[5:], dst)
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}
