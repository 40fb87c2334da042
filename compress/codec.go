// Package compress provides the compression codecs used by the compressed
// payload envelope: Zstandard, S2, LZ4 and a pass-through.
package compress

import (
	"fmt"

	"github.com/arloliu/hessian/format"
)

// Codec compresses and decompresses whole payloads.
//
// Implementations are safe for concurrent use. Returned slices are newly
// allocated and owned by the caller except where an implementation
// documents pass-through behavior.
type Codec interface {
	// Compress compresses data and returns the result.
	Compress(data []byte) ([]byte, error)

	// Decompress reverses Compress. It returns an error if the input is
	// corrupted or was produced by a different algorithm.
	Decompress(data []byte) ([]byte, error)
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCodec(),
	format.CompressionZstd: NewZstdCodec(),
	format.CompressionS2:   NewS2Codec(),
	format.CompressionLZ4:  NewLZ4Codec(),
}

// GetCodec retrieves the built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}
