// Package hessian provides a bidirectional codec for the Hessian 2.0 binary
// serialization format.
//
// Hessian 2.0 is a self-describing, tagged binary format with compact
// single-byte encodings for small integers, run-length-encoded strings and
// binaries, deduplicated type names and class definitions, and
// back-references that allow shared and circular object graphs.
//
// # Basic Usage
//
// Encoding and decoding a value tree:
//
//	import (
//	    "github.com/arloliu/hessian"
//	    "github.com/arloliu/hessian/value"
//	)
//
//	data, err := hessian.Marshal(value.NewList(value.Int(1), value.String("two")))
//	v, err := hessian.Unmarshal(data)
//
// For streaming construction, definition caching and fine-grained control,
// use the codec package directly.
//
// # Compressed envelopes
//
// MarshalCompressed wraps the encoded payload in a two-byte envelope (magic
// octet plus compression type) and compresses it with one of the codecs in
// the compress package. UnmarshalCompressed reverses both layers.
package hessian

import (
	"fmt"
	"io"

	"github.com/arloliu/hessian/codec"
	"github.com/arloliu/hessian/compress"
	"github.com/arloliu/hessian/errs"
	"github.com/arloliu/hessian/format"
	"github.com/arloliu/hessian/value"
)

// envelopeMagic is the first octet of a compressed envelope.
const envelopeMagic = 0x68 // 'h'

// Marshal encodes a value into Hessian 2.0 bytes.
func Marshal(v value.Value) ([]byte, error) {
	enc, err := codec.NewEncoder()
	if err != nil {
		return nil, err
	}

	if err := enc.EncodeValue(v); err != nil {
		enc.Finish()
		return nil, err
	}

	return enc.Finish(), nil
}

// MarshalTo encodes a value and writes the result to w.
func MarshalTo(w io.Writer, v value.Value) error {
	data, err := Marshal(v)
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	return nil
}

// Unmarshal decodes a single value from Hessian 2.0 bytes.
//
// Trailing bytes after the first value are ignored; use codec.Decoder to
// read a stream of values.
func Unmarshal(data []byte) (value.Value, error) {
	return codec.NewDecoder(data).ReadValue()
}

// MarshalCompressed encodes a value, compresses the payload with the given
// compression type and prepends the envelope header.
func MarshalCompressed(v value.Value, compressionType format.CompressionType) ([]byte, error) {
	c, err := compress.GetCodec(compressionType)
	if err != nil {
		return nil, err
	}

	payload, err := Marshal(v)
	if err != nil {
		return nil, err
	}

	compressed, err := c.Compress(payload)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, 2+len(compressed))
	out = append(out, envelopeMagic, byte(compressionType))
	out = append(out, compressed...)

	return out, nil
}

// UnmarshalCompressed decodes a value from a compressed envelope produced by
// MarshalCompressed.
func UnmarshalCompressed(data []byte) (value.Value, error) {
	if len(data) < 2 {
		return value.Value{}, fmt.Errorf("%w: %d bytes", errs.ErrInvalidEnvelope, len(data))
	}
	if data[0] != envelopeMagic {
		return value.Value{}, fmt.Errorf("%w: bad magic 0x%02X", errs.ErrInvalidEnvelope, data[0])
	}

	c, err := compress.GetCodec(format.CompressionType(data[1]))
	if err != nil {
		return value.Value{}, fmt.Errorf("%w: %v", errs.ErrInvalidEnvelope, err)
	}

	payload, err := c.Decompress(data[2:])
	if err != nil {
		return value.Value{}, err
	}

	return Unmarshal(payload)
}
