// Package codec implements the Hessian 2.0 binary encoder and decoder.
//
// The Decoder consumes a contiguous byte slice and produces value.Value
// trees, or drives decoding one primitive at a time through ReadByte,
// PeekTag, ReadType and ReadDefinition for derived codecs. The Encoder
// accumulates tagged bytes in a pooled buffer, either from whole values via
// EncodeValue or from streaming calls (scalar Encode* methods plus
// WriteListBegin, WriteMapStart, WriteObjectEnd, WriteDefinition and
// WriteObjectStart).
//
// Both sides keep per-session state: the decoder grows a type table and a
// definition table as the stream introduces names; the encoder caches type
// names and definitions so repeats are emitted as back-reference indices.
// Sessions are single-threaded and disposable; after a decode error the
// decoder must be discarded.
//
// # Wire format
//
// Hessian 2.0 is a tagged, self-describing format. The first octet of every
// value selects both the kind and a sub-encoding; small integers, short
// strings and short binaries pack their payload length (or the value
// itself) into the tag octet. Multi-byte fields are big-endian. String
// lengths count Unicode code points, binary lengths count octets.
//
// # Basic usage
//
//	enc, _ := codec.NewEncoder()
//	_ = enc.EncodeValue(value.Int(42))
//	data := enc.Finish()
//
//	dec := codec.NewDecoder(data)
//	v, err := dec.ReadValue()
package codec
