// Package hash provides the xxHash64-based primitives used for Value hashing.
package hash

import (
	"math"

	"github.com/cespare/xxhash/v2"
)

// Bytes computes the xxHash64 of a domain byte followed by the payload.
// The domain byte keeps equal payloads of different value kinds from
// colliding trivially (e.g. Bytes("a") vs String("a")).
func Bytes(domain byte, data []byte) uint64 {
	var d xxhash.Digest
	d.Reset()
	_, _ = d.Write([]byte{domain})
	_, _ = d.Write(data)

	return d.Sum64()
}

// String computes the xxHash64 of a domain byte followed by the string payload.
func String(domain byte, s string) uint64 {
	var d xxhash.Digest
	d.Reset()
	_, _ = d.Write([]byte{domain})
	_, _ = d.WriteString(s)

	return d.Sum64()
}

// Uint64 computes the xxHash64 of a domain byte followed by a fixed-width value.
func Uint64(domain byte, v uint64) uint64 {
	var buf [9]byte
	buf[0] = domain
	buf[1] = byte(v >> 56)
	buf[2] = byte(v >> 48)
	buf[3] = byte(v >> 40)
	buf[4] = byte(v >> 32)
	buf[5] = byte(v >> 24)
	buf[6] = byte(v >> 16)
	buf[7] = byte(v >> 8)
	buf[8] = byte(v)

	return xxhash.Sum64(buf[:])
}

// Combine folds a child hash into an accumulator, order-sensitively.
func Combine(acc, h uint64) uint64 {
	// Multiplier from xxHash's prime64_1; any odd constant with good bit
	// dispersion works here.
	return (acc^h)*0x9E3779B185EBCA87 + 1
}

// canonicalNaN is the single NaN bit pattern used for hashing, so that every
// NaN payload hashes identically (they all compare equal).
var canonicalNaN = math.Float64bits(math.NaN())

// FloatBits returns the hashing bit pattern for a float64: NaNs collapse to
// one canonical pattern, everything else keeps its IEEE-754 bits.
func FloatBits(f float64) uint64 {
	if math.IsNaN(f) {
		return canonicalNaN
	}

	return math.Float64bits(f)
}
