package value

import (
	"unsafe"

	"github.com/arloliu/hessian/internal/hash"
)

// Hash domains keep distinct kinds from colliding on identical payloads.
const (
	hashDomainNull    = 0x00
	hashDomainNumeric = 0x01
	hashDomainBytes   = 0x02
	hashDomainString  = 0x03
	hashDomainRef     = 0x04
	hashDomainList    = 0x05
	hashDomainMap     = 0x06
)

// Hash returns a 64-bit hash consistent with Equal for values that hold no
// Map: such values hash identically when they compare equal.
//
// All numeric kinds hash through their float64 conversion so that
// cross-kind equality (Int(1) == Long(1) == Double(1.0)) is preserved; NaNs
// collapse to one canonical pattern. Distant int64 values that collapse to
// the same float64 merely collide, which lookups resolve through Equal.
//
// A Map hashes by identity, not by contents, so two maps that compare equal
// hash differently (as do Lists holding them); a Map is rejected as a map
// key for that reason.
func (v Value) Hash() uint64 {
	switch v.kind {
	case KindNull:
		return hash.Uint64(hashDomainNull, 0)
	case KindBool, KindInt, KindLong, KindDate, KindDouble:
		return hash.Uint64(hashDomainNumeric, hash.FloatBits(v.numericFloat()))
	case KindBytes:
		return hash.Bytes(hashDomainBytes, v.bin)
	case KindString:
		return hash.String(hashDomainString, v.str)
	case KindRef:
		return hash.Uint64(hashDomainRef, v.num)
	case KindList:
		return v.list.hashValue()
	default:
		return hash.Uint64(hashDomainMap, uint64(uintptr(unsafe.Pointer(v.mp))))
	}
}

func (l *List) hashValue() uint64 {
	acc := hash.String(hashDomainList, l.typ)
	if l.typed {
		acc = hash.Combine(acc, 1)
	}
	for i := range l.elems {
		acc = hash.Combine(acc, l.elems[i].Hash())
	}

	return acc
}
