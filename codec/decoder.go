package codec

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/arloliu/hessian/endian"
	"github.com/arloliu/hessian/errs"
	"github.com/arloliu/hessian/format"
	"github.com/arloliu/hessian/value"
)

// Decoder reads Hessian 2.0 values from a contiguous byte slice.
//
// A Decoder owns its type table and definition table for the lifetime of one
// decoding session; both grow as the stream introduces type names and class
// definitions. Decoders must not be shared across goroutines, and after any
// error the cursor position is unspecified and the decoder should be
// discarded.
//
// Back-references decode to an opaque value.Ref holding the index of the
// referenced list or map in stream emission order; the decoder does not
// materialize object graphs.
type Decoder struct {
	data   []byte
	pos    int
	engine endian.EndianEngine
	types  []string
	defs   []Definition
}

// NewDecoder creates a Decoder over the given encoded data. The slice is not
// copied; the caller must keep it immutable for the decoder's lifetime.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{
		data:   data,
		engine: endian.GetBigEndianEngine(),
	}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.data) - d.pos
}

// ReadByte consumes and returns the next byte.
func (d *Decoder) ReadByte() (byte, error) {
	if d.pos >= len(d.data) {
		return 0, fmt.Errorf("%w: at offset %d", errs.ErrUnexpectedEOF, d.pos)
	}

	c := d.data[d.pos]
	d.pos++

	return c, nil
}

// PeekByte returns the next byte without consuming it.
func (d *Decoder) PeekByte() (byte, error) {
	if d.pos >= len(d.data) {
		return 0, fmt.Errorf("%w: at offset %d", errs.ErrUnexpectedEOF, d.pos)
	}

	return d.data[d.pos], nil
}

// PeekTag classifies the next byte without consuming it. Octets outside the
// tag table classify as format.KindUnknown; the caller decides whether that
// is an error.
func (d *Decoder) PeekTag() (format.Kind, error) {
	c, err := d.PeekByte()
	if err != nil {
		return format.KindUnknown, err
	}

	return format.Classify(c), nil
}

// take consumes exactly n bytes and returns them as a subslice of the input.
func (d *Decoder) take(n int) ([]byte, error) {
	if d.pos+n > len(d.data) {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d", errs.ErrUnexpectedEOF, n, d.pos)
	}

	out := d.data[d.pos : d.pos+n]
	d.pos += n

	return out, nil
}

// ReadValue decodes the next value from the stream.
//
// Class-definition records ('C') are consumed transparently: they update the
// definition table and decoding continues with the value that follows.
func (d *Decoder) ReadValue() (value.Value, error) {
	for {
		c, err := d.ReadByte()
		if err != nil {
			return value.Value{}, err
		}

		kind := format.Classify(c)
		switch kind {
		case format.KindNull:
			return value.Null(), nil
		case format.KindTrue:
			return value.Bool(true), nil
		case format.KindFalse:
			return value.Bool(false), nil

		case format.KindIntCompact1, format.KindIntCompact2, format.KindIntCompact3, format.KindInt32:
			i, err := d.finishInt(c, kind)
			if err != nil {
				return value.Value{}, err
			}

			return value.Int(i), nil

		case format.KindLongCompact1, format.KindLongCompact2, format.KindLongCompact3,
			format.KindLong32, format.KindLong64:
			l, err := d.finishLong(c, kind)
			if err != nil {
				return value.Value{}, err
			}

			return value.Long(l), nil

		case format.KindDoubleZero, format.KindDoubleOne, format.KindDoubleByte,
			format.KindDoubleShort, format.KindDoubleMilli, format.KindDouble64:
			f, err := d.finishDouble(kind)
			if err != nil {
				return value.Value{}, err
			}

			return value.Double(f), nil

		case format.KindDateMillis, format.KindDateMinutes:
			ms, err := d.finishDate(kind)
			if err != nil {
				return value.Value{}, err
			}

			return value.Date(ms), nil

		case format.KindBinaryCompact, format.KindBinaryTwoOctet,
			format.KindBinaryChunk, format.KindBinaryFinal:
			b, err := d.finishBinary(c)
			if err != nil {
				return value.Value{}, err
			}

			return value.Bytes(b), nil

		case format.KindStringCompact, format.KindStringTwoOctet,
			format.KindStringChunk, format.KindStringFinal:
			s, err := d.finishString(c)
			if err != nil {
				return value.Value{}, err
			}

			return value.String(s), nil

		case format.KindListVarTyped, format.KindListFixedTyped,
			format.KindListVarUntyped, format.KindListFixedUntyped,
			format.KindListShortTyped, format.KindListShortUntyped:
			return d.finishList(c, kind)

		case format.KindMapTyped, format.KindMapUntyped:
			return d.finishMap(kind == format.KindMapTyped)

		case format.KindDefinition:
			if _, err := d.readDefinitionBody(); err != nil {
				return value.Value{}, err
			}
			// The definition describes what follows; keep reading.
			continue

		case format.KindObject, format.KindObjectCompact:
			return d.finishObject(c, kind)

		case format.KindRef:
			idx, err := d.expectInt()
			if err != nil {
				return value.Value{}, err
			}

			return value.Ref(uint32(idx)), nil

		default:
			return value.Value{}, fmt.Errorf("%w: 0x%02X at offset %d", errs.ErrUnknownTag, c, d.pos-1)
		}
	}
}

// finishInt decodes the payload of an int whose lead byte has been consumed.
//
// The lead-byte subtractions wrap in uint8 and are reinterpreted as int8 so
// the high octet sign-extends correctly for the negative compact ranges.
func (d *Decoder) finishInt(c byte, kind format.Kind) (int32, error) {
	switch kind {
	case format.KindIntCompact1:
		return int32(c) - 0x90, nil
	case format.KindIntCompact2:
		b1, err := d.ReadByte()
		if err != nil {
			return 0, err
		}

		return int32(int8(c-0xC8))<<8 | int32(b1), nil
	case format.KindIntCompact3:
		b, err := d.take(2)
		if err != nil {
			return 0, err
		}

		return int32(int8(c-0xD4))<<16 | int32(b[0])<<8 | int32(b[1]), nil
	default: // KindInt32
		b, err := d.take(4)
		if err != nil {
			return 0, err
		}

		return int32(d.engine.Uint32(b)), nil
	}
}

// finishLong decodes the payload of a long whose lead byte has been consumed.
func (d *Decoder) finishLong(c byte, kind format.Kind) (int64, error) {
	switch kind {
	case format.KindLongCompact1:
		return int64(c) - 0xE0, nil
	case format.KindLongCompact2:
		b1, err := d.ReadByte()
		if err != nil {
			return 0, err
		}

		return int64(int8(c-0xF8))<<8 | int64(b1), nil
	case format.KindLongCompact3:
		b, err := d.take(2)
		if err != nil {
			return 0, err
		}

		return int64(int8(c-0x3C))<<16 | int64(b[0])<<8 | int64(b[1]), nil
	case format.KindLong32:
		b, err := d.take(4)
		if err != nil {
			return 0, err
		}

		return int64(int32(d.engine.Uint32(b))), nil
	default: // KindLong64
		b, err := d.take(8)
		if err != nil {
			return 0, err
		}

		return int64(d.engine.Uint64(b)), nil
	}
}

func (d *Decoder) finishDouble(kind format.Kind) (float64, error) {
	switch kind {
	case format.KindDoubleZero:
		return 0.0, nil
	case format.KindDoubleOne:
		return 1.0, nil
	case format.KindDoubleByte:
		b, err := d.ReadByte()
		if err != nil {
			return 0, err
		}

		return float64(int8(b)), nil
	case format.KindDoubleShort:
		b, err := d.take(2)
		if err != nil {
			return 0, err
		}

		return float64(int16(d.engine.Uint16(b))), nil
	case format.KindDoubleMilli:
		b, err := d.take(4)
		if err != nil {
			return 0, err
		}

		return float64(int32(d.engine.Uint32(b))) * 0.001, nil
	default: // KindDouble64
		b, err := d.take(8)
		if err != nil {
			return 0, err
		}

		return math.Float64frombits(d.engine.Uint64(b)), nil
	}
}

func (d *Decoder) finishDate(kind format.Kind) (int64, error) {
	if kind == format.KindDateMillis {
		b, err := d.take(8)
		if err != nil {
			return 0, err
		}

		return int64(d.engine.Uint64(b)), nil
	}

	b, err := d.take(4)
	if err != nil {
		return 0, err
	}

	return int64(int32(d.engine.Uint32(b))) * 60000, nil
}

// finishBinary decodes a binary payload starting at the given lead byte,
// concatenating chunk payloads until a final form terminates the chain.
func (d *Decoder) finishBinary(c byte) ([]byte, error) {
	var out []byte
	for {
		switch format.Classify(c) {
		case format.KindBinaryCompact:
			b, err := d.take(int(c - 0x20))
			if err != nil {
				return nil, err
			}

			return appendOrAdopt(out, b), nil
		case format.KindBinaryTwoOctet:
			b1, err := d.ReadByte()
			if err != nil {
				return nil, err
			}
			b, err := d.take(int(c-0x34)<<8 | int(b1))
			if err != nil {
				return nil, err
			}

			return appendOrAdopt(out, b), nil
		case format.KindBinaryFinal:
			n, err := d.readUint16()
			if err != nil {
				return nil, err
			}
			b, err := d.take(int(n))
			if err != nil {
				return nil, err
			}

			return appendOrAdopt(out, b), nil
		case format.KindBinaryChunk:
			n, err := d.readUint16()
			if err != nil {
				return nil, err
			}
			b, err := d.take(int(n))
			if err != nil {
				return nil, err
			}
			out = append(out, b...)

			if c, err = d.ReadByte(); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: got %s inside binary chunk chain", errs.ErrUnexpectedKind, format.Classify(c))
		}
	}
}

// appendOrAdopt appends the final chunk to the accumulator; in the
// single-chunk case it returns a fresh copy, so the result never aliases the
// input.
func appendOrAdopt(acc, final []byte) []byte {
	if acc == nil {
		out := make([]byte, len(final))
		copy(out, final)

		return out
	}

	return append(acc, final...)
}

// finishString decodes a string payload starting at the given lead byte.
// Chunk lengths count Unicode code points, not bytes.
func (d *Decoder) finishString(c byte) (string, error) {
	var sb strings.Builder
	for {
		switch format.Classify(c) {
		case format.KindStringCompact:
			if err := d.readChars(&sb, int(c)); err != nil {
				return "", err
			}

			return sb.String(), nil
		case format.KindStringTwoOctet:
			b1, err := d.ReadByte()
			if err != nil {
				return "", err
			}
			if err := d.readChars(&sb, int(c-0x30)<<8|int(b1)); err != nil {
				return "", err
			}

			return sb.String(), nil
		case format.KindStringFinal:
			n, err := d.readUint16()
			if err != nil {
				return "", err
			}
			if err := d.readChars(&sb, int(n)); err != nil {
				return "", err
			}

			return sb.String(), nil
		case format.KindStringChunk:
			n, err := d.readUint16()
			if err != nil {
				return "", err
			}
			if err := d.readChars(&sb, int(n)); err != nil {
				return "", err
			}

			if c, err = d.ReadByte(); err != nil {
				return "", err
			}
		default:
			return "", fmt.Errorf("%w: got %s inside string chunk chain", errs.ErrUnexpectedKind, format.Classify(c))
		}
	}
}

// readChars consumes exactly n UTF-8 code points and appends their bytes to sb.
func (d *Decoder) readChars(sb *strings.Builder, n int) error {
	for range n {
		if d.pos >= len(d.data) {
			return fmt.Errorf("%w: inside string payload at offset %d", errs.ErrUnexpectedEOF, d.pos)
		}

		r, size := utf8.DecodeRune(d.data[d.pos:])
		if r == utf8.RuneError && size <= 1 {
			return fmt.Errorf("%w: at offset %d", errs.ErrInvalidUTF8, d.pos)
		}

		sb.Write(d.data[d.pos : d.pos+size])
		d.pos += size
	}

	return nil
}

func (d *Decoder) readUint16() (uint16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}

	return d.engine.Uint16(b), nil
}

func (d *Decoder) finishList(c byte, kind format.Kind) (value.Value, error) {
	switch kind {
	case format.KindListShortTyped:
		typ, err := d.ReadType()
		if err != nil {
			return value.Value{}, err
		}
		elems, err := d.readElems(int(c - 0x70))
		if err != nil {
			return value.Value{}, err
		}

		return value.NewTypedList(typ, elems...), nil
	case format.KindListShortUntyped:
		elems, err := d.readElems(int(c - 0x78))
		if err != nil {
			return value.Value{}, err
		}

		return value.NewList(elems...), nil
	case format.KindListFixedTyped:
		typ, err := d.ReadType()
		if err != nil {
			return value.Value{}, err
		}
		n, err := d.expectInt()
		if err != nil {
			return value.Value{}, err
		}
		elems, err := d.readElems(int(n))
		if err != nil {
			return value.Value{}, err
		}

		return value.NewTypedList(typ, elems...), nil
	case format.KindListFixedUntyped:
		n, err := d.expectInt()
		if err != nil {
			return value.Value{}, err
		}
		elems, err := d.readElems(int(n))
		if err != nil {
			return value.Value{}, err
		}

		return value.NewList(elems...), nil
	case format.KindListVarTyped:
		typ, err := d.ReadType()
		if err != nil {
			return value.Value{}, err
		}
		elems, err := d.readElemsUntilEnd()
		if err != nil {
			return value.Value{}, err
		}

		return value.NewTypedList(typ, elems...), nil
	default: // KindListVarUntyped
		elems, err := d.readElemsUntilEnd()
		if err != nil {
			return value.Value{}, err
		}

		return value.NewList(elems...), nil
	}
}

func (d *Decoder) readElems(n int) ([]value.Value, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative list length %d", errs.ErrUnexpectedKind, n)
	}

	elems := make([]value.Value, 0, n)
	for range n {
		v, err := d.ReadValue()
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}

	return elems, nil
}

func (d *Decoder) readElemsUntilEnd() ([]value.Value, error) {
	var elems []value.Value
	for {
		c, err := d.PeekByte()
		if err != nil {
			return nil, err
		}
		if c == format.TagEnd {
			d.pos++
			return elems, nil
		}

		v, err := d.ReadValue()
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
}

func (d *Decoder) finishMap(typed bool) (value.Value, error) {
	var out value.Value
	if typed {
		typ, err := d.ReadType()
		if err != nil {
			return value.Value{}, err
		}
		out = value.NewTypedMap(typ)
	} else {
		out = value.NewMap()
	}

	m, _ := out.AsMap()
	for {
		c, err := d.PeekByte()
		if err != nil {
			return value.Value{}, err
		}
		if c == format.TagEnd {
			d.pos++
			return out, nil
		}

		key, err := d.ReadValue()
		if err != nil {
			return value.Value{}, err
		}
		val, err := d.ReadValue()
		if err != nil {
			return value.Value{}, err
		}
		if err := m.Set(key, val); err != nil {
			return value.Value{}, err
		}
	}
}

func (d *Decoder) finishObject(c byte, kind format.Kind) (value.Value, error) {
	var idx int
	if kind == format.KindObjectCompact {
		idx = int(c - 0x60)
	} else {
		n, err := d.expectInt()
		if err != nil {
			return value.Value{}, err
		}
		idx = int(n)
	}

	def, err := d.DefinitionByIndex(idx)
	if err != nil {
		return value.Value{}, err
	}

	out := value.NewTypedMap(def.Name)
	m, _ := out.AsMap()
	for _, field := range def.Fields {
		v, err := d.ReadValue()
		if err != nil {
			return value.Value{}, err
		}
		if err := m.Set(value.String(field), v); err != nil {
			return value.Value{}, err
		}
	}

	return out, nil
}

// ReadType reads a type name: a string registers a new entry in the type
// table and returns it, an int selects a previously registered entry.
func (d *Decoder) ReadType() (string, error) {
	kind, err := d.PeekTag()
	if err != nil {
		return "", err
	}

	switch kind.Category() {
	case format.CatString:
		name, err := d.expectString()
		if err != nil {
			return "", err
		}
		d.types = append(d.types, name)

		return name, nil
	case format.CatInt:
		idx, err := d.expectInt()
		if err != nil {
			return "", err
		}
		if idx < 0 || int(idx) >= len(d.types) {
			return "", fmt.Errorf("%w: index %d, table size %d", errs.ErrTypeRefOutOfRange, idx, len(d.types))
		}

		return d.types[idx], nil
	default:
		return "", fmt.Errorf("%w: got %s, want string or int type reference", errs.ErrUnexpectedKind, kind)
	}
}

// ReadDefinition consumes a class-definition record, including its 'C' lead
// byte, and appends it to the definition table.
func (d *Decoder) ReadDefinition() (Definition, error) {
	c, err := d.ReadByte()
	if err != nil {
		return Definition{}, err
	}
	if c != format.TagDefinition {
		return Definition{}, fmt.Errorf("%w: got %s, want definition", errs.ErrUnexpectedKind, format.Classify(c))
	}

	return d.readDefinitionBody()
}

// readDefinitionBody reads name, field count and field names; the 'C' tag
// has already been consumed.
func (d *Decoder) readDefinitionBody() (Definition, error) {
	name, err := d.expectString()
	if err != nil {
		return Definition{}, err
	}

	n, err := d.expectInt()
	if err != nil {
		return Definition{}, err
	}
	if n < 0 {
		return Definition{}, fmt.Errorf("%w: negative field count %d", errs.ErrUnexpectedKind, n)
	}

	fields := make([]string, 0, n)
	for range int(n) {
		f, err := d.expectString()
		if err != nil {
			return Definition{}, err
		}
		fields = append(fields, f)
	}

	def := Definition{Name: name, Fields: fields}
	d.defs = append(d.defs, def)

	return def, nil
}

// DefinitionByIndex returns the index-th definition registered in this session.
func (d *Decoder) DefinitionByIndex(index int) (*Definition, error) {
	if index < 0 || index >= len(d.defs) {
		return nil, fmt.Errorf("%w: index %d, table size %d", errs.ErrDefinitionRefOutOfRange, index, len(d.defs))
	}

	return &d.defs[index], nil
}

// expectInt reads the next value and requires it to be an Int.
func (d *Decoder) expectInt() (int32, error) {
	v, err := d.ReadValue()
	if err != nil {
		return 0, err
	}

	i, ok := v.AsInt()
	if !ok {
		return 0, fmt.Errorf("%w: got %s, want int", errs.ErrUnexpectedKind, v.Kind())
	}

	return i, nil
}

// expectString reads the next value and requires it to be a String.
func (d *Decoder) expectString() (string, error) {
	v, err := d.ReadValue()
	if err != nil {
		return "", err
	}

	s, ok := v.AsString()
	if !ok {
		return "", fmt.Errorf("%w: got %s, want string", errs.ErrUnexpectedKind, v.Kind())
	}

	return s, nil
}
