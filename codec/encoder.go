package codec

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/arloliu/hessian/endian"
	"github.com/arloliu/hessian/errs"
	"github.com/arloliu/hessian/format"
	"github.com/arloliu/hessian/internal/options"
	"github.com/arloliu/hessian/internal/pool"
	"github.com/arloliu/hessian/value"
)

// Encoder writes Hessian 2.0 values into an internal pooled buffer.
//
// An Encoder owns its type cache and definition cache for the lifetime of
// one encoding session. Type names and definitions are emitted at most once
// per session; later uses emit a back-reference index instead. Encoders must
// not be shared across goroutines; two concurrent encodings use two
// encoders.
//
// Each value kind is emitted in the shortest wire form whose range contains
// the value, with two exceptions: binaries of 16 bytes or more always take
// the chunk forms (0x41/'B'), never the two-octet 0x34-0x37 form, and dates
// take the 8-octet millisecond form unless WithCompactDates is set.
type Encoder struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine

	types  map[string]int
	defIdx map[string]int
	defs   []Definition

	compactDates    bool
	stringChunkSize int
	binaryChunkSize int
}

const (
	defaultStringChunkSize = 0x7FFF // characters per chunk
	defaultBinaryChunkSize = 0xFFFF // bytes per chunk
)

// EncoderOption configures an Encoder.
type EncoderOption = options.Option[*Encoder]

// NewEncoder creates an Encoder ready for one encoding session.
func NewEncoder(opts ...EncoderOption) (*Encoder, error) {
	e := &Encoder{
		buf:             pool.GetCodecBuffer(),
		engine:          endian.GetBigEndianEngine(),
		types:           make(map[string]int),
		defIdx:          make(map[string]int),
		stringChunkSize: defaultStringChunkSize,
		binaryChunkSize: defaultBinaryChunkSize,
	}

	if err := options.Apply(e, opts...); err != nil {
		pool.PutCodecBuffer(e.buf)
		return nil, err
	}

	return e, nil
}

// WithCompactDates makes the encoder emit whole-minute dates in the 4-octet
// minute form instead of the 8-octet millisecond form.
func WithCompactDates(enabled bool) EncoderOption {
	return options.NoError(func(e *Encoder) {
		e.compactDates = enabled
	})
}

// WithStringChunkSize bounds the number of characters per string chunk.
// The size must be in [1, 0x7FFF].
func WithStringChunkSize(chars int) EncoderOption {
	return options.New(func(e *Encoder) error {
		if chars < 1 || chars > defaultStringChunkSize {
			return fmt.Errorf("invalid string chunk size %d, want 1..%d", chars, defaultStringChunkSize)
		}
		e.stringChunkSize = chars

		return nil
	})
}

// WithBinaryChunkSize bounds the number of bytes per binary chunk.
// The size must be in [1, 0xFFFF].
func WithBinaryChunkSize(n int) EncoderOption {
	return options.New(func(e *Encoder) error {
		if n < 1 || n > defaultBinaryChunkSize {
			return fmt.Errorf("invalid binary chunk size %d, want 1..%d", n, defaultBinaryChunkSize)
		}
		e.binaryChunkSize = n

		return nil
	})
}

// Bytes returns the encoded output so far. The slice shares the encoder's
// buffer and is valid until the next Encode call, Reset or Finish.
func (e *Encoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Len returns the number of bytes encoded so far.
func (e *Encoder) Len() int {
	return e.buf.Len()
}

// Finish returns a copy of the encoded output and releases the internal
// buffer. The encoder must not be used afterwards.
func (e *Encoder) Finish() []byte {
	out := make([]byte, e.buf.Len())
	copy(out, e.buf.Bytes())
	pool.PutCodecBuffer(e.buf)
	e.buf = nil

	return out
}

// Reset clears the output and the session caches, making the encoder ready
// for a new session.
func (e *Encoder) Reset() {
	if e.buf == nil {
		e.buf = pool.GetCodecBuffer()
	} else {
		e.buf.Reset()
	}
	e.types = make(map[string]int)
	e.defIdx = make(map[string]int)
	e.defs = e.defs[:0]
}

// EncodeValue encodes a value, selecting wire forms as described on Encoder.
func (e *Encoder) EncodeValue(v value.Value) error {
	switch v.Kind() {
	case value.KindNull:
		return e.EncodeNull()
	case value.KindBool:
		b, _ := v.AsBool()
		return e.EncodeBool(b)
	case value.KindInt:
		i, _ := v.AsInt()
		return e.EncodeInt(i)
	case value.KindLong:
		l, _ := v.AsLong()
		return e.EncodeLong(l)
	case value.KindDouble:
		f, _ := v.AsDouble()
		return e.EncodeDouble(f)
	case value.KindDate:
		ms, _ := v.AsDate()
		return e.EncodeDate(ms)
	case value.KindBytes:
		b, _ := v.AsBytes()
		return e.EncodeBytes(b)
	case value.KindString:
		s, _ := v.AsString()
		return e.EncodeString(s)
	case value.KindRef:
		idx, _ := v.AsRef()
		return e.EncodeRef(idx)
	case value.KindList:
		l, _ := v.AsList()
		return e.encodeListValue(l)
	case value.KindMap:
		m, _ := v.AsMap()
		return e.encodeMapValue(m)
	default:
		return fmt.Errorf("%w: %s", errs.ErrUnexpectedKind, v.Kind())
	}
}

// EncodeNull emits the null tag.
func (e *Encoder) EncodeNull() error {
	return e.buf.WriteByte(format.TagNull)
}

// EncodeBool emits a boolean tag.
func (e *Encoder) EncodeBool(b bool) error {
	if b {
		return e.buf.WriteByte(format.TagTrue)
	}

	return e.buf.WriteByte(format.TagFalse)
}

// EncodeInt emits a 32-bit integer in its shortest compact form.
func (e *Encoder) EncodeInt(v int32) error {
	switch {
	case v >= -16 && v <= 47:
		e.buf.MustWrite([]byte{byte(0x90 + v)})
	case v >= -2048 && v <= 2047:
		e.buf.MustWrite([]byte{byte(0xC8 + v>>8), byte(v)})
	case v >= -262144 && v <= 262143:
		e.buf.MustWrite([]byte{byte(0xD4 + v>>16), byte(v >> 8), byte(v)})
	default:
		e.buf.MustWrite([]byte{format.TagInt32})
		e.buf.B = e.engine.AppendUint32(e.buf.B, uint32(v))
	}

	return nil
}

// EncodeLong emits a 64-bit integer in its shortest compact form.
func (e *Encoder) EncodeLong(v int64) error {
	switch {
	case v >= -8 && v <= 15:
		e.buf.MustWrite([]byte{byte(0xE0 + v)})
	case v >= -2048 && v <= 2047:
		e.buf.MustWrite([]byte{byte(0xF8 + v>>8), byte(v)})
	case v >= -262144 && v <= 262143:
		e.buf.MustWrite([]byte{byte(0x3C + v>>16), byte(v >> 8), byte(v)})
	case v >= math.MinInt32 && v <= math.MaxInt32:
		e.buf.MustWrite([]byte{format.TagLong32})
		e.buf.B = e.engine.AppendUint32(e.buf.B, uint32(v))
	default:
		e.buf.MustWrite([]byte{format.TagLong64})
		e.buf.B = e.engine.AppendUint64(e.buf.B, uint64(v))
	}

	return nil
}

// EncodeDouble emits a float in its shortest exact form.
//
// Compact integer forms are skipped for NaN and -0.0 so the full bit pattern
// survives the roundtrip; the milli form is selected only when scaling by
// 1000 and back reproduces the value exactly.
func (e *Encoder) EncodeDouble(f float64) error {
	if !math.IsNaN(f) && !(f == 0 && math.Signbit(f)) {
		if f == math.Trunc(f) && f >= math.MinInt32 && f <= math.MaxInt32 {
			i := int32(f)
			switch {
			case i == 0:
				return e.buf.WriteByte(format.TagDoubleZero)
			case i == 1:
				return e.buf.WriteByte(format.TagDoubleOne)
			case i >= math.MinInt8 && i <= math.MaxInt8:
				e.buf.MustWrite([]byte{format.TagDoubleByte, byte(int8(i))})
				return nil
			case i >= math.MinInt16 && i <= math.MaxInt16:
				e.buf.MustWrite([]byte{format.TagDoubleShort})
				e.buf.B = e.engine.AppendUint16(e.buf.B, uint16(int16(i)))

				return nil
			}
		}

		milli := f * 1000
		if milli >= math.MinInt32 && milli <= math.MaxInt32 {
			i := int32(milli)
			if float64(i) == milli && float64(i)*0.001 == f {
				e.buf.MustWrite([]byte{format.TagDoubleMilli})
				e.buf.B = e.engine.AppendUint32(e.buf.B, uint32(i))

				return nil
			}
		}
	}

	e.buf.MustWrite([]byte{format.TagDouble64})
	e.buf.B = e.engine.AppendUint64(e.buf.B, math.Float64bits(f))

	return nil
}

// EncodeDate emits a date held as milliseconds since the Unix epoch.
func (e *Encoder) EncodeDate(millis int64) error {
	if e.compactDates && millis%60000 == 0 {
		minutes := millis / 60000
		if minutes >= math.MinInt32 && minutes <= math.MaxInt32 {
			e.buf.MustWrite([]byte{format.TagDateMinutes})
			e.buf.B = e.engine.AppendUint32(e.buf.B, uint32(int32(minutes)))

			return nil
		}
	}

	e.buf.MustWrite([]byte{format.TagDateMillis})
	e.buf.B = e.engine.AppendUint64(e.buf.B, uint64(millis))

	return nil
}

// EncodeBytes emits a binary payload, chunking above the configured chunk size.
func (e *Encoder) EncodeBytes(b []byte) error {
	if len(b) < 16 {
		e.buf.Grow(1 + len(b))
		e.buf.MustWrite([]byte{byte(0x20 + len(b))})
		e.buf.MustWrite(b)

		return nil
	}

	for len(b) > e.binaryChunkSize {
		chunk := b[:e.binaryChunkSize]
		b = b[e.binaryChunkSize:]

		e.buf.Grow(3 + len(chunk))
		e.buf.MustWrite([]byte{format.TagBinaryChunk})
		e.buf.B = e.engine.AppendUint16(e.buf.B, uint16(len(chunk)))
		e.buf.MustWrite(chunk)
	}

	e.buf.Grow(3 + len(b))
	e.buf.MustWrite([]byte{format.TagBinaryFinal})
	e.buf.B = e.engine.AppendUint16(e.buf.B, uint16(len(b)))
	e.buf.MustWrite(b)

	return nil
}

// EncodeString emits a string payload. Length prefixes count Unicode code
// points; payload bytes are the UTF-8 encoding emitted verbatim.
func (e *Encoder) EncodeString(s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: string is not valid UTF-8", errs.ErrInvalidUTF8)
	}

	chars := utf8.RuneCountInString(s)
	switch {
	case chars <= 31:
		e.buf.Grow(1 + len(s))
		e.buf.MustWrite([]byte{byte(chars)})
		e.buf.MustWrite([]byte(s))
	case chars <= 1023:
		e.buf.Grow(2 + len(s))
		e.buf.MustWrite([]byte{byte(0x30 + chars>>8), byte(chars)})
		e.buf.MustWrite([]byte(s))
	case chars <= e.stringChunkSize:
		e.buf.Grow(3 + len(s))
		e.buf.MustWrite([]byte{format.TagStringFinal})
		e.buf.B = e.engine.AppendUint16(e.buf.B, uint16(chars))
		e.buf.MustWrite([]byte(s))
	default:
		for chars > e.stringChunkSize {
			boundary := charBoundary(s, e.stringChunkSize)
			chunk := s[:boundary]
			s = s[boundary:]
			chars -= e.stringChunkSize

			e.buf.Grow(3 + len(chunk))
			e.buf.MustWrite([]byte{format.TagStringChunk})
			e.buf.B = e.engine.AppendUint16(e.buf.B, uint16(e.stringChunkSize))
			e.buf.MustWrite([]byte(chunk))
		}

		e.buf.Grow(3 + len(s))
		e.buf.MustWrite([]byte{format.TagStringFinal})
		e.buf.B = e.engine.AppendUint16(e.buf.B, uint16(chars))
		e.buf.MustWrite([]byte(s))
	}

	return nil
}

// charBoundary returns the byte offset just past the n-th code point of s.
func charBoundary(s string, n int) int {
	offset := 0
	for range n {
		_, size := utf8.DecodeRuneInString(s[offset:])
		offset += size
	}

	return offset
}

// EncodeRef emits a back-reference to a previously emitted list or map.
func (e *Encoder) EncodeRef(index uint32) error {
	if err := e.buf.WriteByte(format.TagRef); err != nil {
		return err
	}

	return e.EncodeInt(int32(index))
}

// WriteListBegin emits a list header. A non-negative length selects the
// fixed-length forms (short-fixed when length is at most 7) and the caller
// emits exactly length elements afterwards. A negative length selects the
// variable-length form, which the caller terminates with WriteObjectEnd.
// An empty typeName emits an untyped list.
func (e *Encoder) WriteListBegin(length int, typeName string) error {
	typed := typeName != ""
	switch {
	case length < 0:
		if typed {
			if err := e.buf.WriteByte(format.TagListVarTyped); err != nil {
				return err
			}

			return e.writeType(typeName)
		}

		return e.buf.WriteByte(format.TagListVarUntyped)
	case length <= 7:
		if typed {
			if err := e.buf.WriteByte(byte(0x70 + length)); err != nil {
				return err
			}

			return e.writeType(typeName)
		}

		return e.buf.WriteByte(byte(0x78 + length))
	default:
		if typed {
			if err := e.buf.WriteByte(format.TagListFixedTyped); err != nil {
				return err
			}
			if err := e.writeType(typeName); err != nil {
				return err
			}

			return e.EncodeInt(int32(length))
		}

		if err := e.buf.WriteByte(format.TagListFixedUntyped); err != nil {
			return err
		}

		return e.EncodeInt(int32(length))
	}
}

// WriteMapStart emits a map header. An empty typeName emits an untyped map.
// The caller emits alternating keys and values, then WriteObjectEnd.
func (e *Encoder) WriteMapStart(typeName string) error {
	if typeName != "" {
		if err := e.buf.WriteByte(format.TagMapTyped); err != nil {
			return err
		}

		return e.writeType(typeName)
	}

	return e.buf.WriteByte(format.TagMapUntyped)
}

// WriteObjectEnd terminates a variable-length list or a map.
func (e *Encoder) WriteObjectEnd() error {
	return e.buf.WriteByte(format.TagEnd)
}

// WriteDefinition registers a definition in the session cache, emitting its
// 'C' record the first time the name is seen, and returns its index.
func (e *Encoder) WriteDefinition(def Definition) (int, error) {
	if idx, ok := e.defIdx[def.Name]; ok {
		return idx, nil
	}

	if err := e.buf.WriteByte(format.TagDefinition); err != nil {
		return 0, err
	}
	if err := e.EncodeString(def.Name); err != nil {
		return 0, err
	}
	if err := e.EncodeInt(int32(len(def.Fields))); err != nil {
		return 0, err
	}
	for _, f := range def.Fields {
		if err := e.EncodeString(f); err != nil {
			return 0, err
		}
	}

	idx := len(e.defs)
	e.defIdx[def.Name] = idx
	e.defs = append(e.defs, def)

	return idx, nil
}

// WriteObjectStart emits an object tag referencing the definition,
// registering the definition first if this session has not emitted it yet.
// The caller then emits one value per definition field, in order.
func (e *Encoder) WriteObjectStart(def Definition) error {
	idx, err := e.WriteDefinition(def)
	if err != nil {
		return err
	}

	if idx < 16 {
		return e.buf.WriteByte(byte(0x60 + idx))
	}

	if err := e.buf.WriteByte(format.TagObject); err != nil {
		return err
	}

	return e.EncodeInt(int32(idx))
}

// AppendRaw copies pre-rendered wire bytes into the output verbatim.
func (e *Encoder) AppendRaw(p []byte) {
	e.buf.MustWrite(p)
}

// writeType emits a type name: an index into the type cache when the name
// was already emitted this session, the name itself otherwise.
func (e *Encoder) writeType(name string) error {
	if idx, ok := e.types[name]; ok {
		return e.EncodeInt(int32(idx))
	}

	if err := e.EncodeString(name); err != nil {
		return err
	}
	e.types[name] = len(e.types)

	return nil
}

func (e *Encoder) encodeListValue(l *value.List) error {
	typ, _ := l.Type()
	if err := e.WriteListBegin(l.Len(), typ); err != nil {
		return err
	}

	for _, elem := range l.Values() {
		if err := e.EncodeValue(elem); err != nil {
			return err
		}
	}

	return nil
}

func (e *Encoder) encodeMapValue(m *value.Map) error {
	typ, _ := m.Type()
	if err := e.WriteMapStart(typ); err != nil {
		return err
	}

	for _, entry := range m.Entries() {
		if err := e.EncodeValue(entry.Key); err != nil {
			return err
		}
		if err := e.EncodeValue(entry.Value); err != nil {
			return err
		}
	}

	return e.WriteObjectEnd()
}
