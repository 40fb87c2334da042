package hessian

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/hessian/errs"
	"github.com/arloliu/hessian/format"
	"github.com/arloliu/hessian/value"
)

func TestMarshalUnmarshal(t *testing.T) {
	v := value.NewList(
		value.Int(1),
		value.String("two"),
		value.Double(12.25),
		value.Null(),
	)

	data, err := Marshal(v)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	require.True(t, value.Equal(v, got))
}

func TestMarshalTo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, MarshalTo(&buf, value.Int(42)))

	got, err := Unmarshal(buf.Bytes())
	require.NoError(t, err)
	require.True(t, value.Equal(value.Int(42), got))
}

func TestUnmarshal_Invalid(t *testing.T) {
	_, err := Unmarshal(nil)
	require.ErrorIs(t, err, errs.ErrUnexpectedEOF)

	_, err = Unmarshal([]byte{0x45})
	require.ErrorIs(t, err, errs.ErrUnknownTag)
}

func TestMarshalCompressed_AllCodecs(t *testing.T) {
	mv := value.NewTypedMap("example.Payload")
	m, _ := mv.AsMap()
	require.NoError(t, m.Set(value.String("body"), value.Bytes(bytes.Repeat([]byte("abc"), 500))))
	require.NoError(t, m.Set(value.String("count"), value.Int(1500)))

	for _, ct := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		data, err := MarshalCompressed(mv, ct)
		require.NoError(t, err, ct.String())

		got, err := UnmarshalCompressed(data)
		require.NoError(t, err, ct.String())
		require.True(t, value.Equal(mv, got), ct.String())
	}
}

func TestUnmarshalCompressed_BadEnvelope(t *testing.T) {
	_, err := UnmarshalCompressed(nil)
	require.ErrorIs(t, err, errs.ErrInvalidEnvelope)

	_, err = UnmarshalCompressed([]byte{0x00, 0x01, 0x90})
	require.ErrorIs(t, err, errs.ErrInvalidEnvelope)

	_, err = UnmarshalCompressed([]byte{0x68, 0x7F, 0x90})
	require.ErrorIs(t, err, errs.ErrInvalidEnvelope)
}
