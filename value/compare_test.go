package value

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompare_KindBands(t *testing.T) {
	// Null < numerics < Bytes < String < Ref < List < Map.
	ordered := []Value{
		Null(),
		Int(0),
		Bytes([]byte{0}),
		String(""),
		Ref(0),
		NewList(),
		NewMap(),
	}

	for i := range ordered {
		for j := range ordered {
			got := Compare(ordered[i], ordered[j])
			switch {
			case i < j:
				require.Negative(t, got, "%s vs %s", ordered[i].Kind(), ordered[j].Kind())
			case i > j:
				require.Positive(t, got, "%s vs %s", ordered[i].Kind(), ordered[j].Kind())
			default:
				require.Zero(t, got)
			}
		}
	}
}

func TestCompare_NumericCrossKind(t *testing.T) {
	require.True(t, Equal(Int(1), Long(1)))
	require.True(t, Equal(Bool(true), Int(1)))
	require.True(t, Equal(Bool(false), Int(0)))
	require.True(t, Equal(Int(5), Double(5.0)))
	require.True(t, Equal(Long(5), Double(5.0)))
	require.True(t, Equal(Date(1000), Long(1000)))

	require.Negative(t, Compare(Int(1), Long(2)))
	require.Positive(t, Compare(Double(1.5), Int(1)))
	require.Negative(t, Compare(Long(-1), Bool(false)))
}

func TestCompare_LongPrecision(t *testing.T) {
	// Adjacent int64 values stay distinct even where float64 cannot
	// represent them.
	a := Long(math.MaxInt64)
	b := Long(math.MaxInt64 - 1)
	require.Positive(t, Compare(a, b))
	require.False(t, Equal(a, b))
}

func TestCompare_FloatTotalOrder(t *testing.T) {
	nan := Double(math.NaN())

	// NaNs are equal to each other and below everything else.
	require.True(t, Equal(nan, nan))
	require.Negative(t, Compare(nan, Double(math.Inf(-1))))
	require.Negative(t, Compare(nan, Double(-math.MaxFloat64)))

	// Negative zero sorts below positive zero.
	negZero := Double(math.Copysign(0, -1))
	require.Negative(t, Compare(negZero, Double(0)))
	require.False(t, Equal(negZero, Double(0)))
	require.True(t, Equal(negZero, negZero))

	require.Negative(t, Compare(Double(-1), negZero))
	require.Negative(t, Compare(Double(0), Double(math.SmallestNonzeroFloat64)))
	require.Positive(t, Compare(Double(math.Inf(1)), Double(math.MaxFloat64)))
}

func TestCompare_SortValues(t *testing.T) {
	vals := []Value{
		String("b"),
		Int(10),
		Null(),
		Double(-0.5),
		Bytes([]byte{9}),
		String("a"),
		Long(-3),
	}

	sort.Slice(vals, func(i, j int) bool {
		return Compare(vals[i], vals[j]) < 0
	})

	want := []Value{
		Null(),
		Long(-3),
		Double(-0.5),
		Int(10),
		Bytes([]byte{9}),
		String("a"),
		String("b"),
	}
	for i := range want {
		require.True(t, Equal(want[i], vals[i]), "position %d", i)
	}
}

func TestCompare_Lists(t *testing.T) {
	require.True(t, Equal(NewList(Int(1)), NewList(Int(1))))
	require.False(t, Equal(NewList(Int(1)), NewList(Int(2))))
	require.False(t, Equal(NewList(Int(1)), NewList(Int(1), Int(2))))

	// Untyped sorts before typed; typed lists order by type name.
	require.Negative(t, Compare(NewList(Int(1)), NewTypedList("[int", Int(1))))
	require.Negative(t, Compare(NewTypedList("[a", Int(1)), NewTypedList("[b", Int(1))))
	require.True(t, Equal(NewTypedList("[int", Int(1)), NewTypedList("[int", Int(1))))
}

func TestCompare_Maps(t *testing.T) {
	build := func(typ string, pairs ...Value) Value {
		var mv Value
		if typ == "" {
			mv = NewMap()
		} else {
			mv = NewTypedMap(typ)
		}
		m, _ := mv.AsMap()
		for i := 0; i < len(pairs); i += 2 {
			require.NoError(t, m.Set(pairs[i], pairs[i+1]))
		}

		return mv
	}

	a := build("", String("k"), Int(1))
	b := build("", String("k"), Int(1))
	require.True(t, Equal(a, b))

	c := build("", String("k"), Int(2))
	require.False(t, Equal(a, c))

	require.False(t, Equal(build("T", String("k"), Int(1)), a))
}

func TestHash_ConsistentWithEqual(t *testing.T) {
	pairs := [][2]Value{
		{Int(1), Long(1)},
		{Bool(true), Double(1.0)},
		{Int(0), Date(0)},
		{Double(math.NaN()), Double(math.Float64frombits(0x7FF8000000000001))},
		{String("abc"), String("abc")},
		{Bytes([]byte("abc")), Bytes([]byte("abc"))},
		{NewList(Int(1), String("x")), NewList(Int(1), String("x"))},
		{NewTypedList("[int", Int(1)), NewTypedList("[int", Int(1))},
	}

	for _, p := range pairs {
		require.True(t, Equal(p[0], p[1]))
		require.Equal(t, p[0].Hash(), p[1].Hash())
	}
}

func TestHash_KindSeparation(t *testing.T) {
	require.NotEqual(t, String("abc").Hash(), Bytes([]byte("abc")).Hash())
	require.NotEqual(t, Null().Hash(), Int(0).Hash())
	require.NotEqual(t, Ref(0).Hash(), Int(0).Hash())
}

func TestHash_MapIdentity(t *testing.T) {
	a := NewMap()
	b := NewMap()

	// Equal by contents (both empty) but hashed by identity.
	require.True(t, Equal(a, b))
	require.NotEqual(t, a.Hash(), b.Hash())
	require.Equal(t, a.Hash(), a.Hash())
}
