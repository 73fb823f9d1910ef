package icmem

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadWrite(t *testing.T) {
	t.Parallel()
	type testCase struct {
		Name string
		Addr Addr
		Val  Word
	}
	tcs := []testCase{
		{"Image", 2, 77},
		{"FirstPastImage", 4, -5},
		{"SegmentBoundary", SegmentSize, 123},
		{"SegmentEnd", 2*SegmentSize - 1, 456},
		{"Far", 1 << 40, 1125899906842624},
		{"Last", math.MaxUint64, math.MinInt64},
	}
	for _, tc := range tcs {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()
			m := New([]Word{1, 2, 3, 4})
			m.Write(tc.Addr, tc.Val)
			require.Equal(t, tc.Val, m.Read(tc.Addr))
			// neighbours are untouched
			require.Equal(t, Word(0), m.Read(tc.Addr+SegmentSize+7))
		})
	}
}

func TestUnwrittenIsZero(t *testing.T) {
	t.Parallel()
	m := New([]Word{0, 9})
	require.Equal(t, Word(0), m.Read(0))
	require.Equal(t, Word(9), m.Read(1))
	for _, a := range []Addr{2, 100, SegmentSize, 1 << 33} {
		require.Equal(t, Word(0), m.Read(a))
	}
	require.Equal(t, 0, m.Segments(), "reads must not allocate")
}

func TestSegments(t *testing.T) {
	t.Parallel()
	m := New(make([]Word, 10))
	m.Write(5, 1)
	require.Equal(t, 0, m.Segments())
	m.Write(10, 1)
	m.Write(11, 1)
	require.Equal(t, 1, m.Segments())
	m.Write(SegmentSize+1, 1)
	require.Equal(t, 2, m.Segments())
	m.Write(100*SegmentSize, 0)
	require.Equal(t, 2, m.Segments())
	require.Equal(t, Word(0), m.Read(100*SegmentSize))
}

func TestZeroValue(t *testing.T) {
	t.Parallel()
	var m Memory
	require.Equal(t, 0, m.Len())
	m.Write(3, 42)
	require.Equal(t, Word(42), m.Read(3))
	require.Equal(t, []Word{0, 0, 0, 42}, m.Dump(nil, 4))
}

func TestClone(t *testing.T) {
	t.Parallel()
	prog := []Word{1, 2, 3}
	m := New(prog)
	prog[0] = 100
	require.Equal(t, Word(1), m.Read(0), "New must copy the image")

	m.Write(5000, 7)
	m2 := m.Clone()
	m2.Write(0, -1)
	m2.Write(5000, -7)
	require.Equal(t, Word(1), m.Read(0))
	require.Equal(t, Word(7), m.Read(5000))
	require.Equal(t, Word(-1), m2.Read(0))
	require.Equal(t, Word(-7), m2.Read(5000))
}
