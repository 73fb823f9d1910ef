package icvm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"myceliumweb.org/intcode/icmem"
	"myceliumweb.org/intcode/ictests"
)

func TestDisassemble(t *testing.T) {
	t.Parallel()
	type testCase struct {
		Prog ictests.Prog
		Out  []string
	}
	tcs := []testCase{
		{
			Prog: ictests.MulImmediate,
			Out: []string{
				"     0  mul [4], #3, [4]",
				"     4  data 33",
			},
		},
		{
			Prog: ictests.Quine,
			Out: []string{
				"     0  arb #1",
				"     2  out [rb-1]",
				"     4  add [100], #1, [100]",
				"     8  eq  [100], #16, [101]",
				"    12  jf  [101], #0",
				"    15  hlt",
			},
		},
	}
	for _, tc := range tcs {
		ws := tc.Prog.Words()
		lines := Disassemble(icmem.New(ws), 0, Addr(len(ws)))
		var out []string
		for _, l := range lines {
			out = append(out, l.String())
		}
		require.Equal(t, tc.Out, out)
	}
}

func TestDisassembleTruncated(t *testing.T) {
	t.Parallel()
	// the last instruction extends past the end of the range
	lines := Disassemble(icmem.New([]Word{1, 5}), 0, 2)
	require.Len(t, lines, 1)
	require.Equal(t, []Word{1, 5, 0, 0}, lines[0].Words)
}
