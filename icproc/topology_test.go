package icproc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"myceliumweb.org/intcode/icprog"
	"myceliumweb.org/intcode/ictests"
	"myceliumweb.org/intcode/internal/testutil"
)

func TestParseTopology(t *testing.T) {
	t.Parallel()
	type testCase struct {
		JSON  string
		Valid bool
	}
	tcs := []testCase{
		{`{"Kind": "pipeline", "Stages": [{}]}`, true},
		{`{"kind": "loop", "designated": 1, "stages": [{}, {"prelude": [1]}]}`, true},
		{`{"Kind": "loop", "Stages": [{"Program": "3,0,4,0,99"}]}`, true},
		{`{"Kind": "tree", "Stages": [{}]}`, false},
		{`{"Kind": "pipeline", "Stages": []}`, false},
		{`{"Kind": "loop", "Designated": 2, "Stages": [{}, {}]}`, false},
		{`{"Kind": "loop", "Stages": [{"Program": "3,x"}]}`, false},
		{`{"Kind": "loop", "Stages": [{}]`, false},
	}
	for _, tc := range tcs {
		_, err := ParseTopology([]byte(tc.JSON))
		if tc.Valid {
			require.NoError(t, err, tc.JSON)
		} else {
			require.Error(t, err, tc.JSON)
		}
	}
}

func TestTopologyRun(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	cache := icprog.NewCache(8)

	loop, err := ParseTopology([]byte(`{
		"Kind": "loop",
		"Designated": 4,
		"Seed": [0],
		"Stages": [
			{"Name": "A", "Prelude": [9]},
			{"Name": "B", "Prelude": [8]},
			{"Name": "C", "Prelude": [7]},
			{"Name": "D", "Prelude": [6]},
			{"Name": "E", "Prelude": [5]}
		]
	}`))
	require.NoError(t, err)
	r, err := loop.Run(ctx, feedback1.Words(), cache)
	require.NoError(t, err)
	require.Equal(t, Word(139629729), r.Result)

	loop.Cooperative = true
	r, err = loop.Run(ctx, feedback1.Words(), cache)
	require.NoError(t, err)
	require.Equal(t, Word(139629729), r.Result)

	// stages may have their own programs
	pipe := &Topology{
		Kind: KindPipeline,
		Seed: []Word{1},
		Stages: []StageSpec{
			{Program: string(ictests.Affine(1))},
			{},
			{Program: string(ictests.Affine(1))},
		},
		MaxSteps: 100,
	}
	r, err = pipe.Run(ctx, ictests.Affine(0).Words(), cache)
	require.NoError(t, err)
	require.Equal(t, []Word{13}, r.Outputs)
	require.Equal(t, 1, cache.Len())

	pipe.Cooperative = true
	r, err = pipe.Run(ctx, ictests.Affine(0).Words(), cache)
	require.NoError(t, err)
	require.Equal(t, []Word{13}, r.Outputs)

	_, err = pipe.Run(ctx, nil, nil)
	require.Error(t, err)
}
