package iccmd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"myceliumweb.org/intcode/icjournal"
	"myceliumweb.org/intcode/icproc"
	"myceliumweb.org/intcode/ictests"
	"myceliumweb.org/intcode/internal/dbutil"
	"myceliumweb.org/intcode/internal/testutil"
)

func TestParseWord(t *testing.T) {
	x, err := parseWord("-1125899906842624")
	require.NoError(t, err)
	require.Equal(t, Word(-1125899906842624), x)
	_, err = parseWord("1e3")
	require.Error(t, err)
}

func TestPhasedStages(t *testing.T) {
	prog := ictests.Echo.Words()
	stages := phasedStages(prog, nil)
	require.Len(t, stages, 1)
	require.Empty(t, stages[0].Prelude)

	stages = phasedStages(prog, []Word{4, 3})
	require.Equal(t, []icproc.Stage{
		{Program: prog, Prelude: []Word{4}},
		{Program: prog, Prelude: []Word{3}},
	}, stages)
}

func TestRunJournaled(t *testing.T) {
	ctx := testutil.Context(t)
	db := dbutil.NewTestDB(t)
	require.NoError(t, icjournal.Setup(ctx, db))
	j := icjournal.New(db)

	const feedback = "3,26,1001,26,-4,26,3,27,1002,27,2,27,1,27,26,27,4,27,1001,28,-1,28,1005,28,6,99,0,0,5"
	prog, err := progParam.Parse(testutil.TempFile(t, feedback+"\n"))
	require.NoError(t, err)
	echo, err := progParam.Parse(testutil.TempFile(t, string(ictests.Echo)))
	require.NoError(t, err)

	var printed []Word
	require.NoError(t, runProgram(ctx, db, echo, []Word{42}, 0, func(x Word) {
		printed = append(printed, x)
	}))
	require.Equal(t, []Word{42}, printed)

	affine := ictests.Affine(1).Words()
	p := icproc.Pipeline{Stages: []icproc.Stage{{Program: affine}, {Program: affine}}}
	outs, err := runPipeline(ctx, db, p, 1, false)
	require.NoError(t, err)
	require.Equal(t, []Word{7}, outs)

	for _, coop := range []bool{false, true} {
		l := icproc.Loop{Stages: phasedStages(prog, []Word{9, 8, 7, 6, 5})}
		res, err := runLoop(ctx, db, l, 0, coop)
		require.NoError(t, err)
		require.Equal(t, Word(139629729), res)
	}

	topo, err := topoParam.Parse(testutil.TempFile(t, `{
		"Kind": "loop",
		"Seed": [0],
		"Stages": [{"Prelude": [9]}, {"Prelude": [8]}, {"Prelude": [7]}, {"Prelude": [6]}, {"Prelude": [5]}]
	}`))
	require.NoError(t, err)
	outs, err = runTopology(ctx, db, prog, topo)
	require.NoError(t, err)
	require.Equal(t, []Word{139629729}, outs)

	// faults are returned and recorded
	err = runProgram(ctx, db, echo, nil, 0, func(Word) {})
	require.Error(t, err)

	runs, err := j.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 6)
	require.Equal(t, "run", runs[0].Kind)
	require.Equal(t, icjournal.StatusFaulted, runs[0].Status)
	require.NotEmpty(t, runs[0].Error)
	require.Equal(t, "topo-loop", runs[1].Kind)
	require.Equal(t, "139629729", runs[1].Output)
	require.Equal(t, "loop", runs[2].Kind)
	require.Equal(t, "9,8,7,6,5", runs[2].Input)
	require.Equal(t, 5, runs[2].Stages)
	require.Equal(t, "pipeline", runs[4].Kind)
	require.Equal(t, "7", runs[4].Output)
	require.Equal(t, icjournal.StatusHalted, runs[5].Status)
	require.Equal(t, "42", runs[5].Output)

	forProg, err := j.ForProgram(ctx, prog.Fingerprint())
	require.NoError(t, err)
	require.Len(t, forProg, 3)
}
