package iccmd

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.brendoncarroll.net/star"

	"myceliumweb.org/intcode/icjournal"
	"myceliumweb.org/intcode/icprog"
	"myceliumweb.org/intcode/icproc"
	"myceliumweb.org/intcode/icvm"
)

var runCmd = star.Command{
	Metadata: star.Metadata{
		Short: "run a program to completion, printing each output on its own line",
	},
	Flags: []star.IParam{progParam, inParam, maxStepsParam, dbParam, logLevelParam},
	F: func(c star.Context) error {
		ctx, err := newContext(c)
		if err != nil {
			return err
		}
		return runProgram(ctx, dbParam.Load(c), progParam.Load(c), inParam.LoadAll(c), maxStepsParam.Load(c), func(x Word) {
			c.Printf("%d\n", x)
		})
	},
}

var pipelineCmd = star.Command{
	Metadata: star.Metadata{
		Short: "run one copy of a program per phase, each feeding the next",
	},
	Flags: []star.IParam{progParam, phaseParam, seedParam, maxStepsParam, cooperativeParam, dbParam, logLevelParam},
	F: func(c star.Context) error {
		ctx, err := newContext(c)
		if err != nil {
			return err
		}
		p := icproc.Pipeline{
			Stages: phasedStages(progParam.Load(c), phaseParam.LoadAll(c)),
			Opts:   stepOpts(c),
		}
		outs, err := runPipeline(ctx, dbParam.Load(c), p, seedParam.Load(c), cooperativeParam.Load(c))
		for _, x := range outs {
			c.Printf("%d\n", x)
		}
		return err
	},
}

var loopCmd = star.Command{
	Metadata: star.Metadata{
		Short: "run one copy of a program per phase in a feedback loop, printing the last value to cross the loop",
	},
	Flags: []star.IParam{progParam, phaseParam, seedParam, designatedParam, maxStepsParam, cooperativeParam, dbParam, logLevelParam},
	F: func(c star.Context) error {
		ctx, err := newContext(c)
		if err != nil {
			return err
		}
		l := icproc.Loop{
			Stages:     phasedStages(progParam.Load(c), phaseParam.LoadAll(c)),
			Designated: designatedParam.Load(c),
			Opts:       stepOpts(c),
		}
		res, err := runLoop(ctx, dbParam.Load(c), l, seedParam.Load(c), cooperativeParam.Load(c))
		if err != nil {
			return err
		}
		c.Printf("%d\n", res)
		return nil
	},
}

var topoCmd = star.Command{
	Metadata: star.Metadata{
		Short: "run a program in a topology described by a JSON file",
	},
	Flags: []star.IParam{progParam, topoParam, dbParam, logLevelParam},
	F: func(c star.Context) error {
		ctx, err := newContext(c)
		if err != nil {
			return err
		}
		outs, err := runTopology(ctx, dbParam.Load(c), progParam.Load(c), topoParam.Load(c))
		if err != nil {
			return err
		}
		for _, x := range outs {
			c.Printf("%d\n", x)
		}
		return nil
	},
}

// runProgram runs prog on a single machine, passing each output to emit, and journals the run.
func runProgram(ctx context.Context, db *sqlx.DB, prog icprog.Program, ins []Word, maxSteps uint64, emit func(Word)) error {
	vm := icvm.New(prog, icvm.WithName("main"), icvm.WithMaxSteps(maxSteps))
	var outs []Word
	runErr := vm.RunToHalt(ctx, icvm.Values(ins...), icvm.SinkFunc(func(x Word) error {
		emit(x)
		outs = append(outs, x)
		return nil
	}))
	return record(ctx, db, icjournal.NewRun("run", prog, 1, ins, outs, vm.Steps(), runErr), runErr)
}

// runPipeline runs p, journals it, and returns the outputs of the last stage.
// All the stages must run the same program, as built by phasedStages.
func runPipeline(ctx context.Context, db *sqlx.DB, p icproc.Pipeline, seed Word, coop bool) ([]Word, error) {
	var r *icproc.Report
	var runErr error
	if coop {
		var outs []Word
		outs, runErr = p.RunCooperative(ctx, seed)
		r = &icproc.Report{Outputs: outs}
	} else {
		r, runErr = p.Exec(ctx, seed)
	}
	if r == nil {
		r = &icproc.Report{}
	}
	prog, phases := stageSummary(p.Stages)
	run := icjournal.NewRun("pipeline", prog, len(p.Stages), phases, r.Outputs, r.TotalSteps(), runErr)
	return r.Outputs, record(ctx, db, run, runErr)
}

// runLoop runs l, journals it, and returns its result.
func runLoop(ctx context.Context, db *sqlx.DB, l icproc.Loop, seed Word, coop bool) (Word, error) {
	var r *icproc.Report
	var runErr error
	if coop {
		var res Word
		res, runErr = l.RunCooperative(ctx, seed)
		r = &icproc.Report{Result: res}
	} else {
		r, runErr = l.Exec(ctx, seed)
	}
	if r == nil {
		r = &icproc.Report{}
	}
	var outs []Word
	if runErr == nil {
		outs = []Word{r.Result}
	}
	prog, phases := stageSummary(l.Stages)
	run := icjournal.NewRun("loop", prog, len(l.Stages), phases, outs, r.TotalSteps(), runErr)
	return r.Result, record(ctx, db, run, runErr)
}

// runTopology runs topo with prog, journals it, and returns the pipeline outputs, or the loop result.
func runTopology(ctx context.Context, db *sqlx.DB, prog icprog.Program, topo *icproc.Topology) ([]Word, error) {
	r, runErr := topo.Run(ctx, prog, nil)
	if r == nil {
		r = &icproc.Report{}
	}
	var outs []Word
	if runErr == nil {
		outs = r.Outputs
		if topo.Kind == icproc.KindLoop {
			outs = []Word{r.Result}
		}
	}
	run := icjournal.NewRun("topo-"+topo.Kind, prog, len(topo.Stages), topo.Seed, outs, r.TotalSteps(), runErr)
	return outs, record(ctx, db, run, runErr)
}

// stageSummary returns the program of the first stage and the prelude of every stage.
func stageSummary(stages []icproc.Stage) (icprog.Program, []Word) {
	var phases []Word
	for _, st := range stages {
		phases = append(phases, st.Prelude...)
	}
	if len(stages) == 0 {
		return nil, phases
	}
	return stages[0].Program, phases
}

// phasedStages returns one stage running prog for each phase.
// With no phases there is a single stage with no prelude.
func phasedStages(prog []Word, phases []Word) []icproc.Stage {
	if len(phases) == 0 {
		return []icproc.Stage{{Program: prog}}
	}
	stages := make([]icproc.Stage, len(phases))
	for i, ph := range phases {
		stages[i] = icproc.Stage{Program: prog, Prelude: []Word{ph}}
	}
	return stages
}

func stepOpts(c star.Context) []icvm.Option {
	if n := maxStepsParam.Load(c); n > 0 {
		return []icvm.Option{icvm.WithMaxSteps(n)}
	}
	return nil
}
