package icproc

import (
	"context"
	"encoding/json"
	"fmt"

	"myceliumweb.org/intcode/icprog"
	"myceliumweb.org/intcode/icvm"
)

const (
	KindPipeline = "pipeline"
	KindLoop     = "loop"
)

// Topology is a composition described in configuration, rather than in code.
//
//	{
//		"Kind": "loop",
//		"Seed": [0],
//		"Stages": [{"Prelude": [9]}, {"Prelude": [8]}, {"Prelude": [7]}]
//	}
type Topology struct {
	// Kind is "pipeline" or "loop"
	Kind       string
	Designated int `json:",omitempty"`
	Seed       []Word
	Stages     []StageSpec
	// MaxSteps limits every machine, if non-zero.
	MaxSteps uint64 `json:",omitempty"`
	// Cooperative runs the stages on a single goroutine instead of one per stage.
	Cooperative bool `json:",omitempty"`
}

type StageSpec struct {
	Name    string `json:",omitempty"`
	Prelude []Word `json:",omitempty"`
	// Program, if set, is the program text for this stage.
	// Otherwise the stage runs the program passed to Build.
	Program string `json:",omitempty"`
}

// ParseTopology parses and validates a JSON Topology.
func ParseTopology(data []byte) (*Topology, error) {
	var t Topology
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Topology) Validate() error {
	switch t.Kind {
	case KindPipeline, KindLoop:
	default:
		return fmt.Errorf("unknown topology kind %q", t.Kind)
	}
	if len(t.Stages) == 0 {
		return ErrNoStages
	}
	if t.Kind == KindLoop && (t.Designated < 0 || t.Designated >= len(t.Stages)) {
		return fmt.Errorf("designated stage %d out of range for %d stages", t.Designated, len(t.Stages))
	}
	for i, st := range t.Stages {
		if st.Program == "" {
			continue
		}
		if _, err := icprog.Parse(st.Program); err != nil {
			return fmt.Errorf("invalid program for stage %d: %w", i, err)
		}
	}
	return nil
}

// Build creates the stages, using prog for any stage without its own program.
// If cache is non-nil, stage programs are parsed through it.
func (t *Topology) Build(prog []Word, cache *icprog.Cache) ([]Stage, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	stages := make([]Stage, len(t.Stages))
	for i, spec := range t.Stages {
		stages[i] = Stage{
			Name:    spec.Name,
			Program: prog,
			Prelude: spec.Prelude,
		}
		if spec.Program == "" {
			if prog == nil {
				return nil, fmt.Errorf("stage %d has no program", i)
			}
			continue
		}
		var p icprog.Program
		var err error
		if cache != nil {
			p, err = cache.Parse(spec.Program)
		} else {
			p, err = icprog.Parse(spec.Program)
		}
		if err != nil {
			return nil, err
		}
		stages[i].Program = p
	}
	return stages, nil
}

// Run builds the topology and runs it with its configured seed.
func (t *Topology) Run(ctx context.Context, prog []Word, cache *icprog.Cache) (*Report, error) {
	stages, err := t.Build(prog, cache)
	if err != nil {
		return nil, err
	}
	var opts []icvm.Option
	if t.MaxSteps > 0 {
		opts = append(opts, icvm.WithMaxSteps(t.MaxSteps))
	}
	switch t.Kind {
	case KindLoop:
		l := Loop{Stages: stages, Designated: t.Designated, Opts: opts}
		if t.Cooperative {
			res, err := l.RunCooperative(ctx, t.Seed...)
			if err != nil {
				return nil, err
			}
			return &Report{Result: res}, nil
		}
		return l.Exec(ctx, t.Seed...)
	default:
		p := Pipeline{Stages: stages, Opts: opts}
		if t.Cooperative {
			outs, err := p.RunCooperative(ctx, t.Seed...)
			if err != nil {
				return nil, err
			}
			return &Report{Outputs: outs}, nil
		}
		return p.Exec(ctx, t.Seed...)
	}
}
