package icproc

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"myceliumweb.org/intcode/icchan"
	"myceliumweb.org/intcode/icvm"
)

var (
	ErrNoStages = errors.New("composition has no stages")
	ErrNoResult = errors.New("no value crossed the feedback edge")
	ErrDeadlock = errors.New("deadlock: every live stage is waiting for input")
)

// Stage describes one process in a composition.
type Stage struct {
	Name    string
	Program []Word
	// Prelude is queued on the stage's input before anything from upstream,
	// e.g. a phase setting.
	Prelude []Word
}

func (s Stage) name(i int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("stage-%d", i)
}

// Report describes a finished composition.
type Report struct {
	// Outputs holds, in order, every value emitted by the last stage.
	Outputs []Word
	// Steps holds the number of instructions each stage executed.
	Steps []uint64
	// Result is the outcome of a Loop: the last value which crossed the feedback edge.
	Result Word
}

func (r *Report) TotalSteps() (ret uint64) {
	for _, n := range r.Steps {
		ret += n
	}
	return ret
}

// Runner is implemented by Pipeline and Loop.
type Runner interface {
	Exec(ctx context.Context, seed ...Word) (*Report, error)
}

var (
	_ Runner = Pipeline{}
	_ Runner = Loop{}
)

// Pipeline is a linear composition: stage i's output is stage i+1's input.
type Pipeline struct {
	Stages []Stage
	// Opts are applied to every machine.
	Opts []icvm.Option
}

// Run sends seed to the first stage, runs every stage to completion,
// and returns every value emitted by the last stage.
// Every stage must halt; otherwise the first fault is returned.
func (p Pipeline) Run(ctx context.Context, seed ...Word) ([]Word, error) {
	r, err := p.Exec(ctx, seed...)
	if err != nil {
		return nil, err
	}
	return r.Outputs, nil
}

// Exec is like Run but returns a full Report.
func (p Pipeline) Exec(ctx context.Context, seed ...Word) (*Report, error) {
	w, err := wire(p.Stages, p.Opts)
	if err != nil {
		return nil, err
	}
	if err := sendAll(w.head, seed); err != nil {
		return nil, err
	}
	// the first stage sees a broken channel if it wants more than the seed
	w.head.Close()

	errs := make([]error, len(w.procs))
	var outputs []Word
	eg, ctx := errgroup.WithContext(ctx)
	for i, proc := range w.procs {
		eg.Go(func() error {
			errs[i] = proc.Run(ctx)
			return errs[i]
		})
	}
	eg.Go(func() error {
		for {
			x, err := w.tail.Receive(ctx)
			if err != nil {
				if errors.Is(err, icchan.ErrBrokenChannel) {
					return nil
				}
				return err
			}
			outputs = append(outputs, x)
		}
	})
	egErr := eg.Wait()
	r := w.report()
	r.Outputs = outputs
	if err := rootCause(errs); err != nil {
		return r, err
	}
	if egErr != nil {
		return r, egErr
	}
	return r, nil
}

// RunCooperative is like Run, but interleaves the stages on the calling goroutine.
func (p Pipeline) RunCooperative(ctx context.Context, seed ...Word) ([]Word, error) {
	if len(p.Stages) == 0 {
		return nil, ErrNoStages
	}
	sched, queues := cooperative(p.Stages, p.Opts)
	queues[0].Push(seed...)
	out := icvm.Values()
	sched.Tasks()[len(p.Stages)-1].Out = out
	if err := sched.Run(ctx); err != nil {
		return nil, err
	}
	if waiting := sched.Waiting(); len(waiting) > 0 {
		return nil, fmt.Errorf("%s: %w", waiting[0].Name, ErrDeadlock)
	}
	return out.Values(), nil
}

// wiring holds the processes of a composition before they are started.
type wiring struct {
	procs []*Process
	// head sends to the first stage.
	head *icchan.Sender
	// tail receives from the last stage.
	tail *icchan.Receiver
}

// wire creates a process for each stage, connected in a line.
// Each stage's prelude is already queued on its input.
func wire(stages []Stage, opts []icvm.Option) (*wiring, error) {
	if len(stages) == 0 {
		return nil, ErrNoStages
	}
	w := &wiring{}
	prev, in := icchan.New()
	w.head = prev
	for i, st := range stages {
		if err := sendAll(prev, st.Prelude); err != nil {
			return nil, err
		}
		out, next := icchan.New()
		vm := icvm.New(st.Program, append(opts[:len(opts):len(opts)], icvm.WithName(st.name(i)))...)
		w.procs = append(w.procs, NewProcess(st.name(i), vm, in, out))
		prev, in = out, next
	}
	w.tail = in
	return w, nil
}

func (w *wiring) report() *Report {
	r := &Report{Steps: make([]uint64, len(w.procs))}
	for i, proc := range w.procs {
		r.Steps[i] = proc.VM().Steps()
	}
	return r
}

func sendAll(s *icchan.Sender, xs []Word) error {
	for _, x := range xs {
		if err := s.Send(x); err != nil {
			return err
		}
	}
	return nil
}
