package icproc

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"myceliumweb.org/intcode/icchan"
	"myceliumweb.org/intcode/icvm"
)

// Loop is a cyclic composition: like a Pipeline, but the last stage's output
// is also fed back to the first stage.
//
// The loop runs until the Designated stage halts. When any stage stops, its
// neighbors see broken channels and stop in turn, after consuming whatever
// was already queued for them, so every stage eventually exits.
// Seeding the loop so that the designated stage can halt is the caller's responsibility.
type Loop struct {
	Stages []Stage
	// Designated is the index of the stage whose halt ends the loop.
	Designated int
	// Opts are applied to every machine.
	Opts []icvm.Option
}

func (l Loop) Validate() error {
	if len(l.Stages) == 0 {
		return ErrNoStages
	}
	if l.Designated < 0 || l.Designated >= len(l.Stages) {
		return fmt.Errorf("designated stage %d out of range for %d stages", l.Designated, len(l.Stages))
	}
	return nil
}

// Run sends seed to the first stage and runs the loop.
// It returns the last value which crossed the feedback edge, from the last stage to the first.
// If no value crossed, the last seed value is returned.
func (l Loop) Run(ctx context.Context, seed ...Word) (Word, error) {
	r, err := l.Exec(ctx, seed...)
	if err != nil {
		return 0, err
	}
	return r.Result, nil
}

// Exec is like Run but returns a full Report.
// Report.Outputs holds every value which crossed the feedback edge.
func (l Loop) Exec(ctx context.Context, seed ...Word) (*Report, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	w, err := wire(l.Stages, l.Opts)
	if err != nil {
		return nil, err
	}
	if err := sendAll(w.head, seed); err != nil {
		return nil, err
	}

	errs := make([]error, len(w.procs))
	var crossed []Word
	eg, ctx := errgroup.WithContext(ctx)
	for i, proc := range w.procs {
		eg.Go(func() error {
			err := proc.Run(ctx)
			errs[i] = err
			if i != l.Designated && IsShutdown(err) {
				return nil
			}
			return err
		})
	}
	// relay the last stage's output back to the first stage.
	eg.Go(func() error {
		defer w.head.Close()
		for {
			x, err := w.tail.Receive(ctx)
			if err != nil {
				if errors.Is(err, icchan.ErrBrokenChannel) {
					return nil
				}
				return err
			}
			crossed = append(crossed, x)
			if err := w.head.Send(x); err != nil {
				if errors.Is(err, icchan.ErrBrokenChannel) {
					// the first stage is gone, so break the last stage's output as well.
					w.tail.Close()
					return nil
				}
				return err
			}
		}
	})
	egErr := eg.Wait()

	r := w.report()
	r.Outputs = crossed
	if err := rootCause(errs); err != nil && !IsShutdown(err) {
		return r, err
	}
	if err := errs[l.Designated]; err != nil {
		return r, fmt.Errorf("designated stage %s did not halt: %w", w.procs[l.Designated].Name(), err)
	}
	if egErr != nil {
		return r, egErr
	}
	return r, l.result(r, crossed, seed)
}

// RunCooperative is like Run, but interleaves the stages on the calling goroutine.
// Scheduling stops as soon as the designated stage halts.
// If the designated stage is left waiting for input, ErrDeadlock is returned.
func (l Loop) RunCooperative(ctx context.Context, seed ...Word) (Word, error) {
	if err := l.Validate(); err != nil {
		return 0, err
	}
	sched, queues := cooperative(l.Stages, l.Opts)
	queues[0].Push(seed...)
	tasks := sched.Tasks()
	sched.Until = func() bool {
		return tasks[l.Designated].VM.State() == icvm.Halted
	}
	var crossed []Word
	tasks[len(tasks)-1].Out = icvm.SinkFunc(func(x Word) error {
		crossed = append(crossed, x)
		queues[0].Push(x)
		return nil
	})
	if err := sched.Run(ctx); err != nil {
		return 0, err
	}
	if d := tasks[l.Designated]; d.VM.State() != icvm.Halted {
		return 0, fmt.Errorf("designated stage %s: %w", d.Name, ErrDeadlock)
	}
	r := &Report{}
	if err := l.result(r, crossed, seed); err != nil {
		return 0, err
	}
	return r.Result, nil
}

func (l Loop) result(r *Report, crossed, seed []Word) error {
	switch {
	case len(crossed) > 0:
		r.Result = crossed[len(crossed)-1]
	case len(seed) > 0:
		r.Result = seed[len(seed)-1]
	default:
		return ErrNoResult
	}
	return nil
}
