package icproc

import (
	"context"

	"myceliumweb.org/intcode/icvm"
)

// Task is a machine scheduled cooperatively.
type Task struct {
	Name string
	VM   *icvm.VM
	In   icvm.TrySource
	Out  icvm.Sink
}

// Scheduler interleaves many machines on a single goroutine.
// Each machine runs until it blocks on input, emits an output, or halts,
// and then the next machine gets a turn.
type Scheduler struct {
	// Until, if set, is checked after every turn. Run returns once it reports true.
	Until func() bool

	tasks []*Task
}

func (s *Scheduler) Add(t *Task) {
	s.tasks = append(s.tasks, t)
}

func (s *Scheduler) Tasks() []*Task {
	return s.tasks
}

// Run gives each task turns until every task has halted, no task can make progress,
// or Until reports true.
// A fault in any task stops the scheduler and is returned.
// Callers decide whether tasks left waiting for input are a deadlock.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		progress := false
		live := 0
		for _, t := range s.tasks {
			if t.VM.State() == icvm.Halted {
				continue
			}
			before := t.VM.Steps()
			y, err := t.VM.RunUntilBlocked(ctx, t.In, t.Out)
			if err != nil {
				return err
			}
			if t.VM.Steps() != before {
				progress = true
			}
			if y.Kind != icvm.YieldHalt {
				live++
			}
			if s.Until != nil && s.Until() {
				return nil
			}
		}
		if live == 0 || !progress {
			return nil
		}
	}
}

// Waiting returns the tasks which have not halted.
func (s *Scheduler) Waiting() (ret []*Task) {
	for _, t := range s.tasks {
		if t.VM.State() != icvm.Halted {
			ret = append(ret, t)
		}
	}
	return ret
}

// cooperative creates a task for each stage, connected in a line through Queues.
// The last task has no output.
func cooperative(stages []Stage, opts []icvm.Option) (*Scheduler, []*icvm.Queue) {
	sched := &Scheduler{}
	queues := make([]*icvm.Queue, len(stages))
	for i, st := range stages {
		queues[i] = icvm.Values(st.Prelude...)
	}
	for i, st := range stages {
		t := &Task{
			Name: st.name(i),
			VM:   icvm.New(st.Program, append(opts[:len(opts):len(opts)], icvm.WithName(st.name(i)))...),
			In:   queues[i],
		}
		if i+1 < len(stages) {
			t.Out = queues[i+1]
		}
		sched.Add(t)
	}
	return sched, queues
}
