// package icproc composes intcode machines into processes connected by channels.
//
// Each Process runs one machine on its own goroutine.
// Processes are wired into a Pipeline, where each stage feeds the next,
// or a Loop, where the last stage also feeds the first.
package icproc

import (
	"context"
	"errors"

	"go.brendoncarroll.net/stdctx/logctx"
	"go.uber.org/zap"

	"myceliumweb.org/intcode"
	"myceliumweb.org/intcode/icchan"
	"myceliumweb.org/intcode/icvm"
)

type Word = intcode.Word

// Process is a machine bound to an input and an output channel endpoint.
// When the machine stops, for any reason, both endpoints are closed, so that
// the processes on the other side observe a broken channel.
type Process struct {
	name string
	vm   *icvm.VM
	in   *icchan.Receiver
	out  *icchan.Sender

	done chan struct{}
	err  error
}

func NewProcess(name string, vm *icvm.VM, in *icchan.Receiver, out *icchan.Sender) *Process {
	return &Process{
		name: name,
		vm:   vm,
		in:   in,
		out:  out,
		done: make(chan struct{}),
	}
}

func (p *Process) Name() string {
	return p.name
}

// VM returns the machine run by the process.
// It must not be used until the process has exited.
func (p *Process) VM() *icvm.VM {
	return p.vm
}

// Run runs the machine to completion on the calling goroutine.
// It returns nil if the machine halted, or the *icvm.Fault which stopped it.
func (p *Process) Run(ctx context.Context) error {
	defer close(p.done)
	logctx.Debug(ctx, "process started", zap.String("proc", p.name))
	err := p.vm.RunToHalt(ctx, p.in, p.out)
	p.in.Close()
	p.out.Close()
	p.err = err
	switch {
	case err == nil:
		logctx.Info(ctx, "process halted", zap.String("proc", p.name), zap.Uint64("steps", p.vm.Steps()))
	case IsShutdown(err):
		logctx.Debug(ctx, "process shut down", zap.String("proc", p.name), zap.Error(err))
	default:
		logctx.Error(ctx, "process faulted", zap.String("proc", p.name), zap.Error(err))
	}
	return err
}

// Start runs the process on a new goroutine.
func (p *Process) Start(ctx context.Context) {
	go p.Run(ctx)
}

// Done is closed when the process has exited.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Await blocks until the process has exited, and returns the result of Run.
func (p *Process) Await(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.done:
		return p.err
	}
}

// Err returns the result of Run, or nil if the process has not exited.
func (p *Process) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// IsShutdown returns true if err only reports that a process was stopped by its
// neighbors going away or by its context ending, rather than by a problem in its own program.
func IsShutdown(err error) bool {
	return errors.Is(err, icchan.ErrBrokenChannel) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// rootCause picks the most informative error from errs, which are ordered by stage.
// Faults in a program take precedence over the shutdowns they cause.
func rootCause(errs []error) error {
	var first error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if !IsShutdown(err) {
			return err
		}
		if first == nil {
			first = err
		}
	}
	return first
}
