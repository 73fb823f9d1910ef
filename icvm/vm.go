// package icvm contains an implementation of the intcode execution engine.
//
// Basic usage:
//
//	vm := icvm.New(prog)
//	err := vm.RunToHalt(ctx, in, out)
//
// Cooperative usage, regaining control after every output:
//
//	y, err := vm.RunUntilBlocked(ctx, in, out)
package icvm

import (
	"context"
	"fmt"
	"math"

	"myceliumweb.org/intcode"
	"myceliumweb.org/intcode/icmem"
	"myceliumweb.org/intcode/spec"
)

type (
	Word = intcode.Word
	Addr = intcode.Addr
)

// ctxCheckMask controls how often a running machine polls its context.
const ctxCheckMask = 1<<12 - 1

type State uint8

const (
	Running State = iota
	Halted
	Faulted
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Halted:
		return "halted"
	case Faulted:
		return "faulted"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

type YieldKind uint8

const (
	yieldNone YieldKind = iota
	// YieldOutput is returned after an output instruction. Yield.Value holds the output.
	YieldOutput
	// YieldInput is returned when an input instruction found no value ready.
	// The instruction has not been consumed.
	YieldInput
	// YieldHalt is returned once the machine has halted.
	YieldHalt
)

func (k YieldKind) String() string {
	switch k {
	case YieldOutput:
		return "output"
	case YieldInput:
		return "input"
	case YieldHalt:
		return "halt"
	default:
		return "none"
	}
}

// Yield describes why RunUntilBlocked returned control to the caller.
type Yield struct {
	Kind  YieldKind
	Value Word
}

type Option func(vm *VM)

// WithMaxSteps causes the machine to fault with ErrStepLimit after n instructions.
// n == 0 means no limit.
func WithMaxSteps(n uint64) Option {
	return func(vm *VM) {
		vm.maxSteps = n
	}
}

// WithName sets the name reported in faults.
func WithName(name string) Option {
	return func(vm *VM) {
		vm.name = name
	}
}

// VM is a single intcode machine.
// A VM owns its memory and must only be used by one goroutine at a time.
type VM struct {
	name     string
	maxSteps uint64

	mem   *icmem.Memory
	pc    Word
	base  Word
	steps uint64
	state State
	err   error

	in  Source
	out Sink
}

// New returns a machine whose memory is initialized to a copy of prog.
func New(prog []Word, opts ...Option) *VM {
	return FromMemory(icmem.New(prog), opts...)
}

// FromMemory returns a machine which takes ownership of mem.
func FromMemory(mem *icmem.Memory, opts ...Option) *VM {
	vm := &VM{mem: mem}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

func (vm *VM) Name() string { return vm.name }
func (vm *VM) State() State { return vm.state }
func (vm *VM) PC() Word { return vm.pc }
func (vm *VM) Base() Word { return vm.base }
func (vm *VM) Steps() uint64 { return vm.steps }
func (vm *VM) Memory() *icmem.Memory { return vm.mem }

// Err returns the fault which stopped the machine, or nil.
// A non-nil error is always a *Fault.
func (vm *VM) Err() error {
	return vm.err
}

// Peek returns the value at address a.
func (vm *VM) Peek(a Addr) Word {
	return vm.mem.Read(a)
}

// Poke sets the value at address a.
func (vm *VM) Poke(a Addr, x Word) {
	vm.mem.Write(a, x)
}

// SetPorts binds the input and output used by Run.
func (vm *VM) SetPorts(in Source, out Sink) {
	vm.in = in
	vm.out = out
}

// Run executes the VM for a maximum of maxSteps, using the ports bound with SetPorts.
// The number of steps taken is returned.
// If Run returns 0, then nothing happened and the machine has stopped.
func (vm *VM) Run(ctx context.Context, maxSteps uint64) (steps uint64) {
	_, steps, _ = vm.exec(ctx, maxSteps, false)
	return steps
}

// RunToHalt executes until the machine halts, blocking on input as needed.
// It returns nil if the machine halted, or the *Fault which stopped it.
func (vm *VM) RunToHalt(ctx context.Context, in Source, out Sink) error {
	vm.SetPorts(in, out)
	_, _, err := vm.exec(ctx, math.MaxUint64, false)
	return err
}

// RunUntilBlocked executes until the machine emits an output, halts, or
// needs input which is not ready.
//
// Input is only considered not ready if in implements TrySource;
// otherwise RunUntilBlocked blocks on input like RunToHalt.
// Outputs are sent to out if it is not nil, and are also returned in the Yield.
func (vm *VM) RunUntilBlocked(ctx context.Context, in Source, out Sink) (Yield, error) {
	vm.SetPorts(in, out)
	y, _, err := vm.exec(ctx, math.MaxUint64, true)
	return y, err
}

func (vm *VM) exec(ctx context.Context, maxSteps uint64, yield bool) (Yield, uint64, error) {
	switch vm.state {
	case Halted:
		return Yield{Kind: YieldHalt}, 0, nil
	case Faulted:
		return Yield{}, 0, vm.err
	}
	var n uint64
	for n < maxSteps {
		if vm.steps&ctxCheckMask == 0 {
			if err := ctx.Err(); err != nil {
				vm.fail(fmt.Errorf("interrupted: %w", err))
				return Yield{}, n, vm.err
			}
		}
		if vm.maxSteps > 0 && vm.steps >= vm.maxSteps {
			vm.fail(fmt.Errorf("%w (%d)", ErrStepLimit, vm.maxSteps))
			return Yield{}, n, vm.err
		}
		y, err := vm.step(ctx, yield)
		if err != nil {
			vm.fail(err)
			return Yield{}, n, vm.err
		}
		if y.Kind == YieldInput {
			return y, n, nil
		}
		n++
		vm.steps++
		switch y.Kind {
		case YieldHalt:
			return y, n, nil
		case YieldOutput:
			if yield {
				return y, n, nil
			}
		}
	}
	return Yield{}, n, nil
}

// step executes the instruction at pc.
// If step returns an error, the machine state has not been modified.
func (vm *VM) step(ctx context.Context, tryInput bool) (Yield, error) {
	if vm.pc < 0 {
		return Yield{}, fmt.Errorf("%w: pc=%d", ErrNegativeAddress, vm.pc)
	}
	ix, err := spec.Decode(vm.mem.Read(Addr(vm.pc)))
	if err != nil {
		return Yield{}, err
	}
	switch ix.Op {
	case spec.Add:
		err = vm.binop(ix, func(a, b Word) Word { return a + b })
	case spec.Mul:
		err = vm.binop(ix, func(a, b Word) Word { return a * b })
	case spec.Input:
		return vm.input(ctx, ix, tryInput)
	case spec.Output:
		return vm.output(ix)
	case spec.JumpIfTrue:
		err = vm.jump(ix, true)
	case spec.JumpIfFalse:
		err = vm.jump(ix, false)
	case spec.LessThan:
		err = vm.binop(ix, func(a, b Word) Word { return bit(a < b) })
	case spec.Equals:
		err = vm.binop(ix, func(a, b Word) Word { return bit(a == b) })
	case spec.AdjustBase:
		err = vm.adjustBase(ix)
	case spec.Halt:
		vm.state = Halted
		return Yield{Kind: YieldHalt}, nil
	default:
		err = fmt.Errorf("%w %v", spec.ErrUnknownOp, ix.Op)
	}
	return Yield{}, err
}

// binop implements the three parameter instructions: mem[c] = fn(a, b)
func (vm *VM) binop(ix spec.Instr, fn func(a, b Word) Word) error {
	a, err := vm.param(ix, 1)
	if err != nil {
		return err
	}
	b, err := vm.param(ix, 2)
	if err != nil {
		return err
	}
	dst, err := vm.addr(ix, 3)
	if err != nil {
		return err
	}
	vm.mem.Write(dst, fn(a, b))
	vm.pc += 4
	return nil
}

func (vm *VM) input(ctx context.Context, ix spec.Instr, try bool) (Yield, error) {
	dst, err := vm.addr(ix, 1)
	if err != nil {
		return Yield{}, err
	}
	if vm.in == nil {
		return Yield{}, ErrNoInput
	}
	var x Word
	if ts, ok := vm.in.(TrySource); ok && try {
		var ready bool
		if x, ready, err = ts.TryReceive(); err != nil {
			return Yield{}, fmt.Errorf("input: %w", err)
		} else if !ready {
			return Yield{Kind: YieldInput}, nil
		}
	} else if x, err = vm.in.Receive(ctx); err != nil {
		return Yield{}, fmt.Errorf("input: %w", err)
	}
	vm.mem.Write(dst, x)
	vm.pc += 2
	return Yield{}, nil
}

func (vm *VM) output(ix spec.Instr) (Yield, error) {
	x, err := vm.param(ix, 1)
	if err != nil {
		return Yield{}, err
	}
	if vm.out != nil {
		if err := vm.out.Send(x); err != nil {
			return Yield{}, fmt.Errorf("output: %w", err)
		}
	}
	vm.pc += 2
	return Yield{Kind: YieldOutput, Value: x}, nil
}

func (vm *VM) jump(ix spec.Instr, ifTrue bool) error {
	a, err := vm.param(ix, 1)
	if err != nil {
		return err
	}
	if (a != 0) != ifTrue {
		vm.pc += 3
		return nil
	}
	target, err := vm.param(ix, 2)
	if err != nil {
		return err
	}
	vm.pc = target
	return nil
}

func (vm *VM) adjustBase(ix spec.Instr) error {
	a, err := vm.param(ix, 1)
	if err != nil {
		return err
	}
	vm.base += a
	vm.pc += 2
	return nil
}

// addr resolves the 1-based parameter i of ix to an address.
// An immediate parameter resolves to the address of the parameter itself.
func (vm *VM) addr(ix spec.Instr, i int) (Addr, error) {
	at := vm.pc + Word(i)
	var a Word
	switch m := ix.Mode(i); m {
	case spec.Position:
		a = vm.mem.Read(Addr(at))
	case spec.Immediate:
		a = at
	case spec.Relative:
		a = vm.base + vm.mem.Read(Addr(at))
	default:
		return 0, fmt.Errorf("%w %d", spec.ErrBadMode, m)
	}
	if a < 0 {
		return 0, fmt.Errorf("%w: %d (parameter %d)", ErrNegativeAddress, a, i)
	}
	return Addr(a), nil
}

// param returns the value of the 1-based parameter i of ix.
func (vm *VM) param(ix spec.Instr, i int) (Word, error) {
	a, err := vm.addr(ix, i)
	if err != nil {
		return 0, err
	}
	return vm.mem.Read(a), nil
}

func (vm *VM) fail(err error) {
	f := &Fault{
		Name:  vm.name,
		PC:    vm.pc,
		Steps: vm.steps,
		Err:   err,
	}
	if vm.pc >= 0 {
		f.Value = vm.mem.Read(Addr(vm.pc))
	}
	vm.state = Faulted
	vm.err = f
}

func bit(x bool) Word {
	if x {
		return 1
	}
	return 0
}
