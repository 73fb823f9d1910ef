package spec

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownOp      = errors.New("unknown opcode")
	ErrBadMode        = errors.New("invalid addressing mode")
	ErrWriteImmediate = errors.New("write destination in immediate mode")
)

// MaxParams is the largest arity of any operation.
const MaxParams = 3

// Instr is a decoded instruction word.
type Instr struct {
	Raw   int64
	Op    Op
	Modes [MaxParams]Mode
}

// Width returns the number of words occupied by the instruction.
func (in Instr) Width() int {
	return in.Op.Width()
}

// Mode returns the mode of the 1-based parameter i.
func (in Instr) Mode(i int) Mode {
	return in.Modes[i-1]
}

func (in Instr) String() string {
	return fmt.Sprintf("%v%v", in.Op, in.Modes[:in.Op.Arity()])
}

var modeDivisors = [MaxParams]int64{100, 1000, 10000}

// Decode splits a raw instruction word into an operation and its addressing modes.
// Mode digits beyond the arity of the operation are ignored.
func Decode(v int64) (Instr, error) {
	code := v % 100
	if code <= 0 || !Op(code).Valid() {
		return Instr{Raw: v}, fmt.Errorf("%w %d", ErrUnknownOp, code)
	}
	in := Instr{Raw: v, Op: Op(code)}
	info := in.Op.Info()
	for i := 0; i < info.Arity; i++ {
		m := Mode((v / modeDivisors[i]) % 10)
		switch m {
		case Position, Relative:
		case Immediate:
			if info.Dst == i+1 {
				return in, fmt.Errorf("%w: parameter %d of %v", ErrWriteImmediate, i+1, in.Op)
			}
		default:
			return in, fmt.Errorf("%w %d for parameter %d", ErrBadMode, uint8(m), i+1)
		}
		in.Modes[i] = m
	}
	return in, nil
}
