// package spec contains the instruction set of the intcode machine
package spec

import "fmt"

// Op is an operation selected by the low two decimal digits of an instruction word.
type Op uint8

const (
	Unknown Op = 0

	// Add: mem[c] = a + b
	Add Op = 1
	// Mul: mem[c] = a * b
	Mul Op = 2
	// Input: mem[a] = receive()
	Input Op = 3
	// Output: send(a)
	Output Op = 4
	// JumpIfTrue: pc = b if a != 0
	JumpIfTrue Op = 5
	// JumpIfFalse: pc = b if a == 0
	JumpIfFalse Op = 6
	// LessThan: mem[c] = a < b
	LessThan Op = 7
	// Equals: mem[c] = a == b
	Equals Op = 8
	// AdjustBase: base += a
	AdjustBase Op = 9

	// Halt stops the machine
	Halt Op = 99
)

// Ops lists every valid operation in numeric order.
var Ops = []Op{Add, Mul, Input, Output, JumpIfTrue, JumpIfFalse, LessThan, Equals, AdjustBase, Halt}

func (o Op) String() string {
	if !o.Valid() {
		return fmt.Sprintf("Op(%d)", uint8(o))
	}
	return infos[o].Mnemonic
}

// Valid returns true if o is part of the instruction set.
func (o Op) Valid() bool {
	return int(o) < len(infos) && infos[o].Mnemonic != ""
}
