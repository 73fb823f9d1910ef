// package ictests contains intcode programs and test vectors shared by the package tests.
package ictests

import (
	"fmt"
	"strconv"
	"strings"

	"myceliumweb.org/intcode"
)

type Word = intcode.Word

// Prog is a program in the comma separated text format.
type Prog string

// Words parses the program, panicking if it is malformed.
func (p Prog) Words() []Word {
	parts := strings.Split(strings.TrimSpace(string(p)), ",")
	out := make([]Word, len(parts))
	for i, part := range parts {
		x, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			panic(err)
		}
		out[i] = x
	}
	return out
}

const (
	// Echo reads one value and writes it back.
	Echo Prog = "3,0,4,0,99"
	// MulImmediate multiplies address 4 by 3 in place, turning 33 into 99.
	MulImmediate Prog = "1002,4,3,4,33"
	// BigLiteral outputs a literal which does not fit in 32 bits.
	BigLiteral Prog = "104,1125899906842624,99"
	// BigProduct outputs 34915192 * 34915192.
	BigProduct Prog = "1102,34915192,34915192,7,4,7,99,0"
	// Quine outputs a copy of itself.
	Quine Prog = "109,1,204,-1,1001,100,1,100,1008,100,16,101,1006,101,0,99"

	// EqualPos8 outputs 1 if the input is equal to 8, using position mode.
	EqualPos8 Prog = "3,9,8,9,10,9,4,9,99,-1,8"
	// LessPos8 outputs 1 if the input is less than 8, using position mode.
	LessPos8 Prog = "3,9,7,9,10,9,4,9,99,-1,8"
	// EqualImm8 outputs 1 if the input is equal to 8, using immediate mode.
	EqualImm8 Prog = "3,3,1108,-1,8,3,4,3,99"
	// LessImm8 outputs 1 if the input is less than 8, using immediate mode.
	LessImm8 Prog = "3,3,1107,-1,8,3,4,3,99"
	// JumpPos outputs 0 if the input is 0 and 1 otherwise, using position mode.
	JumpPos Prog = "3,12,6,12,15,1,13,14,13,4,13,99,-1,0,1,9"
	// JumpImm outputs 0 if the input is 0 and 1 otherwise, using immediate mode.
	JumpImm Prog = "3,3,1105,-1,9,1101,0,0,12,4,12,99,1"
	// Compare8 outputs 999 if the input is below 8, 1000 if it is 8 and 1001 if it is above.
	Compare8 Prog = "3,21,1008,21,8,20,1005,20,22,107,8,21,20,1006,20,31,1106,0,36,98,0,0,1002,21,125,20,4,20,1105,1,46,104,999,1105,1,46,1101,1000,1,20,4,20,1105,1,46,98,99"

	// DoublerLoop reads x and outputs 2x, forever.
	DoublerLoop Prog = "3,11,1002,11,2,11,4,11,1105,1,0,0"
)

// MemVec is a program with no I/O and its memory after halting.
type MemVec struct {
	Prog Prog
	End  []Word
}

func MemVecs() []MemVec {
	return []MemVec{
		{"1,0,0,0,99", []Word{2, 0, 0, 0, 99}},
		{"2,3,0,3,99", []Word{2, 3, 0, 6, 99}},
		{"2,4,4,5,99,0", []Word{2, 4, 4, 5, 99, 9801}},
		{"1,1,1,4,99,5,6,0,99", []Word{30, 1, 1, 4, 2, 5, 6, 0, 99}},
		{"1,9,10,3,2,3,11,0,99,30,40,50", []Word{3500, 9, 10, 70, 2, 3, 11, 0, 99, 30, 40, 50}},
		{MulImmediate, []Word{1002, 4, 3, 4, 99}},
		{"1101,100,-1,4,0", []Word{1101, 100, -1, 4, 99}},
		// relative base addressing, writing through rb
		{"109,10,21101,5,6,0,99", []Word{109, 10, 21101, 5, 6, 0, 99, 0, 0, 0, 11}},
	}
}

// IOVec is a program run with an input sequence and the outputs it must produce.
type IOVec struct {
	Prog Prog
	In   []Word
	Out  []Word
}

func IOVecs() []IOVec {
	out := []IOVec{
		{Echo, []Word{42}, []Word{42}},
		{Echo, []Word{-7}, []Word{-7}},
		{BigLiteral, nil, []Word{1125899906842624}},
		{BigProduct, nil, []Word{1219070632396864}},
		{Quine, nil, Quine.Words()},
	}
	for _, x := range []Word{-3, 0, 7, 8, 9, 100} {
		out = append(out,
			IOVec{EqualPos8, []Word{x}, []Word{b2w(x == 8)}},
			IOVec{EqualImm8, []Word{x}, []Word{b2w(x == 8)}},
			IOVec{LessPos8, []Word{x}, []Word{b2w(x < 8)}},
			IOVec{LessImm8, []Word{x}, []Word{b2w(x < 8)}},
			IOVec{JumpPos, []Word{x}, []Word{b2w(x != 0)}},
			IOVec{JumpImm, []Word{x}, []Word{b2w(x != 0)}},
			IOVec{Compare8, []Word{x}, []Word{999 + b2w(x >= 8) + b2w(x > 8)}},
		)
	}
	return out
}

// Affine reads x, outputs 2x + k, and halts.
func Affine(k Word) Prog {
	return Prog(fmt.Sprintf("3,13,1002,13,2,13,1001,13,%d,13,4,13,99,0", k))
}

// AffineLoop reads x and outputs 2x + k, forever.
func AffineLoop(k Word) Prog {
	return Prog(fmt.Sprintf("3,15,1002,15,2,15,1001,15,%d,15,4,15,1105,1,0,0", k))
}

// Counter reads x, decrements a counter starting at n, halts if the counter reached zero,
// and otherwise outputs x + k and repeats.
func Counter(n, k Word) Prog {
	return Prog(fmt.Sprintf("3,20,1001,21,-1,21,1005,21,10,99,1001,20,%d,20,4,20,1105,1,0,0,0,%d", k, n))
}

func b2w(x bool) Word {
	if x {
		return 1
	}
	return 0
}
