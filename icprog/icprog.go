// package icprog converts between intcode program text and program images.
//
// The text format is a single line of comma separated base 10 integers:
//
//	1002,4,3,4,33
package icprog

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.brendoncarroll.net/exp/slices2"

	"myceliumweb.org/intcode"
	"myceliumweb.org/intcode/icvm"
)

type Word = intcode.Word

// MaxTextSize is the largest program text accepted by ParseReader.
const MaxTextSize = 64 << 20

var ErrEmpty = errors.New("empty program")

// Program is an initial memory image.
type Program []Word

// Parse parses program text.
// Whitespace around each value, and around the program, is ignored.
func Parse(text string) (Program, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmpty
	}
	parts := strings.Split(text, ",")
	prog := make(Program, len(parts))
	for i, part := range parts {
		x, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing value %d (%q): %w", i, part, err)
		}
		prog[i] = x
	}
	return prog, nil
}

// ParseReader reads all of r and parses it.
func ParseReader(r io.Reader) (Program, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxTextSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxTextSize {
		return nil, fmt.Errorf("program text exceeds %d bytes", MaxTextSize)
	}
	return Parse(string(data))
}

// Format returns the canonical text for the program.
func (p Program) Format() string {
	return strings.Join(slices2.Map([]Word(p), func(x Word) string {
		return strconv.FormatInt(x, 10)
	}), ",")
}

func (p Program) String() string {
	return p.Format()
}

// Fingerprint hashes the canonical text of the program.
// Programs which differ only in whitespace have the same Fingerprint.
func (p Program) Fingerprint() intcode.Fingerprint {
	return intcode.Hash(nil, []byte(p.Format()))
}

// Clone returns a copy of p.
func (p Program) Clone() Program {
	return append(Program{}, p...)
}

// Load parses text and returns a machine ready to run it, with pc and relative base at 0.
func Load(text string, opts ...icvm.Option) (*icvm.VM, error) {
	prog, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return icvm.New(prog, opts...), nil
}
