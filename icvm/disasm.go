package icvm

import (
	"fmt"
	"strings"

	"myceliumweb.org/intcode/icmem"
	"myceliumweb.org/intcode/spec"
)

// Line is one disassembled instruction.
type Line struct {
	Addr  Addr
	Words []Word
	Instr spec.Instr
	// Data is true if the word at Addr does not decode as an instruction.
	Data bool
}

func (l Line) String() string {
	if l.Data {
		return fmt.Sprintf("%6d  data %d", l.Addr, l.Words[0])
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%6d  %-3v", l.Addr, l.Instr.Op)
	for i := 1; i < len(l.Words); i++ {
		if i > 1 {
			sb.WriteString(",")
		}
		sb.WriteString(" ")
		sb.WriteString(operand(l.Instr.Mode(i), l.Words[i]))
	}
	return sb.String()
}

func operand(m spec.Mode, p Word) string {
	switch m {
	case spec.Immediate:
		return fmt.Sprintf("#%d", p)
	case spec.Relative:
		if p < 0 {
			return fmt.Sprintf("[rb%d]", p)
		}
		return fmt.Sprintf("[rb+%d]", p)
	default:
		return fmt.Sprintf("[%d]", p)
	}
}

// Disassemble decodes the memory in [from, to) as a linear sequence of instructions.
// Words which do not decode are emitted as data, one word per Line.
func Disassemble(m *icmem.Memory, from, to Addr) []Line {
	var out []Line
	for a := from; a < to; {
		raw := m.Read(a)
		ix, err := spec.Decode(raw)
		if err != nil {
			out = append(out, Line{Addr: a, Words: []Word{raw}, Data: true})
			a++
			continue
		}
		w := ix.Width()
		words := make([]Word, w)
		for i := range words {
			words[i] = m.Read(a + Addr(i))
		}
		out = append(out, Line{Addr: a, Words: words, Instr: ix})
		a += Addr(w)
	}
	return out
}
