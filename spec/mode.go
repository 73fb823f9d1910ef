package spec

import "fmt"

// Mode defines how a parameter is resolved.
type Mode uint8

// Known addressing modes.
const (
	Position  Mode = 0 // x = mem[p]
	Immediate Mode = 1 // x = p
	Relative  Mode = 2 // x = mem[base + p]
)

func (m Mode) String() string {
	switch m {
	case Position:
		return "position"
	case Immediate:
		return "immediate"
	case Relative:
		return "relative"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}
