package icvm

import (
	"errors"
	"fmt"
)

var (
	ErrNegativeAddress = errors.New("negative address")
	ErrStepLimit       = errors.New("step limit exceeded")
	ErrNoInput         = errors.New("no input available")
)

// Fault is the error reported when a machine stops without halting.
// It records the program counter and the raw instruction word at the time of the fault.
type Fault struct {
	Name  string
	PC    Word
	Value Word
	Steps uint64
	Err   error
}

func (f *Fault) Error() string {
	name := "vm"
	if f.Name != "" {
		name = f.Name
	}
	return fmt.Sprintf("%s: fault at pc=%d (instruction %d) after %d steps: %v", name, f.PC, f.Value, f.Steps, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// AsFault returns the *Fault in err's chain, if any.
func AsFault(err error) (*Fault, bool) {
	var f *Fault
	ok := errors.As(err, &f)
	return f, ok
}
