package spec

// Info is information about Operations
type Info struct {
	Mnemonic string `json:"mnemonic"`
	// Arity is the number of parameters following the instruction word.
	Arity int `json:"arity"`
	// Dst is the 1-based index of the parameter written to, or 0 if nothing is written.
	Dst int `json:"dst"`
}

func (o Op) Info() Info {
	if int(o) >= len(infos) {
		return Info{}
	}
	return infos[o]
}

// Arity returns the number of parameters an operation with this code takes
func (o Op) Arity() int {
	return o.Info().Arity
}

// Width returns the number of words the instruction occupies, including the instruction word.
func (o Op) Width() int {
	return 1 + o.Arity()
}

var infos = func() (ret [100]Info) {
	m := map[Op]Info{
		Add: {"add", 3, 3},
		Mul: {"mul", 3, 3},

		// I/O
		Input:  {"in", 1, 1},
		Output: {"out", 1, 0},

		// control flow
		JumpIfTrue:  {"jt", 2, 0},
		JumpIfFalse: {"jf", 2, 0},
		Halt:        {"hlt", 0, 0},

		LessThan: {"lt", 3, 3},
		Equals:   {"eq", 3, 3},

		AdjustBase: {"arb", 1, 0},
	}
	for k, v := range m {
		ret[k] = v
	}
	return ret
}()
