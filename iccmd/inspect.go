package iccmd

import (
	"go.brendoncarroll.net/star"

	"myceliumweb.org/intcode/icjournal"
	"myceliumweb.org/intcode/icmem"
	"myceliumweb.org/intcode/icvm"
)

var disasmCmd = star.Command{
	Metadata: star.Metadata{
		Short: "print a listing of a program",
	},
	Flags: []star.IParam{progParam},
	F: func(c star.Context) error {
		prog := progParam.Load(c)
		c.Printf("PROGRAM: %v (%d words)\n", prog.Fingerprint(), len(prog))
		for _, l := range icvm.Disassemble(icmem.New(prog), 0, icvm.Addr(len(prog))) {
			c.Printf("%v\n", l)
		}
		return nil
	},
}

var historyCmd = star.Command{
	Metadata: star.Metadata{
		Short: "list the most recent runs in the journal",
	},
	Flags: []star.IParam{dbParam, limitParam},
	F: func(c star.Context) error {
		j := icjournal.New(dbParam.Load(c))
		runs, err := j.List(c.Context, limitParam.Load(c))
		if err != nil {
			return err
		}
		for _, r := range runs {
			c.Printf("%-6d %s %-14s %v stages=%d steps=%d %-7s in=[%s] out=[%s] %s\n",
				r.ID, r.Stamp(), r.Kind, r.Fingerprint(), r.Stages, r.Steps, r.Status, r.Input, r.Output, r.Error)
		}
		return nil
	},
}
