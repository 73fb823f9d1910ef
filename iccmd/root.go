// package iccmd implements the intcode command line tool.
package iccmd

import (
	"context"
	"os"
	"strconv"

	"github.com/jmoiron/sqlx"
	"go.brendoncarroll.net/star"
	"go.brendoncarroll.net/stdctx/logctx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"myceliumweb.org/intcode"
	"myceliumweb.org/intcode/icjournal"
	"myceliumweb.org/intcode/icprog"
	"myceliumweb.org/intcode/icproc"
	"myceliumweb.org/intcode/internal/dbutil"
)

type Word = intcode.Word

func Root() star.Command {
	return root
}

var root = star.NewDir(star.Metadata{
	Short: "run intcode programs",
}, map[star.Symbol]star.Command{
	"run":      runCmd,
	"pipeline": pipelineCmd,
	"loop":     loopCmd,
	"topo":     topoCmd,

	"disasm":  disasmCmd,
	"history": historyCmd,
})

var dbParam = star.Param[*sqlx.DB]{
	Name:    "db",
	Default: star.Ptr(":memory:"),
	Parse: func(x string) (*sqlx.DB, error) {
		db, err := dbutil.Open(x)
		if err != nil {
			return nil, err
		}
		if err := icjournal.Setup(context.Background(), db); err != nil {
			return nil, err
		}
		return db, nil
	},
}

var progParam = star.Param[icprog.Program]{
	Name: "f",
	Parse: func(x string) (icprog.Program, error) {
		f, err := os.Open(x)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return icprog.ParseReader(f)
	},
}

var topoParam = star.Param[*icproc.Topology]{
	Name: "t",
	Parse: func(x string) (*icproc.Topology, error) {
		data, err := os.ReadFile(x)
		if err != nil {
			return nil, err
		}
		return icproc.ParseTopology(data)
	},
}

var inParam = star.Param[Word]{
	Name:     "in",
	Repeated: true,
	Parse:    parseWord,
}

var phaseParam = star.Param[Word]{
	Name:     "phase",
	Repeated: true,
	Parse:    parseWord,
}

var seedParam = star.Param[Word]{
	Name:    "seed",
	Default: star.Ptr("0"),
	Parse:   parseWord,
}

var designatedParam = star.Param[int]{
	Name:    "designated",
	Default: star.Ptr("0"),
	Parse:   strconv.Atoi,
}

var maxStepsParam = star.Param[uint64]{
	Name:    "max-steps",
	Default: star.Ptr("0"),
	Parse: func(x string) (uint64, error) {
		return strconv.ParseUint(x, 10, 64)
	},
}

var cooperativeParam = star.Param[bool]{
	Name:    "coop",
	Default: star.Ptr("false"),
	Parse:   strconv.ParseBool,
}

var limitParam = star.Param[int]{
	Name:    "n",
	Default: star.Ptr("20"),
	Parse:   strconv.Atoi,
}

var logLevelParam = star.Param[zapcore.Level]{
	Name:    "log-level",
	Default: star.Ptr("warn"),
	Parse:   zapcore.ParseLevel,
}

func parseWord(x string) (Word, error) {
	return strconv.ParseInt(x, 10, 64)
}

// newContext returns the command's context, carrying a logger at the requested level.
func newContext(c star.Context) (context.Context, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(logLevelParam.Load(c))
	cfg.Encoding = "console"
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logctx.NewContext(c.Context, l), nil
}

// record adds an entry to the journal, and then returns runErr.
func record(ctx context.Context, db *sqlx.DB, r icjournal.Run, runErr error) error {
	j := icjournal.New(db)
	id, err := j.Record(ctx, r)
	if err != nil {
		logctx.Error(ctx, "recording run", zap.Error(err))
		if runErr == nil {
			return err
		}
		return runErr
	}
	logctx.Info(ctx, "recorded run", zap.Int64("id", id), zap.String("kind", r.Kind), zap.String("status", string(r.Status)))
	return runErr
}
