// package icjournal records the runs performed by the command line tool in a sqlite database.
package icjournal

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.brendoncarroll.net/tai64"

	"myceliumweb.org/intcode"
	"myceliumweb.org/intcode/icprog"
	"myceliumweb.org/intcode/internal/dbutil"
	"myceliumweb.org/intcode/internal/migrations"
)

type Status string

const (
	StatusHalted  Status = "halted"
	StatusFaulted Status = "faulted"
)

var ErrNotFound = errors.New("run not found")

var currentSchema = func() *migrations.State {
	x := migrations.InitialState()
	x = x.ApplyStmt(`CREATE TABLE runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,
		program BLOB NOT NULL,
		stages INTEGER NOT NULL,
		input TEXT NOT NULL,
		output TEXT NOT NULL,
		status TEXT NOT NULL,
		steps INTEGER NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		stamp_s INTEGER NOT NULL,
		stamp_ns INTEGER NOT NULL
	)`)
	x = x.ApplyStmt(`CREATE INDEX runs_program ON runs (program)`)
	return x
}()

// Setup creates or upgrades the journal tables in db.
func Setup(ctx context.Context, db *sqlx.DB) error {
	return migrations.Migrate(ctx, db, currentSchema)
}

// Run is one entry in the journal.
type Run struct {
	ID int64 `db:"id"`
	// Kind is the command which performed the run: run, pipeline, loop...
	Kind    string `db:"kind"`
	Program []byte `db:"program"`
	Stages  int    `db:"stages"`
	Input   string `db:"input"`
	Output  string `db:"output"`
	Status  Status `db:"status"`
	Steps   int64  `db:"steps"`
	Error   string `db:"error"`

	StampS  int64 `db:"stamp_s"`
	StampNS int64 `db:"stamp_ns"`
}

// NewRun returns a Run describing prog being run with the given inputs and outputs.
// If err is non-nil the run is recorded as faulted.
func NewRun(kind string, prog icprog.Program, stages int, in, out []intcode.Word, steps uint64, err error) Run {
	fp := prog.Fingerprint()
	r := Run{
		Kind:    kind,
		Program: fp[:],
		Stages:  stages,
		Input:   icprog.Program(in).Format(),
		Output:  icprog.Program(out).Format(),
		Status:  StatusHalted,
		Steps:   int64(steps),
	}
	if err != nil {
		r.Status = StatusFaulted
		r.Error = err.Error()
	}
	return r
}

// Fingerprint returns the fingerprint of the program which was run.
func (r *Run) Fingerprint() (ret intcode.Fingerprint) {
	copy(ret[:], r.Program)
	return ret
}

// Stamp returns the time the run was recorded, in the external TAI64N format.
func (r *Run) Stamp() string {
	return fmt.Sprintf("@%016x%08x", uint64(r.StampS), uint32(r.StampNS))
}

type Journal struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Journal {
	return &Journal{db: db}
}

// Record adds r to the journal, and returns its ID.
func (j *Journal) Record(ctx context.Context, r Run) (int64, error) {
	ts := tai64.Now()
	r.StampS = int64(ts.Seconds)
	r.StampNS = int64(ts.Nanoseconds)
	return dbutil.DoTx1(ctx, j.db, func(tx *sqlx.Tx) (int64, error) {
		var id int64
		err := tx.Get(&id, `INSERT INTO runs (kind, program, stages, input, output, status, steps, error, stamp_s, stamp_ns)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id`,
			r.Kind, r.Program, r.Stages, r.Input, r.Output, r.Status, r.Steps, r.Error, r.StampS, r.StampNS)
		return id, err
	})
}

// Get returns the run with the given id.
func (j *Journal) Get(ctx context.Context, id int64) (*Run, error) {
	return dbutil.DoTx1(ctx, j.db, func(tx *sqlx.Tx) (*Run, error) {
		var r Run
		if err := tx.Get(&r, `SELECT * FROM runs WHERE id = ?`, id); err != nil {
			if dbutil.IsNotFound(err) {
				return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
			}
			return nil, err
		}
		return &r, nil
	})
}

// List returns up to limit runs, most recent first.
func (j *Journal) List(ctx context.Context, limit int) ([]Run, error) {
	return dbutil.DoTx1(ctx, j.db, func(tx *sqlx.Tx) ([]Run, error) {
		var runs []Run
		err := tx.Select(&runs, `SELECT * FROM runs ORDER BY id DESC LIMIT ?`, limit)
		return runs, err
	})
}

// ForProgram returns the runs of the program with fingerprint fp, most recent first.
func (j *Journal) ForProgram(ctx context.Context, fp intcode.Fingerprint) ([]Run, error) {
	return dbutil.DoTx1(ctx, j.db, func(tx *sqlx.Tx) ([]Run, error) {
		var runs []Run
		err := tx.Select(&runs, `SELECT * FROM runs WHERE program = ? ORDER BY id DESC`, fp[:])
		return runs, err
	})
}
