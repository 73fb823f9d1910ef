// package migrations applies an append-only list of schema statements to a sqlite database.
// The number of statements applied is stored in the database's user_version.
package migrations

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.brendoncarroll.net/stdctx/logctx"
	"go.uber.org/zap"

	"myceliumweb.org/intcode/internal/dbutil"
)

// State is a database schema, described by the statements which produce it.
type State struct {
	stmts []string
}

// InitialState is the empty schema.
func InitialState() *State {
	return &State{}
}

// ApplyStmt returns a new State, which is s followed by stmt.
func (s *State) ApplyStmt(stmt string) *State {
	stmts := make([]string, 0, len(s.stmts)+1)
	stmts = append(stmts, s.stmts...)
	stmts = append(stmts, stmt)
	return &State{stmts: stmts}
}

// Version is the number of statements applied to reach the State.
func (s *State) Version() int {
	return len(s.stmts)
}

// Migrate brings db up to the desired State.
func Migrate(ctx context.Context, db *sqlx.DB, desired *State) error {
	return dbutil.DoTx(ctx, db, func(tx *sqlx.Tx) error {
		var current int
		if err := tx.Get(&current, `PRAGMA user_version`); err != nil {
			return err
		}
		if current > desired.Version() {
			return fmt.Errorf("database schema version %d is newer than %d", current, desired.Version())
		}
		for i := current; i < desired.Version(); i++ {
			if _, err := tx.Exec(desired.stmts[i]); err != nil {
				return fmt.Errorf("migration %d: %w", i, err)
			}
		}
		if current < desired.Version() {
			logctx.Info(ctx, "migrated database", zap.Int("from", current), zap.Int("to", desired.Version()))
		}
		// PRAGMA does not accept placeholders
		_, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, desired.Version()))
		return err
	})
}
