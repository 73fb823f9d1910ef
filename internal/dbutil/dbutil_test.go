package dbutil

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"myceliumweb.org/intcode/internal/testutil"
)

func TestDoTx(t *testing.T) {
	ctx := testutil.Context(t)
	db := NewTestDB(t)
	_, err := db.Exec(`CREATE TABLE kv (k TEXT PRIMARY KEY, v INTEGER NOT NULL)`)
	require.NoError(t, err)

	require.NoError(t, DoTx(ctx, db, func(tx *sqlx.Tx) error {
		_, err := tx.Exec(`INSERT INTO kv (k, v) VALUES (?, ?)`, "a", 1)
		return err
	}))
	errAbort := errors.New("abort")
	err = DoTx(ctx, db, func(tx *sqlx.Tx) error {
		if _, err := tx.Exec(`INSERT INTO kv (k, v) VALUES (?, ?)`, "b", 2); err != nil {
			return err
		}
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	n, err := DoTx1(ctx, db, func(tx *sqlx.Tx) (int, error) {
		var n int
		err := tx.Get(&n, `SELECT count(*) FROM kv`)
		return n, err
	})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	_, err = DoTx1(ctx, db, func(tx *sqlx.Tx) (int, error) {
		var v int
		err := tx.Get(&v, `SELECT v FROM kv WHERE k = ?`, "b")
		return v, err
	})
	require.True(t, IsNotFound(err))
}
