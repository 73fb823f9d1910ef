package migrations

import (
	"testing"

	"github.com/stretchr/testify/require"

	"myceliumweb.org/intcode/internal/dbutil"
	"myceliumweb.org/intcode/internal/testutil"
)

func TestMigrate(t *testing.T) {
	ctx := testutil.Context(t)
	db := dbutil.NewTestDB(t)
	s1 := InitialState().ApplyStmt(`CREATE TABLE a (x INTEGER)`)
	s2 := s1.ApplyStmt(`CREATE TABLE b (y INTEGER)`)
	require.Equal(t, 1, s1.Version())
	require.Equal(t, 2, s2.Version())

	require.NoError(t, Migrate(ctx, db, s1))
	require.NoError(t, Migrate(ctx, db, s1))
	require.NoError(t, Migrate(ctx, db, s2))
	_, err := db.Exec(`INSERT INTO b (y) VALUES (1)`)
	require.NoError(t, err)

	var v int
	require.NoError(t, db.Get(&v, `PRAGMA user_version`))
	require.Equal(t, 2, v)

	require.Error(t, Migrate(ctx, db, s1))
}
