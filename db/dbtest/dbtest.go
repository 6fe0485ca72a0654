// Package dbtest opens throwaway in-memory databases with the full schema.
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/padraicbc/golfpickem/db"
)

var seq atomic.Int64

// New returns a migrated in-memory SQLite database that is closed with the test.
func New(t testing.TB) *bun.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", name, seq.Add(1))

	bdb, err := db.OpenSQLite(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bdb.Close() })

	require.NoError(t, db.CreateTables(context.Background(), bdb))
	return bdb
}
