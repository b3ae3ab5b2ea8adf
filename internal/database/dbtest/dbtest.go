// Package dbtest opens the Postgres database used by store tests.
//
// The tests share one database, so run them with -p 1:
//
//	TEST_DATABASE_URL=postgres://... go test -p 1 ./...
package dbtest

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/batchpos/internal/database"
)

// Open connects to TEST_DATABASE_URL, applies the schema and empties every table.
// The test is skipped when the variable is unset.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.New(url)
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, database.Migrate(ctx, db))

	_, err = db.ExecContext(ctx, `
		TRUNCATE repayments, transaction_items, transactions, batches, products;
		UPDATE batch_sequence SET last_number = 0;
	`)
	require.NoError(t, err)

	return db
}
