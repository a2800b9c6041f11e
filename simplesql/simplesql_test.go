// Copyright 2021 FerretDB Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package simplesql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/FerretDB/simplesql/internal/util/testutil"
	"github.com/FerretDB/simplesql/provider/pgxprovider"
	"github.com/FerretDB/simplesql/provider/sqlprovider"
)

// setupSQLite returns a new Conn for a fresh in-memory SQLite database.
func setupSQLite(tb testing.TB) *Conn {
	tb.Helper()

	ctx := testutil.Ctx(tb)
	l := testutil.Logger(tb)

	p, err := sqlprovider.New(ctx, testutil.SQLiteDB(tb), "sqlite", l)
	require.NoError(tb, err)

	c := New(p, l)

	tb.Cleanup(func() {
		require.NoError(tb, c.Close(ctx))
	})

	return c
}

// setupPostgreSQL returns a new Conn for the test PostgreSQL database.
//
// The test is skipped if PostgreSQL is not configured.
func setupPostgreSQL(tb testing.TB) *Conn {
	tb.Helper()

	u := testutil.PostgreSQLURL(tb)

	ctx := testutil.Ctx(tb)
	l := testutil.Logger(tb)

	p, err := pgxprovider.Connect(ctx, u, l)
	require.NoError(tb, err)

	c := New(p, l)

	tb.Cleanup(func() {
		require.NoError(tb, c.Close(ctx))
	})

	return c
}

// createTable creates a table with id, name, and n columns and inserts the given names.
func createTable(tb testing.TB, c *Conn, names ...string) string {
	tb.Helper()

	ctx := testutil.Ctx(tb)
	table := testutil.TableName(tb)

	_, err := c.Exec(ctx, "CREATE TABLE "+table+" (id INTEGER PRIMARY KEY, name TEXT UNIQUE, n INTEGER)")
	require.NoError(tb, err)

	for i, name := range names {
		q := "INSERT INTO " + table + " (id, name, n) VALUES (" +
			c.d.Placeholder(1) + ", " + c.d.Placeholder(2) + ", " + c.d.Placeholder(3) + ")"

		_, err = c.Exec(ctx, q, i+1, name, (i+1)*10)
		require.NoError(tb, err)
	}

	tb.Cleanup(func() {
		_, _ = c.Exec(context.Background(), "DROP TABLE IF EXISTS "+table)
	})

	return table
}
