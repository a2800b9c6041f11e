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

package testutil

import (
	"database/sql"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite" // register database/sql driver
)

// PostgreSQLURLEnv is the environment variable with PostgreSQL URL for tests.
const PostgreSQLURLEnv = "SIMPLESQL_TEST_POSTGRESQL_URL"

// PostgreSQLURL returns PostgreSQL URL for testing.
//
// Test is skipped in -short mode or if the URL is not configured.
func PostgreSQLURL(tb testing.TB) string {
	tb.Helper()

	if testing.Short() {
		tb.Skip("skipping in -short mode")
	}

	u := os.Getenv(PostgreSQLURLEnv)
	if u == "" {
		tb.Skipf("%s is not set", PostgreSQLURLEnv)
	}

	return u
}

// SQLiteDB returns a new in-memory SQLite database for testing.
//
// Every connection of the returned *sql.DB has its own database;
// tests should use a single session.
func SQLiteDB(tb testing.TB) *sql.DB {
	tb.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(tb, err)

	tb.Cleanup(func() {
		require.NoError(tb, db.Close())
	})

	return db
}

// TableName returns a unique lowercase table name for that test.
//
// It is safe to use with a shared database.
func TableName(tb testing.TB) string {
	tb.Helper()

	name := strings.ToLower(tb.Name())

	name = strings.NewReplacer("/", "_", " ", "_", "$", "_", "#", "_").Replace(name)
	if len(name) > 40 {
		name = name[len(name)-40:]
	}

	name = "t_" + name + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]

	require.Less(tb, len(name), 64)

	return name
}

// LockName returns a unique advisory lock name for that test.
func LockName(tb testing.TB) string {
	tb.Helper()

	return tb.Name() + "/" + uuid.NewString()
}
