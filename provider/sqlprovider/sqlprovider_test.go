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


package sqlprovider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FerretDB/simplesql/dialect"
	"github.com/FerretDB/simplesql/internal/util/testutil"
	"github.com/FerretDB/simplesql/provider"
)

func TestProvider(t *testing.T) {
	t.Parallel()

	ctx := testutil.Ctx(t)
	db := testutil.SQLiteDB(t)

	p, err := New(ctx, db, "sqlite", testutil.Logger(t))
	require.NoError(t, err)

	assert.Equal(t, dialect.SQLite, p.Dialect())
	assert.Same(t, db, p.DB())

	t.Run("Exec", func(t *testing.T) {
		_, err := p.Exec(ctx, "CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT)")
		require.NoError(t, err)

		n, err := p.Exec(ctx, "INSERT INTO items (id, name) VALUES (1, 'a'), (2, ?)", "b")
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("Query", func(t *testing.T) {
		cur, err := p.Query(ctx, "SELECT id, name AS title FROM items ORDER BY id")
		require.NoError(t, err)

		defer cur.Close()

		var rows [][]any

		for cur.Next() {
			values, err := cur.Values()
			require.NoError(t, err)

			rows = append(rows, values)
		}

		require.NoError(t, cur.Err())
		assert.Equal(t, []string{"id", "title"}, cur.Columns())
		assert.Equal(t, [][]any{{int64(1), "a"}, {int64(2), "b"}}, rows)

		require.NoError(t, cur.Close())
		require.NoError(t, cur.Close())
	})

	t.Run("QueryError", func(t *testing.T) {
		_, err := p.Query(ctx, "SELECT * FROM no_such_table")
		require.Error(t, err)
	})

	t.Run("Notifications", func(t *testing.T) {
		_, err := p.WaitForNotification(ctx)
		assert.ErrorIs(t, err, provider.ErrUnsupported)
	})

	// the session is released, but db is not closed
	require.NoError(t, p.Close(ctx))
	require.NoError(t, db.PingContext(ctx))
}

func TestNew(t *testing.T) {
	t.Parallel()

	ctx := testutil.Ctx(t)

	_, err := New(ctx, nil, "sqlite", nil)
	require.Error(t, err)

	_, err = New(ctx, testutil.SQLiteDB(t), "odbc", nil)
	require.Error(t, err)
}

func TestOpen(t *testing.T) {
	t.Parallel()

	ctx := testutil.Ctx(t)

	p, err := Open(ctx, "sqlite", ":memory:", testutil.Logger(t))
	require.NoError(t, err)

	cur, err := p.Query(ctx, "SELECT 1")
	require.NoError(t, err)
	require.True(t, cur.Next())
	require.NoError(t, cur.Close())

	require.NoError(t, p.Close(ctx))
	assert.Error(t, p.DB().PingContext(ctx))
}
