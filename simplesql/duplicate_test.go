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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FerretDB/simplesql/internal/util/testutil"
)

func TestDuplicate(t *testing.T) {
	t.Parallel()

	ctx := testutil.Ctx(t)
	c := setupSQLite(t)
	table := testutil.TableName(t)

	_, err := c.Exec(ctx, "CREATE TABLE "+table+" (id INTEGER PRIMARY KEY, name TEXT, n INTEGER DEFAULT 0)")
	require.NoError(t, err)

	_, err = c.Insert(ctx, table, []map[string]any{
		{"name": "a", "n": 1},
		{"name": "b", "n": 2},
		{"name": "c", "n": 3},
	}, nil)
	require.NoError(t, err)

	t.Run("Copy", func(t *testing.T) {
		ids, err := c.Duplicate(ctx, table, []any{1, 3}, nil)
		require.NoError(t, err)
		assert.Equal(t, []any{int64(4), int64(5)}, ids)

		rows, err := c.All(ctx, ShapePositional, "SELECT name, n FROM "+table+" WHERE id > 3 ORDER BY id")
		require.NoError(t, err)
		assert.Equal(t, []any{[]any{"a", int64(1)}, []any{"c", int64(3)}}, rows)
	})

	t.Run("Except", func(t *testing.T) {
		ids, err := c.Duplicate(ctx, table, []any{2}, &DuplicateOptions{Except: []string{"n"}})
		require.NoError(t, err)
		require.Len(t, ids, 1)

		row, found, err := c.Ask(ctx, "SELECT name, n FROM "+table+" WHERE id = ?", ids[0])
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []any{"b", int64(0)}, row)
	})

	t.Run("NoIDs", func(t *testing.T) {
		ids, err := c.Duplicate(ctx, table, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, []any{}, ids)
	})

	t.Run("MissingTable", func(t *testing.T) {
		_, err := c.Duplicate(ctx, "no_such_table", []any{1}, nil)

		var ue *UsageError
		require.ErrorAs(t, err, &ue)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("MissingPrimaryKey", func(t *testing.T) {
		_, err := c.Duplicate(ctx, table, []any{1}, &DuplicateOptions{PrimaryKey: "uuid"})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}
