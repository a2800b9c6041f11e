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

	"github.com/FerretDB/simplesql/dialect"
	"github.com/FerretDB/simplesql/internal/util/testutil"
)

func TestScopeBuild(t *testing.T) {
	t.Parallel()

	base := NewScope("SELECT * FROM users WHERE org = ?", 1)
	active := base.Where("active = ?", true)
	page := active.Where("name <> '?'").OrderBy("id").Paginate(3, 10)

	q, args, err := base.Build(dialect.Postgres)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM (SELECT * FROM users WHERE org = $1) AS "_scope"`, q)
	assert.Equal(t, []any{1}, args)

	q, args, err = page.Build(dialect.Postgres)
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT * FROM (SELECT * FROM users WHERE org = $1) AS "_scope" WHERE (active = $2) AND (name <> '?')`+
			` ORDER BY id LIMIT 10 OFFSET 20`,
		q,
	)
	assert.Equal(t, []any{1, true}, args)

	q, _, err = active.Build(dialect.MySQL)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM (SELECT * FROM users WHERE org = ?) AS `_scope` WHERE (active = ?)", q)

	// scopes are immutable
	q, args, err = base.Build(dialect.SQLite)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM (SELECT * FROM users WHERE org = ?) AS "_scope"`, q)
	assert.Equal(t, []any{1}, args)

	for _, p := range [][2]int{{0, 10}, {1, 0}, {-1, -1}} {
		_, _, err = base.Paginate(p[0], p[1]).Build(dialect.Postgres)

		var ue *UsageError
		require.ErrorAs(t, err, &ue)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
}

func TestRewritePlaceholders(t *testing.T) {
	t.Parallel()

	for in, expected := range map[string]string{
		"a = ? AND b = ?":         "a = $1 AND b = $2",
		`"weird?" = ? AND c = '?'`: `"weird?" = $1 AND c = '?'`,
		"c = 'it''s ?' AND d = ?": "c = 'it''s ?' AND d = $1",
		"no placeholders":         "no placeholders",
	} {
		assert.Equal(t, expected, rewritePlaceholders(dialect.Postgres, in), in)
		assert.Equal(t, in, rewritePlaceholders(dialect.MySQL, in), in)
	}
}

func TestScope(t *testing.T) {
	t.Parallel()

	ctx := testutil.Ctx(t)
	c := setupSQLite(t)
	table := createTable(t, c, "a", "b", "c", "d", "e")

	s := NewScope("SELECT id, name FROM "+table+" WHERE n >= ?", 20).OrderBy("id DESC")

	rows, err := c.AllScope(ctx, ShapePositional, s.Paginate(1, 2))
	require.NoError(t, err)
	assert.Equal(t, []any{[]any{int64(5), "e"}, []any{int64(4), "d"}}, rows)

	rows, err = c.AllScope(ctx, ShapePositional, s.Paginate(2, 3))
	require.NoError(t, err)
	assert.Equal(t, []any{[]any{int64(2), "b"}}, rows)

	var names []any
	err = c.EachScope(ctx, ShapeRecord, s.Where("name <> ?", "c"), func(row any) error {
		names = append(names, row.(*Record).Value("name"))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []any{"e", "d", "b"}, names)

	n, err := c.Count(ctx, s.Paginate(1, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	n, err = c.Count(ctx, s.Where("id > ?", 100))
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = c.Count(ctx, s.Paginate(0, 1))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	err = c.EachScope(ctx, ShapeRecord, s, nil)
	assert.ErrorIs(t, err, ErrHandlerRequired)
}
