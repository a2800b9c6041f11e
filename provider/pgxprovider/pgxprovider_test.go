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

package pgxprovider

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FerretDB/simplesql/internal/util/testutil"
)

func TestCheckSetting(t *testing.T) {
	t.Parallel()

	for name, tc := range map[string]struct {
		name  string
		value string
		ok    bool
	}{
		"UTF8":            {"server_encoding", "UTF8", true},
		"UTF-8":           {"client_encoding", "utf-8", true},
		"Latin1":          {"server_encoding", "LATIN1", false},
		"StandardOn":      {"standard_conforming_strings", "on", true},
		"StandardOff":     {"standard_conforming_strings", "off", false},
		"OtherIsIgnored":  {"work_mem", "4MB", true},
		"VersionIgnored":  {"server_version", "16.2", true},
		"TimezoneIgnored": {"TimeZone", "UTC", true},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := checkSetting(tc.name, tc.value)
			if tc.ok {
				assert.NoError(t, err)
				return
			}

			assert.Error(t, err)
		})
	}
}

func TestProvider(t *testing.T) {
	t.Parallel()

	ctx := testutil.Ctx(t)

	p, err := Connect(ctx, testutil.PostgreSQLURL(t), testutil.Logger(t))
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, p.Close(context.Background()))
	})

	t.Run("Query", func(t *testing.T) {
		c, err := p.Query(ctx, "SELECT 1 AS a, 'x' AS b")
		require.NoError(t, err)

		defer c.Close()

		require.True(t, c.Next())
		assert.Equal(t, []string{"a", "b"}, c.Columns())

		values, err := c.Values()
		require.NoError(t, err)
		assert.Equal(t, []any{int32(1), "x"}, values)

		assert.False(t, c.Next())
		require.NoError(t, c.Err())
	})

	t.Run("QueryError", func(t *testing.T) {
		c, err := p.Query(ctx, "SELECT * FROM no_such_table")
		if err == nil {
			assert.False(t, c.Next())
			err = c.Err()
			c.Close()
		}

		require.Error(t, err)
	})

	t.Run("Exec", func(t *testing.T) {
		n, err := p.Exec(ctx, "CREATE TEMPORARY TABLE pgxprovider_exec (id int)")
		require.NoError(t, err)
		assert.Zero(t, n)

		n, err = p.Exec(ctx, "INSERT INTO pgxprovider_exec VALUES (1), (2)")
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("Notification", func(t *testing.T) {
		_, err := p.Exec(ctx, `LISTEN "pgxprovider_test"`)
		require.NoError(t, err)

		_, err = p.Exec(ctx, `SELECT pg_notify('pgxprovider_test', 'payload')`)
		require.NoError(t, err)

		wctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		n, err := p.WaitForNotification(wctx)
		require.NoError(t, err)
		assert.Equal(t, "pgxprovider_test", n.Channel)
		assert.Equal(t, "payload", n.Payload)
	})
}
