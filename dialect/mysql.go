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

package dialect

// MySQL is the MySQL dialect.
var MySQL Dialect = mysql{}

type mysql struct{}

func (mysql) Name() string { return "mysql" }

func (mysql) Placeholder(int) string { return "?" }

func (mysql) QuoteIdent(ident string) string { return quote(ident, '`') }

func (mysql) SupportsReturning() bool { return false }

func (mysql) SupportsNotifications() bool { return false }

// Locks implements Dialect.
//
// MySQL named locks take strings; the decimal representation of the key is used.
func (mysql) Locks() *Locks {
	return &Locks{
		Lock:    "SELECT GET_LOCK(CAST(? AS CHAR), -1)",
		TryLock: "SELECT GET_LOCK(CAST(? AS CHAR), 0)",
		Unlock:  "SELECT RELEASE_LOCK(CAST(? AS CHAR))",
	}
}

func (mysql) InsertVerb(ignore bool) string {
	if ignore {
		return "INSERT IGNORE"
	}

	return "INSERT"
}

// OnConflict implements Dialect.
//
// MySQL can't specify a conflict target; any unique key conflict triggers the update.
func (d mysql) OnConflict(target, update []string) string {
	if len(update) == 0 {
		if len(target) == 0 {
			return ""
		}

		// no-op assignment keeps the existing row
		q := d.QuoteIdent(target[0])

		return " ON DUPLICATE KEY UPDATE " + q + " = " + q
	}

	return " ON DUPLICATE KEY UPDATE " + assignments(d, update, func(q string) string { return "VALUES(" + q + ")" })
}

func (mysql) ColumnsQuery(schema, table string) (string, []any) {
	q := "SELECT column_name, data_type FROM information_schema.columns WHERE "

	if schema == "" {
		q += "table_schema = DATABASE() AND table_name = ? ORDER BY ordinal_position"
		return q, []any{table}
	}

	q += "table_schema = ? AND table_name = ? ORDER BY ordinal_position"

	return q, []any{schema, table}
}

func (mysql) TablesQuery(schema string) (string, []any) {
	q := "SELECT table_name FROM information_schema.tables WHERE "

	if schema == "" {
		return q + "table_schema = DATABASE() ORDER BY table_name", nil
	}

	return q + "table_schema = ? ORDER BY table_name", []any{schema}
}

func init() {
	Register("mysql", MySQL)
}
