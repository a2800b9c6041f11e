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

// SQLite is the SQLite dialect.
var SQLite Dialect = sqlite{}

type sqlite struct{}

func (sqlite) Name() string { return "sqlite" }

func (sqlite) Placeholder(int) string { return "?" }

func (sqlite) QuoteIdent(ident string) string { return quote(ident, '"') }

func (sqlite) SupportsReturning() bool { return true }

func (sqlite) SupportsNotifications() bool { return false }

// Locks implements Dialect.
//
// SQLite has no advisory locks.
func (sqlite) Locks() *Locks { return nil }

func (sqlite) InsertVerb(bool) string { return "INSERT" }

func (d sqlite) OnConflict(target, update []string) string {
	clause := " ON CONFLICT"
	if len(target) > 0 {
		clause += " (" + identList(d, target) + ")"
	}

	if len(update) == 0 {
		return clause + " DO NOTHING"
	}

	return clause + " DO UPDATE SET " + assignments(d, update, func(q string) string { return "excluded." + q })
}

func (sqlite) ColumnsQuery(schema, table string) (string, []any) {
	if schema == "" {
		return "SELECT name, type FROM pragma_table_info(?) ORDER BY cid", []any{table}
	}

	return "SELECT name, type FROM pragma_table_info(?, ?) ORDER BY cid", []any{table, schema}
}

func (d sqlite) TablesQuery(schema string) (string, []any) {
	master := "sqlite_master"
	if schema != "" {
		master = d.QuoteIdent(schema) + ".sqlite_master"
	}

	return "SELECT name FROM " + master + " WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name", nil
}

func init() {
	Register("sqlite", SQLite)
	Register("sqlite3", SQLite)
}
