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

import "strconv"

// Postgres is the PostgreSQL dialect.
var Postgres Dialect = postgres{}

type postgres struct{}

func (postgres) Name() string { return "postgres" }

func (postgres) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (postgres) QuoteIdent(ident string) string { return quote(ident, '"') }

func (postgres) SupportsReturning() bool { return true }

func (postgres) SupportsNotifications() bool { return true }

func (postgres) Locks() *Locks {
	return &Locks{
		Lock:    "SELECT pg_advisory_lock($1)",
		TryLock: "SELECT pg_try_advisory_lock($1)",
		Unlock:  "SELECT pg_advisory_unlock($1)",
	}
}

func (postgres) InsertVerb(bool) string { return "INSERT" }

func (d postgres) OnConflict(target, update []string) string {
	clause := " ON CONFLICT"
	if len(target) > 0 {
		clause += " (" + identList(d, target) + ")"
	}

	if len(update) == 0 {
		return clause + " DO NOTHING"
	}

	return clause + " DO UPDATE SET " + assignments(d, update, func(q string) string { return "EXCLUDED." + q })
}

func (postgres) ColumnsQuery(schema, table string) (string, []any) {
	q := `SELECT column_name, data_type FROM information_schema.columns WHERE `

	if schema == "" {
		q += `table_schema = current_schema() AND table_name = $1 ORDER BY ordinal_position`
		return q, []any{table}
	}

	q += `table_schema = $1 AND table_name = $2 ORDER BY ordinal_position`

	return q, []any{schema, table}
}

func (postgres) TablesQuery(schema string) (string, []any) {
	q := `SELECT table_name FROM information_schema.tables WHERE `

	if schema == "" {
		return q + `table_schema = current_schema() ORDER BY table_name`, nil
	}

	return q + `table_schema = $1 ORDER BY table_name`, []any{schema}
}

func init() {
	Register("pgx", Postgres)
	Register("postgres", Postgres)
	Register("postgresql", Postgres)
}
