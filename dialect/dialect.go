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

// Package dialect provides SQL text differences between supported databases.
//
// Dialects only build SQL text; they never execute anything.
package dialect

import (
	"strings"
	"sync"
)

// Locks contains advisory lock statements.
//
// Each statement takes a single int64 lock key argument.
// Lock and Unlock results are ignored; TryLock returns a single boolean-like column.
type Locks struct {
	Lock    string
	TryLock string
	Unlock  string
}

// Dialect defines the interface for database dialects.
type Dialect interface {
	// Name returns the name of the dialect.
	Name() string

	// Placeholder returns the placeholder string for the n-th argument (starting from 1).
	Placeholder(n int) string

	// QuoteIdent quotes a single identifier.
	QuoteIdent(ident string) string

	// SupportsReturning reports whether the dialect supports the RETURNING clause.
	SupportsReturning() bool

	// SupportsNotifications reports whether the dialect supports LISTEN/NOTIFY.
	SupportsNotifications() bool

	// Locks returns session-level advisory lock statements, or nil if they are not supported.
	Locks() *Locks

	// InsertVerb returns the statement verb for INSERT, possibly ignoring conflicts.
	InsertVerb(ignore bool) string

	// OnConflict returns the conflict clause (with the leading space) for INSERT.
	//
	// If update is empty, conflicting rows are left untouched.
	// Otherwise, update columns are set to the proposed values.
	// Target may be ignored by dialects that can't specify it.
	OnConflict(target, update []string) string

	// ColumnsQuery returns a query with arguments listing column names and types of the given table
	// in ordinal order. Empty schema means the current one.
	ColumnsQuery(schema, table string) (string, []any)

	// TablesQuery returns a query with arguments listing table names of the given schema in sorted order.
	// Empty schema means the current one.
	TablesQuery(schema string) (string, []any)
}

var (
	mu       sync.RWMutex
	dialects = map[string]Dialect{}
)

// Register registers a dialect for a database/sql driver name.
func Register(driverName string, d Dialect) {
	mu.Lock()
	defer mu.Unlock()

	dialects[driverName] = d
}

// Get returns the dialect for a database/sql driver name.
func Get(driverName string) (Dialect, bool) {
	mu.RLock()
	defer mu.RUnlock()

	d, ok := dialects[driverName]

	return d, ok
}

// QuoteTable quotes a possibly schema-qualified table name.
func QuoteTable(d Dialect, table string) string {
	schema, name := SplitTable(table)
	if schema == "" {
		return d.QuoteIdent(name)
	}

	return d.QuoteIdent(schema) + "." + d.QuoteIdent(name)
}

// SplitTable splits "schema.table" into schema and table names.
// Schema is empty for unqualified names.
func SplitTable(table string) (schema, name string) {
	if i := strings.IndexByte(table, '.'); i >= 0 {
		return table[:i], table[i+1:]
	}

	return "", table
}

// quote wraps ident in q, doubling any q inside.
func quote(ident string, q byte) string {
	var b strings.Builder
	b.Grow(len(ident) + 2)

	b.WriteByte(q)

	for i := 0; i < len(ident); i++ {
		c := ident[i]
		if c == q {
			b.WriteByte(q)
		}

		b.WriteByte(c)
	}

	b.WriteByte(q)

	return b.String()
}

// assignments builds "col = <value(col)>" list for conflict updates.
func assignments(d Dialect, cols []string, value func(quoted string) string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		q := d.QuoteIdent(c)
		parts[i] = q + " = " + value(q)
	}

	return strings.Join(parts, ", ")
}

// identList quotes and joins identifiers.
func identList(d Dialect, cols []string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = d.QuoteIdent(c)
	}

	return strings.Join(parts, ", ")
}
