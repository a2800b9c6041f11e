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
	"slices"
	"strings"

	"github.com/FerretDB/simplesql/dialect"
)

// OnConflict selects Insert behavior on unique key conflicts.
type OnConflict int

const (
	// ConflictNone fails the whole statement on conflict.
	ConflictNone OnConflict = iota

	// ConflictIgnore skips conflicting rows.
	ConflictIgnore
)

// InsertOptions represents Insert options.
type InsertOptions struct {
	OnConflict OnConflict

	// Returning lists columns returned for inserted rows ("*" for all).
	// It requires RETURNING support.
	Returning []string

	// Shape of returned rows.
	Shape Shape
}

// UpsertOptions represents Upsert options.
type UpsertOptions struct {
	// ConflictTarget lists the columns of the unique key that detects conflicts. Required.
	ConflictTarget []string

	// UpdateColumns lists columns updated on conflict.
	// If empty, every inserted column not in ConflictTarget is updated.
	UpdateColumns []string

	// Returning lists columns returned for the inserted or updated row ("*" for all).
	// It requires RETURNING support.
	Returning []string

	// Shape of the returned row.
	Shape Shape
}

// Insert inserts records into the table with a single statement.
//
// All records must have the same set of columns.
// Returned rows are empty if opts.Returning is not set.
func (c *Conn) Insert(ctx context.Context, table string, records []map[string]any, opts *InsertOptions) ([]any, error) {
	if opts == nil {
		opts = new(InsertOptions)
	}

	if err := opts.Shape.validate("Insert"); err != nil {
		return nil, err
	}

	if table == "" {
		return nil, newUsageError("Insert", ErrInvalidArgument, "table name is empty")
	}

	if len(records) == 0 {
		return []any{}, nil
	}

	cols := sortedKeys(records[0])
	if len(cols) == 0 {
		return nil, newUsageError("Insert", ErrInvalidArgument, "no columns to insert")
	}

	for i, r := range records[1:] {
		if !sameKeys(cols, r) {
			return nil, newUsageError("Insert", ErrInvalidArgument, "record %d has a different set of columns", i+1)
		}
	}

	returning, err := c.returning("Insert", opts.Returning)
	if err != nil {
		return nil, err
	}

	var q strings.Builder

	q.WriteString(c.d.InsertVerb(opts.OnConflict == ConflictIgnore))
	q.WriteString(" INTO " + dialect.QuoteTable(c.d, table))
	q.WriteString(" (" + identList(c.d, cols) + ") VALUES ")

	args := make([]any, 0, len(records)*len(cols))

	for i, r := range records {
		if i > 0 {
			q.WriteString(", ")
		}

		q.WriteString("(")

		for j, col := range cols {
			if j > 0 {
				q.WriteString(", ")
			}

			args = append(args, r[col])
			q.WriteString(c.d.Placeholder(len(args)))
		}

		q.WriteString(")")
	}

	if opts.OnConflict == ConflictIgnore {
		q.WriteString(c.d.OnConflict(nil, nil))
	}

	q.WriteString(returning)

	if returning == "" {
		if _, err = c.Exec(ctx, q.String(), args...); err != nil {
			return nil, err
		}

		return []any{}, nil
	}

	return c.All(ctx, opts.Shape, q.String(), args...)
}

// Upsert inserts a single row, or updates the existing one on a conflict on opts.ConflictTarget columns.
//
// Columns are emitted in sorted order.
// If no columns remain to update, the existing row is left untouched.
// The row is returned only if opts.Returning is set and the database returned it;
// otherwise, found is false.
func (c *Conn) Upsert(ctx context.Context, table string, values map[string]any, opts *UpsertOptions) (row any, found bool, err error) {
	if opts == nil {
		opts = new(UpsertOptions)
	}

	if err = opts.Shape.validate("Upsert"); err != nil {
		return
	}

	if table == "" {
		err = newUsageError("Upsert", ErrInvalidArgument, "table name is empty")
		return
	}

	cols := sortedKeys(values)
	if len(cols) == 0 {
		err = newUsageError("Upsert", ErrInvalidArgument, "no columns to insert")
		return
	}

	if len(opts.ConflictTarget) == 0 {
		err = newUsageError("Upsert", ErrInvalidArgument, "conflict target is required")
		return
	}

	update := opts.UpdateColumns
	if len(update) == 0 {
		for _, col := range cols {
			if !slices.Contains(opts.ConflictTarget, col) {
				update = append(update, col)
			}
		}
	}

	for _, col := range update {
		if _, ok := values[col]; !ok {
			err = newUsageError("Upsert", ErrInvalidArgument, "update column %q is not inserted", col)
			return
		}
	}

	returning, err := c.returning("Upsert", opts.Returning)
	if err != nil {
		return
	}

	args := make([]any, len(cols))
	placeholders := make([]string, len(cols))

	for i, col := range cols {
		args[i] = values[col]
		placeholders[i] = c.d.Placeholder(i + 1)
	}

	q := c.d.InsertVerb(false) + " INTO " + dialect.QuoteTable(c.d, table) +
		" (" + identList(c.d, cols) + ") VALUES (" + strings.Join(placeholders, ", ") + ")" +
		c.d.OnConflict(opts.ConflictTarget, update) +
		returning

	if returning == "" {
		_, err = c.Exec(ctx, q, args...)
		return
	}

	return c.AskInto(ctx, opts.Shape, q, args...)
}

// returning returns RETURNING clause (with the leading space) for the given columns.
func (c *Conn) returning(op string, cols []string) (string, error) {
	if len(cols) == 0 {
		return "", nil
	}

	if !c.d.SupportsReturning() {
		return "", newUsageError(op, ErrUnsupported, "%s does not support RETURNING", c.d.Name())
	}

	parts := make([]string, len(cols))
	for i, col := range cols {
		if col == "*" {
			parts[i] = col
			continue
		}

		parts[i] = c.d.QuoteIdent(col)
	}

	return " RETURNING " + strings.Join(parts, ", "), nil
}

// identList quotes and joins column names.
func identList(d dialect.Dialect, cols []string) string {
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = d.QuoteIdent(col)
	}

	return strings.Join(parts, ", ")
}

// sortedKeys returns sorted map keys.
func sortedKeys(m map[string]any) []string {
	res := make([]string, 0, len(m))
	for k := range m {
		res = append(res, k)
	}

	slices.Sort(res)

	return res
}

// sameKeys reports whether m has exactly the given keys.
func sameKeys(keys []string, m map[string]any) bool {
	if len(keys) != len(m) {
		return false
	}

	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return false
		}
	}

	return true
}
