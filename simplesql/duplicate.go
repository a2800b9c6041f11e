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

// DuplicateOptions represents Duplicate options.
type DuplicateOptions struct {
	// PrimaryKey is the primary key column. Defaults to "id".
	PrimaryKey string

	// Except lists columns that are not copied; they get default values.
	Except []string
}

// Duplicate copies rows with the given primary keys into new rows of the same table.
//
// The primary key column and opts.Except columns are not copied.
// New primary keys are returned in the order of the copied rows' primary keys
// on databases that support RETURNING; otherwise, the returned slice is empty.
func (c *Conn) Duplicate(ctx context.Context, table string, ids []any, opts *DuplicateOptions) ([]any, error) {
	if opts == nil {
		opts = new(DuplicateOptions)
	}

	pk := opts.PrimaryKey
	if pk == "" {
		pk = "id"
	}

	if table == "" {
		return nil, newUsageError("Duplicate", ErrInvalidArgument, "table name is empty")
	}

	if len(ids) == 0 {
		return []any{}, nil
	}

	all, err := c.ColumnNames(ctx, table)
	if err != nil {
		return nil, err
	}

	if len(all) == 0 {
		return nil, newUsageError("Duplicate", ErrInvalidArgument, "table %q does not exist", table)
	}

	if !slices.Contains(all, pk) {
		return nil, newUsageError("Duplicate", ErrInvalidArgument, "table %q has no column %q", table, pk)
	}

	cols := make([]string, 0, len(all))

	for _, col := range all {
		if col == pk || slices.Contains(opts.Except, col) {
			continue
		}

		cols = append(cols, col)
	}

	if len(cols) == 0 {
		return nil, newUsageError("Duplicate", ErrInvalidArgument, "no columns to copy")
	}

	placeholders := make([]string, len(ids))
	for i := range ids {
		placeholders[i] = c.d.Placeholder(i + 1)
	}

	list := identList(c.d, cols)
	quotedPK := c.d.QuoteIdent(pk)

	q := "INSERT INTO " + dialect.QuoteTable(c.d, table) + " (" + list + ")" +
		" SELECT " + list + " FROM " + dialect.QuoteTable(c.d, table) +
		" WHERE " + quotedPK + " IN (" + strings.Join(placeholders, ", ") + ")" +
		" ORDER BY " + quotedPK

	if !c.d.SupportsReturning() {
		if _, err = c.Exec(ctx, q, ids...); err != nil {
			return nil, err
		}

		return []any{}, nil
	}

	return c.All(ctx, ShapePositional, q+" RETURNING "+quotedPK, ids...)
}
