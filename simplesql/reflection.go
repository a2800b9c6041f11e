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
	"fmt"
	"slices"

	"github.com/FerretDB/simplesql/dialect"
	"github.com/FerretDB/simplesql/internal/util/lazyerrors"
)

// Column describes a single table column.
type Column struct {
	Name string
	Type string
}

// Columns returns columns of the given table in ordinal order.
//
// Table name may be schema-qualified ("schema.table") on PostgreSQL and MySQL.
// If the table does not exist, an empty slice is returned without error.
func (c *Conn) Columns(ctx context.Context, table string) ([]Column, error) {
	if table == "" {
		return nil, newUsageError("Columns", ErrInvalidArgument, "table name is empty")
	}

	schema, name := dialect.SplitTable(table)
	query, args := c.d.ColumnsQuery(schema, name)

	rows, err := c.All(ctx, ShapePositional, query, args...)
	if err != nil {
		return nil, err
	}

	res := make([]Column, 0, len(rows))

	for _, row := range rows {
		values, ok := row.([]any)
		if !ok || len(values) != 2 {
			return nil, lazyerrors.Errorf("unexpected columns row %v", row)
		}

		res = append(res, Column{
			Name: asString(values[0]),
			Type: asString(values[1]),
		})
	}

	return res, nil
}

// ColumnNames returns names of the given table's columns in ordinal order.
func (c *Conn) ColumnNames(ctx context.Context, table string) ([]string, error) {
	cols, err := c.Columns(ctx, table)
	if err != nil {
		return nil, err
	}

	res := make([]string, len(cols))
	for i, col := range cols {
		res[i] = col.Name
	}

	return res, nil
}

// Tables returns sorted table names of the given schema.
// Empty schema means the current one.
func (c *Conn) Tables(ctx context.Context, schema string) ([]string, error) {
	query, args := c.d.TablesQuery(schema)

	rows, err := c.All(ctx, ShapePositional, query, args...)
	if err != nil {
		return nil, err
	}

	res := make([]string, len(rows))
	for i, row := range rows {
		res[i] = asString(row)
	}

	slices.Sort(res)

	return res, nil
}

// asString converts a textual database value into string.
func asString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
