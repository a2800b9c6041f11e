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

package sqlprovider

import (
	"database/sql"

	"github.com/FerretDB/simplesql/provider"
)

// cursor implements provider.Cursor for *sql.Rows.
type cursor struct {
	rows    *sql.Rows
	columns []string
	err     error
}

// Columns implements provider.Cursor.
func (c *cursor) Columns() []string {
	if c.columns == nil {
		// error is reported by Err; Columns fails only for closed rows
		c.columns, c.err = c.rows.Columns()
	}

	return c.columns
}

// Next implements provider.Cursor.
func (c *cursor) Next() bool {
	return c.rows.Next()
}

// Values implements provider.Cursor.
func (c *cursor) Values() ([]any, error) {
	cols := c.Columns()
	if c.err != nil {
		return nil, c.err
	}

	values := make([]any, len(cols))
	dest := make([]any, len(cols))

	for i := range values {
		dest[i] = &values[i]
	}

	if err := c.rows.Scan(dest...); err != nil {
		return nil, err
	}

	return values, nil
}

// Err implements provider.Cursor.
func (c *cursor) Err() error {
	if c.err != nil {
		return c.err
	}

	return c.rows.Err()
}

// Close implements provider.Cursor.
func (c *cursor) Close() error {
	return c.rows.Close()
}

// check interfaces
var (
	_ provider.Cursor = (*cursor)(nil)
)
