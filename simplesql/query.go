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
	"errors"

	"github.com/FerretDB/simplesql/internal/util/iterator"
)

// Ask returns the first row in positional shape.
//
// If there are no rows, found is false and err is nil.
// Remaining rows are not read.
func (c *Conn) Ask(ctx context.Context, query string, args ...any) (row any, found bool, err error) {
	return c.ask(ctx, "Ask", ShapePositional, query, args)
}

// AskInto is like Ask, but returns the first row in the given shape.
func (c *Conn) AskInto(ctx context.Context, shape Shape, query string, args ...any) (row any, found bool, err error) {
	return c.ask(ctx, "AskInto", shape, query, args)
}

func (c *Conn) ask(ctx context.Context, op string, shape Shape, query string, args []any) (row any, found bool, err error) {
	if err = shape.validate(op); err != nil {
		return
	}

	ctx, end := c.start(ctx, op, query, args)
	defer func() { end(err) }()

	iter, err := c.iterate(ctx, shape, query, args)
	if err != nil {
		return
	}

	defer iter.Close()

	_, row, err = iter.Next()

	switch {
	case err == nil:
		found = true
	case errors.Is(err, iterator.ErrIteratorDone):
		err = nil
	}

	return
}

// All returns all rows in the given shape, in database order.
//
// The returned slice is empty (not nil) if there are no rows.
func (c *Conn) All(ctx context.Context, shape Shape, query string, args ...any) (rows []any, err error) {
	if err = shape.validate("All"); err != nil {
		return
	}

	ctx, end := c.start(ctx, "All", query, args)
	defer func() { end(err) }()

	iter, err := c.iterate(ctx, shape, query, args)
	if err != nil {
		return
	}

	return iterator.ConsumeValues[int, any](iter)
}

// Each calls fn for every row in the given shape, streaming rows from the database.
//
// fn is required. If it returns an error, iteration stops and that error is returned unchanged.
func (c *Conn) Each(ctx context.Context, shape Shape, fn func(row any) error, query string, args ...any) (err error) {
	if fn == nil {
		return newUsageError("Each", ErrHandlerRequired, "")
	}

	if err = shape.validate("Each"); err != nil {
		return
	}

	ctx, end := c.start(ctx, "Each", query, args)
	defer func() { end(err) }()

	iter, err := c.iterate(ctx, shape, query, args)
	if err != nil {
		return
	}

	return iterator.ForEach[int, any](iter, fn)
}

// Exec executes a statement that does not return rows, and returns the number of affected rows.
//
// Some drivers do not report affected rows for all statements; zero is returned then.
func (c *Conn) Exec(ctx context.Context, query string, args ...any) (n int64, err error) {
	ctx, end := c.start(ctx, "Exec", query, args)
	defer func() { end(err) }()

	return c.exec(ctx, query, args)
}

// iterate runs a query and returns an iterator over its shaped rows.
func (c *Conn) iterate(ctx context.Context, shape Shape, query string, args []any) (*rowIterator, error) {
	cur, err := c.query(ctx, query, args)
	if err != nil {
		return nil, err
	}

	return newRowIterator(cur, shape, query), nil
}
