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
	"time"

	"go.uber.org/zap"

	"github.com/FerretDB/simplesql/dialect"
	"github.com/FerretDB/simplesql/internal/util/observability"
	"github.com/FerretDB/simplesql/internal/util/resource"
	"github.com/FerretDB/simplesql/provider"
)

// Conn is a handle to a single database session.
//
// It wraps exactly one provider.Provider.
// Conn is not safe for concurrent use; callers serialize access.
//
// Conn implements prometheus.Collector.
type Conn struct {
	*metrics

	p provider.Provider
	d dialect.Dialect
	l *zap.Logger

	txDepth int
	token   *resource.Token
}

// New wraps the given provider.
//
// Logger (that will be named) is used for statement logging; nil disables logging.
// Conn must be closed; a Conn garbage-collected without Close is logged at warn level.
func New(p provider.Provider, l *zap.Logger) *Conn {
	if l == nil {
		l = zap.NewNop()
	}

	l = l.Named("simplesql")

	c := &Conn{
		metrics: newMetrics(),
		p:       p,
		d:       p.Dialect(),
		l:       l,
		token: resource.NewToken(func(msg string) {
			l.Warn(msg)
		}),
	}

	resource.Track(c, c.token)

	return c
}

// Provider returns the underlying provider.
func (c *Conn) Provider() provider.Provider {
	return c.p
}

// Dialect returns the SQL dialect of the session.
func (c *Conn) Dialect() dialect.Dialect {
	return c.d
}

// Close closes the underlying provider.
func (c *Conn) Close(ctx context.Context) error {
	resource.Untrack(c, c.token)
	return c.p.Close(ctx)
}

// start starts tracing, logging, and metrics for a single operation.
//
// The returned function must be called exactly once with the operation's result.
func (c *Conn) start(ctx context.Context, op, query string, args []any) (context.Context, func(error)) {
	ctx, end := observability.FuncCall(ctx, "simplesql."+op, observability.StatementKey.String(query))

	start := time.Now()

	fields := []any{zap.String("op", op), zap.Any("args", args)}
	c.l.Sugar().With(fields...).Debugf(">>> %s", query)

	return ctx, func(err error) {
		d := time.Since(start)

		c.metrics.observe(op, d, err)

		fields = append(fields, zap.Duration("time", d), zap.Error(err))
		c.l.Sugar().With(fields...).Debugf("<<< %s", query)

		end(err)
	}
}

// query runs a statement returning rows on the provider.
func (c *Conn) query(ctx context.Context, query string, args []any) (provider.Cursor, error) {
	cur, err := c.p.Query(ctx, query, args...)
	if err != nil {
		return nil, newQueryError(query, err)
	}

	return cur, nil
}

// exec runs a statement without rows on the provider.
func (c *Conn) exec(ctx context.Context, query string, args []any) (int64, error) {
	n, err := c.p.Exec(ctx, query, args...)
	if err != nil {
		return 0, newQueryError(query, err)
	}

	return n, nil
}

// scalar returns the first column of the first row, or nil if there are no rows.
func (c *Conn) scalar(ctx context.Context, query string, args []any) (any, error) {
	cur, err := c.query(ctx, query, args)
	if err != nil {
		return nil, err
	}

	defer cur.Close()

	if !cur.Next() {
		return nil, newQueryError(query, cur.Err())
	}

	values, err := cur.Values()
	if err != nil {
		return nil, newQueryError(query, err)
	}

	if len(values) == 0 {
		return nil, nil
	}

	return values[0], nil
}
