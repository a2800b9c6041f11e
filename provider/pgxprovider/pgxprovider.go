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

// Package pgxprovider implements provider.Provider on top of a single pgx connection.
package pgxprovider

import (
	"context"

	zapadapter "github.com/jackc/pgx-zap"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/tracelog"
	"go.uber.org/zap"

	"github.com/FerretDB/simplesql/dialect"
	"github.com/FerretDB/simplesql/internal/util/lazyerrors"
	"github.com/FerretDB/simplesql/provider"
)

// Provider wraps *pgx.Conn.
type Provider struct {
	conn *pgx.Conn
	l    *zap.Logger
}

// Connect opens a new PostgreSQL session for the given URI.
//
// Statements are traced to the given logger at debug level.
// Session settings are checked before returning.
func Connect(ctx context.Context, uri string, l *zap.Logger) (*Provider, error) {
	if l == nil {
		l = zap.NewNop()
	}

	config, err := pgx.ParseConfig(uri)
	if err != nil {
		return nil, lazyerrors.Error(err)
	}

	if _, ok := config.RuntimeParams["application_name"]; !ok {
		config.RuntimeParams["application_name"] = "simplesql"
	}

	// try to log everything; logger's configuration will skip extra levels if needed
	config.Tracer = &tracelog.TraceLog{
		Logger:   zapadapter.NewLogger(l.Named("pgx")),
		LogLevel: tracelog.LogLevelTrace,
	}

	conn, err := pgx.ConnectConfig(ctx, config)
	if err != nil {
		return nil, lazyerrors.Error(err)
	}

	if err = checkConnection(ctx, conn, l); err != nil {
		_ = conn.Close(ctx)
		return nil, lazyerrors.Error(err)
	}

	return New(conn, l), nil
}

// New wraps an already established connection.
func New(conn *pgx.Conn, l *zap.Logger) *Provider {
	if l == nil {
		l = zap.NewNop()
	}

	return &Provider{
		conn: conn,
		l:    l,
	}
}

// Conn returns the underlying connection.
func (p *Provider) Conn() *pgx.Conn {
	return p.conn
}

// Query implements provider.Provider.
func (p *Provider) Query(ctx context.Context, sql string, args ...any) (provider.Cursor, error) {
	rows, err := p.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	return &cursor{rows: rows}, nil
}

// Exec implements provider.Provider.
func (p *Provider) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	tag, err := p.conn.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// WaitForNotification implements provider.Provider.
func (p *Provider) WaitForNotification(ctx context.Context) (*provider.Notification, error) {
	n, err := p.conn.WaitForNotification(ctx)
	if err != nil {
		return nil, err
	}

	return &provider.Notification{
		PID:     n.PID,
		Channel: n.Channel,
		Payload: n.Payload,
	}, nil
}

// Dialect implements provider.Provider.
func (p *Provider) Dialect() dialect.Dialect {
	return dialect.Postgres
}

// Close implements provider.Provider.
func (p *Provider) Close(ctx context.Context) error {
	return p.conn.Close(ctx)
}

// cursor implements provider.Cursor for pgx.Rows.
type cursor struct {
	rows    pgx.Rows
	columns []string
}

// Columns implements provider.Cursor.
func (c *cursor) Columns() []string {
	if c.columns == nil {
		fds := c.rows.FieldDescriptions()

		c.columns = make([]string, len(fds))
		for i, fd := range fds {
			c.columns[i] = fd.Name
		}
	}

	return c.columns
}

// Next implements provider.Cursor.
func (c *cursor) Next() bool {
	return c.rows.Next()
}

// Values implements provider.Cursor.
func (c *cursor) Values() ([]any, error) {
	return c.rows.Values()
}

// Err implements provider.Cursor.
func (c *cursor) Err() error {
	return c.rows.Err()
}

// Close implements provider.Cursor.
func (c *cursor) Close() error {
	c.rows.Close()
	return nil
}

// check interfaces
var (
	_ provider.Provider = (*Provider)(nil)
	_ provider.Cursor   = (*cursor)(nil)
)
