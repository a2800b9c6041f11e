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

// Package sqlprovider implements provider.Provider on top of [database/sql].
//
// It is used when the session comes from an existing *sql.DB, for example, the one managed by an ORM.
// Supported drivers are pgx (stdlib), mysql, and sqlite; they are registered by this package.
package sqlprovider

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/go-sql-driver/mysql" // register database/sql driver
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // register database/sql driver

	"github.com/FerretDB/simplesql/dialect"
	"github.com/FerretDB/simplesql/internal/util/lazyerrors"
	"github.com/FerretDB/simplesql/provider"
)

// Provider wraps a single *sql.Conn checked out of *sql.DB.
//
// A dedicated connection is required because advisory locks, LISTEN,
// and transaction statements are scoped to the database session.
type Provider struct {
	db      *sql.DB
	conn    *sql.Conn
	d       dialect.Dialect
	l       *zap.Logger
	ownsDB  bool
	drvName string
}

// Open opens *sql.DB for the given driver name and DSN, and checks out a session from it.
//
// The returned provider closes *sql.DB on Close.
func Open(ctx context.Context, driverName, dsn string, l *zap.Logger) (*Provider, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, lazyerrors.Error(err)
	}

	p, err := New(ctx, db, driverName, l)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	p.ownsDB = true

	return p, nil
}

// New checks out a session from an existing *sql.DB.
//
// The driver name selects the SQL dialect.
// The returned provider returns the session to db on Close, but does not close db itself.
func New(ctx context.Context, db *sql.DB, driverName string, l *zap.Logger) (*Provider, error) {
	if db == nil {
		return nil, lazyerrors.New("db is nil")
	}

	d, ok := dialect.Get(driverName)
	if !ok {
		return nil, lazyerrors.Errorf("unsupported driver %q", driverName)
	}

	if l == nil {
		l = zap.NewNop()
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, lazyerrors.Error(err)
	}

	l = l.Named("sql").With(zap.String("driver", driverName))
	l.Debug("Session checked out", zap.Int("open", db.Stats().OpenConnections))

	return &Provider{
		db:      db,
		conn:    conn,
		d:       d,
		l:       l,
		drvName: driverName,
	}, nil
}

// DB returns the underlying *sql.DB.
func (p *Provider) DB() *sql.DB {
	return p.db
}

// Query implements provider.Provider.
func (p *Provider) Query(ctx context.Context, query string, args ...any) (provider.Cursor, error) {
	rows, err := p.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return &cursor{rows: rows}, nil
}

// Exec implements provider.Provider.
func (p *Provider) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := p.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	// some drivers do not report affected rows for all statements
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}

	return n, nil
}

// WaitForNotification implements provider.Provider.
//
// It is supported only for the pgx driver.
func (p *Provider) WaitForNotification(ctx context.Context) (*provider.Notification, error) {
	var res *provider.Notification

	err := p.conn.Raw(func(driverConn any) error {
		c, ok := driverConn.(*stdlib.Conn)
		if !ok {
			return lazyerrors.Errorf("%s: %w", p.drvName, provider.ErrUnsupported)
		}

		n, err := c.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}

		res = &provider.Notification{
			PID:     n.PID,
			Channel: n.Channel,
			Payload: n.Payload,
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// Dialect implements provider.Provider.
func (p *Provider) Dialect() dialect.Dialect {
	return p.d
}

// Close implements provider.Provider.
func (p *Provider) Close(context.Context) error {
	err := p.conn.Close()

	if p.ownsDB {
		err = errors.Join(err, p.db.Close())
	}

	p.l.Debug("Session released", zap.Error(err))

	return err
}

// check interfaces
var (
	_ provider.Provider = (*Provider)(nil)
)
