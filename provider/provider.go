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

// Package provider defines the minimal capability set of a database session.
//
// There are exactly two implementations:
//   - [github.com/FerretDB/simplesql/provider/pgxprovider] wraps a raw pgx connection;
//   - [github.com/FerretDB/simplesql/provider/sqlprovider] wraps a *sql.DB supplied by the caller
//     (for example, by an ORM).
//
// Providers return driver errors as-is; callers classify them.
package provider

import (
	"context"
	"errors"

	"github.com/FerretDB/simplesql/dialect"
)

// ErrUnsupported is returned (possibly wrapped) when the underlying driver lacks a capability.
var ErrUnsupported = errors.New("not supported by the underlying driver")

// Cursor is a forward-only result of a statement execution.
//
// It is not safe for concurrent use.
type Cursor interface {
	// Columns returns result column names (including aliases) in result order.
	// It is valid after the first successful Next call.
	Columns() []string

	// Next prepares the next row. It returns false at the end or on error.
	Next() bool

	// Values returns the current row values in column order.
	// The returned slice is owned by the caller.
	Values() ([]any, error)

	// Err returns the error, if any, that was encountered during iteration.
	Err() error

	// Close closes the cursor. It is safe to call it multiple times.
	Close() error
}

// Notification is an asynchronous notification received by the session.
type Notification struct {
	PID     uint32
	Channel string
	Payload string
}

// Provider is a single database session.
//
// It is not safe for concurrent use; callers serialize access.
type Provider interface {
	// Query executes a statement returning rows.
	Query(ctx context.Context, sql string, args ...any) (Cursor, error)

	// Exec executes a statement that does not return rows and returns the number of affected rows.
	Exec(ctx context.Context, sql string, args ...any) (int64, error)

	// WaitForNotification blocks until a notification arrives or ctx is canceled.
	// It returns (possibly wrapped) ErrUnsupported if the driver can't receive notifications.
	WaitForNotification(ctx context.Context) (*Notification, error)

	// Dialect returns the SQL dialect of the session.
	Dialect() dialect.Dialect

	// Close releases the session.
	Close(ctx context.Context) error
}
