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

	"go.uber.org/zap"

	"github.com/FerretDB/simplesql/internal/util/lazyerrors"
)

// Transaction runs fn in a database transaction on the same session.
//
// If fn returns an error or panics, the transaction is rolled back and the error is returned unchanged.
// Otherwise, it is committed.
// Nested calls run fn inside the outermost transaction without issuing new statements.
func (c *Conn) Transaction(ctx context.Context, fn func(*Conn) error) (err error) {
	if fn == nil {
		return newUsageError("Transaction", ErrHandlerRequired, "")
	}

	if c.txDepth > 0 {
		c.txDepth++
		defer func() { c.txDepth-- }()

		return fn(c)
	}

	if _, err = c.Exec(ctx, "BEGIN"); err != nil {
		return
	}

	c.txDepth++

	var done bool

	defer func() {
		c.txDepth--

		// `done` is not set if fn panics or calls runtime.Goexit (for example, via require.XXX in tests)
		if done {
			return
		}

		if err == nil {
			err = lazyerrors.New("transaction was not committed")
		}

		if _, rbErr := c.Exec(context.WithoutCancel(ctx), "ROLLBACK"); rbErr != nil {
			c.l.Warn("Rollback failed", zap.Error(rbErr))
		}
	}()

	if err = fn(c); err != nil {
		return
	}

	if _, err = c.Exec(ctx, "COMMIT"); err != nil {
		return
	}

	done = true

	return
}

// InTransaction reports whether a transaction started by Transaction is in progress.
func (c *Conn) InTransaction() bool {
	return c.txDepth > 0
}
