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


// Package simplesql provides convenience helpers over a single database session.
//
// A Conn wraps either a raw pgx connection or a session of an existing *sql.DB
// (for example, the one managed by an ORM), and provides:
//   - query helpers Ask, AskInto, All, Each, and Exec with per-call result shapes;
//   - session-level advisory locks (Lock, TryLock, Unlock, WithLock);
//   - Insert, Upsert, and Duplicate helpers;
//   - schema reflection (Columns, Tables);
//   - transactions, scopes, and PostgreSQL notifications.
//
// Conn is not safe for concurrent use.
package simplesql

import (
	"context"

	"go.uber.org/zap"

	"github.com/FerretDB/simplesql/config"
	"github.com/FerretDB/simplesql/internal/util/lazyerrors"
	"github.com/FerretDB/simplesql/provider"
	"github.com/FerretDB/simplesql/provider/pgxprovider"
	"github.com/FerretDB/simplesql/provider/sqlprovider"
)

// Open validates the configuration and connects to the database.
func Open(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Conn, error) {
	if cfg == nil {
		return nil, lazyerrors.New("config is nil")
	}

	if l == nil {
		l = zap.NewNop()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var p provider.Provider
	var err error

	switch cfg.Driver {
	case config.DriverPgx:
		p, err = pgxprovider.Connect(ctx, cfg.URL, l)
	case config.DriverSQL:
		p, err = sqlprovider.Open(ctx, cfg.SQLDriver, cfg.DSN(), l)
	default:
		err = lazyerrors.Errorf("unknown driver %q", cfg.Driver)
	}

	if err != nil {
		return nil, err
	}

	return New(p, l), nil
}
