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

// Package config resolves the database connection configuration.
//
// Configuration is read once from the environment:
//   - DATABASE_URL is used as the connection URL if set;
//   - SIMPLESQL_URL, SIMPLESQL_DRIVER, and SIMPLESQL_SQL_DRIVER override it.
//
// Variables may also come from .env files loaded with godotenv;
// already set environment variables take precedence.
package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/FerretDB/simplesql/internal/util/lazyerrors"
)

// Provider kinds.
const (
	// DriverPgx selects the raw pgx connection provider.
	DriverPgx = "pgx"

	// DriverSQL selects the database/sql connection provider.
	DriverSQL = "sql"
)

// envPrefix is the prefix of environment variables.
const envPrefix = "SIMPLESQL_"

// Config is the connection configuration.
type Config struct {
	// URL is the connection URL or driver-specific DSN.
	URL string `koanf:"url" validate:"required"`

	// Driver selects the connection provider: "pgx" or "sql".
	// If empty, "pgx" is used for PostgreSQL URLs and "sql" for everything else.
	Driver string `koanf:"driver" validate:"omitempty,oneof=pgx sql"`

	// SQLDriver is the database/sql driver name for the "sql" provider.
	// If empty, it is derived from the URL scheme.
	SQLDriver string `koanf:"sql_driver" validate:"omitempty,oneof=pgx mysql sqlite"`
}

// Load loads configuration from the given .env files (if they exist) and the environment.
//
// If no files are given, ".env" in the current directory is tried.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	for _, f := range envFiles {
		// godotenv does not override variables that are already set
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, lazyerrors.Errorf("loading %s: %w", f, err)
		}
	}

	k := koanf.New(".")

	err := k.Load(env.Provider("DATABASE_", ".", func(s string) string {
		if s == "DATABASE_URL" {
			return "url"
		}

		return ""
	}), nil)
	if err != nil {
		return nil, lazyerrors.Error(err)
	}

	err = k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, lazyerrors.Error(err)
	}

	var c Config
	if err = k.Unmarshal("", &c); err != nil {
		return nil, lazyerrors.Error(err)
	}

	if err = c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Validate checks configuration and fills derived fields.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return lazyerrors.Errorf("invalid configuration: %w", err)
	}

	scheme := c.scheme()

	if c.Driver == "" {
		c.Driver = DriverSQL
		if scheme == "postgres" || scheme == "postgresql" {
			c.Driver = DriverPgx
		}
	}

	if c.Driver == DriverPgx {
		if scheme != "postgres" && scheme != "postgresql" {
			return lazyerrors.Errorf("invalid configuration: %q provider requires a PostgreSQL URL", DriverPgx)
		}

		return nil
	}

	if c.SQLDriver == "" {
		switch scheme {
		case "postgres", "postgresql":
			c.SQLDriver = "pgx"
		case "mysql":
			c.SQLDriver = "mysql"
		case "sqlite", "file":
			c.SQLDriver = "sqlite"
		default:
			return lazyerrors.Errorf("invalid configuration: can't derive SQL driver from %q", scheme)
		}
	}

	return nil
}

// DSN returns the data source name for the database/sql driver.
//
// The "mysql://" and "sqlite://" prefixes are stripped because those drivers
// do not accept URLs; everything else is returned unchanged.
func (c *Config) DSN() string {
	for _, prefix := range []string{"mysql://", "sqlite://"} {
		if strings.HasPrefix(c.URL, prefix) {
			return strings.TrimPrefix(c.URL, prefix)
		}
	}

	return c.URL
}

// scheme returns the lowercase URL scheme, or an empty string.
func (c *Config) scheme() string {
	i := strings.Index(c.URL, ":")
	if i <= 0 {
		return ""
	}

	return strings.ToLower(c.URL[:i])
}
