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
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/FerretDB/simplesql/dialect"
)

// LockKey returns the advisory lock key for the given lock name.
//
// The key is xxHash64 of the name's UTF-8 bytes with the sign bit cleared,
// so it is stable across processes and fits into a signed 64-bit integer.
func LockKey(name string) int64 {
	return int64(xxhash.Sum64String(name) & math.MaxInt64)
}

// locks returns advisory lock statements of the dialect.
func (c *Conn) locks(op string) (*dialect.Locks, error) {
	l := c.d.Locks()
	if l == nil {
		return nil, newUsageError(op, ErrUnsupported, "%s has no advisory locks", c.d.Name())
	}

	return l, nil
}

// Lock acquires the session-level advisory lock with the given name.
//
// It blocks until the lock is acquired or ctx is canceled.
func (c *Conn) Lock(ctx context.Context, name string) (err error) {
	l, err := c.locks("Lock")
	if err != nil {
		return
	}

	args := []any{LockKey(name)}

	ctx, end := c.start(ctx, "Lock", l.Lock, args)
	defer func() { end(err) }()

	_, err = c.scalar(ctx, l.Lock, args)

	return
}

// TryLock tries to acquire the session-level advisory lock with the given name without waiting.
func (c *Conn) TryLock(ctx context.Context, name string) (acquired bool, err error) {
	l, err := c.locks("TryLock")
	if err != nil {
		return
	}

	args := []any{LockKey(name)}

	ctx, end := c.start(ctx, "TryLock", l.TryLock, args)
	defer func() { end(err) }()

	v, err := c.scalar(ctx, l.TryLock, args)
	if err != nil {
		return
	}

	acquired = truthy(v)

	return
}

// Unlock releases the session-level advisory lock with the given name.
//
// Releasing a lock that is not held is not an error.
func (c *Conn) Unlock(ctx context.Context, name string) (err error) {
	l, err := c.locks("Unlock")
	if err != nil {
		return
	}

	args := []any{LockKey(name)}

	ctx, end := c.start(ctx, "Unlock", l.Unlock, args)
	defer func() { end(err) }()

	_, err = c.scalar(ctx, l.Unlock, args)

	return
}

// WithLock acquires the advisory lock with the given name, calls fn, and releases the lock.
//
// The lock is released on every exit path of fn, including panics.
// The error returned by fn is returned unchanged; if fn succeeds, the release error (if any) is returned.
func (c *Conn) WithLock(ctx context.Context, name string, fn func() error) (err error) {
	if fn == nil {
		return newUsageError("WithLock", ErrHandlerRequired, "")
	}

	if err = c.Lock(ctx, name); err != nil {
		return
	}

	defer func() {
		// release even if ctx was canceled while fn was running
		unlockErr := c.Unlock(context.WithoutCancel(ctx), name)
		if err == nil {
			err = unlockErr
		}
	}()

	err = fn()

	return
}

// truthy converts a boolean-like database value into bool.
func truthy(v any) bool {
	switch v := v.(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case int32:
		return v != 0
	case int:
		return v != 0
	case []byte:
		return truthy(string(v))
	case string:
		b, err := strconv.ParseBool(v)
		return err == nil && b
	default:
		return false
	}
}
