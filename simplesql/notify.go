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

	"github.com/FerretDB/simplesql/provider"
)

// Listen subscribes the session to notifications on the given channel.
func (c *Conn) Listen(ctx context.Context, channel string) error {
	if !c.d.SupportsNotifications() {
		return newUsageError("Listen", ErrUnsupported, "%s has no notifications", c.d.Name())
	}

	if channel == "" {
		return newUsageError("Listen", ErrInvalidArgument, "channel name is empty")
	}

	_, err := c.Exec(ctx, "LISTEN "+c.d.QuoteIdent(channel))

	return err
}

// WaitForNotify blocks until a notification arrives on the session or ctx is canceled.
func (c *Conn) WaitForNotify(ctx context.Context) (n *provider.Notification, err error) {
	if !c.d.SupportsNotifications() {
		return nil, newUsageError("WaitForNotify", ErrUnsupported, "%s has no notifications", c.d.Name())
	}

	ctx, end := c.start(ctx, "WaitForNotify", "", nil)
	defer func() { end(err) }()

	n, err = c.p.WaitForNotification(ctx)
	if err != nil {
		if errors.Is(err, provider.ErrUnsupported) {
			err = &UsageError{Op: "WaitForNotify", Err: err}
			return
		}

		err = newQueryError("", err)
	}

	return
}
