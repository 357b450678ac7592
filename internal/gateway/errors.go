// Copyright (c) 2021-2026 Rustam Gilyazov and Contributors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package gateway

// In this file: the error taxonomy of the gateway.

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned by every operation that requires an active
// session when there is none.
var ErrNotConnected = errors.New("not connected to a homeserver; call connect_matrix first")

// ConnectError reports a failed connection attempt (authentication
// rejection, unreachable homeserver, or a failed initial sync).
type ConnectError struct {
	Reason error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connection failed: %v", e.Reason)
}

func (e *ConnectError) Unwrap() error { return e.Reason }

// RoomNotFoundError reports that a room is not in the session's membership,
// even after a refresh sync.
type RoomNotFoundError struct {
	RoomID string
}

func (e *RoomNotFoundError) Error() string {
	return fmt.Sprintf("not a member of room %q, or the room does not exist", e.RoomID)
}

// SyncError reports a failed sync call or failed processing of its result.
// By the time a SyncError surfaces the sync token has been restored, so the
// failed call consumed no events.
type SyncError struct {
	Op  string
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("%s: sync failed: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }
