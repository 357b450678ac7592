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

// In this file: session lifecycle.

import "sync"

// State is the lifecycle state of the shared session.
type State int

const (
	// StateAbsent: no session exists (initial state, or after disconnect).
	StateAbsent State = iota
	// StateConnecting: a connect attempt is in progress.
	StateConnecting
	// StateActive: an authenticated session is installed.
	StateActive
	// StateFailed: the last connect attempt failed; no session is
	// installed.  Operationally equivalent to StateAbsent, kept distinct
	// for observability.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateConnecting:
		return "connecting"
	case StateActive:
		return "active"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// holder owns the single authenticated connection.  A connection is only
// ever installed fully initialized (install) and only visible to callers
// while the state is StateActive, so no half-connected session can leak
// out of a failed connect.
type holder struct {
	mu     sync.RWMutex
	state  State
	conn   Conn
	userID string
}

// active returns the installed connection, or ErrNotConnected if the state
// is anything other than StateActive.
func (h *holder) active() (Conn, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.state != StateActive || h.conn == nil {
		return nil, ErrNotConnected
	}
	return h.conn, nil
}

// current returns the lifecycle state.
func (h *holder) current() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// user returns the authenticated user ID, or "" when not active.
func (h *holder) user() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.userID
}

// beginConnect transitions to StateConnecting and removes the previous
// connection, returning it so the caller can tear it down best-effort.
func (h *holder) beginConnect() Conn {
	h.mu.Lock()
	defer h.mu.Unlock()
	old := h.conn
	h.conn = nil
	h.userID = ""
	h.state = StateConnecting
	return old
}

// install publishes a fully initialized connection and transitions to
// StateActive.
func (h *holder) install(conn Conn, userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conn = conn
	h.userID = userID
	h.state = StateActive
}

// fail records a failed connect attempt.
func (h *holder) fail() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conn = nil
	h.userID = ""
	h.state = StateFailed
}

// clear transitions to StateAbsent, returning the previous connection (if
// any) for best-effort teardown.
func (h *holder) clear() Conn {
	h.mu.Lock()
	defer h.mu.Unlock()
	old := h.conn
	h.conn = nil
	h.userID = ""
	h.state = StateAbsent
	return old
}
