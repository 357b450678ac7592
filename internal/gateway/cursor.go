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

// In this file: the authoritative sync cursor.

import "sync"

// cursor owns the global sync position of the active session.  Tokens are
// opaque server-issued strings; the only client-side operations are
// equality and replacement.
//
// The cursor itself is just a guarded value.  The transactional contract —
// snapshot before a sync, commit only on full success, restore on failure —
// is driven by the Gateway, which serializes all mutating sequences under
// its sync mutex.
type cursor struct {
	mu    sync.RWMutex
	token string
}

// current returns the committed token.  Empty means no sync has been
// committed for this session yet.
func (c *cursor) current() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// effective returns the token to use as the "since" value for a call: the
// caller-supplied one when present, the committed one otherwise.  It never
// mutates the cursor.
func (c *cursor) effective(callerSupplied string) string {
	if callerSupplied != "" {
		return callerSupplied
	}
	return c.current()
}

// commit replaces the committed token.  Called only after a sync has fully
// succeeded and its results are about to be returned.
func (c *cursor) commit(next string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = next
}

// restore puts back a snapshot taken before a sync that subsequently
// failed, so the failed sync consumed no events.
func (c *cursor) restore(before string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = before
}

// reset clears the cursor.  Used when the session it belongs to goes away.
func (c *cursor) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}
