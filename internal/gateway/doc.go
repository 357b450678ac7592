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

// Package gateway holds the single shared homeserver session and the
// incremental-sync position for it.  It is the state-carrying middle layer
// between the tool handlers (internal/mcp, internal/httpapi) and the
// homeserver client (internal/matrix).
//
// Three concerns live here:
//
//   - session lifecycle: absent → connecting → active, with best-effort
//     teardown of the previous session on reconnect (holder);
//   - the authoritative sync token: advanced only when a sync fully
//     succeeds, restored on any failure so that a failed call never
//     consumes events (cursor);
//   - sync execution and normalization: raw /sync payloads are projected
//     into the fixed event shape, malformed entries dropped with a log
//     line, and per-room metadata and timelines cached (executor,
//     directory).
//
// Every operation that advances the sync token runs under a single mutex
// spanning the read-token → sync → commit sequence, so concurrent calls
// are linearized with respect to the token.  Reads of already-cached data
// do not take that mutex.
package gateway
