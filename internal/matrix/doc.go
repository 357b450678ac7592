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

// Package matrix is a minimal Matrix client-server API client.  It covers
// exactly the surface the gateway needs: password and token login, whoami,
// incremental /sync with long-poll, joined members lookup and logout.
//
// Client is the unauthenticated entry point; Login and SessionFromToken
// produce an authenticated Session.  All homeserver calls are paced by a
// shared rate limiter configured via Limits.
package matrix
