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

// In this file: the tool-facing data shapes.

// Event is the fixed projection of a Matrix event returned by the message
// tools.  Content is never nil; events without content carry an empty
// object.
type Event struct {
	EventID        string         `json:"event_id"`
	Sender         string         `json:"sender"`
	Type           string         `json:"type"`
	OriginServerTS int64          `json:"origin_server_ts"`
	Content        map[string]any `json:"content"`
}

// RoomInfo is one entry of the joined-rooms listing.  Name falls back
// through the room's display name and canonical alias to the room ID.
type RoomInfo struct {
	RoomID string `json:"room_id"`
	Name   string `json:"name"`
}

// Member is one entry of the room-members listing.  DisplayName falls back
// to the user ID when the member has not set one.
type Member struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// Missed is the result of a missed-messages call: the events that arrived
// since the effective cursor, and the token to pass on the next call.
type Missed struct {
	Messages      []Event `json:"messages"`
	NextSyncToken string  `json:"next_sync_token"`
}
