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

package matrix

// In this file: wire types for the Matrix client-server API subset used by
// the gateway.

import "encoding/json"

// LoginRequest is the request body for POST /_matrix/client/v3/login.
type LoginRequest struct {
	Type                     string `json:"type"`
	User                     string `json:"user"`
	Password                 string `json:"password"`
	DeviceID                 string `json:"device_id,omitempty"`
	InitialDeviceDisplayName string `json:"initial_device_display_name,omitempty"`
}

// AuthResponse is returned by the login endpoint.
type AuthResponse struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
	DeviceID    string `json:"device_id"`
}

// WhoAmIResponse is returned by GET /_matrix/client/v3/account/whoami.
type WhoAmIResponse struct {
	UserID   string `json:"user_id"`
	DeviceID string `json:"device_id,omitempty"`
}

// SyncResponse is the top-level response from /sync.  Timeline and state
// entries are kept as raw JSON: the server may interleave records that do
// not conform to the event schema, and it is the caller's job to decide
// what to do with them (the gateway drops and logs malformed entries).
type SyncResponse struct {
	NextBatch string       `json:"next_batch"`
	Rooms     RoomsSection `json:"rooms"`
}

// RoomsSection groups per-room sync data by membership state.
type RoomsSection struct {
	Join  map[string]JoinedRoom `json:"join,omitempty"`
	Leave map[string]LeftRoom   `json:"leave,omitempty"`
}

// JoinedRoom contains sync data for a room the user has joined.
type JoinedRoom struct {
	State    StateSection    `json:"state"`
	Timeline TimelineSection `json:"timeline"`
}

// LeftRoom contains sync data for a room the user has left.
type LeftRoom struct {
	Timeline TimelineSection `json:"timeline"`
}

// TimelineSection contains timeline entries from a sync response.
type TimelineSection struct {
	Events    []json.RawMessage `json:"events"`
	PrevBatch string            `json:"prev_batch"`
	Limited   bool              `json:"limited"`
}

// StateSection contains state entries from a sync response.
type StateSection struct {
	Events []json.RawMessage `json:"events"`
}

// Member is one entry of the /joined_members response.
type Member struct {
	UserID      string
	DisplayName string
}

// joinedMembersResponse is the wire shape of
// GET /_matrix/client/v3/rooms/{roomId}/joined_members.
type joinedMembersResponse struct {
	Joined map[string]struct {
		DisplayName string `json:"display_name"`
		AvatarURL   string `json:"avatar_url"`
	} `json:"joined"`
}
