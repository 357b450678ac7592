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

package mcp

// In this file: MCP tool definitions and handler implementations.

import (
	"context"
	"errors"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"

	"github.com/rusq/matrixmcp/internal/gateway"
)

// ─── connect_matrix ───────────────────────────────────────────────────────────

func (s *Server) toolConnectMatrix() mcpsrv.ServerTool {
	tool := mcplib.NewTool("connect_matrix",
		mcplib.WithDescription(`Connect to a Matrix homeserver and establish the shared session.

Provide either an access token, or a username and password pair (not
both).  Calling this tool while a session is active replaces it: the old
session is logged out and the sync position restarts from the current
server state.  The session is shared by all clients of this server.`),
		mcplib.WithString("homeserver_url",
			mcplib.Description("Base URL of the homeserver (e.g. https://matrix.example.org)"),
			mcplib.Required(),
		),
		mcplib.WithString("token",
			mcplib.Description("Access token for an existing session. Mutually exclusive with username/password."),
		),
		mcplib.WithString("user_id",
			mcplib.Description("Fully-qualified user ID (e.g. @alice:example.org). Optional with token; resolved from the server when omitted."),
		),
		mcplib.WithString("username",
			mcplib.Description("Matrix localpart or full user ID for password login."),
		),
		mcplib.WithString("password",
			mcplib.Description("Account password for password login."),
		),
		mcplib.WithString("device_id",
			mcplib.Description("Device ID to reuse for password login. A new device is registered when omitted."),
		),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleConnectMatrix}
}

func (s *Server) handleConnectMatrix(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	homeserver, ok := stringArg(req, "homeserver_url")
	if !ok || homeserver == "" {
		return resultErr(errors.New("connect_matrix: homeserver_url is required")), nil
	}
	creds := gateway.Credentials{HomeserverURL: homeserver}
	creds.Token, _ = stringArg(req, "token")
	creds.UserID, _ = stringArg(req, "user_id")
	creds.Username, _ = stringArg(req, "username")
	creds.Password, _ = stringArg(req, "password")
	creds.DeviceID, _ = stringArg(req, "device_id")

	s.logger.InfoContext(ctx, "mcp: connect_matrix", "homeserver", homeserver)

	userID, err := s.gw.Connect(ctx, creds)
	if err != nil {
		return resultErr(fmt.Errorf("connect_matrix: %w", err)), nil
	}
	return resultText(fmt.Sprintf("Successfully connected to %s as %s.", homeserver, userID)), nil
}

// ─── disconnect_matrix ────────────────────────────────────────────────────────

func (s *Server) toolDisconnectMatrix() mcpsrv.ServerTool {
	tool := mcplib.NewTool("disconnect_matrix",
		mcplib.WithDescription("Log out and drop the shared Matrix session. All tools except connect_matrix fail until a new session is established."),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleDisconnectMatrix}
}

func (s *Server) handleDisconnectMatrix(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	if err := s.gw.Disconnect(ctx); err != nil {
		return resultErr(fmt.Errorf("disconnect_matrix: %w", err)), nil
	}
	s.logger.InfoContext(ctx, "mcp: disconnect_matrix: session dropped")
	return resultText("Disconnected from the homeserver."), nil
}

// ─── list_joined_rooms ────────────────────────────────────────────────────────

func (s *Server) toolListJoinedRooms() mcpsrv.ServerTool {
	tool := mcplib.NewTool("list_joined_rooms",
		mcplib.WithDescription("List the rooms the connected account has joined. Returns room IDs and human-readable names (room name, canonical alias, or the room ID when neither is set)."),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleListJoinedRooms}
}

func (s *Server) handleListJoinedRooms(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	rooms, err := s.gw.JoinedRooms(ctx)
	if err != nil {
		return resultErr(fmt.Errorf("list_joined_rooms: %w", err)), nil
	}
	if rooms == nil {
		rooms = []gateway.RoomInfo{}
	}
	result, err := resultJSON(rooms)
	if err != nil {
		return resultErr(fmt.Errorf("list_joined_rooms: serialise: %w", err)), nil
	}
	return result, nil
}

// ─── get_room_messages ────────────────────────────────────────────────────────

const (
	minLimit = 1
	maxLimit = 100
)

func (s *Server) toolGetRoomMessages() mcpsrv.ServerTool {
	tool := mcplib.NewTool("get_room_messages",
		mcplib.WithDescription(`Retrieve the most recent messages of a room, oldest first.

Messages come from the server-side cache, refreshed with a sync before
serving.  Fewer messages than the limit are returned when the room has
fewer cached events; that is not an error.`),
		mcplib.WithString("room_id",
			mcplib.Description("The Matrix room ID to read messages from (e.g. !abc123:example.org)"),
			mcplib.Required(),
		),
		mcplib.WithNumber("limit",
			mcplib.Description(fmt.Sprintf("Maximum number of messages to return (%d–%d, default %d)", minLimit, maxLimit, gateway.DefMessageLimit)),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleGetRoomMessages}
}

func (s *Server) handleGetRoomMessages(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	roomID, ok := stringArg(req, "room_id")
	if !ok || roomID == "" {
		return resultErr(errors.New("get_room_messages: room_id is required")), nil
	}
	limit := intArg(req, "limit", gateway.DefMessageLimit)
	limit = max(min(limit, maxLimit), minLimit) // ensure within bounds

	events, err := s.gw.RoomMessages(ctx, roomID, limit)
	if err != nil {
		return resultErr(fmt.Errorf("get_room_messages: %w", err)), nil
	}
	result, err := resultJSON(events)
	if err != nil {
		return resultErr(fmt.Errorf("get_room_messages: serialise: %w", err)), nil
	}
	return result, nil
}

// ─── get_missed_messages ──────────────────────────────────────────────────────

func (s *Server) toolGetMissedMessages() mcpsrv.ServerTool {
	tool := mcplib.NewTool("get_missed_messages",
		mcplib.WithDescription(`Retrieve the messages of a room that arrived since the last poll.

Without since_token the server's own sync position is used, so repeated
calls return each event exactly once.  Pass the next_sync_token of a
previous result as since_token to poll from an explicit position instead.
The server's sync position only advances on success; a failed call can be
retried without losing events.`),
		mcplib.WithString("room_id",
			mcplib.Description("The Matrix room ID to poll (e.g. !abc123:example.org)"),
			mcplib.Required(),
		),
		mcplib.WithString("since_token",
			mcplib.Description("Sync token to poll from, overriding the server's position. Use the next_sync_token of a previous call."),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleGetMissedMessages}
}

func (s *Server) handleGetMissedMessages(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	roomID, ok := stringArg(req, "room_id")
	if !ok || roomID == "" {
		return resultErr(errors.New("get_missed_messages: room_id is required")), nil
	}
	sinceToken, _ := stringArg(req, "since_token")

	missed, err := s.gw.MissedMessages(ctx, roomID, sinceToken)
	if err != nil {
		return resultErr(fmt.Errorf("get_missed_messages: %w", err)), nil
	}
	result, err := resultJSON(missed)
	if err != nil {
		return resultErr(fmt.Errorf("get_missed_messages: serialise: %w", err)), nil
	}
	return result, nil
}

// ─── get_room_members ─────────────────────────────────────────────────────────

func (s *Server) toolGetRoomMembers() mcpsrv.ServerTool {
	tool := mcplib.NewTool("get_room_members",
		mcplib.WithDescription("List the current members of a room. Returns user IDs and display names; the display name falls back to the user ID when not set."),
		mcplib.WithString("room_id",
			mcplib.Description("The Matrix room ID to list members of (e.g. !abc123:example.org)"),
			mcplib.Required(),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleGetRoomMembers}
}

func (s *Server) handleGetRoomMembers(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	roomID, ok := stringArg(req, "room_id")
	if !ok || roomID == "" {
		return resultErr(errors.New("get_room_members: room_id is required")), nil
	}
	members, err := s.gw.RoomMembers(ctx, roomID)
	if err != nil {
		return resultErr(fmt.Errorf("get_room_members: %w", err)), nil
	}
	result, err := resultJSON(members)
	if err != nil {
		return resultErr(fmt.Errorf("get_room_members: serialise: %w", err)), nil
	}
	return result, nil
}
