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

// In this file: the Gateway and its operations.

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rusq/matrixmcp/internal/matrix"
)

//go:generate mockgen -destination=mock_client/mock_client.go -package=mock_client . Conn

// Conn is the authenticated collaborator session the gateway drives.  It
// is the full capability surface the gateway requires; an implementation
// that cannot satisfy it is an integration error caught at compile time
// (see internal/matrix.Session), not a per-call runtime probe.
type Conn interface {
	// UserID returns the fully-qualified user ID of the session.
	UserID() string
	// Sync returns all new events since the given token and the token
	// for the next call.  timeout is the server-side long-poll hold.
	Sync(ctx context.Context, since string, timeout time.Duration) (*matrix.SyncResponse, error)
	// JoinedMembers returns the current members of a room.
	JoinedMembers(ctx context.Context, roomID string) ([]matrix.Member, error)
	// Logout invalidates the session on the server.
	Logout(ctx context.Context) error
}

// DialFunc establishes an authenticated connection to the homeserver named
// in the credentials.  The credentials have been validated before the call.
type DialFunc func(ctx context.Context, creds Credentials) (Conn, error)

// DefMessageLimit is the default number of recent messages returned by
// RoomMessages.
const DefMessageLimit = 20

const defSyncTimeout = 10 * time.Second

// Gateway owns the single shared session, the sync cursor and the room
// cache.  All methods are safe for concurrent use: operations that advance
// the cursor (Connect, Disconnect and every sync-triggering call) are
// linearized under syncMu, which spans the whole read-token → sync →
// commit-or-restore sequence; reads of cached data proceed without it.
type Gateway struct {
	dial   DialFunc
	logger *slog.Logger
	exec   executor

	syncMu sync.Mutex // linearizes cursor-mutating operations
	sess   holder
	cursor cursor
	rooms  *directory
}

// Option is a functional option for New.
type Option func(*Gateway)

// WithLogger sets the logger.  A nil logger falls back to slog.Default().
func WithLogger(lg *slog.Logger) Option {
	return func(g *Gateway) {
		if lg != nil {
			g.logger = lg
		}
	}
}

// WithSyncTimeout sets the server-side long-poll hold passed to sync
// calls.  Non-positive values are ignored.
func WithSyncTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.exec.timeout = d
		}
	}
}

// New creates a Gateway that connects through dial.  The gateway starts in
// StateAbsent; call Connect to establish a session.
func New(dial DialFunc, opts ...Option) *Gateway {
	g := &Gateway{
		dial:   dial,
		logger: slog.Default(),
		exec:   executor{timeout: defSyncTimeout},
		rooms:  newDirectory(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.exec.logger = g.logger
	return g
}

// State returns the session lifecycle state.
func (g *Gateway) State() State { return g.sess.current() }

// UserID returns the authenticated user ID, or "" when not connected.
func (g *Gateway) UserID() string { return g.sess.user() }

// Connect establishes a session with the homeserver.  If a session is
// already active it is torn down first; teardown failures are logged and
// never block reconnection.  On success the gateway has performed an
// initial sync, the state is StateActive and the resolved user ID is
// returned.  On failure no session is installed.
func (g *Gateway) Connect(ctx context.Context, creds Credentials) (string, error) {
	if err := creds.Validate(); err != nil {
		return "", err
	}

	g.syncMu.Lock()
	defer g.syncMu.Unlock()

	if old := g.sess.beginConnect(); old != nil {
		g.logger.WarnContext(ctx, "already connected; reconnecting", "user_id", old.UserID())
		if err := old.Logout(ctx); err != nil {
			g.logger.WarnContext(ctx, "logout of previous session failed", "error", err)
		}
	}
	g.cursor.reset()
	g.rooms.reset()

	conn, err := g.dial(ctx, creds)
	if err != nil {
		g.sess.fail()
		return "", &ConnectError{Reason: err}
	}

	// Initial sync materializes the starting room state and the first
	// cursor value.
	batch, err := g.exec.sync(ctx, conn, "")
	if err != nil {
		g.sess.fail()
		return "", &ConnectError{Reason: fmt.Errorf("initial sync: %w", err)}
	}
	g.rooms.update(batch)
	g.cursor.commit(batch.nextBatch)
	g.sess.install(conn, conn.UserID())

	g.logger.InfoContext(ctx, "connected to homeserver",
		"homeserver", creds.HomeserverURL,
		"user_id", conn.UserID(),
		"rooms", len(batch.joined),
	)
	return conn.UserID(), nil
}

// Disconnect logs out and drops the session.  The logout is best-effort: a
// failure is logged, and the session is gone either way.
func (g *Gateway) Disconnect(ctx context.Context) error {
	g.syncMu.Lock()
	defer g.syncMu.Unlock()

	old := g.sess.clear()
	g.cursor.reset()
	g.rooms.reset()
	if old == nil {
		return ErrNotConnected
	}
	if err := old.Logout(ctx); err != nil {
		g.logger.WarnContext(ctx, "logout failed", "error", err)
	}
	return nil
}

// JoinedRooms refreshes the room membership with a sync and returns the
// joined rooms.
func (g *Gateway) JoinedRooms(ctx context.Context) ([]RoomInfo, error) {
	if _, err := g.sess.active(); err != nil {
		return nil, err
	}
	if err := g.refresh(ctx, "list_joined_rooms"); err != nil {
		return nil, err
	}
	return g.rooms.list(), nil
}

// RoomMessages returns up to limit most recent messages of a room from the
// locally cached timeline, after a refresh sync.  A non-positive limit
// selects DefMessageLimit.
func (g *Gateway) RoomMessages(ctx context.Context, roomID string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = DefMessageLimit
	}
	if _, err := g.sess.active(); err != nil {
		return nil, err
	}
	// One refresh pulls in the latest server events and doubles as the
	// membership check: a room absent after it is one we are not in.
	if err := g.refresh(ctx, "get_room_messages"); err != nil {
		return nil, err
	}
	events, ok := g.rooms.recent(roomID, limit)
	if !ok {
		return nil, &RoomNotFoundError{RoomID: roomID}
	}
	if events == nil {
		events = []Event{}
	}
	return events, nil
}

// MissedMessages returns the events of a room that arrived since the
// effective cursor: sinceToken when supplied, the committed global cursor
// otherwise.  On success the global cursor advances to the returned token;
// on any failure it is left exactly where it was.
func (g *Gateway) MissedMessages(ctx context.Context, roomID, sinceToken string) (*Missed, error) {
	g.syncMu.Lock()
	defer g.syncMu.Unlock()

	conn, err := g.sess.active()
	if err != nil {
		return nil, err
	}

	before := g.cursor.current()
	since := g.cursor.effective(sinceToken)

	batch, err := g.exec.sync(ctx, conn, since)
	if err != nil {
		g.cursor.restore(before)
		return nil, &SyncError{Op: "get_missed_messages", Err: err}
	}
	g.rooms.update(batch)
	g.cursor.commit(batch.nextBatch)

	messages := []Event{}
	if update, ok := batch.joined[roomID]; ok {
		messages = append(messages, update.events...)
	}
	g.logger.InfoContext(ctx, "missed messages",
		"room_id", roomID,
		"count", len(messages),
		"next_sync_token", batch.nextBatch,
	)
	return &Missed{Messages: messages, NextSyncToken: batch.nextBatch}, nil
}

// RoomMembers returns the current members of a room, with display names
// falling back to user IDs.  The membership precondition uses the cached
// directory, with one refresh sync when the room is unknown.
func (g *Gateway) RoomMembers(ctx context.Context, roomID string) ([]Member, error) {
	conn, err := g.sess.active()
	if err != nil {
		return nil, err
	}
	if err := g.requireMember(ctx, roomID, "get_room_members"); err != nil {
		return nil, err
	}
	roomMembers, err := conn.JoinedMembers(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("get_room_members %s: %w", roomID, err)
	}
	members := make([]Member, 0, len(roomMembers))
	for _, m := range roomMembers {
		displayName := m.DisplayName
		if displayName == "" {
			displayName = m.UserID
		}
		members = append(members, Member{UserID: m.UserID, DisplayName: displayName})
	}
	return members, nil
}

// requireMember checks that the room is in the cached membership, with one
// refresh sync as a fallback when it is not.
func (g *Gateway) requireMember(ctx context.Context, roomID, op string) error {
	if g.rooms.contains(roomID) {
		return nil
	}
	if err := g.refresh(ctx, op); err != nil {
		return err
	}
	if !g.rooms.contains(roomID) {
		return &RoomNotFoundError{RoomID: roomID}
	}
	return nil
}

// refresh performs one sync from the committed cursor and commits the
// result, under the sync mutex.
func (g *Gateway) refresh(ctx context.Context, op string) error {
	g.syncMu.Lock()
	defer g.syncMu.Unlock()

	conn, err := g.sess.active()
	if err != nil {
		return err
	}
	before := g.cursor.current()
	batch, err := g.exec.sync(ctx, conn, before)
	if err != nil {
		g.cursor.restore(before)
		return &SyncError{Op: op, Err: err}
	}
	g.rooms.update(batch)
	g.cursor.commit(batch.nextBatch)
	return nil
}
