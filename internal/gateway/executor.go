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

// In this file: sync execution and payload normalization.

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/rusq/matrixmcp/internal/matrix"
)

// executor performs sync calls against the collaborator connection and
// normalizes the raw payload.  It does no cursor bookkeeping; that is the
// Gateway's job.
type executor struct {
	logger  *slog.Logger
	timeout time.Duration
}

// syncBatch is the normalized result of one sync call.
type syncBatch struct {
	nextBatch string
	joined    map[string]*roomUpdate
	left      []string
}

// roomUpdate carries one room's normalized timeline events and any
// metadata discovered in the batch.
type roomUpdate struct {
	events   []Event
	name     string
	alias    string
	hasName  bool
	hasAlias bool
}

// sync calls the connection's sync primitive with the configured long-poll
// timeout and normalizes the response.
func (e *executor) sync(ctx context.Context, conn Conn, since string) (*syncBatch, error) {
	response, err := conn.Sync(ctx, since, e.timeout)
	if err != nil {
		return nil, err
	}
	return e.normalize(ctx, response), nil
}

// normalize projects a raw sync response into a syncBatch.  Malformed
// entries are dropped with a log line and never abort the rest of the
// batch.
func (e *executor) normalize(ctx context.Context, response *matrix.SyncResponse) *syncBatch {
	batch := &syncBatch{
		nextBatch: response.NextBatch,
		joined:    make(map[string]*roomUpdate, len(response.Rooms.Join)),
	}
	for roomID, joined := range response.Rooms.Join {
		update := &roomUpdate{}
		// State events carry room metadata only; they do not enter the
		// timeline window.
		for _, raw := range joined.State.Events {
			if event, ok := e.decodeEvent(ctx, roomID, raw); ok {
				update.applyMetadata(event)
			}
		}
		for _, raw := range joined.Timeline.Events {
			event, ok := e.decodeEvent(ctx, roomID, raw)
			if !ok {
				continue
			}
			// State events may arrive in the timeline as well.
			update.applyMetadata(event)
			update.events = append(update.events, event)
		}
		batch.joined[roomID] = update
	}
	for roomID := range response.Rooms.Leave {
		batch.left = append(batch.left, roomID)
	}
	return batch
}

// decodeEvent projects one raw timeline or state entry into the fixed
// Event shape.  Entries that are not well-formed event records (not a JSON
// object, or missing event_id or type) are reported as not ok.
func (e *executor) decodeEvent(ctx context.Context, roomID string, raw json.RawMessage) (Event, bool) {
	var event Event
	if err := json.Unmarshal(raw, &event); err != nil {
		e.logger.WarnContext(ctx, "dropping malformed event", "room_id", roomID, "error", err)
		return Event{}, false
	}
	if event.EventID == "" || event.Type == "" {
		e.logger.WarnContext(ctx, "dropping malformed event", "room_id", roomID, "error", "missing event_id or type")
		return Event{}, false
	}
	if event.Content == nil {
		event.Content = map[string]any{}
	}
	return event, true
}

// applyMetadata picks up room name and canonical alias changes from state
// events.
func (u *roomUpdate) applyMetadata(event Event) {
	switch event.Type {
	case "m.room.name":
		if name, ok := event.Content["name"].(string); ok {
			u.name = name
			u.hasName = true
		}
	case "m.room.canonical_alias":
		if alias, ok := event.Content["alias"].(string); ok {
			u.alias = alias
			u.hasAlias = true
		}
	}
}
