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

// In this file: the per-session room cache.

import (
	"sort"
	"sync"
)

// timelineWindow caps the number of events cached per room.  Older events
// fall off the front; the message tools only ever serve the tail.
const timelineWindow = 500

// room is one cached conversation.
type room struct {
	id       string
	name     string
	alias    string
	timeline []Event
	seen     map[string]struct{} // event IDs present in timeline
}

// displayName falls back through the room name and canonical alias to the
// room ID.
func (r *room) displayName() string {
	if r.name != "" {
		return r.name
	}
	if r.alias != "" {
		return r.alias
	}
	return r.id
}

// append adds events to the timeline in arrival order, skipping events
// already in the window (a caller-supplied stale cursor replays server
// history) and trimming the window to its cap.
func (r *room) append(events []Event) {
	for _, event := range events {
		if _, dup := r.seen[event.EventID]; dup {
			continue
		}
		r.seen[event.EventID] = struct{}{}
		r.timeline = append(r.timeline, event)
	}
	if excess := len(r.timeline) - timelineWindow; excess > 0 {
		for _, event := range r.timeline[:excess] {
			delete(r.seen, event.EventID)
		}
		r.timeline = append(r.timeline[:0:0], r.timeline[excess:]...)
	}
}

// directory caches the rooms the session is a member of.  It is refreshed
// by every committed sync and dropped wholesale when the session goes
// away.
type directory struct {
	mu    sync.RWMutex
	rooms map[string]*room
}

func newDirectory() *directory {
	return &directory{rooms: make(map[string]*room)}
}

// update applies a normalized sync batch: joined rooms are created or
// refreshed, left rooms are evicted.
func (d *directory) update(batch *syncBatch) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for roomID, change := range batch.joined {
		r, ok := d.rooms[roomID]
		if !ok {
			r = &room{id: roomID, seen: make(map[string]struct{})}
			d.rooms[roomID] = r
		}
		if change.hasName {
			r.name = change.name
		}
		if change.hasAlias {
			r.alias = change.alias
		}
		r.append(change.events)
	}
	for _, roomID := range batch.left {
		delete(d.rooms, roomID)
	}
}

// contains reports whether the room is in the membership.
func (d *directory) contains(roomID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.rooms[roomID]
	return ok
}

// list returns the joined rooms sorted by room ID.
func (d *directory) list() []RoomInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()
	infos := make([]RoomInfo, 0, len(d.rooms))
	for _, r := range d.rooms {
		infos = append(infos, RoomInfo{RoomID: r.id, Name: r.displayName()})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].RoomID < infos[j].RoomID })
	return infos
}

// recent returns up to limit most recent cached events of a room, oldest
// first.  Under-supply is not an error: fewer events are returned when
// fewer are cached.
func (d *directory) recent(roomID string, limit int) ([]Event, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.rooms[roomID]
	if !ok {
		return nil, false
	}
	start := len(r.timeline) - limit
	if start < 0 {
		start = 0
	}
	window := make([]Event, len(r.timeline)-start)
	copy(window, r.timeline[start:])
	return window, true
}

// reset drops all cached rooms.
func (d *directory) reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rooms = make(map[string]*room)
}
