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

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func events(ids ...string) []Event {
	evts := make([]Event, len(ids))
	for i, id := range ids {
		evts[i] = Event{EventID: id, Sender: testUser, Type: "m.room.message", Content: map[string]any{}}
	}
	return evts
}

func TestRoomAppend(t *testing.T) {
	t.Run("duplicates within the window are skipped", func(t *testing.T) {
		r := &room{id: testRoom, seen: make(map[string]struct{})}
		r.append(events("$a", "$b"))
		r.append(events("$b", "$c"))
		require.Len(t, r.timeline, 3)
		assert.Equal(t, "$a", r.timeline[0].EventID)
		assert.Equal(t, "$c", r.timeline[2].EventID)
	})
	t.Run("window is trimmed from the front", func(t *testing.T) {
		r := &room{id: testRoom, seen: make(map[string]struct{})}
		for i := range timelineWindow + 50 {
			r.append(events(fmt.Sprintf("$e%d", i)))
		}
		require.Len(t, r.timeline, timelineWindow)
		assert.Equal(t, "$e50", r.timeline[0].EventID)
		assert.Len(t, r.seen, timelineWindow, "seen set must shrink with the window")
	})
}

func TestRoomDisplayName(t *testing.T) {
	tests := []struct {
		name string
		room room
		want string
	}{
		{"name wins", room{id: testRoom, name: "Ops", alias: "#ops:example.org"}, "Ops"},
		{"alias second", room{id: testRoom, alias: "#ops:example.org"}, "#ops:example.org"},
		{"id last", room{id: testRoom}, testRoom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.room.displayName())
		})
	}
}

func TestDirectoryUpdate(t *testing.T) {
	d := newDirectory()
	d.update(&syncBatch{joined: map[string]*roomUpdate{
		testRoom: {events: events("$a"), name: "Ops", hasName: true},
	}})
	assert.True(t, d.contains(testRoom))

	// a later batch without metadata must not erase the name
	d.update(&syncBatch{joined: map[string]*roomUpdate{
		testRoom: {events: events("$b")},
	}})
	rooms := d.list()
	require.Len(t, rooms, 1)
	assert.Equal(t, "Ops", rooms[0].Name)

	got, ok := d.recent(testRoom, 10)
	require.True(t, ok)
	require.Len(t, got, 2)

	// a leave evicts the room
	d.update(&syncBatch{left: []string{testRoom}})
	assert.False(t, d.contains(testRoom))
	_, ok = d.recent(testRoom, 10)
	assert.False(t, ok)
}
