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

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLimits are fast limits so that tests never wait on the pacer.
var testLimits = Limits{PerSecond: 1000, Burst: 100, SyncTimeout: 0}

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(ClientConfig{HomeserverURL: srv.URL, Limits: &testLimits})
	require.NoError(t, err)
	return c
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"https", "https://matrix.example.org", false},
		{"http", "http://localhost:8008", false},
		{"trailing slash", "https://matrix.example.org/", false},
		{"empty", "", true},
		{"bad scheme", "ftp://matrix.example.org", true},
		{"no scheme", "matrix.example.org", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(ClientConfig{HomeserverURL: tt.url})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
	t.Run("invalid limits are rejected", func(t *testing.T) {
		_, err := NewClient(ClientConfig{
			HomeserverURL: "https://matrix.example.org",
			Limits:        &Limits{PerSecond: -1, Burst: 0},
		})
		assert.Error(t, err)
	})
}

func TestLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotReq LoginRequest
		c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/_matrix/client/v3/login", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
			writeJSON(t, w, http.StatusOK, AuthResponse{
				UserID:      "@alice:example.org",
				AccessToken: "syt_token",
				DeviceID:    gotReq.DeviceID,
			})
		})

		sess, err := c.Login(t.Context(), "alice", "secret", "LAPTOP")
		require.NoError(t, err)
		assert.Equal(t, "@alice:example.org", sess.UserID())
		assert.Equal(t, "m.login.password", gotReq.Type)
		assert.Equal(t, "alice", gotReq.User)
		assert.Equal(t, "secret", gotReq.Password)
		assert.Equal(t, "LAPTOP", gotReq.DeviceID)
	})
	t.Run("empty device id generates one", func(t *testing.T) {
		var gotReq LoginRequest
		c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
			writeJSON(t, w, http.StatusOK, AuthResponse{UserID: "@alice:example.org", AccessToken: "syt_token"})
		})

		_, err := c.Login(t.Context(), "alice", "secret", "")
		require.NoError(t, err)
		assert.NotEmpty(t, gotReq.DeviceID)
	})
	t.Run("wrong password surfaces the API error", func(t *testing.T) {
		c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusForbidden, map[string]string{
				"errcode": "M_FORBIDDEN",
				"error":   "Invalid password",
			})
		})

		_, err := c.Login(t.Context(), "alice", "wrong", "")
		require.Error(t, err)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
		assert.Equal(t, "M_FORBIDDEN", apiErr.Code)
		assert.True(t, apiErr.IsAuthError())
	})
	t.Run("missing credentials fail without a request", func(t *testing.T) {
		c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("no request expected")
		})
		_, err := c.Login(t.Context(), "", "secret", "")
		assert.Error(t, err)
		_, err = c.Login(t.Context(), "alice", "", "")
		assert.Error(t, err)
	})
}

func TestWhoAmI(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/_matrix/client/v3/account/whoami", r.URL.Path)
		assert.Equal(t, "Bearer syt_token", r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, WhoAmIResponse{UserID: "@alice:example.org", DeviceID: "LAPTOP"})
	})

	sess := c.SessionFromToken("", "syt_token")
	userID, err := sess.WhoAmI(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "@alice:example.org", userID)
	assert.Equal(t, "@alice:example.org", sess.UserID())
}

func TestSync(t *testing.T) {
	t.Run("initial sync omits since", func(t *testing.T) {
		c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/_matrix/client/v3/sync", r.URL.Path)
			assert.False(t, r.URL.Query().Has("since"))
			assert.Equal(t, "10000", r.URL.Query().Get("timeout"))
			writeJSON(t, w, http.StatusOK, SyncResponse{NextBatch: "s1"})
		})

		sess := c.SessionFromToken("@alice:example.org", "syt_token")
		resp, err := sess.Sync(t.Context(), "", 10*time.Second)
		require.NoError(t, err)
		assert.Equal(t, "s1", resp.NextBatch)
	})
	t.Run("incremental sync passes since", func(t *testing.T) {
		c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "s1", r.URL.Query().Get("since"))
			writeJSON(t, w, http.StatusOK, SyncResponse{
				NextBatch: "s2",
				Rooms: RoomsSection{Join: map[string]JoinedRoom{
					"!r:example.org": {Timeline: TimelineSection{
						Events: []json.RawMessage{json.RawMessage(`{"event_id":"$e1","type":"m.room.message"}`)},
					}},
				}},
			})
		})

		sess := c.SessionFromToken("@alice:example.org", "syt_token")
		resp, err := sess.Sync(t.Context(), "s1", 0)
		require.NoError(t, err)
		assert.Equal(t, "s2", resp.NextBatch)
		require.Contains(t, resp.Rooms.Join, "!r:example.org")
		assert.Len(t, resp.Rooms.Join["!r:example.org"].Timeline.Events, 1)
	})
	t.Run("missing next_batch is an error", func(t *testing.T) {
		c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]any{"rooms": map[string]any{}})
		})

		sess := c.SessionFromToken("@alice:example.org", "syt_token")
		_, err := sess.Sync(t.Context(), "", 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "next_batch")
	})
}

func TestJoinedMembers(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/joined_members")
		writeJSON(t, w, http.StatusOK, map[string]any{
			"joined": map[string]any{
				"@bob:example.org":   map[string]string{"display_name": "Bob"},
				"@alice:example.org": map[string]string{"display_name": "Alice"},
				"@zed:example.org":   map[string]string{},
			},
		})
	})

	sess := c.SessionFromToken("@alice:example.org", "syt_token")
	members, err := sess.JoinedMembers(t.Context(), "!r:example.org")
	require.NoError(t, err)
	require.Len(t, members, 3)
	// sorted by user ID
	assert.Equal(t, Member{UserID: "@alice:example.org", DisplayName: "Alice"}, members[0])
	assert.Equal(t, Member{UserID: "@bob:example.org", DisplayName: "Bob"}, members[1])
	assert.Equal(t, Member{UserID: "@zed:example.org"}, members[2])
}

func TestLogout(t *testing.T) {
	var called bool
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/_matrix/client/v3/logout", r.URL.Path)
		assert.Equal(t, "Bearer syt_token", r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, map[string]any{})
	})

	sess := c.SessionFromToken("@alice:example.org", "syt_token")
	require.NoError(t, sess.Logout(t.Context()))
	assert.True(t, called)
}

func TestDoRequest_errorShapes(t *testing.T) {
	t.Run("matrix error body becomes APIError", func(t *testing.T) {
		c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusTooManyRequests, map[string]string{
				"errcode": "M_LIMIT_EXCEEDED",
				"error":   "Too Many Requests",
			})
		})
		sess := c.SessionFromToken("@alice:example.org", "syt_token")
		_, err := sess.JoinedRooms(t.Context())
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "M_LIMIT_EXCEEDED", apiErr.Code)
		assert.False(t, apiErr.IsAuthError())
	})
	t.Run("non-matrix error body is reported verbatim", func(t *testing.T) {
		c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		})
		sess := c.SessionFromToken("@alice:example.org", "syt_token")
		_, err := sess.JoinedRooms(t.Context())
		require.Error(t, err)
		var apiErr *APIError
		assert.False(t, errors.As(err, &apiErr))
		assert.Contains(t, err.Error(), "502")
	})
}
