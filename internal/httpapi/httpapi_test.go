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

package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rusq/matrixmcp/internal/gateway"
)

// stubConnector records the credentials it was called with.
type stubConnector struct {
	gotCreds gateway.Credentials
	userID   string
	err      error
	calls    int
}

func (c *stubConnector) Connect(_ context.Context, creds gateway.Credentials) (string, error) {
	c.calls++
	c.gotCreds = creds
	return c.userID, c.err
}

func TestHandleConnect(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		conn       stubConnector
		wantStatus int
		wantCalls  int
		wantBody   string // substring of response body
	}{
		{
			name:       "password login succeeds",
			body:       `{"homeserver_url":"https://example.org","username":"alice","password":"secret"}`,
			conn:       stubConnector{userID: "@alice:example.org"},
			wantStatus: http.StatusOK,
			wantCalls:  1,
			wantBody:   "Successfully connected to https://example.org as @alice:example.org.",
		},
		{
			name:       "token login succeeds",
			body:       `{"homeserver_url":"https://example.org","token":"syt_xxx"}`,
			conn:       stubConnector{userID: "@alice:example.org"},
			wantStatus: http.StatusOK,
			wantCalls:  1,
			wantBody:   "Successfully connected",
		},
		{
			name:       "connect failure returns 400 with detail",
			body:       `{"homeserver_url":"https://example.org","username":"alice","password":"wrong"}`,
			conn:       stubConnector{err: &gateway.ConnectError{Reason: errors.New("Invalid password")}},
			wantStatus: http.StatusBadRequest,
			wantCalls:  1,
			wantBody:   "Invalid password",
		},
		{
			name:       "malformed body returns 400 without connecting",
			body:       `{not json`,
			conn:       stubConnector{},
			wantStatus: http.StatusBadRequest,
			wantCalls:  0,
			wantBody:   "invalid request body",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := New(&tt.conn, nil)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/connect", strings.NewReader(tt.body))

			srv.Handler().ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalls, tt.conn.calls)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
	t.Run("credentials are passed through verbatim", func(t *testing.T) {
		conn := stubConnector{userID: "@alice:example.org"}
		srv := New(&conn, nil)
		rec := httptest.NewRecorder()
		body := `{"homeserver_url":"https://example.org","username":"alice","password":"secret","device_id":"LAPTOP"}`
		req := httptest.NewRequest(http.MethodPost, "/connect", strings.NewReader(body))

		srv.Handler().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, gateway.Credentials{
			HomeserverURL: "https://example.org",
			Username:      "alice",
			Password:      "secret",
			DeviceID:      "LAPTOP",
		}, conn.gotCreds)

		var resp struct {
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Message)
	})
}

func TestHandleHealthcheck(t *testing.T) {
	srv := New(&stubConnector{}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)

	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
