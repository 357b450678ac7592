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

// In this file: HTTP client and authenticated session.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const deviceDisplayName = "matrixmcp"

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// HomeserverURL is the base URL of the homeserver, e.g. "https://matrix.org".
	HomeserverURL string
	// HTTPClient is used for all requests.  If nil, http.DefaultClient is used.
	HTTPClient *http.Client
	// Logger is used for structured logging.  If nil, slog.Default() is used.
	Logger *slog.Logger
	// Limits control request pacing.  If nil, DefLimits are used.
	Limits *Limits
}

// Client is an unauthenticated Matrix client.  It holds the homeserver URL
// and HTTP transport, shared by the Sessions it creates.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	lim        *rate.Limiter
}

// NewClient creates a new unauthenticated Matrix client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.HomeserverURL == "" {
		return nil, fmt.Errorf("matrix: homeserver URL is required")
	}
	u, err := url.Parse(config.HomeserverURL)
	if err != nil {
		return nil, fmt.Errorf("matrix: invalid homeserver URL %q: %w", config.HomeserverURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("matrix: homeserver URL %q: scheme must be http or https", config.HomeserverURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limits := config.Limits
	if limits == nil {
		limits = &DefLimits
	}
	if err := limits.Validate(); err != nil {
		return nil, fmt.Errorf("matrix: invalid limits: %w", err)
	}

	return &Client{
		baseURL:    strings.TrimRight(config.HomeserverURL, "/"),
		httpClient: httpClient,
		logger:     logger,
		lim:        limits.limiter(),
	}, nil
}

// Login authenticates with username and password, returning a Session.  If
// deviceID is empty a fresh one is generated, so that repeated logins do not
// invalidate each other's tokens on servers with per-device token policies.
func (c *Client) Login(ctx context.Context, username, password, deviceID string) (*Session, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("matrix: username and password are required for login")
	}
	if deviceID == "" {
		deviceID = deviceDisplayName + "-" + uuid.NewString()[:8]
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/_matrix/client/v3/login", "", LoginRequest{
		Type:                     "m.login.password",
		User:                     username,
		Password:                 password,
		DeviceID:                 deviceID,
		InitialDeviceDisplayName: deviceDisplayName,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("matrix: login failed: %w", err)
	}

	var auth AuthResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		return nil, fmt.Errorf("matrix: failed to parse login response: %w", err)
	}

	c.logger.InfoContext(ctx, "logged in to matrix", "user_id", auth.UserID, "device_id", auth.DeviceID)

	return &Session{client: c, accessToken: auth.AccessToken, userID: auth.UserID, deviceID: auth.DeviceID}, nil
}

// SessionFromToken creates a Session from an existing access token.  The
// token is not validated; call Session.WhoAmI to verify it and to resolve
// the user ID when it was not supplied.
func (c *Client) SessionFromToken(userID, accessToken string) *Session {
	return &Session{client: c, accessToken: accessToken, userID: userID}
}

// Session is an authenticated connection to a homeserver.
type Session struct {
	client      *Client
	accessToken string
	userID      string
	deviceID    string
}

// UserID returns the fully-qualified Matrix user ID of the session.
func (s *Session) UserID() string { return s.userID }

// WhoAmI validates the access token and returns the server-resolved user
// ID, updating the session's own record of it.
func (s *Session) WhoAmI(ctx context.Context) (string, error) {
	body, err := s.client.doRequest(ctx, http.MethodGet, "/_matrix/client/v3/account/whoami", s.accessToken, nil, nil)
	if err != nil {
		return "", fmt.Errorf("matrix: whoami failed: %w", err)
	}
	var response WhoAmIResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("matrix: failed to parse whoami response: %w", err)
	}
	s.userID = response.UserID
	if response.DeviceID != "" {
		s.deviceID = response.DeviceID
	}
	return response.UserID, nil
}

// Sync performs a /sync call.  since is the position token from a previous
// call (empty for an initial sync); timeout is the server-side long-poll
// hold, passed through in milliseconds (zero returns immediately).
func (s *Session) Sync(ctx context.Context, since string, timeout time.Duration) (*SyncResponse, error) {
	query := url.Values{}
	if since != "" {
		query.Set("since", since)
	}
	query.Set("timeout", strconv.FormatInt(timeout.Milliseconds(), 10))

	body, err := s.client.doRequest(ctx, http.MethodGet, "/_matrix/client/v3/sync", s.accessToken, nil, query)
	if err != nil {
		return nil, fmt.Errorf("matrix: sync failed: %w", err)
	}
	var response SyncResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("matrix: failed to parse sync response: %w", err)
	}
	if response.NextBatch == "" {
		return nil, fmt.Errorf("matrix: sync response missing next_batch token")
	}
	return &response, nil
}

// JoinedRooms returns the IDs of the rooms the user has joined.
func (s *Session) JoinedRooms(ctx context.Context) ([]string, error) {
	body, err := s.client.doRequest(ctx, http.MethodGet, "/_matrix/client/v3/joined_rooms", s.accessToken, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("matrix: joined rooms failed: %w", err)
	}
	var response struct {
		JoinedRooms []string `json:"joined_rooms"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("matrix: failed to parse joined rooms response: %w", err)
	}
	return response.JoinedRooms, nil
}

// JoinedMembers returns the current members of a room, sorted by user ID.
func (s *Session) JoinedMembers(ctx context.Context, roomID string) ([]Member, error) {
	path := "/_matrix/client/v3/rooms/" + url.PathEscape(roomID) + "/joined_members"
	body, err := s.client.doRequest(ctx, http.MethodGet, path, s.accessToken, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("matrix: joined members of %s failed: %w", roomID, err)
	}
	var response joinedMembersResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("matrix: failed to parse joined members response: %w", err)
	}
	members := make([]Member, 0, len(response.Joined))
	for userID, info := range response.Joined {
		members = append(members, Member{UserID: userID, DisplayName: info.DisplayName})
	}
	sort.Slice(members, func(i, j int) bool { return members[i].UserID < members[j].UserID })
	return members, nil
}

// Logout invalidates the session's access token on the server.
func (s *Session) Logout(ctx context.Context) error {
	if _, err := s.client.doRequest(ctx, http.MethodPost, "/_matrix/client/v3/logout", s.accessToken, struct{}{}, nil); err != nil {
		return fmt.Errorf("matrix: logout failed: %w", err)
	}
	s.client.logger.InfoContext(ctx, "logged out of matrix", "user_id", s.userID)
	return nil
}

// doRequest performs a rate-limited HTTP request to the homeserver and
// returns the response body.  On 2xx the body is returned; on any other
// status an *APIError is returned.  accessToken may be empty for
// unauthenticated endpoints.
func (c *Client) doRequest(ctx context.Context, method, path, accessToken string, requestBody any, query url.Values) ([]byte, error) {
	if err := c.lim.Wait(ctx); err != nil {
		return nil, fmt.Errorf("matrix: rate limiter: %w", err)
	}

	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("matrix: failed to encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("matrix: failed to create request: %w", err)
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		request.Header.Set("Authorization", "Bearer "+accessToken)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("matrix: request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("matrix: failed to read response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	// All Matrix error responses share the same JSON shape.
	var apiErr APIError
	if jsonErr := json.Unmarshal(responseBody, &apiErr); jsonErr != nil || apiErr.Code == "" {
		return nil, fmt.Errorf("matrix: unexpected %d response from %s %s: %s",
			response.StatusCode, method, path, string(responseBody))
	}
	apiErr.StatusCode = response.StatusCode
	return nil, &apiErr
}
