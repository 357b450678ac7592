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
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Credentials identify a homeserver and exactly one way to authenticate
// against it: an access token (with an optional user ID), or a
// username/password pair (with an optional device ID).
type Credentials struct {
	HomeserverURL string `json:"homeserver_url" validate:"required,http_url"`
	UserID        string `json:"user_id,omitempty"`
	Token         string `json:"token,omitempty"`
	Username      string `json:"username,omitempty"`
	Password      string `json:"password,omitempty"`
	DeviceID      string `json:"device_id,omitempty"`
}

var (
	// ErrNoAuth is returned when neither auth variant is fully specified.
	ErrNoAuth = errors.New("insufficient credentials: provide either token, or username and password")
	// ErrAmbiguousAuth is returned when both auth variants are specified.
	ErrAmbiguousAuth = errors.New("ambiguous credentials: provide either token or username/password, not both")
)

var validate = validator.New()

// Validate checks that the homeserver URL is usable and that exactly one
// auth variant is fully specified.  It performs no network calls.
func (c *Credentials) Validate() error {
	if err := validate.Struct(c); err != nil {
		var vErr validator.ValidationErrors
		if errors.As(err, &vErr) {
			return fmt.Errorf("invalid credentials: homeserver_url must be a valid http(s) URL")
		}
		return err
	}

	hasToken := c.Token != ""
	hasPassword := c.Username != "" && c.Password != ""
	switch {
	case hasToken && (c.Username != "" || c.Password != ""):
		return ErrAmbiguousAuth
	case !hasToken && !hasPassword:
		return ErrNoAuth
	}
	return nil
}
