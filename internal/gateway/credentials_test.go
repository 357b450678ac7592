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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCredentialsValidate(t *testing.T) {
	tests := []struct {
		name    string
		creds   Credentials
		wantErr error
	}{
		{
			"token variant",
			Credentials{HomeserverURL: testHomeserver, Token: "syt_xxx"},
			nil,
		},
		{
			"password variant",
			Credentials{HomeserverURL: testHomeserver, Username: "alice", Password: "secret"},
			nil,
		},
		{
			"password variant with device id",
			Credentials{HomeserverURL: testHomeserver, Username: "alice", Password: "secret", DeviceID: "LAPTOP"},
			nil,
		},
		{
			"no auth material",
			Credentials{HomeserverURL: testHomeserver},
			ErrNoAuth,
		},
		{
			"username without password",
			Credentials{HomeserverURL: testHomeserver, Username: "alice"},
			ErrNoAuth,
		},
		{
			"both variants at once",
			Credentials{HomeserverURL: testHomeserver, Token: "syt_xxx", Username: "alice", Password: "secret"},
			ErrAmbiguousAuth,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.creds.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	t.Run("missing homeserver url", func(t *testing.T) {
		creds := Credentials{Token: "syt_xxx"}
		assert.Error(t, creds.Validate())
	})
	t.Run("non-http scheme", func(t *testing.T) {
		creds := Credentials{HomeserverURL: "ftp://example.org", Token: "syt_xxx"}
		assert.Error(t, creds.Validate())
	})
}
