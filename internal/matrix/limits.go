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

// In this file: tunable request pacing and timeout limits.

import (
	"errors"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"
)

// Limits control request pacing and sync timeouts for a Client.  The zero
// value is not usable; start from DefLimits.
type Limits struct {
	// PerSecond is the sustained homeserver request rate.
	PerSecond float64 `toml:"per_second" validate:"required,gt=0"`
	// Burst is the number of requests allowed to exceed the sustained
	// rate momentarily.
	Burst int `toml:"burst" validate:"required,gte=1"`
	// SyncTimeout is the server-side long-poll hold passed to /sync.
	SyncTimeout time.Duration `toml:"sync_timeout" validate:"gte=0"`
}

// DefLimits are the default limits.  10 req/s is far below any homeserver
// rate-limit threshold; the 10 second long-poll matches the upstream
// server default used by the tools.
var DefLimits = Limits{
	PerSecond:   10,
	Burst:       3,
	SyncTimeout: 10 * time.Second,
}

var validate = validator.New()

// Validate checks the limit values.
func (l *Limits) Validate() error {
	return validate.Struct(l)
}

// ErrLimitsInvalid is returned by LoadLimits when the file parses but fails
// validation.
var ErrLimitsInvalid = errors.New("limits validation failed")

// LoadLimits reads, parses and validates a TOML limits file.
func LoadLimits(filename string) (*Limits, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	limits := DefLimits
	dec := toml.NewDecoder(f)
	if _, err := dec.Decode(&limits); err != nil {
		return nil, err
	}
	if err := limits.Validate(); err != nil {
		var vErr validator.ValidationErrors
		if errors.As(err, &vErr) {
			return nil, errors.Join(ErrLimitsInvalid, vErr)
		}
		return nil, err
	}
	return &limits, nil
}

// limiter constructs the rate limiter for the configured request rate.
func (l *Limits) limiter() *rate.Limiter {
	return rate.NewLimiter(rate.Limit(l.PerSecond), l.Burst)
}
