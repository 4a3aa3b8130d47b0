/*
 * Copyright 2018 The QuorumSQL Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package client

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	// DBScheme defines the dsn scheme.
	DBScheme = "quorumsql"
	// DBSchemeAlias defines the alias dsn scheme.
	DBSchemeAlias = "qsql"

	paramKeyUseLeader   = "use_leader"
	paramKeyUseFollower = "use_follower"
	paramKeyMirror      = "mirror"
)

// Config is the database connection config parsed from a DSN string.
type Config struct {
	// DatabaseID is the target database id.
	DatabaseID string
	// UseLeader directs read queries to the leader node.
	UseLeader bool
	// UseFollower directs read queries to a random follower node.
	UseFollower bool
	// Mirror routes all queries to the given mirror server address instead
	// of the database peers.
	Mirror string
}

// NewConfig creates a new config with default values.
func NewConfig() *Config {
	return &Config{
		UseLeader: true,
	}
}

// FormatDSN formats the config into a DSN string which can be passed to
// sql.Open.
func (cfg *Config) FormatDSN() string {
	newQuery := url.Values{}
	if !cfg.UseLeader {
		newQuery.Set(paramKeyUseLeader, strconv.FormatBool(cfg.UseLeader))
	}
	if cfg.UseFollower {
		newQuery.Set(paramKeyUseFollower, strconv.FormatBool(cfg.UseFollower))
	}
	if cfg.Mirror != "" {
		newQuery.Set(paramKeyMirror, cfg.Mirror)
	}

	// url.URL drops the "//" for an empty host, which would not survive a
	// ParseDSN round trip, so the dsn is assembled by hand
	dsn := DBScheme + "://" + cfg.DatabaseID
	if encoded := newQuery.Encode(); encoded != "" {
		dsn += "?" + encoded
	}
	return dsn
}

// ParseDSN parses the DSN string into a Config. A bare database id without a
// scheme is accepted as well.
func ParseDSN(dsn string) (cfg *Config, err error) {
	if !strings.Contains(dsn, "://") {
		dsn = DBScheme + "://" + dsn
	}

	var u *url.URL
	if u, err = url.Parse(dsn); err != nil {
		err = errors.Wrap(ErrInvalidDSN, err.Error())
		return
	}
	if u.Scheme != DBScheme && u.Scheme != DBSchemeAlias {
		err = errors.Wrapf(ErrInvalidDSN, "unknown scheme %s", u.Scheme)
		return
	}

	cfg = NewConfig()
	cfg.DatabaseID = u.Host

	q := u.Query()
	if v := q.Get(paramKeyUseLeader); v != "" {
		if cfg.UseLeader, err = strconv.ParseBool(v); err != nil {
			err = errors.Wrapf(ErrInvalidDSN, "invalid %s param", paramKeyUseLeader)
			cfg = nil
			return
		}
	}
	if v := q.Get(paramKeyUseFollower); v != "" {
		if cfg.UseFollower, err = strconv.ParseBool(v); err != nil {
			err = errors.Wrapf(ErrInvalidDSN, "invalid %s param", paramKeyUseFollower)
			cfg = nil
			return
		}
	}
	cfg.Mirror = q.Get(paramKeyMirror)

	return
}
