// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package sqlclient

import (
	"errors"
	"net/url"
	"strings"
)

// Keys of the startup parameters credentials can be created from.
const (
	ParamHost     = "url"
	ParamUser     = "user"
	ParamPassword = "pass"
	ParamDatabase = "db"
	ParamNoPass   = "np"
)

// DefaultDriver is used by credentials without an explicit driver.
const DefaultDriver = "postgres"

// Credentials hold the connection parameters collected from the command
// line and from the user. They are converted to a driver URL with URL.
type Credentials struct {
	Driver       string `json:"driver,omitempty"`
	Host         string `json:"host,omitempty"`
	User         string `json:"user,omitempty"`
	Password     string `json:"-"`
	Database     string `json:"database,omitempty"`
	PassRequired bool   `json:"pass_required"`
}

// CredentialsFromParams creates credentials from startup parameters.
// A password is required unless the "np" parameter is "y".
func CredentialsFromParams(params map[string]string) *Credentials {
	return &Credentials{
		Host:         params[ParamHost],
		User:         params[ParamUser],
		Password:     params[ParamPassword],
		Database:     params[ParamDatabase],
		PassRequired: params[ParamNoPass] != "y",
	}
}

// IsFile reports if the credentials point to a file database,
// that has no host or user.
func (c *Credentials) IsFile() bool {
	switch c.driver() {
	case "sqlite", "sqlite3":
		return true
	}
	return false
}

func (c *Credentials) driver() string {
	if c.Driver == "" {
		return DefaultDriver
	}
	return c.Driver
}

// URL returns the driver URL for the credentials.
func (c *Credentials) URL() (string, error) {
	if c.Database == "" {
		return "", errors.New("sql/sqlclient: missing database name")
	}
	if c.IsFile() {
		return c.driver() + "://" + c.Database, nil
	}
	if c.Host == "" {
		return "", errors.New("sql/sqlclient: missing host")
	}
	u := &url.URL{
		Scheme: c.driver(),
		Host:   c.Host,
		Path:   "/" + strings.TrimPrefix(c.Database, "/"),
	}
	switch {
	case c.User == "":
	case c.PassRequired && c.Password != "":
		u.User = url.UserPassword(c.User, c.Password)
	default:
		u.User = url.User(c.User)
	}
	return u.String(), nil
}
