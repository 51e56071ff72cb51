// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package sqlclient

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/url"
	"sort"
	"sync"

	"ariga.io/dbport/sql/tabular"
)

type (
	// Client provides the common functionalities for working with a database
	// from the CLI. Note, the Client is dialect specific and should be
	// instantiated using a call to Open.
	Client struct {
		// Name used when creating the client.
		Name string

		// DB used for creating the client.
		DB *sql.DB

		// URL holds an enriched url.URL.
		URL *URL

		// The relational source tables are read from.
		tabular.Source
	}

	// URL extends the standard url.URL with the DSN that was
	// passed to the underlying database driver.
	URL struct {
		*url.URL

		// The DSN used for opening the connection.
		DSN string `json:"-"`
	}
)

// Redacted returns the URL string with its password masked.
func (u *URL) Redacted() string {
	if u == nil || u.URL == nil {
		return ""
	}
	return u.URL.Redacted()
}

// Close closes the underlying database connection and the source
// in case it implements the io.Closer interface.
func (c *Client) Close() (err error) {
	if c, ok := c.Source.(io.Closer); ok {
		err = c.Close()
	}
	if c.DB == nil {
		return err
	}
	if cerr := c.DB.Close(); cerr != nil {
		if err != nil {
			cerr = fmt.Errorf("%w: %v", err, cerr)
		}
		err = cerr
	}
	return err
}

type (
	// Opener opens a client by the given URL.
	Opener interface {
		Open(ctx context.Context, u *url.URL) (*Client, error)
	}

	// OpenerFunc allows using a function as an Opener.
	OpenerFunc func(context.Context, *url.URL) (*Client, error)

	// SourceOpener opens the relational source of an opened database.
	SourceOpener func(*sql.DB) (tabular.Source, error)

	namedOpener struct {
		Opener
		name string
	}
)

// Open calls f(ctx, u).
func (f OpenerFunc) Open(ctx context.Context, u *url.URL) (*Client, error) {
	return f(ctx, u)
}

var drivers sync.Map

// Open opens a client by its provided url string.
func Open(ctx context.Context, s string) (*Client, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("sql/sqlclient: parse open url: %w", err)
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("sql/sqlclient: missing driver in url %q", u.Redacted())
	}
	v, ok := drivers.Load(u.Scheme)
	if !ok {
		return nil, fmt.Errorf("sql/sqlclient: no opener was register with name %q", u.Scheme)
	}
	return v.(namedOpener).Open(ctx, u)
}

// Drivers returns the names of all registered drivers and flavours.
func Drivers() []string {
	var names []string
	drivers.Range(func(k, _ any) bool {
		names = append(names, k.(string))
		return true
	})
	sort.Strings(names)
	return names
}

type (
	registerOptions struct {
		flavours []string
	}
	// RegisterOption allows configuring the Opener
	// registration using functional options.
	RegisterOption func(*registerOptions)
)

// RegisterFlavours allows registering additional flavours
// (i.e. names), accepted by dbport to open clients.
func RegisterFlavours(flavours ...string) RegisterOption {
	return func(opts *registerOptions) {
		opts.flavours = flavours
	}
}

// DriverOpener is a helper Opener creator for sharing between all drivers.
// The dsn function converts the URL to the connection string of the database
// driver registered in database/sql with the given name.
func DriverOpener(name string, open SourceOpener, dsn func(*url.URL) (string, error)) Opener {
	return OpenerFunc(func(ctx context.Context, u *url.URL) (*Client, error) {
		s, err := dsn(u)
		if err != nil {
			return nil, err
		}
		db, err := sql.Open(name, s)
		if err != nil {
			return nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			if cerr := db.Close(); cerr != nil {
				err = fmt.Errorf("%w: %v", err, cerr)
			}
			return nil, err
		}
		src, err := open(db)
		if err != nil {
			if cerr := db.Close(); cerr != nil {
				err = fmt.Errorf("%w: %v", err, cerr)
			}
			return nil, err
		}
		return &Client{
			Name:   name,
			DB:     db,
			URL:    &URL{URL: u, DSN: s},
			Source: src,
		}, nil
	})
}

// Register registers a client Opener (i.e. creator) with the given name.
func Register(name string, opener Opener, opts ...RegisterOption) {
	if opener == nil {
		panic("sql/sqlclient: Register opener is nil")
	}
	opt := &registerOptions{}
	for i := range opts {
		opts[i](opt)
	}
	for _, f := range append(opt.flavours, name) {
		if _, ok := drivers.Load(f); ok {
			panic("sql/sqlclient: Register called twice for " + f)
		}
		drivers.Store(f, namedOpener{
			name:   name,
			Opener: opener,
		})
	}
}
