// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"ariga.io/dbport/sql/internal/sqlx"
	"ariga.io/dbport/sql/sqlclient"
	"ariga.io/dbport/sql/tabular"

	_ "github.com/mattn/go-sqlite3"
)

// DriverName holds the name used for registration.
const DriverName = "sqlite3"

func init() {
	sqlclient.Register(
		DriverName,
		sqlclient.DriverOpener(DriverName, func(db *sql.DB) (tabular.Source, error) {
			return Open(db)
		}, DSN),
		sqlclient.RegisterFlavours("sqlite"),
	)
}

// Driver reads tables from a SQLite database.
type Driver struct {
	sqlx.ExecQuerier
	version string
}

var _ tabular.Source = (*Driver)(nil)

// Open opens a new SQLite source.
func Open(db sqlx.ExecQuerier) (*Driver, error) {
	d := &Driver{ExecQuerier: db}
	rows, err := db.QueryContext(context.Background(), "SELECT sqlite_version()")
	if err != nil {
		return nil, fmt.Errorf("sqlite: query database version: %w", err)
	}
	if err := sqlx.ScanOne(rows, &d.version); err != nil {
		return nil, fmt.Errorf("sqlite: scanning database version: %w", err)
	}
	return d, nil
}

// Version returns the version of the SQLite library.
func (d *Driver) Version() string {
	return d.version
}

// DSN returns the mattn/go-sqlite3 data source name of the given URL.
// For example, "sqlite://app.db?_fk=1" is opened as "file:app.db?_fk=1".
func DSN(u *url.URL) (string, error) {
	path := u.Opaque
	if path == "" {
		path = u.Host + u.Path
	}
	if path == "" {
		return "", fmt.Errorf("sqlite: missing database file in url")
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return "file:" + path, nil
}

// Tables returns the user tables of the database.
func (d *Driver) Tables(ctx context.Context) ([]string, error) {
	rows, err := d.QueryContext(ctx, tablesQuery)
	if err != nil {
		return nil, fmt.Errorf("sqlite: querying tables: %w", err)
	}
	tables, err := sqlx.ScanStrings(rows)
	if err != nil {
		return nil, fmt.Errorf("sqlite: scanning tables: %w", err)
	}
	return tables, nil
}

// Describe returns the columns of the given table, in their
// declaration order.
func (d *Driver) Describe(ctx context.Context, table string) ([]*tabular.Column, error) {
	rows, err := d.QueryContext(ctx, columnsQuery, table)
	if err != nil {
		return nil, fmt.Errorf("sqlite: querying %q columns: %w", table, err)
	}
	columns, err := sqlx.ScanColumns(rows)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	return columns, nil
}

// Fetch returns all rows of the given table.
func (d *Driver) Fetch(ctx context.Context, table string) (*tabular.Result, error) {
	rows, err := d.QueryContext(ctx, "SELECT * FROM "+Ident(table))
	if err != nil {
		return nil, fmt.Errorf("sqlite: querying %q rows: %w", table, err)
	}
	res, err := sqlx.ScanResult(rows, DriverType)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	return res, nil
}

// Ident quotes the given table name.
func Ident(table string) string {
	return `"` + strings.ReplaceAll(table, `"`, `""`) + `"`
}

// DriverType maps the declared type of a result column, as reported
// by mattn/go-sqlite3, to its driver type.
func DriverType(t string) tabular.DriverType {
	switch t {
	case "BOOLEAN", "BOOL":
		return tabular.DriverBool
	case "SMALLINT", "INT2":
		return tabular.DriverInt2
	case "INT", "INT4", "MEDIUMINT":
		return tabular.DriverInt4
	case "INTEGER", "BIGINT", "INT8":
		return tabular.DriverInt8
	case "TEXT":
		return tabular.DriverText
	default:
		return tabular.DriverUnknown
	}
}

const (
	// Query to list user tables.
	tablesQuery = `
SELECT
	name
FROM
	sqlite_master
WHERE
	type = 'table' AND name NOT LIKE 'sqlite_%'
ORDER BY
	name
`

	// Query to list table columns.
	columnsQuery = `
SELECT
	name,
	lower(type),
	CASE WHEN "notnull" = 0 THEN 'YES' ELSE 'NO' END
FROM
	pragma_table_info(?)
ORDER BY
	cid
`
)
