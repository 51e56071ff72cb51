// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"ariga.io/dbport/sql/internal/sqlx"
	"ariga.io/dbport/sql/sqlclient"
	"ariga.io/dbport/sql/tabular"

	"github.com/lib/pq"
)

// DriverName holds the name used for registration.
const DriverName = "postgres"

func init() {
	sqlclient.Register(
		DriverName,
		sqlclient.DriverOpener(DriverName, func(db *sql.DB) (tabular.Source, error) {
			return Open(db), nil
		}, DSN),
		sqlclient.RegisterFlavours("postgresql"),
	)
}

// Driver reads tables from a PostgreSQL database.
type Driver struct {
	sqlx.ExecQuerier
}

var _ tabular.Source = (*Driver)(nil)

// Open opens a new PostgreSQL source.
func Open(db sqlx.ExecQuerier) *Driver {
	return &Driver{ExecQuerier: db}
}

// DSN returns the lib/pq connection string of the given URL.
// TLS is disabled unless the URL sets the sslmode parameter.
func DSN(u *url.URL) (string, error) {
	if u.Host == "" {
		return "", fmt.Errorf("postgres: missing host in url")
	}
	u1 := *u
	u1.Scheme = DriverName
	q := u1.Query()
	if !q.Has("sslmode") {
		q.Set("sslmode", "disable")
	}
	u1.RawQuery = q.Encode()
	return u1.String(), nil
}

// Tables returns the user tables, skipping the catalogs of the
// database and tables prefixed with "pg_".
func (d *Driver) Tables(ctx context.Context) ([]string, error) {
	rows, err := d.QueryContext(ctx, tablesQuery)
	if err != nil {
		return nil, fmt.Errorf("postgres: querying tables: %w", err)
	}
	names, err := sqlx.ScanStrings(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: scanning tables: %w", err)
	}
	tables := make([]string, 0, len(names))
	for _, n := range names {
		if !strings.HasPrefix(n, "pg_") {
			tables = append(tables, n)
		}
	}
	return tables, nil
}

// Describe returns the columns of the given table, in their
// ordinal position.
func (d *Driver) Describe(ctx context.Context, table string) ([]*tabular.Column, error) {
	rows, err := d.QueryContext(ctx, columnsQuery, table)
	if err != nil {
		return nil, fmt.Errorf("postgres: querying %q columns: %w", table, err)
	}
	columns, err := sqlx.ScanColumns(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	return columns, nil
}

// Fetch returns all rows of the given table.
func (d *Driver) Fetch(ctx context.Context, table string) (*tabular.Result, error) {
	rows, err := d.QueryContext(ctx, "SELECT * FROM "+Ident(table))
	if err != nil {
		return nil, fmt.Errorf("postgres: querying %q rows: %w", table, err)
	}
	res, err := sqlx.ScanResult(rows, DriverType)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	return res, nil
}

// Ident quotes the given (possibly schema qualified) table name.
func Ident(table string) string {
	parts := strings.Split(table, ".")
	for i := range parts {
		parts[i] = pq.QuoteIdentifier(parts[i])
	}
	return strings.Join(parts, ".")
}

// DriverType maps the type name lib/pq reports for a result
// column to its driver type.
func DriverType(t string) tabular.DriverType {
	switch t {
	case "BOOL":
		return tabular.DriverBool
	case "INT2":
		return tabular.DriverInt2
	case "INT4":
		return tabular.DriverInt4
	case "INT8":
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
	table_name
FROM
	information_schema.tables
WHERE
	table_schema != 'pg_catalog' AND table_schema != 'information_schema'
ORDER BY
	table_name
`

	// Query to list table columns.
	columnsQuery = `
SELECT
	column_name,
	data_type,
	is_nullable
FROM
	information_schema.columns
WHERE
	table_name = $1
ORDER BY
	ordinal_position
`
)
