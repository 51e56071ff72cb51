// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strings"

	"ariga.io/dbport/sql/internal/sqlx"
	"ariga.io/dbport/sql/sqlclient"
	"ariga.io/dbport/sql/tabular"

	"github.com/go-sql-driver/mysql"
)

// DriverName holds the name used for registration.
const DriverName = "mysql"

func init() {
	sqlclient.Register(
		DriverName,
		sqlclient.DriverOpener(DriverName, func(db *sql.DB) (tabular.Source, error) {
			return Open(db), nil
		}, DSN),
		sqlclient.RegisterFlavours("mariadb"),
	)
}

// Driver reads tables from a MySQL database.
type Driver struct {
	sqlx.ExecQuerier
}

var _ tabular.Source = (*Driver)(nil)

// Open opens a new MySQL source.
func Open(db sqlx.ExecQuerier) *Driver {
	return &Driver{ExecQuerier: db}
}

// DSN returns the go-sql-driver/mysql data source name of the given URL.
// Query parameters are passed to the driver as is.
func DSN(u *url.URL) (string, error) {
	if u.Host == "" {
		return "", fmt.Errorf("mysql: missing host in url")
	}
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	if _, _, err := net.SplitHostPort(u.Host); err != nil {
		cfg.Addr = net.JoinHostPort(u.Host, "3306")
	}
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	if q := u.Query(); len(q) > 0 {
		cfg.Params = make(map[string]string, len(q))
		for k := range q {
			cfg.Params[k] = q.Get(k)
		}
	}
	return cfg.FormatDSN(), nil
}

// Tables returns the base tables of the connected database.
func (d *Driver) Tables(ctx context.Context) ([]string, error) {
	rows, err := d.QueryContext(ctx, tablesQuery)
	if err != nil {
		return nil, fmt.Errorf("mysql: querying tables: %w", err)
	}
	tables, err := sqlx.ScanStrings(rows)
	if err != nil {
		return nil, fmt.Errorf("mysql: scanning tables: %w", err)
	}
	return tables, nil
}

// Describe returns the columns of the given table, in their
// ordinal position.
func (d *Driver) Describe(ctx context.Context, table string) ([]*tabular.Column, error) {
	rows, err := d.QueryContext(ctx, columnsQuery, table)
	if err != nil {
		return nil, fmt.Errorf("mysql: querying %q columns: %w", table, err)
	}
	columns, err := sqlx.ScanColumns(rows)
	if err != nil {
		return nil, fmt.Errorf("mysql: %w", err)
	}
	return columns, nil
}

// Fetch returns all rows of the given table.
func (d *Driver) Fetch(ctx context.Context, table string) (*tabular.Result, error) {
	rows, err := d.QueryContext(ctx, "SELECT * FROM "+Ident(table))
	if err != nil {
		return nil, fmt.Errorf("mysql: querying %q rows: %w", table, err)
	}
	res, err := sqlx.ScanResult(rows, DriverType)
	if err != nil {
		return nil, fmt.Errorf("mysql: %w", err)
	}
	return res, nil
}

// Ident quotes the given (possibly database qualified) table name.
func Ident(table string) string {
	parts := strings.Split(table, ".")
	for i := range parts {
		parts[i] = "`" + strings.ReplaceAll(parts[i], "`", "``") + "`"
	}
	return strings.Join(parts, ".")
}

// DriverType maps the type name go-sql-driver/mysql reports for a
// result column to its driver type. TINYINT is the storage type of
// BOOL and BOOLEAN columns; other TINYINT values fetch as true when non-zero.
func DriverType(t string) tabular.DriverType {
	switch strings.TrimPrefix(t, "UNSIGNED ") {
	case "TINYINT":
		return tabular.DriverBool
	case "SMALLINT":
		return tabular.DriverInt2
	case "MEDIUMINT", "INT":
		return tabular.DriverInt4
	case "BIGINT":
		return tabular.DriverInt8
	case "TEXT", "VARCHAR":
		return tabular.DriverText
	default:
		return tabular.DriverUnknown
	}
}

const (
	// Query to list the base tables of the current database.
	tablesQuery = `
SELECT
	table_name
FROM
	information_schema.tables
WHERE
	table_schema = DATABASE() AND table_type = 'BASE TABLE'
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
	table_schema = DATABASE() AND table_name = ?
ORDER BY
	ordinal_position
`
)
