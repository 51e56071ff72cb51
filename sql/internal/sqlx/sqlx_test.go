// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package sqlx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"ariga.io/dbport/sql/internal/sqltest"
	"ariga.io/dbport/sql/tabular"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestScanOne(t *testing.T) {
	db, m, err := sqlmock.New()
	require.NoError(t, err)
	m.ExpectQuery("SELECT version()").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("15.2"))
	rows, err := db.Query("SELECT version()")
	require.NoError(t, err)
	var v string
	require.NoError(t, ScanOne(rows, &v))
	require.Equal(t, "15.2", v)

	m.ExpectQuery("SELECT version()").
		WillReturnRows(sqlmock.NewRows([]string{"version"}))
	rows, err = db.Query("SELECT version()")
	require.NoError(t, err)
	require.True(t, errors.Is(ScanOne(rows, &v), sql.ErrNoRows))
}

func TestScanStrings(t *testing.T) {
	db, m, err := sqlmock.New()
	require.NoError(t, err)
	m.ExpectQuery("SELECT name").
		WillReturnRows(sqltest.Rows(`
 table_name
------------
 pets
 users
`))
	rows, err := db.Query("SELECT name")
	require.NoError(t, err)
	names, err := ScanStrings(rows)
	require.NoError(t, err)
	require.Equal(t, []string{"pets", "users"}, names)
}

func TestScanColumns(t *testing.T) {
	db, m, err := sqlmock.New()
	require.NoError(t, err)
	m.ExpectQuery("SELECT columns").
		WillReturnRows(sqltest.Rows(`
 column_name | data_type         | is_nullable
-------------+-------------------+-------------
 id          | integer           | NO
 name        | character varying | YES
 bio         | text              | no
`))
	rows, err := db.Query("SELECT columns")
	require.NoError(t, err)
	columns, err := ScanColumns(rows)
	require.NoError(t, err)
	require.Equal(t, []*tabular.Column{
		{Name: "id", Type: "integer"},
		{Name: "name", Type: "character varying", Nullable: true},
		{Name: "bio", Type: "text"},
	}, columns)
}

func TestScanResult(t *testing.T) {
	db, m, err := sqlmock.New()
	require.NoError(t, err)
	m.ExpectQuery("SELECT rows").
		WillReturnRows(sqltest.TypedRows(`
 id:int4 | ok:bool | name:text | price:numeric
---------+---------+-----------+---------------
 1       | t       | a8m       | 1.5
 2       | NULL    | NULL      | NULL
`))
	rows, err := db.QueryContext(context.Background(), "SELECT rows")
	require.NoError(t, err)
	typeOf := func(t string) tabular.DriverType {
		switch t {
		case "INT4":
			return tabular.DriverInt4
		case "BOOL":
			return tabular.DriverBool
		case "TEXT":
			return tabular.DriverText
		}
		return tabular.DriverUnknown
	}
	res, err := ScanResult(rows, typeOf)
	require.NoError(t, err)
	require.Equal(t, []string{"id", "ok", "name", "price"}, res.Columns)
	require.Equal(t, []tabular.Row{
		{tabular.Int(1), tabular.Bool(true), tabular.Text("a8m"), tabular.Null()},
		{tabular.Int(2), tabular.Null(), tabular.Null(), tabular.Null()},
	}, res.Rows)
	require.NoError(t, m.ExpectationsWereMet())
}
