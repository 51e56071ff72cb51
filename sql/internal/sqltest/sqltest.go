// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package sqltest

import (
	"database/sql/driver"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/DATA-DOG/go-sqlmock"
)

// Rows converts MySQL/PostgreSQL table output to sql.Rows.
// All row values are parsed as text except the "nil" and NULL keywords.
// For example:
//
//	+-------------+-----------+-------------+
//	| column_name | data_type | is_nullable |
//	+-------------+-----------+-------------+
//	| id          | integer   | NO          |
//	| name        | text      | YES         |
//	+-------------+-----------+-------------+
func Rows(table string) *sqlmock.Rows {
	header, records := parse(table)
	rows := sqlmock.NewRows(header)
	for _, r := range records {
		values := make([]driver.Value, len(header))
		for i, c := range r {
			if !isNull(c) {
				values[i] = c
			}
		}
		rows.AddRow(values...)
	}
	return rows
}

// TypedRows is like Rows, but each header cell has the form "name:TYPE",
// where TYPE is the database type name reported for the column. Values
// are converted to the Go types database drivers return for them: bool
// for BOOL/BOOLEAN, int64 for integer types and string otherwise.
//
//	 id:INT4 | ok:BOOL | name:TEXT
//	---------+---------+-----------
//	 1       | t       | a8m
//	 2       | NULL    |
func TypedRows(table string) *sqlmock.Rows {
	header, records := parse(table)
	var (
		types   = make([]string, len(header))
		columns = make([]*sqlmock.Column, len(header))
	)
	for i, h := range header {
		name, typ, _ := strings.Cut(h, ":")
		types[i] = strings.ToUpper(typ)
		columns[i] = sqlmock.NewColumn(name).OfType(types[i], sample(types[i]))
	}
	rows := sqlmock.NewRowsWithColumnDefinition(columns...)
	for _, r := range records {
		values := make([]driver.Value, len(header))
		for i, c := range r {
			if !isNull(c) {
				values[i] = convert(types[i], c)
			}
		}
		rows.AddRow(values...)
	}
	return rows
}

// Escape escapes all regular expression metacharacters in the given query.
func Escape(query string) string {
	rows := strings.Split(query, "\n")
	for i := range rows {
		rows[i] = strings.TrimPrefix(rows[i], " ")
	}
	query = strings.Join(rows, " ")
	return strings.TrimSpace(regexp.QuoteMeta(query)) + "$"
}

// parse splits a text table into its header and records.
// Empty lines, borders and separators are skipped.
func parse(table string) (header []string, records [][]string) {
	for _, line := range strings.Split(table, "\n") {
		line = strings.TrimFunc(line, unicode.IsSpace)
		if line == "" || strings.IndexAny(line, "+-") == 0 {
			continue
		}
		line = strings.TrimSuffix(strings.TrimPrefix(line, "|"), "|")
		cells := strings.Split(line, "|")
		for i, c := range cells {
			cells[i] = strings.TrimSpace(c)
		}
		if header == nil {
			header = cells
			continue
		}
		// Pad short lines (e.g. a trailing empty cell).
		for len(cells) < len(header) {
			cells = append(cells, "")
		}
		records = append(records, cells[:len(header)])
	}
	return header, records
}

func isNull(c string) bool {
	return c == "nil" || c == "NULL"
}

func isInt(typ string) bool {
	switch typ {
	case "INT2", "INT4", "INT8", "INT", "INTEGER", "SMALLINT", "MEDIUMINT", "BIGINT":
		return true
	}
	return false
}

func isBool(typ string) bool {
	return typ == "BOOL" || typ == "BOOLEAN"
}

func sample(typ string) any {
	switch {
	case isBool(typ):
		return false
	case isInt(typ):
		return int64(0)
	default:
		return ""
	}
}

func convert(typ, c string) driver.Value {
	switch {
	case isBool(typ):
		b, err := strconv.ParseBool(c)
		if err != nil {
			return c
		}
		return b
	case isInt(typ):
		i, err := strconv.ParseInt(c, 10, 64)
		if err != nil {
			return c
		}
		return i
	default:
		return c
	}
}
