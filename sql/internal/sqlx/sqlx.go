// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package sqlx

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"ariga.io/dbport/sql/tabular"
)

// ExecQuerier wraps the standard sql.DB methods used by the sources.
type ExecQuerier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// TypeMapper maps the database type name of a result column, as returned
// by sql.ColumnType.DatabaseTypeName, to its driver type.
type TypeMapper func(string) tabular.DriverType

// ScanOne scans one record and closes the rows at the end.
func ScanOne(rows *sql.Rows, dest ...any) error {
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}
	if err := rows.Scan(dest...); err != nil {
		return err
	}
	return rows.Close()
}

// ScanStrings scans sql.Rows into a slice of strings and closes it at the end.
func ScanStrings(rows *sql.Rows) ([]string, error) {
	defer rows.Close()
	var vs []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return vs, rows.Err()
}

// ScanColumns scans catalog rows of the form (column_name, data_type,
// is_nullable) into table columns, and closes the rows at the end.
// A column is nullable unless is_nullable is "NO".
func ScanColumns(rows *sql.Rows) ([]*tabular.Column, error) {
	defer rows.Close()
	var columns []*tabular.Column
	for rows.Next() {
		var name, typ, nullable string
		if err := rows.Scan(&name, &typ, &nullable); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		columns = append(columns, &tabular.Column{
			Name:     name,
			Type:     typ,
			Nullable: !strings.EqualFold(nullable, "NO"),
		})
	}
	return columns, rows.Err()
}

// ScanResult scans all rows into a tabular.Result and closes the rows
// at the end. Cells are tagged by the driver type of their column.
func ScanResult(rows *sql.Rows, typeOf TypeMapper) (*tabular.Result, error) {
	defer rows.Close()
	cts, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	var (
		res   = &tabular.Result{Columns: make([]string, len(cts))}
		types = make([]tabular.DriverType, len(cts))
	)
	for i, ct := range cts {
		res.Columns[i] = ct.Name()
		types[i] = typeOf(strings.ToUpper(ct.DatabaseTypeName()))
	}
	for rows.Next() {
		raw := make([]any, len(cts))
		dest := make([]any, len(cts))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(res.Rows), err)
		}
		r := make(tabular.Row, len(raw))
		for i := range raw {
			r[i] = tabular.FromDriver(types[i], raw[i])
		}
		res.Rows = append(res.Rows, r)
	}
	return res, rows.Err()
}
