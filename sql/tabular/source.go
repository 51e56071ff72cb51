// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package tabular

import "context"

type (
	// A Result holds the rows of a table as fetched from a source.
	// Row values are aligned to Columns.
	Result struct {
		Columns []string
		Rows    []Row
	}

	// Source is the interface implemented by the relational sources
	// (e.g. PostgreSQL) that tables are read from.
	Source interface {
		// Tables returns the names of the user tables.
		Tables(ctx context.Context) ([]string, error)

		// Describe returns the columns of the given table, as reported
		// by the database catalog.
		Describe(ctx context.Context, table string) ([]*Column, error)

		// Fetch returns all rows of the given table.
		Fetch(ctx context.Context, table string) (*Result, error)
	}
)

// Snapshot describes and fetches the given table from the source and
// zips both into one Table.
func Snapshot(ctx context.Context, src Source, name string) (*Table, error) {
	columns, err := src.Describe(ctx, name)
	if err != nil {
		return nil, &RetrievalError{Table: name, Op: "describe", Err: err}
	}
	res, err := src.Fetch(ctx, name)
	if err != nil {
		return nil, &RetrievalError{Table: name, Op: "fetch", Err: err}
	}
	return &Table{
		Name:    name,
		Columns: columns,
		Fields:  res.Columns,
		Rows:    res.Rows,
	}, nil
}

// SnapshotAll returns the snapshots of the given tables, or of all tables
// in the source if none were given. It stops on the first failure and
// returns no tables in this case.
func SnapshotAll(ctx context.Context, src Source, names ...string) ([]*Table, error) {
	if len(names) == 0 {
		all, err := src.Tables(ctx)
		if err != nil {
			return nil, &RetrievalError{Op: "list", Err: err}
		}
		names = all
	}
	tables := make([]*Table, 0, len(names))
	for _, name := range names {
		t, err := Snapshot(ctx, src, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}
