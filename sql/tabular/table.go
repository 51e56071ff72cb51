// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package tabular

type (
	// A Column describes one column of a table: its name, its declared
	// type name and whether it accepts nulls. The type name is opaque;
	// it holds either the catalog name reported by the source or one of
	// TypeBoolean, TypeText or TypeNumber.
	Column struct {
		Name     string
		Type     string
		Nullable bool
	}

	// A Row holds the values of one table row.
	Row []Value

	// A Table is a snapshot of one table: its schema and its rows.
	//
	// Rows are positional. When Fields is set, row values are aligned to
	// it, i.e. to the order the source returned the fields at fetch time.
	// Otherwise, rows follow the order of Columns, possibly sparse (shorter
	// than Columns) when produced by the decoder.
	Table struct {
		Name    string
		Columns []*Column
		Fields  []string
		Rows    []Row
	}
)

// NewTable returns an empty table. A table without a name is the
// decoder's "no table open" state.
func NewTable() *Table {
	return &Table{}
}

// Column returns the first column matched by the given name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// FieldNames returns the names row values are aligned to.
func (t *Table) FieldNames() []string {
	if t.Fields != nil {
		return t.Fields
	}
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// NormalizeTypes rewrites the declared type of all columns with their
// NormalizeType form.
func (t *Table) NormalizeTypes() {
	for _, c := range t.Columns {
		c.Type = NormalizeType(c.Type)
	}
}
