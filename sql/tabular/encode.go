// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package tabular

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Markers of the exchange format.
const (
	markTable      = "#table"
	markSchema     = "+schema"
	markSchemaEnd  = "-schema"
	markData       = "+data"
	markDataEnd    = "-data"
	markLine       = "%"
	fieldSep       = "|"
	valueSep       = "=_="
	markNullable   = "y_null"
	markNotNull    = "n_null"
	tableSeparator = "\n\n"
)

// An Encoder writes tables in the exchange format to an output stream.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes the given tables to the stream. The whole text is built
// in memory first and written with a single call, so nothing is written
// if one of the tables cannot be encoded.
func (e *Encoder) Encode(tables ...*Table) error {
	b, err := Marshal(tables...)
	if err != nil {
		return err
	}
	_, err = e.w.Write(b)
	return err
}

// Marshal returns the exchange format encoding of the given tables.
//
//	#table=users
//	+schema:
//	%|id|number|n_null
//	%|ok|boolean|y_null
//	-schema
//	+data:
//	%id=_=1|ok=_=true
//	-data
func Marshal(tables ...*Table) ([]byte, error) {
	var b bytes.Buffer
	for _, t := range tables {
		if err := encodeTable(&b, t); err != nil {
			return nil, err
		}
	}
	return b.Bytes(), nil
}

func encodeTable(b *bytes.Buffer, t *Table) error {
	if t.Name == "" || strings.ContainsAny(t.Name, "\r\n") {
		return fmt.Errorf("tabular: invalid table name %q", t.Name)
	}
	b.WriteString(markTable + "=" + t.Name + "\n")
	b.WriteString(markSchema + ":\n")
	for _, c := range t.Columns {
		if err := validColumn(t, c); err != nil {
			return err
		}
		null := markNotNull
		if c.Nullable {
			null = markNullable
		}
		b.WriteString(markLine + fieldSep + c.Name + fieldSep + c.Type + fieldSep + null + "\n")
	}
	b.WriteString(markSchemaEnd + "\n")
	b.WriteString(markData + ":\n")
	fields := t.FieldNames()
	for i, r := range t.Rows {
		if len(r) != len(fields) {
			return fmt.Errorf("tabular: table %q row %d has %d values for %d fields", t.Name, i, len(r), len(fields))
		}
		b.WriteString(markLine)
		for j, v := range r {
			if j > 0 {
				b.WriteString(fieldSep)
			}
			s := v.Render()
			if strings.ContainsAny(s, "\r\n") {
				return fmt.Errorf("tabular: table %q row %d: value of %q contains a line break", t.Name, i, fields[j])
			}
			b.WriteString(fields[j] + valueSep + s)
		}
		b.WriteByte('\n')
	}
	b.WriteString(markDataEnd + "\n")
	b.WriteString(tableSeparator)
	return nil
}

func validColumn(t *Table, c *Column) error {
	switch {
	case c.Name == "":
		return fmt.Errorf("tabular: table %q has a column without a name", t.Name)
	case strings.ContainsAny(c.Name, "|\r\n"), strings.Contains(c.Name, valueSep):
		return fmt.Errorf("tabular: table %q: invalid column name %q", t.Name, c.Name)
	case strings.ContainsAny(c.Type, "|\r\n"):
		return fmt.Errorf("tabular: table %q: invalid type %q for column %q", t.Name, c.Type, c.Name)
	}
	return nil
}
