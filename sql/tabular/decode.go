// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package tabular

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
)

// Coercion defines how the decoder treats boolean and number values
// whose text does not match their declared type.
type Coercion uint

const (
	// CoerceLenient decodes malformed numbers as 0 and any boolean text
	// other than "true" as false.
	CoerceLenient Coercion = iota
	// CoerceStrict decodes empty boolean and number texts as Null and
	// fails the decoding on any other malformed text.
	CoerceStrict
)

type (
	// A Decoder reads tables in the exchange format from an input stream.
	Decoder struct {
		r        *bufio.Reader
		coercion Coercion
		line     int
		skipped  []*FormatError
	}

	// DecodeOption configures a Decoder.
	DecodeOption func(*Decoder)

	// decoder states.
	state uint8
)

const (
	stateOutside state = iota
	stateSchema
	stateData
)

// WithCoercion sets the coercion policy of the decoder.
func WithCoercion(c Coercion) DecodeOption {
	return func(d *Decoder) {
		d.coercion = c
	}
}

// NewDecoder returns a new decoder that reads from r.
func NewDecoder(r io.Reader, opts ...DecodeOption) *Decoder {
	d := &Decoder{r: bufio.NewReader(r)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Unmarshal decodes all tables from the given exchange format text.
func Unmarshal(data []byte, opts ...DecodeOption) ([]*Table, error) {
	return NewDecoder(bytes.NewReader(data), opts...).Decode()
}

// Skipped returns the column and data lines that were dropped by the
// last call to Decode because they were malformed.
func (d *Decoder) Skipped() []*FormatError {
	return d.skipped
}

// Decode reads the stream until its end and returns the decoded tables.
//
// A table header without a name separator fails the whole decoding. In
// this case, the tables that were completed before the header are
// returned along with a *FormatError. Malformed column or data lines are
// dropped and reported by Skipped.
func (d *Decoder) Decode() ([]*Table, error) {
	var (
		st     = stateOutside
		cur    = NewTable()
		tables []*Table
	)
	d.skipped = nil
	flush := func() {
		if cur.Name != "" {
			tables = append(tables, cur)
		}
		cur = NewTable()
	}
	for {
		line, err := d.readLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return tables, err
		}
		switch st {
		case stateOutside:
			switch {
			case strings.HasPrefix(line, markTable):
				flush()
				_, name, ok := strings.Cut(line, "=")
				if !ok {
					return tables, d.errorf(line, "missing table name")
				}
				if name == "" {
					d.skip(line, "empty table name")
				}
				cur.Name = name
			case strings.HasPrefix(line, markSchema):
				st = stateSchema
			case strings.HasPrefix(line, markData):
				st = stateData
			}
		case stateSchema:
			switch {
			case strings.HasPrefix(line, markLine):
				d.column(cur, line)
			case strings.Contains(line, markSchemaEnd):
				st = stateOutside
			}
		case stateData:
			switch {
			case strings.HasPrefix(line, markLine):
				if err := d.row(cur, line); err != nil {
					return tables, err
				}
			case strings.Contains(line, markDataEnd):
				st = stateOutside
			}
		}
	}
	flush()
	return tables, nil
}

// column parses a "%|name|type|y_null" line.
func (d *Decoder) column(t *Table, line string) {
	parts := strings.Split(trimLine(line), fieldSep)
	if len(parts) < 3 {
		d.skip(line, "expect name, type and nullability in column definition")
		return
	}
	t.Columns = append(t.Columns, &Column{
		Name:     parts[0],
		Type:     parts[1],
		Nullable: parts[2] == markNullable,
	})
}

// row parses a "%name=_=value|name=_=value" line. Values are appended in
// the order of the table columns and columns missing from the line are
// skipped, which makes the row shorter than the columns list.
func (d *Decoder) row(t *Table, line string) error {
	rest := trimLine(line)
	raw := make(map[string]string)
	for _, f := range strings.Split(rest, fieldSep) {
		if name, v, ok := strings.Cut(f, valueSep); ok {
			raw[name] = v
		}
	}
	if len(raw) == 0 && rest != "" {
		d.skip(line, "no name=_=value field in data line")
		return nil
	}
	r := make(Row, 0, len(raw))
	for _, c := range t.Columns {
		s, ok := raw[c.Name]
		if !ok {
			continue
		}
		v, err := fromDeclared(c.Type, s, d.coercion)
		if err != nil {
			return d.errorf(line, err.Error())
		}
		r = append(r, v)
	}
	t.Rows = append(t.Rows, r)
	return nil
}

func (d *Decoder) readLine() (string, error) {
	line, err := d.r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	d.line++
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

func (d *Decoder) errorf(line, msg string) error {
	return &FormatError{Line: d.line, Text: line, Msg: msg}
}

func (d *Decoder) skip(line, msg string) {
	d.skipped = append(d.skipped, &FormatError{Line: d.line, Text: line, Msg: msg})
}

// trimLine strips the line marker and the optional field separator
// that follows it. Schema lines carry it, data lines do not.
func trimLine(line string) string {
	return strings.TrimPrefix(strings.TrimPrefix(line, markLine), fieldSep)
}
