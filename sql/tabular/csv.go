// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package tabular

import (
	"bytes"
	"io"
	"strings"
)

// MarshalCSV returns the comma-separated projection of the table: one
// header line of field names followed by one line per row. Values are
// written as rendered; commas and newlines in texts are not escaped.
func MarshalCSV(t *Table) []byte {
	var b bytes.Buffer
	b.WriteString(strings.Join(t.FieldNames(), ","))
	b.WriteByte('\n')
	for _, r := range t.Rows {
		for i, v := range r {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(v.Render())
		}
		b.WriteByte('\n')
	}
	return b.Bytes()
}

// WriteCSV writes the CSV projection of the table to w in a single call.
func WriteCSV(w io.Writer, t *Table) error {
	_, err := w.Write(MarshalCSV(t))
	return err
}
