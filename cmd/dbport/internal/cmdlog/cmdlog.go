// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package cmdlog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
	"unicode/utf8"

	"ariga.io/dbport/sql/tabular"

	"github.com/fatih/color"
	"github.com/go-openapi/inflect"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"
)

var (
	// ColorTemplateFuncs are globally available functions to color strings in a report template.
	ColorTemplateFuncs = template.FuncMap{
		"cyan":   color.CyanString,
		"green":  color.HiGreenString,
		"red":    color.HiRedString,
		"yellow": color.YellowString,
	}

	// ImportTemplateFuncs are global functions available in import report templates.
	ImportTemplateFuncs = merge(template.FuncMap{
		"count": Count,
		"table": importTable,
	}, ColorTemplateFuncs)

	// ImportTemplate holds the default template of the 'import' command.
	ImportTemplate = template.Must(template.New("import").Funcs(ImportTemplateFuncs).Parse(
		`Read {{ count (len .Tables) "table" }} from {{ cyan .File }}
{{- if .Tables }}
{{ table . }}
{{- end }}
{{- if .Skipped }}
{{ yellow "Skipped" }} {{ count (len .Skipped) "malformed line" }}
{{- range .Skipped }}
  {{ yellow "--" }} line {{ .Line }}: {{ .Msg }}
{{- end }}
{{- end }}
`))
)

// ImportReport contains a summary of a decoded exchange file.
type ImportReport struct {
	File    string                 `json:"File"`              // Path to the decoded file.
	Tables  []*tabular.Table       `json:"Tables,omitempty"`  // Decoded tables.
	Skipped []*tabular.FormatError `json:"Skipped,omitempty"` // Dropped lines.
}

func importTable(r *ImportReport) (string, error) {
	var buf strings.Builder
	tbl := tablewriter.NewWriter(&buf)
	tbl.SetAutoFormatHeaders(false)
	tbl.SetHeader([]string{"Table", "Columns", "Rows"})
	for _, t := range r.Tables {
		tbl.Append([]string{
			t.Name,
			fmt.Sprint(len(t.Columns)),
			fmt.Sprint(len(t.Rows)),
		})
	}
	tbl.Render()
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// DefaultCellSize is the width of a cell when the terminal size is unknown.
const DefaultCellSize = 14

// CellSize returns the width of a single cell when n columns
// are printed in a terminal of the given width.
func CellSize(width, n int) int {
	if width <= 0 || n <= 0 {
		return DefaultCellSize
	}
	// Each cell is wrapped with "| " and " " and the row ends with "|".
	size := (width-1)/n - 3
	if size < len(ellipsis)+1 {
		return len(ellipsis) + 1
	}
	return size
}

const ellipsis = "(...)"

// Truncate shortens s to the given number of characters, replacing
// its tail with an ellipsis if it does not fit.
func Truncate(s string, size int) string {
	if utf8.RuneCountInString(s) <= size || size <= len(ellipsis) {
		return s
	}
	return string([]rune(s)[:size-len(ellipsis)]) + ellipsis
}

// WriteResult prints the fetched rows as a table. Cells
// longer than the given size are truncated.
func WriteResult(w io.Writer, res *tabular.Result, size int) {
	tbl := newTable(w)
	header := make([]string, len(res.Columns))
	for i, c := range res.Columns {
		header[i] = Truncate(c, size)
	}
	tbl.SetHeader(header)
	for _, r := range res.Rows {
		line := make([]string, len(r))
		for i, v := range r {
			line[i] = Truncate(v.Render(), size)
		}
		tbl.Append(line)
	}
	tbl.Render()
}

// WriteColumns prints the column descriptors of a table.
func WriteColumns(w io.Writer, columns []*tabular.Column) {
	tbl := newTable(w)
	tbl.SetHeader([]string{"Column", "Type", "Nullable"})
	for _, c := range columns {
		tbl.Append([]string{c.Name, c.Type, fmt.Sprint(c.Nullable)})
	}
	tbl.Render()
}

func newTable(w io.Writer) *tablewriter.Table {
	tbl := tablewriter.NewWriter(w)
	tbl.SetAutoFormatHeaders(false)
	tbl.SetAutoWrapText(false)
	tbl.SetAlignment(tablewriter.ALIGN_CENTER)
	return tbl
}

// Count returns n followed by the noun, pluralized if needed.
// For example, "1 row" or "3 rows".
func Count(n int, noun string) string {
	if n != 1 {
		noun = inflect.Pluralize(noun)
	}
	return fmt.Sprintf("%d %s", n, noun)
}

// Clear clears the terminal screen and moves the cursor to its top.
func Clear(w io.Writer) {
	fmt.Fprint(w, "\x1B[2J\x1B[1;1H")
}

// Announce clears the screen and prints the given lines centered
// in a terminal of the given size.
func Announce(w io.Writer, width, height int, lines ...string) {
	Clear(w)
	if top := height/2 - len(lines) - 2; top > 0 {
		fmt.Fprint(w, strings.Repeat("\n", top))
	}
	for _, l := range lines {
		if left := (width - utf8.RuneCountInString(l)) / 2; left > 0 {
			fmt.Fprint(w, strings.Repeat(" ", left))
		}
		fmt.Fprintln(w, l)
	}
	fmt.Fprint(w, strings.Repeat("\n", height/2))
}

// TermSize returns the size of the terminal w writes to.
// The last result is false if w is not a terminal.
func TermSize(w io.Writer) (width, height int, ok bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, 0, false
	}
	width, height, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0, 0, false
	}
	return width, height, true
}

func merge(maps ...template.FuncMap) template.FuncMap {
	switch len(maps) {
	case 0:
		return nil
	case 1:
		return maps[0]
	default:
		m := maps[0]
		for _, e := range maps[1:] {
			for k, v := range e {
				m[k] = v
			}
		}
		return m
	}
}
