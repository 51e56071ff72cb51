// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package cmdlog_test

import (
	"bytes"
	"strings"
	"testing"

	"ariga.io/dbport/cmd/dbport/internal/cmdlog"
	"ariga.io/dbport/sql/tabular"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", cmdlog.Truncate("short", 14))
	require.Equal(t, "abcdefghi(...)", cmdlog.Truncate("abcdefghijklmnop", 14))
	require.Len(t, []rune(cmdlog.Truncate(strings.Repeat("ü", 20), 14)), 14)
	require.Equal(t, "abcdefgh", cmdlog.Truncate("abcdefgh", 3))
}

func TestCellSize(t *testing.T) {
	require.Equal(t, cmdlog.DefaultCellSize, cmdlog.CellSize(0, 3))
	require.Equal(t, cmdlog.DefaultCellSize, cmdlog.CellSize(80, 0))
	require.Equal(t, 23, cmdlog.CellSize(80, 3))
	require.Equal(t, 6, cmdlog.CellSize(10, 5))
}

func TestWriteResult(t *testing.T) {
	var buf bytes.Buffer
	cmdlog.WriteResult(&buf, &tabular.Result{
		Columns: []string{"id", "name"},
		Rows: []tabular.Row{
			{tabular.Int(1), tabular.Text("a8m")},
			{tabular.Int(2), tabular.Text("a very long name that does not fit")},
			{tabular.Int(3), tabular.Null()},
		},
	}, 14)
	out := buf.String()
	require.Contains(t, out, "id")
	require.Contains(t, out, "name")
	require.Contains(t, out, "a8m")
	require.Contains(t, out, "a very lo(...)")
	require.NotContains(t, out, "does not fit")
	// Header, 3 rows and 3 border lines.
	require.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 7)
}

func TestWriteColumns(t *testing.T) {
	var buf bytes.Buffer
	cmdlog.WriteColumns(&buf, []*tabular.Column{
		{Name: "id", Type: "integer"},
		{Name: "name", Type: "text", Nullable: true},
	})
	out := buf.String()
	require.Contains(t, out, "Column")
	require.Contains(t, out, "integer")
	require.Contains(t, out, "true")
	require.Contains(t, out, "false")
}

func TestCount(t *testing.T) {
	require.Equal(t, "0 rows", cmdlog.Count(0, "row"))
	require.Equal(t, "1 row", cmdlog.Count(1, "row"))
	require.Equal(t, "2 tables", cmdlog.Count(2, "table"))
}

func TestAnnounce(t *testing.T) {
	var buf bytes.Buffer
	cmdlog.Announce(&buf, 20, 10, "Hi")
	require.Equal(t, "\x1B[2J\x1B[1;1H\n\n         Hi\n\n\n\n\n\n", buf.String())
}

func TestTermSize(t *testing.T) {
	_, _, ok := cmdlog.TermSize(&bytes.Buffer{})
	require.False(t, ok)
}

func TestImportTemplate(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	err := cmdlog.ImportTemplate.Execute(&buf, &cmdlog.ImportReport{
		File: "dump.txt",
		Tables: []*tabular.Table{
			{Name: "users", Columns: []*tabular.Column{{Name: "id", Type: "number"}}, Rows: []tabular.Row{{tabular.Int(1)}}},
			{Name: "pets"},
		},
		Skipped: []*tabular.FormatError{
			{Line: 4, Text: "%|broken", Msg: "expect name, type and nullability in column definition"},
		},
	})
	require.NoError(t, err)
	out := buf.String()
	require.True(t, strings.HasPrefix(out, "Read 2 tables from dump.txt\n"), out)
	require.Contains(t, out, "users")
	require.Contains(t, out, "Skipped 1 malformed line\n")
	require.Contains(t, out, "-- line 4: expect name, type and nullability in column definition\n")

	buf.Reset()
	err = cmdlog.ImportTemplate.Execute(&buf, &cmdlog.ImportReport{File: "empty.txt"})
	require.NoError(t, err)
	require.Equal(t, "Read 0 tables from empty.txt\n", buf.String())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := cmdlog.NewLogger(&buf, "")
	require.NoError(t, err)
	l.Info("hidden")
	require.Empty(t, buf.String())
	cmdlog.LogSkipped(l, "dump.txt", []*tabular.FormatError{{Line: 8, Msg: "no name=_=value field in data line"}})
	require.Contains(t, buf.String(), "level=warning")
	require.Contains(t, buf.String(), "line=8")
	require.Contains(t, buf.String(), "file=dump.txt")

	_, err = cmdlog.NewLogger(&buf, "loud")
	require.Error(t, err)
}
