// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package cmdapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"ariga.io/dbport/cmd/dbport/internal/cmdlog"
	"ariga.io/dbport/sql/sqlclient"
	"ariga.io/dbport/sql/tabular"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// session holds the state shared by the commands of a single invocation.
// Commands that work on files only run without a client.
type session struct {
	client    *sqlclient.Client
	log       logrus.FieldLogger
	out       io.Writer
	strict    bool
	normalize bool
}

// session creates a new session for the given command, applying the
// selected project environment and connecting to the database if asked.
func (f *rootFlags) session(cmd *cobra.Command, connect bool) (*session, error) {
	log, err := cmdlog.NewLogger(cmd.ErrOrStderr(), f.logLevel)
	if err != nil {
		return nil, err
	}
	if f.env != "" {
		env, err := LoadEnv(f.config, f.env, f.vars)
		if err != nil {
			return nil, err
		}
		if err := env.setFlags(cmd); err != nil {
			return nil, err
		}
	}
	s := &session{
		log:       log,
		out:       cmd.OutOrStdout(),
		strict:    f.strict,
		normalize: f.normalize,
	}
	if connect {
		// Only the shell owns the screen.
		banner := !cmd.HasParent()
		if s.client, err = f.open(cmd.Context(), cmd, log, banner); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *session) close() {
	if s.client == nil {
		return
	}
	if err := s.client.Close(); err != nil {
		s.log.WithError(err).Warn("closing connection")
	}
}

// verb is a command that can be invoked from the shell and from the command line.
type verb struct {
	name    string
	args    string
	short   string
	min     int
	max     int // -1 for no limit.
	offline bool
	run     func(context.Context, *session, []string) error
}

func (v *verb) usage() string {
	if v.args == "" {
		return v.name
	}
	return v.name + " " + v.args
}

func (v *verb) accepts(n int) bool {
	return n >= v.min && (v.max < 0 || n <= v.max)
}

var verbs = []*verb{
	{
		name:  "get",
		args:  "<table>",
		short: "Print all rows of a table.",
		min:   1,
		max:   1,
		run:   runGet,
	},
	{
		name:  "describe",
		args:  "<table>",
		short: "Print the columns of a table.",
		min:   1,
		max:   1,
		run:   runDescribe,
	},
	{
		name:  "tables",
		short: "List the tables of the database.",
		run:   runTables,
	},
	{
		name:  "csv",
		args:  "<table> <file>",
		short: "Save the rows of a table to a CSV file.",
		min:   2,
		max:   2,
		run:   runCSV,
	},
	{
		name:  "export",
		args:  "<file> [table...]",
		short: "Save tables (all by default) to an exchange file.",
		min:   1,
		max:   -1,
		run:   runExport,
	},
	{
		name:    "import",
		args:    "<file>",
		short:   "Read the tables of an exchange file and print their summary.",
		min:     1,
		max:     1,
		offline: true,
		run:     runImport,
	},
}

func lookupVerb(name string) (*verb, bool) {
	for _, v := range verbs {
		if v.name == name {
			return v, true
		}
	}
	return nil, false
}

// verbCmd returns the command line form of the given verb.
func verbCmd(f *rootFlags, v *verb) *cobra.Command {
	nargs := cobra.RangeArgs(v.min, v.max)
	if v.max < 0 {
		nargs = cobra.MinimumNArgs(v.min)
	}
	return &cobra.Command{
		Use:   v.usage(),
		Short: v.short,
		Args:  nargs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := f.session(cmd, !v.offline)
			if err != nil {
				return err
			}
			defer s.close()
			return v.run(cmd.Context(), s, args)
		},
	}
}

func runGet(ctx context.Context, s *session, args []string) error {
	res, err := s.client.Fetch(ctx, args[0])
	if err != nil {
		return &tabular.RetrievalError{Table: args[0], Op: "fetch", Err: err}
	}
	width, _, _ := cmdlog.TermSize(s.out)
	cmdlog.WriteResult(s.out, res, cmdlog.CellSize(width, len(res.Columns)))
	return nil
}

func runDescribe(ctx context.Context, s *session, args []string) error {
	columns, err := s.client.Describe(ctx, args[0])
	if err != nil {
		return &tabular.RetrievalError{Table: args[0], Op: "describe", Err: err}
	}
	cmdlog.WriteColumns(s.out, columns)
	return nil
}

func runTables(ctx context.Context, s *session, _ []string) error {
	names, err := s.client.Tables(ctx)
	if err != nil {
		return &tabular.RetrievalError{Op: "list", Err: err}
	}
	for _, n := range names {
		fmt.Fprintln(s.out, n)
	}
	return nil
}

func runCSV(ctx context.Context, s *session, args []string) error {
	t, err := tabular.Snapshot(ctx, s.client, args[0])
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[1], tabular.MarshalCSV(t), 0644); err != nil {
		return fmt.Errorf("writing csv file: %w", err)
	}
	fmt.Fprintf(s.out, "Saved %s to %s\n", cmdlog.Count(len(t.Rows), "row"), args[1])
	return nil
}

func runExport(ctx context.Context, s *session, args []string) error {
	tables, err := tabular.SnapshotAll(ctx, s.client, args[1:]...)
	if err != nil {
		return err
	}
	if s.normalize {
		for _, t := range tables {
			t.NormalizeTypes()
		}
	}
	buf, err := tabular.Marshal(tables...)
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[0], buf, 0644); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	fmt.Fprintf(s.out, "Exported %s to %s\n", cmdlog.Count(len(tables), "table"), args[0])
	return nil
}

// runImport decodes an exchange file and prints its summary.
// Decoded tables are not written back to the database.
func runImport(_ context.Context, s *session, args []string) error {
	buf, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading import file: %w", err)
	}
	c := tabular.CoerceLenient
	if s.strict {
		c = tabular.CoerceStrict
	}
	d := tabular.NewDecoder(bytes.NewReader(buf), tabular.WithCoercion(c))
	tables, err := d.Decode()
	cmdlog.LogSkipped(s.log, args[0], d.Skipped())
	if err != nil {
		s.log.WithField("tables", len(tables)).Warn("decoding stopped on a fatal line")
		return fmt.Errorf("importing %s: %w", args[0], err)
	}
	return cmdlog.ImportTemplate.Execute(s.out, &cmdlog.ImportReport{
		File:    args[0],
		Tables:  tables,
		Skipped: d.Skipped(),
	})
}
