// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package cmdapi

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"ariga.io/dbport/cmd/dbport/internal/cmdlog"
	"ariga.io/dbport/cmd/dbport/internal/cmdstate"
	"ariga.io/dbport/sql/sqlclient"
	"ariga.io/dbport/sql/tabular"

	"github.com/manifoldco/promptui"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// stateConnection is the state file holding the last connection
// parameters, used as defaults for the credential prompts.
const stateConnection = "connection"

// Prompter asks the user for a single value.
type Prompter interface {
	Prompt(label, def string, mask bool) (string, error)
}

type promptUI struct{}

// Prompt implements Prompter.
func (promptUI) Prompt(label, def string, mask bool) (string, error) {
	p := promptui.Prompt{
		Label:   label,
		Default: def,
	}
	if mask {
		p.Mask = '*'
	}
	return p.Run()
}

// prompter is replaced in tests.
var prompter Prompter = promptUI{}

// credentials returns the connection parameters given by the flags.
func (f *rootFlags) credentials() *sqlclient.Credentials {
	params := map[string]string{
		sqlclient.ParamHost:     f.host,
		sqlclient.ParamUser:     f.user,
		sqlclient.ParamPassword: f.pass,
		sqlclient.ParamDatabase: f.db,
	}
	if f.noPass {
		params[sqlclient.ParamNoPass] = "y"
	}
	c := sqlclient.CredentialsFromParams(params)
	c.Driver = f.driver
	return c
}

// completeCredentials asks the user for the missing connection
// parameters. Values of the last connection are used as defaults.
func completeCredentials(c, last *sqlclient.Credentials, p Prompter) (err error) {
	ask := func(target *string, label, def string, mask bool) {
		if err != nil || *target != "" {
			return
		}
		*target, err = p.Prompt(label, def, mask)
	}
	if last == nil || last.Driver != c.Driver {
		last = &sqlclient.Credentials{}
	}
	if !c.IsFile() {
		ask(&c.Host, "Host", last.Host, false)
		ask(&c.User, "Username", last.User, false)
		if c.PassRequired {
			ask(&c.Password, "Password", "", true)
		}
	}
	ask(&c.Database, "Database", last.Database, false)
	return err
}

// open opens a client to the database selected by the flags, prompting
// for missing credentials. If banner is true and the output is a terminal,
// the connection progress is announced on a cleared screen.
func (f *rootFlags) open(ctx context.Context, cmd *cobra.Command, log logrus.FieldLogger, banner bool) (*sqlclient.Client, error) {
	var (
		rawURL = f.url
		creds  *sqlclient.Credentials
		state  = cmdstate.File[*sqlclient.Credentials]{Name: stateConnection}
	)
	if rawURL == "" {
		creds = f.credentials()
		last, err := state.Read()
		if err != nil {
			log.WithError(err).Debug("reading last connection")
		}
		if err := completeCredentials(creds, last, prompter); err != nil {
			return nil, err
		}
		if rawURL, err = creds.URL(); err != nil {
			return nil, err
		}
	}
	w, h, tty := cmdlog.TermSize(cmd.OutOrStdout())
	banner = banner && tty
	if banner {
		lines := []string{"Connecting..."}
		if creds != nil {
			lines = append(lines,
				fmt.Sprintf("Connecting to database %q", creds.Host),
				fmt.Sprintf("as user %q", creds.User),
			)
		}
		cmdlog.Announce(cmd.OutOrStdout(), w, h, lines...)
	}
	client, err := sqlclient.Open(ctx, rawURL)
	if err != nil {
		if banner {
			cmdlog.Announce(cmd.OutOrStdout(), w, h, "Could not connect.", "Check credentials again.")
		}
		return nil, fmt.Errorf("connecting to %s: %w", redact(rawURL), err)
	}
	if banner {
		cmdlog.Clear(cmd.OutOrStdout())
	}
	log.WithFields(logrus.Fields{
		"driver": client.Name,
		"url":    client.URL.Redacted(),
	}).Debug("connection opened")
	if creds != nil {
		if err := state.Write(creds); err != nil {
			log.WithError(err).Warn("saving connection parameters")
		}
	}
	client.Source = &logSource{Source: client.Source, log: log}
	return client, nil
}

func redact(s string) string {
	u, err := url.Parse(s)
	if err != nil {
		return "database"
	}
	return u.Redacted()
}

// logSource logs the queries sent to the wrapped source.
type logSource struct {
	tabular.Source
	log logrus.FieldLogger
}

// Tables implements tabular.Source.
func (s *logSource) Tables(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := s.Source.Tables(ctx)
	s.done("list", "", start, err)
	return names, err
}

// Describe implements tabular.Source.
func (s *logSource) Describe(ctx context.Context, table string) ([]*tabular.Column, error) {
	start := time.Now()
	columns, err := s.Source.Describe(ctx, table)
	s.done("describe", table, start, err)
	return columns, err
}

// Fetch implements tabular.Source.
func (s *logSource) Fetch(ctx context.Context, table string) (*tabular.Result, error) {
	start := time.Now()
	res, err := s.Source.Fetch(ctx, table)
	s.done("fetch", table, start, err)
	return res, err
}

func (s *logSource) done(op, table string, start time.Time, err error) {
	l := s.log.WithFields(logrus.Fields{
		"op":   op,
		"took": time.Since(start),
	})
	if table != "" {
		l = l.WithField("table", table)
	}
	if err != nil {
		l = l.WithError(err)
	}
	l.Debug("source query")
}
