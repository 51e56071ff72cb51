// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package cmdapi holds the dbport commands and its interactive shell.
package cmdapi

import (
	"encoding/csv"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zclconf/go-cty/cty"
	"golang.org/x/mod/semver"
)

var (
	// Root represents the root command when called without any subcommands.
	Root = NewRootCmd()

	// version holds dbport version. Should be set by build flag
	// "-X 'ariga.io/dbport/cmd/dbport/internal/cmdapi.version=${version}'"
	version string
)

// NewRootCmd returns a new root command. Invoked without a subcommand,
// it connects to the database and starts the interactive shell.
func NewRootCmd() *cobra.Command {
	f := &rootFlags{}
	root := &cobra.Command{
		Use:          "dbport",
		Short:        "A terminal client for moving tables between databases and flat files.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := f.session(cmd, true)
			if err != nil {
				return err
			}
			defer s.close()
			return s.shell(cmd.Context(), cmd.InOrStdin())
		},
	}
	f.register(root)
	for _, v := range verbs {
		root.AddCommand(verbCmd(f, v))
	}
	root.AddCommand(versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints this dbport CLI version information.",
		Run: func(cmd *cobra.Command, _ []string) {
			v, u := parse(version)
			cmd.Printf("dbport version %s\n%s\n", v, u)
		},
	}
}

// parse returns a user facing version and release notes url
func parse(version string) (string, string) {
	u := "https://github.com/ariga/dbport/releases/latest"
	if ok := semver.IsValid(version); !ok {
		return "- development", u
	}
	s := strings.Split(version, "-")
	if len(s) != 0 && s[len(s)-1] != "canary" {
		u = fmt.Sprintf("https://github.com/ariga/dbport/releases/tag/%s", version)
	}
	return version, u
}

// Version returns the current dbport binary version.
func Version() string {
	return version
}

// Vars implements pflag.Value.
type Vars map[string]cty.Value

// String implements pflag.Value.String.
func (v Vars) String() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteString(":")
		b.WriteString(varString(v[k]))
	}
	return "[" + b.String() + "]"
}

// varString renders a string or a list of strings set by Set.
func varString(v cty.Value) string {
	if !v.Type().IsListType() {
		return v.AsString()
	}
	vs := v.AsValueSlice()
	s := make([]string, len(vs))
	for i := range vs {
		s[i] = vs[i].AsString()
	}
	return "[" + strings.Join(s, ", ") + "]"
}

// Set implements pflag.Value.Set.
func (v *Vars) Set(s string) error {
	if *v == nil {
		*v = make(Vars)
	}
	kvs, err := csv.NewReader(strings.NewReader(s)).Read()
	if err != nil {
		return err
	}
	for i := range kvs {
		kv := strings.SplitN(kvs[i], "=", 2)
		if len(kv) != 2 {
			return fmt.Errorf("variables must be format as key=value, got: %q", kvs[i])
		}
		v1 := cty.StringVal(kv[1])
		switch v0, ok := (*v)[kv[0]]; {
		case ok && v0.Type().IsListType():
			(*v)[kv[0]] = cty.ListVal(append(v0.AsValueSlice(), v1))
		case ok:
			(*v)[kv[0]] = cty.ListVal([]cty.Value{v0, v1})
		default:
			(*v)[kv[0]] = v1
		}
	}
	return nil
}

// Type implements pflag.Value.Type.
func (v *Vars) Type() string {
	return "<name>=<value>"
}
