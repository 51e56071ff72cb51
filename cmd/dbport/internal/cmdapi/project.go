// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package cmdapi

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/spf13/cobra"
	"github.com/zclconf/go-cty/cty"
)

const projectFileName = "file://dbport.hcl"

type (
	// Project represents a dbport.hcl project file.
	Project struct {
		Envs []*Env `hcl:"env,block"` // List of environments
	}

	// Env represents a dbport environment. For example:
	//
	//	env "local" {
	//	  host = "localhost:5432"
	//	  user = "postgres"
	//	  pass = var.pass
	//	  db   = "app"
	//	}
	Env struct {
		// Name for this environment.
		Name string `hcl:"name,label"`

		// URL of the database. If set, the connection
		// parameters below are ignored.
		URL string `hcl:"url,optional"`

		// Connection parameters.
		Driver string `hcl:"driver,optional"`
		Host   string `hcl:"host,optional"`
		User   string `hcl:"user,optional"`
		Pass   string `hcl:"pass,optional"`
		DB     string `hcl:"db,optional"`
		NoPass bool   `hcl:"no_pass,optional"`

		// Strict configures the --strict option.
		Strict bool `hcl:"strict,optional"`
	}
)

// LoadEnv reads the project file in the given URL, and loads the
// environment with the provided name. Variables are accessible in
// the file as attributes of the "var" object.
func LoadEnv(configURL, name string, vars Vars) (*Env, error) {
	u, err := url.Parse(configURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "file" {
		return nil, fmt.Errorf("unsupported project file driver %q", u.Scheme)
	}
	path := filepath.Join(u.Host, u.Path)
	buf, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = fmt.Errorf("project file %q was not found: %w", path, err)
		}
		return nil, err
	}
	ctx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"var": cty.ObjectVal(vars),
		},
	}
	var p Project
	if err := hclsimple.Decode(path, buf, ctx, &p); err != nil {
		return nil, err
	}
	envs := make(map[string]*Env, len(p.Envs))
	for _, e := range p.Envs {
		if e.Name == "" {
			return nil, fmt.Errorf("all envs must have names on file %q", path)
		}
		if _, ok := envs[e.Name]; ok {
			return nil, fmt.Errorf("duplicate environment name %q", e.Name)
		}
		envs[e.Name] = e
	}
	selected, ok := envs[name]
	if !ok {
		return nil, fmt.Errorf("env %q not defined in project file", name)
	}
	return selected, nil
}

// setFlags sets the flags that were not set on the
// command line from the environment attributes.
func (e *Env) setFlags(cmd *cobra.Command) error {
	for name, v := range map[string]string{
		flagURL:    e.URL,
		flagDriver: e.Driver,
		flagHost:   e.Host,
		flagUser:   e.User,
		flagPass:   e.Pass,
		flagDB:     e.DB,
	} {
		if err := maySetFlag(cmd, name, v); err != nil {
			return err
		}
	}
	for name, v := range map[string]bool{
		flagNoPass: e.NoPass,
		flagStrict: e.Strict,
	} {
		if !v {
			continue
		}
		if err := maySetFlag(cmd, name, strconv.FormatBool(v)); err != nil {
			return err
		}
	}
	return nil
}
