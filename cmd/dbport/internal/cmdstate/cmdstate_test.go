// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package cmdstate_test

import (
	"os"
	"path/filepath"
	"testing"

	"ariga.io/dbport/cmd/dbport/internal/cmdstate"
	"ariga.io/dbport/sql/sqlclient"

	"github.com/stretchr/testify/require"
)

func TestFile(t *testing.T) {
	type T struct{ V string }
	f := cmdstate.File[T]{Name: "test", Dir: t.TempDir()}
	v, err := f.Read()
	require.NoError(t, err)
	require.Equal(t, T{}, v)
	require.NoError(t, f.Write(T{V: "v"}))
	v, err = f.Read()
	require.NoError(t, err)
	require.Equal(t, T{V: "v"}, v)
}

func TestFile_Home(t *testing.T) {
	home := cmdstate.TestingHome(t)
	f := cmdstate.File[*sqlclient.Credentials]{Name: "connection"}
	c, err := f.Read()
	require.NoError(t, err)
	require.NotNil(t, c)
	require.Equal(t, &sqlclient.Credentials{}, c)
	dirs, err := os.ReadDir(home)
	require.NoError(t, err)
	require.Empty(t, dirs)

	require.NoError(t, f.Write(&sqlclient.Credentials{
		Host:         "localhost:5432",
		User:         "a8m",
		Password:     "secret",
		Database:     "app",
		PassRequired: true,
	}))
	path := filepath.Join(home, ".dbport", "connection.json")
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())
	buf, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(buf), "secret")

	c, err = f.Read()
	require.NoError(t, err)
	require.Equal(t, &sqlclient.Credentials{
		Host:         "localhost:5432",
		User:         "a8m",
		Database:     "app",
		PassRequired: true,
	}, c)
}
