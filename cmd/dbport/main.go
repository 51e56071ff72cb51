// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package main

import (
	"context"
	"os"
	"os/signal"

	"ariga.io/dbport/cmd/dbport/internal/cmdapi"
	_ "ariga.io/dbport/sql/mysql"
	_ "ariga.io/dbport/sql/postgres"
	_ "ariga.io/dbport/sql/sqlite"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	cmdapi.Root.SetOut(os.Stdout)
	cmdapi.Root.SetIn(os.Stdin)
	if err := cmdapi.Root.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
