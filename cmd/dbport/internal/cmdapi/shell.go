// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package cmdapi

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/kballard/go-shellquote"
	"github.com/olekukonko/tablewriter"
)

const shellPrompt = "> "

// shell reads commands from in, one per line, and runs them until
// the input ends or the user quits. Command failures are printed
// and never stop the shell.
func (s *session) shell(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, shellPrompt)
		if !sc.Scan() {
			fmt.Fprintln(s.out)
			return sc.Err()
		}
		args, err := shellquote.Split(sc.Text())
		if err != nil {
			s.printErr(err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "quit", "exit":
			return nil
		case "help":
			s.help()
			continue
		}
		v, ok := lookupVerb(args[0])
		switch {
		case !ok:
			s.invalid(args[0], "unknown command, type 'help' for the list of commands")
		case !v.accepts(len(args) - 1):
			s.invalid(v.name, v.usage())
		default:
			if err := v.run(ctx, s, args[1:]); err != nil {
				s.printErr(err)
			}
		}
	}
}

func (s *session) invalid(cmd, usage string) {
	fmt.Fprintln(s.out, "Invalid usage!")
	fmt.Fprintf(s.out, "%s: %s\n", cmd, usage)
}

func (s *session) printErr(err error) {
	fmt.Fprintln(s.out, color.HiRedString("Error:"), err)
}

func (s *session) help() {
	tbl := tablewriter.NewWriter(s.out)
	tbl.SetBorder(false)
	tbl.SetAutoWrapText(false)
	tbl.SetColumnSeparator("")
	tbl.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, v := range verbs {
		tbl.Append([]string{v.usage(), v.short})
	}
	tbl.Append([]string{"help", "Print this message."})
	tbl.Append([]string{"quit", "Close the connection and exit."})
	tbl.Render()
}
