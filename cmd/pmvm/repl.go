// Copyright (C) 2024 corevm contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/nanovm/corevm/config"
	"github.com/nanovm/corevm/memspace"
	"github.com/nanovm/corevm/pmvm"
)

func replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl <image-file>",
		Short: "Interactive frame/heap inspection console for a loaded image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(args[0])
		},
	}
}

// runRepl loads image at path and drops into a line-oriented console
// over its heap and scheduler state, in the spirit of the pack's
// debugger-console tooling (§6.8).
func runRepl(path string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	ctx := pmvm.NewContext(cfg)
	ctx.Mount(memspace.RAM, data)
	ctx.AddModule("__main__", memspace.RAM, memspace.Cursor{Space: memspace.RAM, Addr: 0})
	if err := ctx.Init(memspace.RAM, 0); err != nil {
		return err
	}
	defer ctx.Close()

	rl, err := readline.New("pmvm> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return nil
		}
		if err != nil {
			return err
		}
		handleReplLine(ctx, strings.TrimSpace(line))
	}
}

func handleReplLine(ctx *pmvm.Context, line string) {
	switch {
	case line == "":
		return
	case line == "heap":
		fmt.Printf("heap: %d/%d bytes free, %d free chunks\n",
			ctx.Heap.FreeBytes(), ctx.Heap.Cap(), ctx.Heap.NumFreeChunks())
	case line == "threads":
		fmt.Printf("%d scheduled thread slot(s)\n", ctx.Sched.Len())
	case line == "run":
		code, err := ctx.Run("__main__")
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
			return
		}
		fmt.Printf("exit: %s\n", code)
	case line == "help":
		fmt.Println("commands: heap, threads, run, help, quit")
	case line == "quit", line == "exit":
		os.Exit(0)
	default:
		fmt.Printf("unrecognized command %q (try help)\n", line)
	}
}
