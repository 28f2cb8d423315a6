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
	"os"

	"github.com/spf13/cobra"

	"github.com/nanovm/corevm/config"
	"github.com/nanovm/corevm/host"
	"github.com/nanovm/corevm/memspace"
	"github.com/nanovm/corevm/pmvm"
)

func runCmd() *cobra.Command {
	var module string
	cmd := &cobra.Command{
		Use:   "run <image-file>",
		Short: "Loads an image file and runs a module to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImage(args[0], module)
		},
	}
	cmd.Flags().StringVar(&module, "module", "__main__", "module name to run")
	return cmd
}

func runImage(path, module string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading image: %w", err)
	}

	ctx := pmvm.NewContext(cfg)
	ctx.Mount(memspace.RAM, data)
	ctx.AddModule(module, memspace.RAM, memspace.Cursor{Space: memspace.RAM, Addr: 0})
	if err := ctx.Init(memspace.RAM, 0); err != nil {
		return fmt.Errorf("initializing VM: %w", err)
	}
	defer ctx.Close()

	desktop := host.NewDesktop(ctx.MS, os.Stdin, os.Stdout)
	if err := desktop.Init(); err != nil {
		return fmt.Errorf("initializing host: %w", err)
	}
	ctx.Interp.Natives = append(ctx.Interp.Natives, desktop.Natives()...)
	ctx.Interp.Stdout = func(b []byte) error {
		for _, by := range b {
			if err := desktop.WriteByte(by); err != nil {
				return err
			}
		}
		return nil
	}

	code, runErr := ctx.Run(module)
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "pmvm: %s\n", runErr)
	}
	fmt.Printf("exit: %s\n", code)
	return nil
}
