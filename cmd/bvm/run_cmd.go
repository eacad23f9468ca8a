// This file is part of vm-bytecode - https://github.com/kohazen/vm-bytecode
//
// Copyright 2026 The vm-bytecode Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"fmt"
	"io"

	"github.com/kohazen/vm-bytecode/vm"
	"github.com/spf13/cobra"
)

type runSummary struct {
	File         string   `json:"file"`
	State        string   `json:"state"`
	Instructions int64    `json:"instructions"`
	Depth        int      `json:"depth"`
	Result       *vm.Cell `json:"result"`
}

func (c *cli) runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <file.bc>",
		Short: "Run a bytecode file",
		Long: `Load a bytecode file and run it until HALT or a fault, then print the
value on top of the data stack.`,
		Args: cobra.ExactArgs(1),
		RunE: c.run,
	}
	f := cmd.Flags()
	f.Int("stack-size", vm.DefaultStackSize, "data stack size in cells")
	f.Int("call-stack-size", vm.DefaultCallStackSize, "call stack size in cells")
	f.Int("memory-size", vm.DefaultMemorySize, "memory size in cells")
	f.Int64("step-limit", 0, "maximum number of executed instructions (0: no limit)")
	f.Bool("dump", false, "dump the machine state to stderr upon exit")
	return cmd
}

func (c *cli) newVM() (*vm.Instance, error) {
	return vm.New(
		vm.StackSize(c.v.GetInt("stack-size")),
		vm.CallStackSize(c.v.GetInt("call-stack-size")),
		vm.MemorySize(c.v.GetInt("memory-size")),
		vm.StepLimit(c.v.GetInt64("step-limit")),
		vm.Logger(c.log),
	)
}

func (c *cli) run(cmd *cobra.Command, args []string) (err error) {
	i, err := c.newVM()
	if err != nil {
		return err
	}
	defer i.Release()
	if err = i.LoadFile(args[0]); err != nil {
		return err
	}
	defer func() {
		if c.v.GetBool("dump") {
			if derr := i.Dump(cmd.ErrOrStderr()); err == nil {
				err = derr
			}
		}
	}()
	if err = i.Run(); err != nil {
		return err
	}

	s := runSummary{
		File:         args[0],
		State:        i.State().String(),
		Instructions: i.InstructionCount(),
		Depth:        i.Depth(),
	}
	if tos, ok := i.Tos(); ok {
		s.Result = &tos
	}
	return c.report(cmd.OutOrStdout(), s, func(w io.Writer) {
		if s.Result != nil {
			fmt.Fprintf(w, "%s %d\n", bold("Result (top of stack):"), *s.Result)
		} else {
			fmt.Fprintf(w, "%s (stack is empty)\n", bold("Result:"))
		}
	})
}
