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
	"bufio"

	"github.com/kohazen/vm-bytecode/asm"
	"github.com/kohazen/vm-bytecode/vm"
	"github.com/spf13/cobra"
)

func (c *cli) disCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dis <file.bc>",
		Short: "Disassemble a bytecode file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := vm.Load(args[0])
			if err != nil {
				return err
			}
			c.log.Debug().Str("file", args[0]).Int("size", len(code)).Msg("bytecode loaded")
			w := bufio.NewWriter(cmd.OutOrStdout())
			if err = asm.DisassembleAll(code, 0, w); err != nil {
				return err
			}
			return w.Flush()
		},
	}
}
