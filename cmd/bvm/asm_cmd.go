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
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/kohazen/vm-bytecode/asm"
	"github.com/kohazen/vm-bytecode/vm"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type asmSummary struct {
	Input        string `json:"input"`
	Output       string `json:"output"`
	Instructions int    `json:"instructions"`
	Labels       int    `json:"labels"`
	Size         int    `json:"size"`
}

func (c *cli) asmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asm <file.asm>...",
		Short: "Assemble source files to bytecode",
		Long: `Assemble each source file to a bytecode file. Unless -o is given, the
output file name is the input file name with a .bc extension.`,
		Args: cobra.MinimumNArgs(1),
		RunE: c.assemble,
	}
	f := cmd.Flags()
	f.StringP("out", "o", "", "output `file` (single input file only)")
	f.Bool("tokens", false, "print the token list")
	f.Bool("symbols", false, "print the symbol table")
	f.Bool("hex", false, "print a hex dump of the generated code")

	d := asm.DefaultLimits()
	f.Int("max-source-size", d.MaxSourceSize, "maximum source size in bytes")
	f.Int("max-tokens", d.MaxTokens, "maximum number of tokens")
	f.Int("max-instructions", d.MaxInstructions, "maximum number of instructions")
	f.Int("max-labels", d.MaxLabels, "maximum number of labels")
	f.Int("max-code-size", d.MaxCodeSize, "maximum code size in bytes")
	f.Int("max-ident-length", d.MaxIdentLength, "maximum identifier length")
	return cmd
}

func (c *cli) limits() asm.Limits {
	return asm.Limits{
		MaxSourceSize:   c.v.GetInt("max-source-size"),
		MaxTokens:       c.v.GetInt("max-tokens"),
		MaxInstructions: c.v.GetInt("max-instructions"),
		MaxLabels:       c.v.GetInt("max-labels"),
		MaxCodeSize:     c.v.GetInt("max-code-size"),
		MaxIdentLength:  c.v.GetInt("max-ident-length"),
	}
}

// outputName returns the default output file name for input.
func outputName(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".bc"
}

func (c *cli) assemble(cmd *cobra.Command, args []string) error {
	out := c.v.GetString("out")
	if out != "" && len(args) > 1 {
		return errors.New("-o cannot be used with multiple input files")
	}
	a := asm.New(asm.WithLimits(c.limits()), asm.WithLogger(c.log))
	w := cmd.OutOrStdout()

	var merr *multierror.Error
	for _, in := range args {
		dst := out
		if dst == "" {
			dst = outputName(in)
		}
		res, err := a.AssembleFile(in, dst)
		if lerr := c.listings(w, res); lerr != nil {
			return lerr
		}
		if err != nil {
			c.log.Debug().Err(err).Str("input", in).Msg("assembly failed")
			merr = multierror.Append(merr, err)
			continue
		}
		s := asmSummary{in, dst, res.Instructions, res.Labels, res.Size}
		err = c.report(w, s, func(w io.Writer) {
			fmt.Fprintf(w, "%s %s -> %s\n", green("Assembled"), s.Input, s.Output)
			fmt.Fprintf(w, "  Instructions: %d\n", s.Instructions)
			fmt.Fprintf(w, "  Labels:       %d\n", s.Labels)
			fmt.Fprintf(w, "  Bytecode:     %d bytes (+ %d byte header)\n", s.Size, vm.HeaderSize)
		})
		if err != nil {
			return err
		}
	}
	if merr != nil {
		merr.ErrorFormat = stageFormat
	}
	return merr.ErrorOrNil()
}

// listings prints the debug listings requested on the command line. Listings
// for stages that did not complete are skipped.
func (c *cli) listings(w io.Writer, res *asm.Result) error {
	if c.v.GetBool("tokens") && res.Tokens != nil {
		if err := asm.DumpTokens(res.Tokens, w); err != nil {
			return err
		}
	}
	if c.v.GetBool("symbols") && res.Symbols != nil {
		if err := res.Symbols.Dump(w); err != nil {
			return err
		}
	}
	if c.v.GetBool("hex") && res.Code != nil {
		if _, err := io.WriteString(w, hex.Dump(res.Code)); err != nil {
			return err
		}
	}
	return nil
}
