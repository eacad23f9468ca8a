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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/kohazen/vm-bytecode/asm"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

var (
	red   = color.New(color.FgRed).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

func fatal(msg interface{}) {
	var s string
	switch msg := msg.(type) {
	case string:
		s = msg
	case error:
		s = msg.Error()
	default:
		s = fmt.Sprintf("%v", msg)
	}
	fmt.Fprintf(os.Stderr, "%s\n", red(s))
	os.Exit(1)
}

func isTerminalIO() bool {
	stdin := os.Stdin.Fd()
	stdout := os.Stdout.Fd()
	inTerm := isatty.IsTerminal(stdin) || isatty.IsCygwinTerminal(stdin)
	outTerm := isatty.IsTerminal(stdout) || isatty.IsCygwinTerminal(stdout)
	return inTerm && outTerm
}

func indexOf(arr []string, val string) int {
	for i, v := range arr {
		if v == val {
			return i
		}
	}
	return -1
}

// Reads global flags from Viper and adjusts the environment accordingly.
func processGlobalFlags(v *viper.Viper) {
	if v.GetBool("no-color") || !isTerminalIO() {
		color.NoColor = true
	}
}

// report writes a command summary to w, either as text or as JSON depending
// on the output format.
func (c *cli) report(w io.Writer, data interface{}, text func(w io.Writer)) error {
	if strings.ToLower(c.v.GetString("output")) != "json" {
		text(w)
		return nil
	}
	var (
		b   []byte
		err error
	)
	if color.NoColor {
		b, err = json.MarshalIndent(data, "", "  ")
	} else {
		b, err = prettyjson.Marshal(data)
	}
	if err != nil {
		return errors.Wrap(err, "cannot encode summary")
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

// describe prefixes assembler errors with the stage that raised them.
func describe(err error) string {
	var e *asm.Error
	if errors.As(err, &e) {
		return e.Stage().String() + " error: " + e.Error()
	}
	return err.Error()
}

// stageFormat is a multierror.ErrorFormatFunc listing one error per line.
func stageFormat(es []error) string {
	lines := make([]string, len(es))
	for i, err := range es {
		lines[i] = describe(err)
	}
	return strings.Join(lines, "\n")
}
