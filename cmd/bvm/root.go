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
	"strings"

	"github.com/fatih/color"
	"github.com/kohazen/vm-bytecode/vm"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

var outputFormats = []string{"text", "json"}

// cli holds the state shared by all commands of a single invocation.
type cli struct {
	v   *viper.Viper
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New(), log: zerolog.Nop()}
	root := &cobra.Command{
		Use:   "bvm",
		Short: "Assembler and virtual machine for a small stack bytecode",
		Long: `bvm assembles programs written in a small stack machine assembly
language to bytecode files, disassembles them, and runs them.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	f := root.PersistentFlags()
	f.String("config", "", "config `file` (default ./bvm.yaml)")
	f.String("log-level", "warn", "log `level` (trace, debug, info, warn, error)")
	f.Bool("debug", false, "enable debug logging")
	f.Bool("no-color", false, "disable colored output")
	f.String("output", "text", "summary `format` (text, json)")
	root.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return outputFormats, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(c.asmCmd(), c.runCmd(), c.disCmd(), versionCmd())
	return root
}

// setup binds the flags of the command being run, reads the configuration
// and sets up logging.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if err := c.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	c.v.SetEnvPrefix("BVM")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	if err := c.readConfig(); err != nil {
		return err
	}
	processGlobalFlags(c.v)

	format := strings.ToLower(c.v.GetString("output"))
	if indexOf(outputFormats, format) < 0 {
		return errors.Errorf("unknown output format: %s", format)
	}

	lvl, err := zerolog.ParseLevel(c.v.GetString("log-level"))
	if err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	if c.v.GetBool("debug") && lvl > zerolog.DebugLevel {
		lvl = zerolog.DebugLevel
	}
	w := zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: color.NoColor}
	c.log = zerolog.New(w).Level(lvl).With().Timestamp().Str("cmd", cmd.Name()).Logger()
	return nil
}

func (c *cli) readConfig() error {
	if file := c.v.GetString("config"); file != "" {
		c.v.SetConfigFile(file)
		return errors.Wrap(c.v.ReadInConfig(), "cannot read config")
	}
	c.v.SetConfigName("bvm")
	c.v.SetConfigType("yaml")
	c.v.AddConfigPath(".")
	err := c.v.ReadInConfig()
	var nf viper.ConfigFileNotFoundError
	if errors.As(err, &nf) {
		return nil
	}
	return errors.Wrap(err, "cannot read config")
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bvm %s (bytecode format %d)\n", version, vm.Version)
		},
	}
}
