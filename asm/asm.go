// This file is part of vm-bytecode - https://github.com/kohazen/vm-bytecode
//
// Copyright 2016 Denis Bernard <db047h@gmail.com>
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

package asm

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/kohazen/vm-bytecode/vm"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Limits groups the capacity limits of the assembler. A zero field selects
// the corresponding default value.
type Limits struct {
	MaxSourceSize   int // bytes of source text
	MaxTokens       int // including the final EOF token
	MaxInstructions int
	MaxLabels       int
	MaxCodeSize     int // bytes of generated code
	MaxIdentLength  int
}

// DefaultLimits returns the default assembler limits.
func DefaultLimits() Limits {
	return Limits{
		MaxSourceSize:   65536,
		MaxTokens:       1024,
		MaxInstructions: 1024,
		MaxLabels:       256,
		MaxCodeSize:     65536,
		MaxIdentLength:  63,
	}
}

func (l *Limits) setDefaults() {
	d := DefaultLimits()
	for _, f := range [...]struct{ v, d *int }{
		{&l.MaxSourceSize, &d.MaxSourceSize},
		{&l.MaxTokens, &d.MaxTokens},
		{&l.MaxInstructions, &d.MaxInstructions},
		{&l.MaxLabels, &d.MaxLabels},
		{&l.MaxCodeSize, &d.MaxCodeSize},
		{&l.MaxIdentLength, &d.MaxIdentLength},
	} {
		if *f.v <= 0 {
			*f.v = *f.d
		}
	}
}

// Assembler runs the assembly pipeline: lexer, parser, label collection and
// resolution, then code generation.
type Assembler struct {
	lim Limits
	log zerolog.Logger
}

// Option interface
type Option func(*Assembler)

// WithLimits sets the assembler limits. Zero fields in l keep their default
// value.
func WithLimits(l Limits) Option {
	return func(a *Assembler) {
		l.setDefaults()
		a.lim = l
	}
}

// WithLogger sets the logger used to report the progress of each stage at
// debug level.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Assembler) { a.log = l }
}

// New returns a new Assembler.
func New(opts ...Option) *Assembler {
	a := &Assembler{lim: DefaultLimits(), log: zerolog.Nop()}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Limits returns the limits in effect for a.
func (a *Assembler) Limits() Limits { return a.lim }

// Result holds the output of a successful assembly. When assembly fails, the
// fields filled by the stages that did complete are still available.
type Result struct {
	Instructions int    // number of instructions
	Labels       int    // number of labels
	Size         int    // size of the generated code in bytes
	Code         []byte // generated code, without file header
	Symbols      *SymbolTable
	Tokens       []Token
	Program      *Program
}

// Assemble assembles the source read from r.
//
// The name parameter is used only in error messages to name the source of the
// error. If the io.Reader is a file, name should be the file name.
//
// The returned error, if not nil, is an *Error.
func (a *Assembler) Assemble(name string, r io.Reader) (*Result, error) {
	res := &Result{}
	src, err := io.ReadAll(io.LimitReader(r, int64(a.lim.MaxSourceSize)+1))
	if err != nil {
		return res, &Error{Name: name, Kind: ErrFile, Msg: "read failed: " + err.Error(), Err: errors.Wrap(err, "read failed")}
	}
	if len(src) > a.lim.MaxSourceSize {
		return res, newError(name, 0, ErrSourceTooLarge, "source too large (max %d bytes)", a.lim.MaxSourceSize)
	}

	if res.Tokens, err = Lex(name, bytes.NewReader(src), a.lim); err != nil {
		return res, a.failed(err)
	}
	a.log.Debug().Str("name", name).Int("tokens", len(res.Tokens)).Msg("lexer done")

	if res.Program, err = Parse(name, res.Tokens, a.lim); err != nil {
		return res, a.failed(err)
	}
	res.Instructions = len(res.Program.Instructions)
	a.log.Debug().Str("name", name).Int("instructions", res.Instructions).Msg("parser done")

	res.Symbols = NewSymbolTable(name, a.lim.MaxLabels)
	if err = res.Symbols.Collect(res.Program); err != nil {
		return res, a.failed(err)
	}
	res.Labels = res.Symbols.Len()
	if err = res.Symbols.Resolve(res.Program); err != nil {
		return res, a.failed(err)
	}
	a.log.Debug().Str("name", name).Int("labels", res.Labels).Msg("labels resolved")

	if res.Code, err = Generate(res.Program, a.lim.MaxCodeSize); err != nil {
		return res, a.failed(err)
	}
	res.Size = len(res.Code)
	a.log.Debug().Str("name", name).Int("size", res.Size).Msg("code generated")
	return res, nil
}

func (a *Assembler) failed(err error) error {
	if e, ok := err.(*Error); ok {
		a.log.Debug().Err(err).Stringer("stage", e.Stage()).Msg("assembly failed")
	}
	return err
}

// AssembleString assembles src and writes the resulting bytecode file to
// output. Error messages report line numbers only.
func (a *Assembler) AssembleString(src string, output string) (*Result, error) {
	res, err := a.Assemble("", strings.NewReader(src))
	if err != nil {
		return res, err
	}
	return res, a.save(output, res)
}

// AssembleFile assembles the source file input and writes the resulting
// bytecode file to output.
func (a *Assembler) AssembleFile(input string, output string) (*Result, error) {
	f, err := os.Open(input)
	if err != nil {
		reason := err
		var pe *fs.PathError
		if errors.As(err, &pe) {
			reason = pe.Err
		}
		return &Result{}, &Error{Name: input, Kind: ErrFile, Msg: "cannot open input file: " + reason.Error(), Err: err}
	}
	defer f.Close()
	res, err := a.Assemble(input, f)
	if err != nil {
		return res, err
	}
	return res, a.save(output, res)
}

func (a *Assembler) save(output string, res *Result) error {
	if err := vm.Save(output, res.Code); err != nil {
		return &Error{Name: output, Kind: ErrFile, Msg: err.Error(), Err: err}
	}
	a.log.Debug().Str("output", output).Int("size", res.Size).Msg("bytecode written")
	return nil
}

// Assemble assembles the source read from r with default limits and returns
// the generated code.
//
// The name parameter is used only in error messages to name the source of the
// error. If the io.Reader is a file, name should be the file name.
func Assemble(name string, r io.Reader) ([]byte, error) {
	res, err := New().Assemble(name, r)
	if err != nil {
		return nil, err
	}
	return res.Code, nil
}
