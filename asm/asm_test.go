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

package asm_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kohazen/vm-bytecode/asm"
	"github.com/kohazen/vm-bytecode/vm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		src  string
		code []byte
	}{
		{"PUSH 1\nHALT", []byte{0x01, 1, 0, 0, 0, 0xFF}},
		{"PUSH -2", []byte{0x01, 0xFE, 0xFF, 0xFF, 0xFF}},
		{"PUSH 305419896", []byte{0x01, 0x78, 0x56, 0x34, 0x12}},
		{"POP\nDUP\nADD\nSUB\nMUL\nDIV\nCMP\nRET\nHALT", []byte{0x02, 0x03, 0x10, 0x11, 0x12, 0x13, 0x14, 0x41, 0xFF}},
		{"x: JMP x\nJZ x\nJNZ x\nSTORE 1\nLOAD 2\nCALL x", []byte{
			0x20, 0, 0, 0, 0,
			0x21, 0, 0, 0, 0,
			0x22, 0, 0, 0, 0,
			0x30, 1, 0, 0, 0,
			0x31, 2, 0, 0, 0,
			0x40, 0, 0, 0, 0,
		}},
	}
	for _, test := range tests {
		code, err := asm.Assemble("gen", strings.NewReader(test.src))
		require.NoError(t, err, test.src)
		assert.Equal(t, test.code, code, test.src)
	}
}

func TestGenerate_errors(t *testing.T) {
	p := &asm.Program{Name: "gen", Instructions: []asm.Instruction{
		{Op: vm.OpPush, Operand: 1, Line: 1},
		{Op: vm.OpJmp, Label: "nowhere", Pending: true, Line: 2},
	}}
	_, err := asm.Generate(p, 0)
	e := requireKind(t, err, asm.ErrUnresolvedLabel)
	assert.Equal(t, asm.StageCodegen, e.Stage())
	assert.Equal(t, 2, e.Line)

	p.Instructions[1] = asm.Instruction{Op: vm.OpHalt, Line: 2}
	code, err := asm.Generate(p, 6)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	_, err = asm.Generate(p, 5)
	e = requireKind(t, err, asm.ErrCodeTooLarge)
	assert.Equal(t, 2, e.Line)
}

func TestEncode(t *testing.T) {
	var code []byte
	code = asm.Encode(code, vm.OpPush, -1)
	code = asm.Encode(code, vm.OpHalt, 42)
	assert.Equal(t, []byte{0x01, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, code)
}

func TestAssembler(t *testing.T) {
	res, err := asm.New().Assemble("test", strings.NewReader(labelProgram))
	require.NoError(t, err)
	assert.Equal(t, 9, res.Instructions)
	assert.Equal(t, 5, res.Labels)
	assert.Equal(t, 33, res.Size)
	assert.Len(t, res.Code, 33)
	assert.NotNil(t, res.Symbols.Lookup("end"))

	// partial results on failure
	res, err = asm.New().Assemble("test", strings.NewReader("PUSH 1\nJMP nowhere\n"))
	requireKind(t, err, asm.ErrUndefinedLabel)
	assert.Equal(t, 2, res.Instructions)
	assert.NotEmpty(t, res.Tokens)
	assert.Nil(t, res.Code)
}

func TestAssembler_limits(t *testing.T) {
	a := asm.New(asm.WithLimits(asm.Limits{MaxSourceSize: 4}))
	assert.Equal(t, 1024, a.Limits().MaxTokens)

	_, err := a.Assemble("big", strings.NewReader("HALT"))
	require.NoError(t, err)
	_, err = a.Assemble("big", strings.NewReader("HALT\n"))
	e := requireKind(t, err, asm.ErrSourceTooLarge)
	assert.Equal(t, "big: source too large (max 4 bytes)", e.Error())

	// 1024 instructions of 5 bytes
	src := strings.Repeat("PUSH 1\n", 1024)
	a = asm.New(asm.WithLimits(asm.Limits{MaxTokens: 4096}))
	_, err = a.Assemble("big", strings.NewReader(src))
	require.NoError(t, err)
	a = asm.New(asm.WithLimits(asm.Limits{MaxTokens: 4096, MaxCodeSize: 5 * 1000}))
	_, err = a.Assemble("big", strings.NewReader(src))
	e = requireKind(t, err, asm.ErrCodeTooLarge)
	assert.Equal(t, 1001, e.Line)
}

func TestAssembler_logger(t *testing.T) {
	var b bytes.Buffer
	a := asm.New(asm.WithLogger(zerolog.New(&b).Level(zerolog.DebugLevel)))
	_, err := a.Assemble("log", strings.NewReader("HALT"))
	require.NoError(t, err)
	for _, msg := range []string{"lexer done", "parser done", "labels resolved", "code generated"} {
		assert.Contains(t, b.String(), msg)
	}
	b.Reset()
	_, err = a.Assemble("log", strings.NewReader("BOOM"))
	require.Error(t, err)
	assert.Contains(t, b.String(), `"stage":"parser"`)
}

func TestAssembleFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "prog.asm")
	out := filepath.Join(dir, "prog.bc")
	require.NoError(t, os.WriteFile(in, []byte("CALL f\nHALT\nf: PUSH 42\nRET\n"), 0o644))

	res, err := asm.New().AssembleFile(in, out)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Instructions)
	assert.Equal(t, 1, res.Labels)
	assert.Equal(t, 12, res.Size)

	// round trip through the file format
	code, err := vm.Load(out)
	require.NoError(t, err)
	assert.Equal(t, res.Code, code)

	i, err := vm.New()
	require.NoError(t, err)
	require.NoError(t, i.Load(code))
	require.NoError(t, i.Run())
	assert.Equal(t, []vm.Cell{42}, i.Data())
}

func TestAssembleFile_errors(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.asm")
	_, err := asm.New().AssembleFile(missing, filepath.Join(dir, "out.bc"))
	e := requireKind(t, err, asm.ErrFile)
	assert.Equal(t, asm.StageFile, e.Stage())
	assert.ErrorIs(t, err, os.ErrNotExist)
	// the file name is reported once
	assert.True(t, strings.HasPrefix(err.Error(), missing+": cannot open input file: "), err.Error())
	assert.Equal(t, 1, strings.Count(err.Error(), missing), err.Error())

	in := filepath.Join(dir, "bad.asm")
	require.NoError(t, os.WriteFile(in, []byte("PUSH 1\nPUSH $\n"), 0o644))
	_, err = asm.New().AssembleFile(in, filepath.Join(dir, "out.bc"))
	e = requireKind(t, err, asm.ErrUnexpectedChar)
	assert.Equal(t, in, e.Name)
	assert.Equal(t, 2, e.Line)
	_, err = os.Stat(filepath.Join(dir, "out.bc"))
	assert.True(t, os.IsNotExist(err))
}

func TestAssembleString(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "str.bc")
	res, err := asm.New().AssembleString("PUSH 40\nPUSH 2\nADD\nHALT\n", out)
	require.NoError(t, err)
	code, err := vm.Load(out)
	require.NoError(t, err)
	assert.Equal(t, res.Code, code)

	// no source name in messages
	_, err = asm.New().AssembleString("PUSH 5\nJMP undefined\n", out)
	requireKind(t, err, asm.ErrUndefinedLabel)
	assert.EqualError(t, err, "line 2: undefined label 'undefined'")

	_, err = asm.New().AssembleString("HALT", filepath.Join(dir, "no", "such", "dir.bc"))
	requireKind(t, err, asm.ErrFile)
}

func TestKind(t *testing.T) {
	assert.Equal(t, "undefined label", asm.ErrUndefinedLabel.Error())
	assert.Equal(t, asm.StageLex, asm.ErrBadNumber.Stage())
	assert.Equal(t, asm.StageCodegen, asm.ErrCodeTooLarge.Stage())
	assert.Equal(t, asm.Stage(-1), asm.Kind(0).Stage())
	assert.Equal(t, "unknown error 0", asm.Kind(0).Error())
	assert.Equal(t, "unknown", asm.Stage(42).String())
}
