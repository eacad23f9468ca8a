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

package asm_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/kohazen/vm-bytecode/asm"
	"github.com/kohazen/vm-bytecode/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireKind checks that err is an *asm.Error of the given kind and returns
// it.
func requireKind(t *testing.T, err error, kind asm.Kind) *asm.Error {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, kind), "expected %v, got %v", kind, err)
	var e *asm.Error
	require.True(t, errors.As(err, &e))
	return e
}

func lex(t *testing.T, src string) []asm.Token {
	t.Helper()
	toks, err := asm.Lex(t.Name(), strings.NewReader(src), asm.Limits{})
	require.NoError(t, err)
	return toks
}

func TestLex(t *testing.T) {
	toks := lex(t, "loop: JNZ loop ; comment\n\tPUSH -5\r\nhalt")
	assert.Equal(t, []asm.Token{
		{Kind: asm.LabelDef, Text: "loop", Line: 1},
		{Kind: asm.Ident, Text: "JNZ", Line: 1},
		{Kind: asm.Ident, Text: "loop", Line: 1},
		{Kind: asm.Newline, Line: 1},
		{Kind: asm.Ident, Text: "PUSH", Line: 2},
		{Kind: asm.Number, Text: "-5", Value: -5, Line: 2},
		{Kind: asm.Newline, Line: 2},
		{Kind: asm.Ident, Text: "halt", Line: 3},
		{Kind: asm.EOF, Line: 3},
	}, toks)
}

func TestLex_empty(t *testing.T) {
	for _, src := range []string{"", "   \t", "; only a comment"} {
		toks := lex(t, src)
		require.Len(t, toks, 1, "%q", src)
		assert.Equal(t, asm.EOF, toks[0].Kind)
	}
}

func TestLex_numbers(t *testing.T) {
	for _, test := range []struct {
		src string
		v   vm.Cell
	}{
		{"0", 0},
		{"42", 42},
		{"-1", -1},
		{"007", 7},
		{"2147483647", 2147483647},
		{"-2147483648", -2147483648},
	} {
		toks := lex(t, test.src)
		require.Len(t, toks, 2)
		assert.Equal(t, asm.Number, toks[0].Kind)
		assert.Equal(t, test.v, toks[0].Value, test.src)
	}
}

func TestLex_identifiers(t *testing.T) {
	toks := lex(t, "_a1 B_2c x: Y_:")
	assert.Equal(t, []asm.TokenKind{asm.Ident, asm.Ident, asm.LabelDef, asm.LabelDef, asm.EOF}, kinds(toks))
	assert.Equal(t, "_a1", toks[0].Text)
	assert.Equal(t, "Y_", toks[3].Text)

	// a number directly followed by letters is two tokens
	toks = lex(t, "12ab")
	assert.Equal(t, []asm.TokenKind{asm.Number, asm.Ident, asm.EOF}, kinds(toks))
}

func kinds(toks []asm.Token) []asm.TokenKind {
	var k []asm.TokenKind
	for _, t := range toks {
		k = append(k, t.Kind)
	}
	return k
}

func TestLex_errors(t *testing.T) {
	long := strings.Repeat("a", 64)
	tests := []struct {
		name string
		src  string
		lim  asm.Limits
		kind asm.Kind
		line int
	}{
		{"unexpected char", "PUSH 1\nPUSH $", asm.Limits{}, asm.ErrUnexpectedChar, 2},
		{"lone colon", "HALT\n\n  :", asm.Limits{}, asm.ErrUnexpectedChar, 3},
		{"invalid utf8", "\x80", asm.Limits{}, asm.ErrUnexpectedChar, 1},
		{"minus alone", "\n\nPUSH -x", asm.Limits{}, asm.ErrBadNumber, 3},
		{"minus at end", "PUSH -", asm.Limits{}, asm.ErrBadNumber, 1},
		{"too large", "PUSH 2147483648", asm.Limits{}, asm.ErrBadNumber, 1},
		{"too small", "PUSH -2147483649", asm.Limits{}, asm.ErrBadNumber, 1},
		{"ident too long", "HALT\n" + long, asm.Limits{}, asm.ErrIdentTooLong, 2},
		{"label too long", long + ":", asm.Limits{}, asm.ErrIdentTooLong, 1},
		{"too many tokens", "A B C", asm.Limits{MaxTokens: 3}, asm.ErrTooManyTokens, 1},
		{"short ident limit", "HALT", asm.Limits{MaxIdentLength: 3}, asm.ErrIdentTooLong, 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			toks, err := asm.Lex("lex", strings.NewReader(test.src), test.lim)
			assert.Nil(t, toks)
			e := requireKind(t, err, test.kind)
			assert.Equal(t, asm.StageLex, e.Stage())
			assert.Equal(t, test.line, e.Line)
			assert.Equal(t, "lex", e.Name)
		})
	}
}

func TestLex_limits(t *testing.T) {
	_, err := asm.Lex("", strings.NewReader("A B"), asm.Limits{MaxTokens: 3})
	assert.NoError(t, err)
	_, err = asm.Lex("", strings.NewReader(strings.Repeat("a", 63)), asm.Limits{})
	assert.NoError(t, err)
}

func TestDumpTokens(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, asm.DumpTokens(lex(t, "x: PUSH 1"), &b))
	assert.Equal(t, ""+
		"[  0] line   1: LABEL_DEF \"x\"\n"+
		"[  1] line   1: IDENT \"PUSH\"\n"+
		"[  2] line   1: NUMBER 1\n"+
		"[  3] line   1: EOF\n", b.String())
}

// Tokens that span several characters keep the line they start on.
func TestLex_lines(t *testing.T) {
	toks := lex(t, "\n\nfoo: PUSH 123\nbar:\n  JMP -4567")
	assert.Equal(t, []asm.Token{
		{Kind: asm.Newline, Line: 1},
		{Kind: asm.Newline, Line: 2},
		{Kind: asm.LabelDef, Text: "foo", Line: 3},
		{Kind: asm.Ident, Text: "PUSH", Line: 3},
		{Kind: asm.Number, Text: "123", Value: 123, Line: 3},
		{Kind: asm.Newline, Line: 3},
		{Kind: asm.LabelDef, Text: "bar", Line: 4},
		{Kind: asm.Newline, Line: 4},
		{Kind: asm.Ident, Text: "JMP", Line: 5},
		{Kind: asm.Number, Text: "-4567", Value: -4567, Line: 5},
		{Kind: asm.EOF, Line: 5},
	}, toks)

	_, err := asm.Assemble("p", strings.NewReader("HALT\n\nPUSH 2147483648"))
	requireKind(t, err, asm.ErrBadNumber)
	assert.EqualError(t, err, "p:3: number out of range: 2147483648")

	_, err = asm.Assemble("p", strings.NewReader("start:\nPUSH 1\nstart:\nHALT\n"))
	e := requireKind(t, err, asm.ErrDuplicateLabel)
	assert.Equal(t, 3, e.Line)
	assert.Equal(t, 1, e.OrigLine)
	assert.EqualError(t, err, "p:3: label 'start' already defined on line 1")
}
