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
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/kohazen/vm-bytecode/asm"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reNL = regexp.MustCompile(`(?m)^`)

func diff(l, r string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(l, r, false)
	pretty := dmp.DiffPrettyText(diffs)
	return reNL.ReplaceAllLiteralString(pretty, "\t")
}

func TestDisassembleAll(t *testing.T) {
	type testrow struct {
		Name     string
		Code     []byte
		Base     int
		Expected []string
	}

	fromSource := func(src string) []byte {
		code, err := asm.Assemble(t.Name(), strings.NewReader(src))
		require.NoError(t, err)
		return code
	}

	data := []testrow{
		{
			Name: "loop",
			Code: fromSource(labelProgram),
			Expected: []string{
				"         0\tPUSH 3",
				"         5\tPUSH 1",
				"        10\tSUB",
				"        11\tDUP",
				"        12\tJNZ 5",
				"        17\tCALL 27",
				"        22\tJMP 33",
				"        27\tSTORE 0",
				"        32\tRET",
			},
		},
		{
			Name: "invalid",
			Code: []byte{0xFF, 0x00, 0x15, 0x31, 0xFF, 0xFF},
			Base: 100,
			Expected: []string{
				"       100\tHALT",
				"       101\t.byte 0x00",
				"       102\t.byte 0x15",
				"       103\tLOAD ???",
			},
		},
	}

	for _, row := range data {
		var buf bytes.Buffer
		if err := asm.DisassembleAll(row.Code, row.Base, &buf); err != nil {
			t.Errorf("%s/%s: error: %v", t.Name(), row.Name, err)
			continue
		}
		actual := buf.String()
		expected := strings.Join(row.Expected, "\n") + "\n"
		if actual != expected {
			t.Errorf("%s/%s: wrong output:\n%s", t.Name(), row.Name, diff(expected, actual))
		}
	}
}

// The text produced for each valid instruction assembles back to the same
// bytes.
func TestDisassemble_reassemble(t *testing.T) {
	code, err := asm.Assemble("src", strings.NewReader(labelProgram+"PUSH -2147483648\nLOAD 255\nHALT\n"))
	require.NoError(t, err)

	var text bytes.Buffer
	for pc := 0; pc < len(code); {
		pc, err = asm.Disassemble(code, pc, &text)
		require.NoError(t, err)
		text.WriteByte('\n')
	}
	again, err := asm.Assemble("dis", &text)
	require.NoError(t, err)
	require.Equal(t, code, again)
}

type failWriter struct{ n int }

var errFail = errors.New("fail")

func (w *failWriter) Write(p []byte) (int, error) {
	if w.n--; w.n < 0 {
		return 0, errFail
	}
	return len(p), nil
}

func TestDisassembleAll_writeError(t *testing.T) {
	err := asm.DisassembleAll([]byte{0xFF, 0xFF, 0xFF}, 0, &failWriter{n: 3})
	require.ErrorIs(t, err, errFail)
}

func TestDisassemble_outOfRange(t *testing.T) {
	code := []byte{0xFF}
	for _, pc := range []int{-1, 1, 42} {
		var b bytes.Buffer
		next, err := asm.Disassemble(code, pc, &b)
		assert.ErrorIs(t, err, io.EOF)
		assert.Equal(t, pc, next)
		assert.Empty(t, b.String())
	}
	next, err := asm.Disassemble(nil, 0, io.Discard)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 0, next)
}
