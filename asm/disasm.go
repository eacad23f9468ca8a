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
	"encoding/binary"
	"io"
	"strconv"

	"github.com/kohazen/vm-bytecode/internal/bvi"
	"github.com/kohazen/vm-bytecode/vm"
)

// Disassemble writes a disassembly of the instruction at position pc in code
// to the specified io.Writer and returns the position of the next instruction
// and any write error.
//
// Bytes that are not valid opcodes are written as a ".byte 0xNN" directive.
// If the operand of the last instruction is truncated, it is written as "???".
// If pc is outside of code, nothing is written and io.EOF is returned.
func Disassemble(code []byte, pc int, w io.Writer) (next int, err error) {
	if pc < 0 || pc >= len(code) {
		return pc, io.EOF
	}
	ew := bvi.NewErrWriter(w)

	op := vm.Opcode(code[pc])
	if !op.Valid() {
		ew.Printf(".byte 0x%02X", byte(op))
		return pc + 1, ew.Err
	}
	ew.Print(op.String())
	pc++
	if !op.HasOperand() {
		return pc, ew.Err
	}
	ew.Print(" ")
	if pc+vm.OperandSize > len(code) {
		ew.Print("???")
		return len(code), ew.Err
	}
	arg := int32(binary.LittleEndian.Uint32(code[pc:]))
	ew.Print(strconv.Itoa(int(arg)))
	return pc + vm.OperandSize, ew.Err
}

// DisassembleAll writes a disassembly of all instructions in code to the
// specified io.Writer. The base argument specifies the real address of the
// first byte (code[0]). It will return any write error.
func DisassembleAll(code []byte, base int, w io.Writer) error {
	ew := bvi.NewErrWriter(w)
	for pc := 0; pc < len(code); {
		ew.Printf("% 10d\t", base+pc)
		pc, _ = Disassemble(code, pc, ew)
		ew.Print("\n")
		if ew.Err != nil {
			return ew.Err
		}
	}
	return nil
}
