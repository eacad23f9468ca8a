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

package vm

import (
	"strconv"
	"strings"
)

// Opcode is a one byte instruction identifier.
type Opcode byte

// Virtual Machine Opcodes.
const (
	OpPush  Opcode = 0x01
	OpPop   Opcode = 0x02
	OpDup   Opcode = 0x03
	OpAdd   Opcode = 0x10
	OpSub   Opcode = 0x11
	OpMul   Opcode = 0x12
	OpDiv   Opcode = 0x13
	OpCmp   Opcode = 0x14
	OpJmp   Opcode = 0x20
	OpJz    Opcode = 0x21
	OpJnz   Opcode = 0x22
	OpStore Opcode = 0x30
	OpLoad  Opcode = 0x31
	OpCall  Opcode = 0x40
	OpRet   Opcode = 0x41
	OpHalt  Opcode = 0xFF
)

// OperandSize is the size in bytes of an encoded instruction operand.
const OperandSize = 4

type opInfo struct {
	name    string
	operand bool
}

// indexed by opcode; an empty name marks an invalid opcode.
var opcodes [256]opInfo

var opcodeIndex = make(map[string]Opcode)

func init() {
	for _, e := range []struct {
		op Opcode
		opInfo
	}{
		{OpPush, opInfo{"PUSH", true}},
		{OpPop, opInfo{"POP", false}},
		{OpDup, opInfo{"DUP", false}},
		{OpAdd, opInfo{"ADD", false}},
		{OpSub, opInfo{"SUB", false}},
		{OpMul, opInfo{"MUL", false}},
		{OpDiv, opInfo{"DIV", false}},
		{OpCmp, opInfo{"CMP", false}},
		{OpJmp, opInfo{"JMP", true}},
		{OpJz, opInfo{"JZ", true}},
		{OpJnz, opInfo{"JNZ", true}},
		{OpStore, opInfo{"STORE", true}},
		{OpLoad, opInfo{"LOAD", true}},
		{OpCall, opInfo{"CALL", true}},
		{OpRet, opInfo{"RET", false}},
		{OpHalt, opInfo{"HALT", false}},
	} {
		opcodes[e.op] = e.opInfo
		opcodeIndex[e.name] = e.op
	}
}

// Lookup returns the opcode for the given mnemonic. The lookup is case
// insensitive.
func Lookup(mnemonic string) (op Opcode, ok bool) {
	op, ok = opcodeIndex[strings.ToUpper(mnemonic)]
	return op, ok
}

// Valid returns true if op is a known opcode.
func (op Opcode) Valid() bool {
	return opcodes[op].name != ""
}

// HasOperand returns true if op is followed by a 4 bytes operand in the
// instruction stream.
func (op Opcode) HasOperand() bool {
	return opcodes[op].operand
}

// Size returns the encoded size in bytes of an instruction with opcode op.
func (op Opcode) Size() int {
	if op.HasOperand() {
		return 1 + OperandSize
	}
	return 1
}

func (op Opcode) String() string {
	if n := opcodes[op].name; n != "" {
		return n
	}
	return "0x" + strconv.FormatUint(uint64(op), 16)
}
