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

package asm

import (
	"encoding/binary"

	"github.com/kohazen/vm-bytecode/vm"
)

// Generate encodes the instructions of a fully resolved program: each
// instruction is written as its opcode byte followed, if it takes an operand,
// by the 4 bytes little-endian operand. The result may not exceed maxSize
// bytes. A zero maxSize selects the default limit.
func Generate(p *Program, maxSize int) ([]byte, error) {
	if maxSize <= 0 {
		maxSize = DefaultLimits().MaxCodeSize
	}
	var code []byte
	for i := range p.Instructions {
		in := &p.Instructions[i]
		if in.Pending {
			return nil, newError(p.Name, in.Line, ErrUnresolvedLabel, "unresolved label '%s'", in.Label)
		}
		if len(code)+in.Size() > maxSize {
			return nil, newError(p.Name, in.Line, ErrCodeTooLarge, "bytecode too large (max %d bytes)", maxSize)
		}
		code = append(code, byte(in.Op))
		if in.HasOperand() {
			code = binary.LittleEndian.AppendUint32(code, uint32(in.Operand))
		}
	}
	return code, nil
}

// Encode appends the encoding of a single instruction to code. The arg
// parameter is ignored if op takes no operand.
func Encode(code []byte, op vm.Opcode, arg vm.Cell) []byte {
	code = append(code, byte(op))
	if op.HasOperand() {
		code = binary.LittleEndian.AppendUint32(code, uint32(arg))
	}
	return code
}
