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

// Package vm implements a small stack based bytecode virtual machine and its
// bytecode file format.
//
// The VM has a data stack of 32 bits signed cells, a call stack of return
// addresses and a fixed size linear memory, all owned by the Instance. Code is
// a byte stream: one opcode byte, followed by a 4 bytes little-endian signed
// operand for PUSH, JMP, JZ, JNZ, STORE, LOAD and CALL.
//
//	opcode	asm	arg	stack	description
//	------	---	---	-----	------------------------------------------------
//	0x01	PUSH	✓	-n	push operand
//	0x02	POP		n-	discard TOS
//	0x03	DUP		n-nn	duplicate TOS
//	0x10	ADD		ab-c	c = a + b
//	0x11	SUB		ab-c	c = a - b
//	0x12	MUL		ab-c	c = a * b
//	0x13	DIV		ab-c	c = a / b, truncated toward zero
//	0x14	CMP		ab-c	c = 1 if a < b, else 0
//	0x20	JMP	✓		jump to address
//	0x21	JZ	✓	n-	jump to address if n == 0
//	0x22	JNZ	✓	n-	jump to address if n != 0
//	0x30	STORE	✓	n-	memory[operand] = n
//	0x31	LOAD	✓	-n	push memory[operand]
//	0x40	CALL	✓		push return address on the call stack, jump
//	0x41	RET			pop return address and jump to it
//	0xFF	HALT			stop
//
// Arithmetic wraps around on overflow. Every instruction checks its
// preconditions (stack depth, divisor, memory index, jump target) before
// touching any state: a fault stops the VM with the PC on the faulting
// instruction and nothing else modified.
//
// The bytecode file starts with a 12 bytes header (see Header) followed by the
// code.
package vm
