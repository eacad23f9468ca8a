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

// Package asm provides a two pass assembler and a disassembler for the
// bytecode VM in package vm.
//
// Source format:
//
// The source is line oriented: one instruction per line, with an optional
// label definition before it. Blank lines are ignored.
//
//	; comments start with a semicolon and extend to the end of the line
//	start:	PUSH 3		; label definition followed by an instruction
//	loop:
//		PUSH 1
//		SUB
//		DUP
//		JNZ loop	; label reference
//		HALT
//
// Spaces, tabs and carriage returns are insignificant. Instruction names and
// labels are identifiers matching [A-Za-z_][A-Za-z0-9_]* and are case
// insensitive: "push", "Push" and "PUSH" are the same instruction, and "Loop"
// refers to the label "loop:". See package vm for the list of instructions.
//
// Operands:
//
// PUSH, JMP, JZ, JNZ, STORE, LOAD and CALL take exactly one operand: either a
// decimal integer literal with an optional leading '-' that must fit in a 32
// bits signed integer, or a label name. A label operand is replaced by the
// address of the label.
//
// Labels:
//
// A label is defined by an identifier immediately followed by a colon. Its
// address is the byte offset of the next instruction, or the end of the code if
// no instruction follows. Labels can be referenced before they are defined and
// may not be defined twice.
//
// Assembly passes:
//
// The source is first split into tokens (Lex), then parsed into a list of
// instructions (Parse) which also records where each label is defined. The
// symbol table then computes label addresses (SymbolTable.Collect) and
// replaces label references with addresses (SymbolTable.Resolve). Generate
// finally encodes the instructions. Assembler runs all passes in sequence and
// stops at the first error.
//
// Errors returned by any pass are of type *Error. Their Kind can be tested
// with errors.Is:
//
//	if errors.Is(err, asm.ErrUndefinedLabel) {
//		// ...
//	}
package asm
