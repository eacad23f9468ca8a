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

import "strconv"

// ErrorCode identifies the cause of a VM fault. ErrorCode values implement
// the error interface and can be matched with errors.Is against any error
// returned by Run or Step.
type ErrorCode int

// VM fault codes.
const (
	OK ErrorCode = iota
	ErrStackOverflow
	ErrStackUnderflow
	ErrInvalidOpcode
	ErrDivisionByZero
	ErrMemoryBounds
	ErrCodeBounds
	ErrCallStackOverflow
	ErrCallStackUnderflow
	ErrStepLimit
	ErrNoProgram
)

var errorStrings = [...]string{
	OK:                    "OK",
	ErrStackOverflow:      "stack overflow",
	ErrStackUnderflow:     "stack underflow",
	ErrInvalidOpcode:      "invalid opcode",
	ErrDivisionByZero:     "division by zero",
	ErrMemoryBounds:       "memory access out of bounds",
	ErrCodeBounds:         "code access out of bounds",
	ErrCallStackOverflow:  "call stack overflow",
	ErrCallStackUnderflow: "call stack underflow",
	ErrStepLimit:          "step limit exceeded",
	ErrNoProgram:          "no program loaded",
}

func (c ErrorCode) Error() string {
	if c >= 0 && int(c) < len(errorStrings) {
		return errorStrings[c]
	}
	return "unknown error " + strconv.Itoa(int(c))
}

// Error is returned by Run and Step when the VM faults. PC is the address of
// the faulting instruction and Op its opcode.
type Error struct {
	Code ErrorCode
	PC   int
	Op   Opcode
}

func (e *Error) Error() string {
	s := e.Code.Error() + " @pc=" + strconv.Itoa(e.PC)
	if e.Op.Valid() || e.Code == ErrInvalidOpcode {
		s += " (" + e.Op.String() + ")"
	}
	return s
}

// Unwrap returns the error's ErrorCode.
func (e *Error) Unwrap() error { return e.Code }

// Code returns the ErrorCode carried by err: OK if err is nil, or -1 if err
// is not a VM fault.
func Code(err error) ErrorCode {
	switch e := err.(type) {
	case nil:
		return OK
	case ErrorCode:
		return e
	case *Error:
		return e.Code
	}
	return -1
}
