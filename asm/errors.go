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
	"fmt"
	"strconv"
)

// Stage identifies the assembler pass that reported an error.
type Stage int

// Assembler stages.
const (
	StageLex Stage = iota
	StageParse
	StageLabel
	StageCodegen
	StageFile
)

var stageNames = [...]string{"lexer", "parser", "label", "codegen", "file"}

func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "unknown"
}

// Kind is the category of an assembler error. Kind values implement the error
// interface so that errors.Is(err, ErrUndefinedLabel) and the like work on
// errors returned by the assembler.
type Kind int

// Error kinds.
const (
	ErrUnexpectedChar Kind = iota + 1
	ErrIdentTooLong
	ErrBadNumber
	ErrTooManyTokens
	ErrSourceTooLarge
	ErrUnexpectedToken
	ErrUnknownMnemonic
	ErrMissingOperand
	ErrInvalidOperand
	ErrTooManyInstructions
	ErrDuplicateLabel
	ErrUndefinedLabel
	ErrTooManyLabels
	ErrCodeTooLarge
	ErrUnresolvedLabel
	ErrFile
)

var kinds = [...]struct {
	stage Stage
	desc  string
}{
	ErrUnexpectedChar:      {StageLex, "unexpected character"},
	ErrIdentTooLong:        {StageLex, "identifier too long"},
	ErrBadNumber:           {StageLex, "malformed number"},
	ErrTooManyTokens:       {StageLex, "too many tokens"},
	ErrSourceTooLarge:      {StageLex, "source too large"},
	ErrUnexpectedToken:     {StageParse, "unexpected token"},
	ErrUnknownMnemonic:     {StageParse, "unknown instruction"},
	ErrMissingOperand:      {StageParse, "missing operand"},
	ErrInvalidOperand:      {StageParse, "invalid operand"},
	ErrTooManyInstructions: {StageParse, "too many instructions"},
	ErrDuplicateLabel:      {StageLabel, "duplicate label"},
	ErrUndefinedLabel:      {StageLabel, "undefined label"},
	ErrTooManyLabels:       {StageLabel, "too many labels"},
	ErrCodeTooLarge:        {StageCodegen, "bytecode too large"},
	ErrUnresolvedLabel:     {StageCodegen, "unresolved label"},
	ErrFile:                {StageFile, "file error"},
}

func (k Kind) valid() bool { return k > 0 && int(k) < len(kinds) }

// Stage returns the assembler stage that reports errors of this kind.
func (k Kind) Stage() Stage {
	if !k.valid() {
		return -1
	}
	return kinds[k].stage
}

func (k Kind) Error() string {
	if !k.valid() {
		return "unknown error " + strconv.Itoa(int(k))
	}
	return kinds[k].desc
}

// Error is the error type returned by all assembler stages.
type Error struct {
	Name     string // source name
	Line     int    // 1-based line number, 0 if not applicable
	OrigLine int    // line of the original definition for ErrDuplicateLabel
	Kind     Kind
	Msg      string
	Err      error // underlying error, if any
}

func newError(name string, line int, kind Kind, format string, args ...interface{}) *Error {
	return &Error{Name: name, Line: line, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Stage returns the stage that reported the error.
func (e *Error) Stage() Stage { return e.Kind.Stage() }

func (e *Error) Error() string {
	var pos string
	switch {
	case e.Name != "" && e.Line > 0:
		pos = e.Name + ":" + strconv.Itoa(e.Line) + ": "
	case e.Name != "":
		pos = e.Name + ": "
	case e.Line > 0:
		pos = "line " + strconv.Itoa(e.Line) + ": "
	}
	return pos + e.Msg
}

// Unwrap returns the error Kind and the underlying error, if any.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}
