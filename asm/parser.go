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
	"io"

	"github.com/kohazen/vm-bytecode/internal/bvi"
	"github.com/kohazen/vm-bytecode/vm"
)

// Instruction is a parsed instruction. If Pending is true, the operand is a
// reference to the label Label, and Operand is meaningless until the symbol
// table resolves it.
type Instruction struct {
	Op      vm.Opcode
	Operand vm.Cell
	Label   string
	Pending bool
	Line    int
}

// HasOperand returns true if the instruction carries an operand.
func (in *Instruction) HasOperand() bool { return in.Op.HasOperand() }

// Size returns the encoded size of the instruction in bytes.
func (in *Instruction) Size() int { return in.Op.Size() }

// LabelSite records a label definition as seen by the parser: the label
// addresses the instruction at index Index in Program.Instructions (or the
// end of the program if Index == len(Program.Instructions)).
type LabelSite struct {
	Name  string
	Index int
	Line  int
}

// Program is the parser output.
type Program struct {
	Name         string
	Instructions []Instruction
	Labels       []LabelSite
}

type parser struct {
	p    *Program
	lim  *Limits
	toks []Token
	pos  int
}

// Parse builds a Program from the given tokens. Label definitions are
// recorded at the position of the next instruction. The name parameter is
// only used in error messages.
func Parse(name string, toks []Token, lim Limits) (*Program, error) {
	lim.setDefaults()
	p := &parser{p: &Program{Name: name}, lim: &lim, toks: toks}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.p, nil
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.toks) || p.toks[p.pos].Kind == EOF
}

func (p *parser) next() *Token {
	t := &p.toks[p.pos]
	p.pos++
	return t
}

func (p *parser) parse() error {
	for !p.atEnd() {
		t := p.next()
		switch t.Kind {
		case Newline:
			continue
		case LabelDef:
			p.p.Labels = append(p.p.Labels, LabelSite{t.Text, len(p.p.Instructions), t.Line})
			continue
		case Ident:
		default:
			return newError(p.p.Name, t.Line, ErrUnexpectedToken, "expected instruction, got %v", t)
		}

		op, ok := vm.Lookup(t.Text)
		if !ok {
			return newError(p.p.Name, t.Line, ErrUnknownMnemonic, "unknown instruction %q", t.Text)
		}
		in := Instruction{Op: op, Line: t.Line}
		if op.HasOperand() {
			if p.atEnd() {
				return newError(p.p.Name, t.Line, ErrMissingOperand, "%v requires an operand", op)
			}
			switch arg := p.next(); arg.Kind {
			case Number:
				in.Operand = arg.Value
			case Ident:
				in.Label = arg.Text
				in.Pending = true
			case Newline:
				return newError(p.p.Name, t.Line, ErrMissingOperand, "%v requires an operand", op)
			default:
				return newError(p.p.Name, t.Line, ErrInvalidOperand, "invalid operand for %v: %v", op, arg)
			}
		}
		if len(p.p.Instructions) >= p.lim.MaxInstructions {
			return newError(p.p.Name, t.Line, ErrTooManyInstructions, "too many instructions (max %d)", p.lim.MaxInstructions)
		}
		p.p.Instructions = append(p.p.Instructions, in)
	}
	return nil
}

// Dump writes a listing of the parsed instructions to w.
func (p *Program) Dump(w io.Writer) error {
	ew := bvi.NewErrWriter(w)
	for i := range p.Instructions {
		in := &p.Instructions[i]
		ew.Printf("[%3d] line %3d: %v", i, in.Line, in.Op)
		switch {
		case in.Pending:
			ew.Printf(" <%s>", in.Label)
		case in.HasOperand():
			ew.Printf(" %d", in.Operand)
		}
		ew.Print("\n")
	}
	return ew.Err
}
