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
	"io"
	"strings"

	"github.com/kohazen/vm-bytecode/internal/bvi"
	"github.com/kohazen/vm-bytecode/vm"
)

// Label is a symbol table entry.
type Label struct {
	Name    string
	Address vm.Cell
	Line    int
}

// SymbolTable maps label names to addresses. Names are case insensitive.
type SymbolTable struct {
	name   string
	max    int
	labels []*Label
	index  map[string]*Label
}

// NewSymbolTable returns an empty symbol table holding at most maxLabels
// labels. The name parameter is only used in error messages.
func NewSymbolTable(name string, maxLabels int) *SymbolTable {
	if maxLabels <= 0 {
		maxLabels = DefaultLimits().MaxLabels
	}
	return &SymbolTable{
		name:  name,
		max:   maxLabels,
		index: make(map[string]*Label),
	}
}

func labelKey(name string) string {
	return strings.ToUpper(name)
}

// Lookup returns the label with the given name, or nil.
func (st *SymbolTable) Lookup(name string) *Label {
	return st.index[labelKey(name)]
}

// Len returns the number of labels.
func (st *SymbolTable) Len() int {
	return len(st.labels)
}

// Labels returns all labels in definition order.
func (st *SymbolTable) Labels() []*Label {
	return st.labels
}

func (st *SymbolTable) define(name string, addr int, line int) error {
	if l := st.Lookup(name); l != nil {
		err := newError(st.name, line, ErrDuplicateLabel, "label '%s' already defined on line %d", name, l.Line)
		err.OrigLine = l.Line
		return err
	}
	if len(st.labels) >= st.max {
		return newError(st.name, line, ErrTooManyLabels, "too many labels (max %d)", st.max)
	}
	l := &Label{name, vm.Cell(addr), line}
	st.labels = append(st.labels, l)
	st.index[labelKey(name)] = l
	return nil
}

// Collect is the first assembler pass. It computes the address of every label
// defined in p: the sum of the sizes of all instructions preceding the label
// definition.
func (st *SymbolTable) Collect(p *Program) error {
	addr, n := 0, 0
	for _, site := range p.Labels {
		for ; n < site.Index && n < len(p.Instructions); n++ {
			addr += p.Instructions[n].Size()
		}
		if err := st.define(site.Name, addr, site.Line); err != nil {
			return err
		}
	}
	return nil
}

// Resolve is the second assembler pass. It replaces every pending label
// reference in p with the label's address.
func (st *SymbolTable) Resolve(p *Program) error {
	for i := range p.Instructions {
		in := &p.Instructions[i]
		if !in.Pending {
			continue
		}
		l := st.Lookup(in.Label)
		if l == nil {
			return newError(st.name, in.Line, ErrUndefinedLabel, "undefined label '%s'", in.Label)
		}
		in.Operand = l.Address
		in.Pending = false
	}
	return nil
}

// Dump writes a listing of the symbol table to w.
func (st *SymbolTable) Dump(w io.Writer) error {
	ew := bvi.NewErrWriter(w)
	for _, l := range st.labels {
		ew.Printf("%-20s = %d (0x%04X)  [line %d]\n", l.Name, l.Address, l.Address, l.Line)
	}
	return ew.Err
}
