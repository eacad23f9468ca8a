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

package vm

import (
	"io"

	"github.com/kohazen/vm-bytecode/internal/bvi"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Cell is the raw type stored in a stack slot or memory location.
type Cell int32

// Default sizes, in cells.
const (
	DefaultStackSize     = 1024
	DefaultCallStackSize = 256
	DefaultMemorySize    = 256
)

// State is the execution state of an Instance.
type State int

// Instance states.
const (
	Empty   State = iota // no program loaded
	Loaded               // program loaded, not started
	Running              // started, neither halted nor faulted
	Halted               // stopped on HALT
	Errored              // stopped on a fault
)

var stateNames = [...]string{"empty", "loaded", "running", "halted", "errored"}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "invalid"
}

// Instance represents a VM instance. An Instance must not be used
// concurrently from multiple goroutines; separate instances share nothing.
type Instance struct {
	PC        int // Program Counter
	code      []byte
	data      []Cell
	sp        int
	address   []Cell
	rsp       int
	mem       []Cell
	state     State
	err       error
	insCount  int64
	stepLimit int64
	log       zerolog.Logger
}

// Option interface
type Option func(*Instance) error

// StackSize sets the data stack size. It will not erase the stack, but fails
// if the current stack depth does not fit. The default is 1024 cells.
func StackSize(size int) Option {
	return func(i *Instance) error {
		if size <= 0 || size < i.sp+1 {
			return errors.Errorf("invalid stack size %d (depth %d)", size, i.sp+1)
		}
		t := make([]Cell, size)
		copy(t, i.data[:i.sp+1])
		i.data = t
		return nil
	}
}

// CallStackSize sets the call stack size. It will not erase the stack, but
// fails if the current stack depth does not fit. The default is 256 cells.
func CallStackSize(size int) Option {
	return func(i *Instance) error {
		if size <= 0 || size < i.rsp+1 {
			return errors.Errorf("invalid call stack size %d (depth %d)", size, i.rsp+1)
		}
		t := make([]Cell, size)
		copy(t, i.address[:i.rsp+1])
		i.address = t
		return nil
	}
}

// MemorySize sets the size of linear memory. Memory is cleared. The default
// is 256 cells.
func MemorySize(size int) Option {
	return func(i *Instance) error {
		if size <= 0 {
			return errors.Errorf("invalid memory size %d", size)
		}
		i.mem = make([]Cell, size)
		return nil
	}
}

// StepLimit sets the maximum number of instructions that may execute between
// two resets (see Reset and Load). Zero, the default, means no limit.
func StepLimit(n int64) Option {
	return func(i *Instance) error {
		if n < 0 {
			return errors.Errorf("invalid step limit %d", n)
		}
		i.stepLimit = n
		return nil
	}
}

// Logger sets the logger used to report program loads, halts and faults at
// debug level, and each executed instruction at trace level.
func Logger(l zerolog.Logger) Option {
	return func(i *Instance) error { i.log = l; return nil }
}

// SetOptions sets the provided options.
func (i *Instance) SetOptions(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return err
		}
	}
	return nil
}

// New creates a new Virtual Machine instance with no program loaded.
//
// Options will be set by calling SetOptions.
func New(opts ...Option) (*Instance, error) {
	i := &Instance{
		sp:      -1,
		rsp:     -1,
		data:    make([]Cell, DefaultStackSize),
		address: make([]Cell, DefaultCallStackSize),
		mem:     make([]Cell, DefaultMemorySize),
		log:     zerolog.Nop(),
	}
	if err := i.SetOptions(opts...); err != nil {
		return nil, err
	}
	return i, nil
}

// Load loads the given bytecode into the VM. The Instance takes ownership of
// code: the caller must not modify it afterwards. Any previously loaded
// program is released, the stacks are emptied and memory is zeroed.
func (i *Instance) Load(code []byte) error {
	if len(code) == 0 {
		return ErrEmptyCode
	}
	i.code = code
	i.Reset()
	i.log.Debug().Int("size", len(code)).Msg("program loaded")
	return nil
}

// LoadFile loads a bytecode file into the VM. On failure, the currently
// loaded program, if any, is left untouched.
func (i *Instance) LoadFile(fileName string) error {
	code, err := Load(fileName)
	if err != nil {
		return err
	}
	return i.Load(code)
}

// Release releases the loaded program.
func (i *Instance) Release() {
	i.code = nil
	i.Reset()
}

// Reset sets the PC to 0, empties both stacks and zeroes memory. The loaded
// program is kept.
func (i *Instance) Reset() {
	i.PC = 0
	i.sp = -1
	i.rsp = -1
	for n := range i.mem {
		i.mem[n] = 0
	}
	i.err = nil
	i.insCount = 0
	if i.code == nil {
		i.state = Empty
	} else {
		i.state = Loaded
	}
}

// Code returns the loaded bytecode.
func (i *Instance) Code() []byte {
	return i.code
}

// State returns the current execution state.
func (i *Instance) State() State {
	return i.state
}

// Err returns the last fault, if any.
func (i *Instance) Err() error {
	return i.err
}

// Data returns the data stack. Note that value changes will be reflected in the
// instance's stack, but re-slicing will not affect it. To add/remove values on
// the data stack, use the Push and Pop functions.
func (i *Instance) Data() []Cell {
	return i.data[:i.sp+1]
}

// Address returns the call stack (return addresses).
func (i *Instance) Address() []Cell {
	return i.address[:i.rsp+1]
}

// Memory returns the VM's linear memory.
func (i *Instance) Memory() []Cell {
	return i.mem
}

// Depth returns the data stack depth.
func (i *Instance) Depth() int {
	return i.sp + 1
}

// Tos returns the value on top of the data stack. ok is false if the stack is
// empty.
func (i *Instance) Tos() (v Cell, ok bool) {
	if i.sp < 0 {
		return 0, false
	}
	return i.data[i.sp], true
}

// InstructionCount returns the number of instructions executed since the
// last load or reset.
func (i *Instance) InstructionCount() int64 {
	return i.insCount
}

// Dump dumps the virtual machine state, stacks and non-zero memory cells to
// the specified io.Writer.
func (i *Instance) Dump(w io.Writer) error {
	ew := bvi.NewErrWriter(w)
	ew.Printf("PC: %d/%d\nState: %v\n", i.PC, len(i.code), i.state)
	if i.err != nil {
		ew.Printf("Error: %v\n", i.err)
	}
	ew.Print("Stack: [")
	bvi.Ints(ew, i.Data())
	ew.Print("]\nCalls: [")
	bvi.Ints(ew, i.Address())
	ew.Print("]\nMemory:")
	var shown int
	for n, v := range i.mem {
		if v != 0 {
			ew.Printf(" [%d]=%d", n, v)
			shown++
		}
	}
	if shown == 0 {
		ew.Print(" all zeros")
	}
	return ew.Print("\n")
}
