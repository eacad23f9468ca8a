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

import "encoding/binary"

// Push pushes the argument on top of the data stack.
func (i *Instance) Push(v Cell) error {
	if i.sp+1 >= len(i.data) {
		return ErrStackOverflow
	}
	i.sp++
	i.data[i.sp] = v
	return nil
}

// Pop pops the value on top of the data stack and returns it.
func (i *Instance) Pop() (Cell, error) {
	if i.sp < 0 {
		return 0, ErrStackUnderflow
	}
	i.sp--
	return i.data[i.sp+1], nil
}

// Rpush pushes the argument on top of the call stack.
func (i *Instance) Rpush(v Cell) error {
	if i.rsp+1 >= len(i.address) {
		return ErrCallStackOverflow
	}
	i.rsp++
	i.address[i.rsp] = v
	return nil
}

// Rpop pops the value on top of the call stack and returns it.
func (i *Instance) Rpop() (Cell, error) {
	if i.rsp < 0 {
		return 0, ErrCallStackUnderflow
	}
	i.rsp--
	return i.address[i.rsp+1], nil
}

// need checks that the data stack holds at least n values.
func (i *Instance) need(n int) ErrorCode {
	if i.sp+1 < n {
		return ErrStackUnderflow
	}
	return OK
}

func (i *Instance) target(addr Cell) ErrorCode {
	if addr < 0 || int(addr) >= len(i.code) {
		return ErrCodeBounds
	}
	return OK
}

func (i *Instance) cell(idx Cell) ErrorCode {
	if idx < 0 || int(idx) >= len(i.mem) {
		return ErrMemoryBounds
	}
	return OK
}

func (i *Instance) fault(code ErrorCode, pc int, op Opcode) {
	i.PC = pc
	i.err = &Error{Code: code, PC: pc, Op: op}
	i.state = Errored
	i.log.Debug().Err(i.err).Int64("steps", i.insCount).Msg("vm fault")
}

// Run starts execution of the VM and returns once the program halts or
// faults. A clean HALT returns nil.
//
// If an error occurs, the PC will point to the instruction that triggered
// the error and the stacks and memory are left as they were before that
// instruction. The returned error is a *Error, and errors.Is can be used to
// test its ErrorCode.
//
// Run resumes from the current PC. Use Reset to restart a program from the
// beginning.
func (i *Instance) Run() error {
	if i.code == nil {
		return ErrNoProgram
	}
	i.state = Running
	i.err = nil
	for i.state == Running {
		i.step()
	}
	if i.state == Halted {
		i.log.Debug().Int("pc", i.PC).Int64("steps", i.insCount).Int("depth", i.sp+1).Msg("vm halted")
	}
	return i.err
}

// Step executes a single instruction. It returns the fault, if any. After a
// successful step, the instance is either Running or Halted.
func (i *Instance) Step() error {
	if i.code == nil {
		return ErrNoProgram
	}
	i.state = Running
	i.err = nil
	i.step()
	return i.err
}

func (i *Instance) step() {
	pc := i.PC
	if i.stepLimit > 0 && i.insCount >= i.stepLimit {
		i.fault(ErrStepLimit, pc, 0)
		return
	}
	if pc < 0 || pc >= len(i.code) {
		// running off the end without a HALT lands here too
		i.fault(ErrCodeBounds, pc, 0)
		return
	}
	op := Opcode(i.code[pc])
	next := pc + 1
	var arg Cell
	if op.HasOperand() {
		if next+OperandSize > len(i.code) {
			i.fault(ErrCodeBounds, pc, op)
			return
		}
		arg = Cell(int32(binary.LittleEndian.Uint32(i.code[next:])))
		next += OperandSize
	}

	if e := i.log.Trace(); e.Enabled() {
		e.Int("pc", pc).Stringer("op", op)
		if op.HasOperand() {
			e.Int32("arg", int32(arg))
		}
		e.Int("depth", i.sp+1).Msg("step")
	}

	var code ErrorCode
	switch op {
	case OpPush:
		if i.sp+1 >= len(i.data) {
			code = ErrStackOverflow
			break
		}
		i.sp++
		i.data[i.sp] = arg
	case OpPop:
		if code = i.need(1); code == OK {
			i.sp--
		}
	case OpDup:
		if code = i.need(1); code != OK {
			break
		}
		if i.sp+1 >= len(i.data) {
			code = ErrStackOverflow
			break
		}
		i.data[i.sp+1] = i.data[i.sp]
		i.sp++
	case OpAdd:
		if code = i.need(2); code == OK {
			i.sp--
			i.data[i.sp] += i.data[i.sp+1]
		}
	case OpSub:
		if code = i.need(2); code == OK {
			i.sp--
			i.data[i.sp] -= i.data[i.sp+1]
		}
	case OpMul:
		if code = i.need(2); code == OK {
			i.sp--
			i.data[i.sp] *= i.data[i.sp+1]
		}
	case OpDiv:
		if code = i.need(2); code != OK {
			break
		}
		if i.data[i.sp] == 0 {
			code = ErrDivisionByZero
			break
		}
		i.sp--
		i.data[i.sp] /= i.data[i.sp+1]
	case OpCmp:
		if code = i.need(2); code == OK {
			i.sp--
			if i.data[i.sp] < i.data[i.sp+1] {
				i.data[i.sp] = 1
			} else {
				i.data[i.sp] = 0
			}
		}
	case OpJmp:
		if code = i.target(arg); code == OK {
			next = int(arg)
		}
	case OpJz, OpJnz:
		if code = i.need(1); code != OK {
			break
		}
		if (i.data[i.sp] == 0) == (op == OpJz) {
			if code = i.target(arg); code != OK {
				break
			}
			next = int(arg)
		}
		i.sp--
	case OpStore:
		if code = i.cell(arg); code != OK {
			break
		}
		if code = i.need(1); code == OK {
			i.mem[arg] = i.data[i.sp]
			i.sp--
		}
	case OpLoad:
		if code = i.cell(arg); code != OK {
			break
		}
		if i.sp+1 >= len(i.data) {
			code = ErrStackOverflow
			break
		}
		i.sp++
		i.data[i.sp] = i.mem[arg]
	case OpCall:
		if code = i.target(arg); code != OK {
			break
		}
		if i.rsp+1 >= len(i.address) {
			code = ErrCallStackOverflow
			break
		}
		i.rsp++
		i.address[i.rsp] = Cell(next)
		next = int(arg)
	case OpRet:
		if i.rsp < 0 {
			code = ErrCallStackUnderflow
			break
		}
		next = int(i.address[i.rsp])
		i.rsp--
	case OpHalt:
		i.state = Halted
	default:
		code = ErrInvalidOpcode
	}

	if code != OK {
		i.fault(code, pc, op)
		return
	}
	i.PC = next
	i.insCount++
}
