// Package interpreter is a direct interpreter of the 3-bit computer. It is the
// reference semantics the recompiler is checked against.
package interpreter

import (
	"fmt"

	"github.com/colorfulnotion/chronospatial/chrono/chronotypes"
	"github.com/colorfulnotion/chronospatial/chrono/program"
	"github.com/colorfulnotion/chronospatial/chronoerrors"
)

// DefaultMaxSteps bounds Run; Execute is unbounded like compiled code.
const DefaultMaxSteps = 1 << 24

type Interpreter struct {
	prog     *program.Program
	MaxSteps uint64
}

// New checks that every combo operand is defined and returns an interpreter for p.
func New(p *program.Program) (*Interpreter, error) {
	for _, inst := range p.Instructions {
		if inst.Opcode.UsesCombo() && inst.Combo.Kind == program.ComboReserved {
			return nil, fmt.Errorf("instruction %d %s operand %d: %w", inst.Index, inst.Opcode, inst.Operand, chronoerrors.ErrGUnsupportedOperand)
		}
	}
	return &Interpreter{prog: p, MaxSteps: DefaultMaxSteps}, nil
}

// Execute runs to completion and returns the packed output.
func (vm *Interpreter) Execute(a, b, c uint64) uint64 {
	s := vm.newState(chronotypes.Registers{a, b, c})
	for s.MachineState == RUNNING {
		vm.step(s)
	}
	return s.Output
}

// Run executes at most MaxSteps instructions (0 means unbounded).
func (vm *Interpreter) Run(regs chronotypes.Registers) (*State, error) {
	s := vm.newState(regs)
	for s.MachineState == RUNNING {
		if vm.MaxSteps > 0 && s.Steps >= vm.MaxSteps {
			s.MachineState = LIMIT
			return s, fmt.Errorf("after %d steps at pc %d: %w", s.Steps, s.PC, chronoerrors.ErrEStepLimit)
		}
		vm.step(s)
	}
	return s, nil
}

func (vm *Interpreter) newState(regs chronotypes.Registers) *State {
	s := &State{Registers: regs, Output: chronotypes.Sentinel, MachineState: RUNNING}
	if len(vm.prog.Instructions) == 0 {
		s.MachineState = HALT
	}
	return s
}

func (vm *Interpreter) step(s *State) {
	inst := vm.prog.Instructions[s.PC]
	r := &s.Registers
	next := s.PC + 1

	switch inst.Opcode {
	case program.ADV:
		r[chronotypes.RegA] = shiftRight(r[chronotypes.RegA], combo(r, inst.Combo))
	case program.BDV:
		r[chronotypes.RegB] = shiftRight(r[chronotypes.RegA], combo(r, inst.Combo))
	case program.CDV:
		r[chronotypes.RegC] = shiftRight(r[chronotypes.RegA], combo(r, inst.Combo))
	case program.BXL:
		r[chronotypes.RegB] ^= uint64(inst.Literal())
	case program.BST:
		r[chronotypes.RegB] = combo(r, inst.Combo) & chronotypes.DigitMask
	case program.JNZ:
		if r[chronotypes.RegA] != 0 {
			next = int(inst.Literal())
		}
	case program.BXC:
		r[chronotypes.RegB] ^= r[chronotypes.RegC]
	case program.OUT:
		s.Output = s.Output<<chronotypes.DigitBits | combo(r, inst.Combo)&chronotypes.DigitMask
	}

	s.Steps++
	s.PC = next
	if s.PC >= len(vm.prog.Instructions) {
		s.MachineState = HALT
	}
}

func combo(r *chronotypes.Registers, c program.Combo) uint64 {
	if c.Kind == program.ComboRegister {
		return r[c.Value]
	}
	return uint64(c.Value)
}

// shiftRight is x / 2^n; any quotient with n >= 64 is zero.
func shiftRight(x, n uint64) uint64 {
	if n >= 64 {
		return 0
	}
	return x >> n
}
