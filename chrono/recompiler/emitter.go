package recompiler

import (
	"fmt"

	"github.com/colorfulnotion/chronospatial/chrono/program"
	"github.com/colorfulnotion/chronospatial/chronoerrors"
	"golang.org/x/exp/slices"
)

// maxInstructionSize bounds the bytes any single opcode lowers to.
// The widest is ADV/BDV/CDV with a register operand.
const maxInstructionSize = 18

type x86Gen struct {
	cb    *CodeBuffer
	jumps *jumpResolver
}

type emitFunc func(g *x86Gen, inst program.Instruction) error

var opcodeToX86 = map[program.Opcode]emitFunc{
	program.ADV: generateDivision(regA),
	program.BXL: generateBxl,
	program.BST: generateBst,
	program.JNZ: generateJnz,
	program.BXC: generateBxc,
	program.OUT: generateOut,
	program.BDV: generateDivision(regB),
	program.CDV: generateDivision(regC),
}

func unsupported(inst program.Instruction) error {
	return fmt.Errorf("%s at instruction %d: %w", inst, inst.Index, chronoerrors.ErrGUnsupportedOperand)
}

// prologue moves Go's register arguments (RAX, RBX, RCX) into the working set
// and seeds the packed output with the sentinel digit.
func (g *x86Gen) prologue() {
	g.cb.movRegReg(regA, abiArgs[0])
	g.cb.movRegReg(regB, abiArgs[1])
	g.cb.movRegReg(regC, abiArgs[2])
	g.cb.movRegImm32(regOut, 1)
}

func (g *x86Gen) epilogue() { g.cb.ret() }

// generateDivision lowers dst = A >> combo. Register counts are taken at full
// width: x86 masks CL to 6 bits, so counts above 63 are fixed up to zero.
func generateDivision(dst X86Reg) emitFunc {
	return func(g *x86Gen, inst program.Instruction) error {
		cb := g.cb
		switch inst.Combo.Kind {
		case program.ComboLiteral:
			if dst != regA {
				cb.movRegReg(dst, regA)
			}
			cb.shiftImm(X86_REG_SHR, dst, inst.Combo.Value)
		case program.ComboRegister:
			src := vmRegs[inst.Combo.Value]
			if src == regA {
				// A >> A is always zero: A < 2^A for every A.
				cb.xorRegReg(dst, dst)
				return nil
			}
			cb.movRegReg(regCount, src)
			if dst != regA {
				cb.movRegReg(dst, regA)
			}
			cb.shiftCL(X86_REG_SHR, dst)
			cb.group1Imm8(X86_REG_CMP, regCount, 63)
			cb.jccRel8(X86_CC_BE, x86XorRegRegLen)
			cb.xorRegReg(dst, dst)
		default:
			return unsupported(inst)
		}
		return nil
	}
}

func generateBxl(g *x86Gen, inst program.Instruction) error {
	g.cb.group1Imm8(X86_REG_XOR, regB, inst.Literal())
	return nil
}

func generateBst(g *x86Gen, inst program.Instruction) error {
	switch inst.Combo.Kind {
	case program.ComboLiteral:
		g.cb.movRegImm32(regB, uint32(inst.Combo.Value))
	case program.ComboRegister:
		if src := vmRegs[inst.Combo.Value]; src != regB {
			g.cb.movRegReg(regB, src)
		}
	default:
		return unsupported(inst)
	}
	g.cb.group1Imm8(X86_REG_AND, regB, 7)
	return nil
}

func generateJnz(g *x86Gen, inst program.Instruction) error {
	g.cb.testRegReg(regA, regA)
	at := g.cb.jccRel8(X86_CC_NE, 0)
	g.jumps.addPatch(at, inst.Index, int(inst.Literal()))
	return nil
}

func generateBxc(g *x86Gen, inst program.Instruction) error {
	g.cb.xorRegReg(regB, regC)
	return nil
}

func generateOut(g *x86Gen, inst program.Instruction) error {
	switch inst.Combo.Kind {
	case program.ComboLiteral:
		g.cb.shiftImm(X86_REG_SHL, regOut, 3)
		g.cb.group1Imm8(X86_REG_OR, regOut, inst.Combo.Value)
	case program.ComboRegister:
		g.cb.shiftImm(X86_REG_SHL, regOut, 3)
		g.cb.movRegReg(regTmp, vmRegs[inst.Combo.Value])
		g.cb.group1Imm8(X86_REG_AND, regTmp, 7)
		g.cb.orRegReg(regOut, regTmp)
	default:
		return unsupported(inst)
	}
	return nil
}

// GetX86Bytes returns the machine code a single instruction lowers to. JNZ
// displacements are left as zero.
func GetX86Bytes(op program.Opcode, operand uint8) ([]byte, error) {
	inst, err := program.NewInstruction(0, op, operand)
	if err != nil {
		return nil, err
	}
	g := &x86Gen{
		cb:    NewCodeBuffer(make([]byte, maxInstructionSize)),
		jumps: newJumpResolver(1),
	}
	if err := opcodeToX86[op](g, inst); err != nil {
		return nil, err
	}
	if err := g.cb.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(g.cb.Bytes()), nil
}
