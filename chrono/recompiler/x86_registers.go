package recompiler

import "github.com/colorfulnotion/chronospatial/chrono/chronotypes"

// X86Reg represents an x86-64 register with encoding information
type X86Reg struct {
	Name    string
	RegBits byte // 3-bit code for ModRM/SIB
	REXBit  byte // 1 if register index >= 8
}

var (
	RAX = X86Reg{"rax", 0, 0} // return value; first argument under Go's register ABI
	RCX = X86Reg{"rcx", 1, 0} // variable shift count (CL); third argument
	RDX = X86Reg{"rdx", 2, 0}
	RBX = X86Reg{"rbx", 3, 0} // second argument
	RSI = X86Reg{"rsi", 6, 0}
	RDI = X86Reg{"rdi", 7, 0}
	R8  = X86Reg{"r8", 0, 1}
)

// Working set once the prologue has run.
var (
	regA     = RDI
	regB     = RSI
	regC     = RDX
	regOut   = RAX // packed output, returned as is
	regCount = RCX // SHR r/m64, CL takes its count here
	regTmp   = R8  // OUT scratch
)

// vmRegs maps chronotypes.RegA..RegC onto the working set.
var vmRegs = [chronotypes.NumRegisters]X86Reg{regA, regB, regC}

// abiArgs are the registers Go's amd64 register ABI uses for the first three
// integer arguments of func(a, b, c uint64) uint64.
var abiArgs = [chronotypes.NumRegisters]X86Reg{RAX, RBX, RCX}
