package recompiler

import (
	"fmt"
	"time"

	"github.com/colorfulnotion/chronospatial/chrono/program"
	"github.com/colorfulnotion/chronospatial/common"
	"github.com/colorfulnotion/chronospatial/log"
	"golang.org/x/exp/slices"
)

const (
	// DefaultCodeSize is the minimum code region handed to the generator.
	DefaultCodeSize = 1024

	prologueSize = 16 // three 64-bit MOVs plus MOV RAX, imm32
	epilogueSize = 1
)

// CodeSize returns the buffer capacity that fits the worst-case lowering of
// an n-instruction program.
func CodeSize(n int) int {
	size := prologueSize + n*maxInstructionSize + epilogueSize
	if size < DefaultCodeSize {
		return DefaultCodeSize
	}
	return size
}

// Layout describes where each part of a program landed in the generated code.
type Layout struct {
	Prologue int   // offset of the first prologue byte
	Offsets  []int // start offset of instruction i
	Halt     int   // offset of the epilogue
	Size     int   // total bytes generated
}

// InstructionRange returns the [start, end) byte range of instruction i.
func (l *Layout) InstructionRange(i int) (int, int) {
	end := l.Halt
	if i+1 < len(l.Offsets) {
		end = l.Offsets[i+1]
	}
	return l.Offsets[i], end
}

// Generate lowers p into buf: prologue, one block per instruction in program
// order, then the epilogue. Jumps are resolved before it returns.
func Generate(p *program.Program, buf []byte) (*Layout, error) {
	g := &x86Gen{
		cb:    NewCodeBuffer(buf),
		jumps: newJumpResolver(p.Len()),
	}
	g.prologue()
	for _, inst := range p.Instructions {
		g.jumps.mark(inst.Index, g.cb.Offset())
		if err := opcodeToX86[inst.Opcode](g, inst); err != nil {
			return nil, err
		}
	}
	g.jumps.markHalt(g.cb.Offset())
	g.epilogue()
	if err := g.cb.Err(); err != nil {
		return nil, err
	}
	if err := g.jumps.resolve(g.cb); err != nil {
		return nil, err
	}
	return &Layout{
		Prologue: 0,
		Offsets:  g.jumps.offsets,
		Halt:     g.jumps.halt,
		Size:     g.cb.Offset(),
	}, nil
}

// Assemble generates code for p into an ordinary heap buffer. The result is
// never executed; it feeds disassembly and the emulator.
func Assemble(p *program.Program) ([]byte, *Layout, error) {
	buf := make([]byte, CodeSize(p.Len()))
	layout, err := Generate(p, buf)
	if err != nil {
		return nil, nil, err
	}
	return buf[:layout.Size], layout, nil
}

// Compiled is a program lowered to native code and sealed executable.
type Compiled struct {
	mem    *ExecMemory
	fn     Func
	code   []byte
	layout *Layout
}

// Compile generates native code for p and returns a callable handle. The
// handle owns its memory until Close.
func Compile(p *program.Program) (*Compiled, error) {
	start := time.Now()
	mem, err := NewExecMemory(CodeSize(p.Len()))
	if err != nil {
		return nil, err
	}
	buf, err := mem.Bytes()
	if err != nil {
		mem.Release()
		return nil, err
	}
	layout, err := Generate(p, buf)
	if err != nil {
		mem.Release()
		return nil, fmt.Errorf("compile %d instructions: %w", p.Len(), err)
	}
	code := slices.Clone(buf[:layout.Size])
	if err := mem.Seal(); err != nil {
		mem.Release()
		return nil, err
	}
	fn, err := mem.Entry()
	if err != nil {
		mem.Release()
		return nil, err
	}
	log.Debug(log.JitMonitoring, "compiled program", "instructions", p.Len(), "bytes", layout.Size, "mapped", mem.Size(), "elapsed_us", common.Elapsed(start))
	return &Compiled{mem: mem, fn: fn, code: code, layout: layout}, nil
}

// Execute runs the compiled code. It is safe for concurrent use: the code
// keeps no state outside registers.
func (c *Compiled) Execute(a, b, cReg uint64) uint64 {
	return c.fn(a, b, cReg)
}

// Func returns the raw entry point.
func (c *Compiled) Func() Func { return c.fn }

// Code returns a copy of the generated bytes.
func (c *Compiled) Code() []byte { return slices.Clone(c.code) }

func (c *Compiled) Layout() *Layout { return c.layout }

// Close unmaps the code. Calls through Func or Execute after Close crash.
func (c *Compiled) Close() error {
	c.fn = nil
	return c.mem.Release()
}
