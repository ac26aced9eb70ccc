package recompiler

import (
	"fmt"
	"strings"

	"github.com/colorfulnotion/chronospatial/chrono/program"
	"github.com/xlab/treeprint"
	"golang.org/x/arch/x86/x86asm"
)

// DecodedInst is one decoded machine instruction.
type DecodedInst struct {
	Offset int
	Bytes  []byte
	Inst   x86asm.Inst
	Valid  bool
}

func (d DecodedInst) String() string {
	hex := make([]string, len(d.Bytes))
	for i, b := range d.Bytes {
		hex[i] = fmt.Sprintf("%02x", b)
	}
	text := fmt.Sprintf("db 0x%02x", d.Bytes[0])
	if d.Valid {
		text = x86asm.IntelSyntax(d.Inst, uint64(d.Offset), nil)
	}
	return fmt.Sprintf("0x%04x: %-32s %s", d.Offset, strings.Join(hex, " "), text)
}

// Decode walks code from the start. Undecodable bytes come back one at a time
// with Valid unset.
func Decode(code []byte) []DecodedInst {
	var out []DecodedInst
	for offset := 0; offset < len(code); {
		inst, err := x86asm.Decode(code[offset:], 64)
		if err != nil || inst.Len == 0 {
			out = append(out, DecodedInst{Offset: offset, Bytes: code[offset : offset+1]})
			offset++
			continue
		}
		out = append(out, DecodedInst{Offset: offset, Bytes: code[offset : offset+inst.Len], Inst: inst, Valid: true})
		offset += inst.Len
	}
	return out
}

// Disassemble renders code as one line per instruction.
func Disassemble(code []byte) string {
	var sb strings.Builder
	for _, d := range Decode(code) {
		sb.WriteString(d.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// LayoutTree groups the disassembly of code under the bytecode instruction
// that produced it.
func LayoutTree(p *program.Program, code []byte, layout *Layout) treeprint.Tree {
	tree := treeprint.NewWithRoot(fmt.Sprintf("program (%d instructions, %d bytes)", p.Len(), layout.Size))
	addRange := func(branch treeprint.Tree, start, end int) {
		for _, d := range Decode(code[start:end]) {
			d.Offset += start
			branch.AddNode(d.String())
		}
	}

	first := layout.Halt
	if len(layout.Offsets) > 0 {
		first = layout.Offsets[0]
	}
	addRange(tree.AddBranch("prologue"), layout.Prologue, first)
	for _, inst := range p.Instructions {
		start, end := layout.InstructionRange(inst.Index)
		addRange(tree.AddBranch(fmt.Sprintf("%02d %s", inst.Index, inst)), start, end)
	}
	addRange(tree.AddBranch("epilogue"), layout.Halt, layout.Size)
	return tree
}
