package program

import "fmt"

type Opcode uint8

// The eight opcodes of the 3-bit computer.
const (
	ADV Opcode = 0 // A = A >> combo
	BXL Opcode = 1 // B = B ^ literal
	BST Opcode = 2 // B = combo & 7
	JNZ Opcode = 3 // if A != 0: jump to instruction #literal
	BXC Opcode = 4 // B = B ^ C
	OUT Opcode = 5 // output combo & 7
	BDV Opcode = 6 // B = A >> combo
	CDV Opcode = 7 // C = A >> combo

	NumOpcodes = 8
)

var opcodeNames = [NumOpcodes]string{"ADV", "BXL", "BST", "JNZ", "BXC", "OUT", "BDV", "CDV"}

func (op Opcode) String() string {
	if op < NumOpcodes {
		return opcodeNames[op]
	}
	return fmt.Sprintf("OP(%d)", uint8(op))
}

// Valid reports whether op is one of the eight defined opcodes.
func (op Opcode) Valid() bool {
	return op < NumOpcodes
}

// UsesCombo reports whether the operand of op is a combo operand.
func (op Opcode) UsesCombo() bool {
	switch op {
	case ADV, BST, OUT, BDV, CDV:
		return true
	}
	return false
}

// ComboKind tags how a combo operand resolves.
type ComboKind uint8

const (
	ComboLiteral  ComboKind = iota // 0-3: the value itself
	ComboRegister                  // 4-6: register A, B or C
	ComboReserved                  // 7: no meaning
)

// Combo is the resolved view of a combo operand.
type Combo struct {
	Kind ComboKind
	// Value is the literal for ComboLiteral and the register index
	// (chronotypes.RegA..RegC) for ComboRegister.
	Value uint8
}

// ResolveCombo maps a raw operand byte onto its combo meaning.
func ResolveCombo(operand uint8) Combo {
	switch {
	case operand < 4:
		return Combo{Kind: ComboLiteral, Value: operand}
	case operand < 7:
		return Combo{Kind: ComboRegister, Value: operand - 4}
	default:
		return Combo{Kind: ComboReserved, Value: operand}
	}
}

func (c Combo) String() string {
	switch c.Kind {
	case ComboLiteral:
		return fmt.Sprintf("%d", c.Value)
	case ComboRegister:
		return string("ABC"[c.Value])
	default:
		return "?"
	}
}

// Instruction is one decoded (opcode, operand) pair.
type Instruction struct {
	Index   int // position in the instruction list (the JNZ target space)
	Opcode  Opcode
	Operand uint8 // raw operand byte
	Combo   Combo // resolved once at decode time; only meaningful when Opcode.UsesCombo()
}

// Literal returns the operand interpreted as a 3-bit literal.
func (inst Instruction) Literal() uint8 {
	return inst.Operand & 0x7
}

func (inst Instruction) String() string {
	switch {
	case inst.Opcode == BXC:
		return inst.Opcode.String()
	case inst.Opcode.UsesCombo():
		return fmt.Sprintf("%s %s", inst.Opcode, inst.Combo)
	default:
		return fmt.Sprintf("%s %d", inst.Opcode, inst.Literal())
	}
}
