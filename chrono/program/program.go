package program

import (
	"fmt"

	"github.com/colorfulnotion/chronospatial/chronoerrors"
	"golang.org/x/exp/slices"
)

// Program is an immutable, decoded instruction stream.
type Program struct {
	Code         []byte
	Instructions []Instruction
}

// Decode splits code into (opcode, operand) pairs. Any malformed byte aborts
// decoding; a partially decoded program is never returned.
func Decode(code []byte) (*Program, error) {
	if len(code)%2 != 0 {
		return nil, fmt.Errorf("decode %d bytes: %w", len(code), chronoerrors.ErrPOddLength)
	}
	p := &Program{
		Code:         slices.Clone(code),
		Instructions: make([]Instruction, 0, len(code)/2),
	}
	for i := 0; i < len(code); i += 2 {
		inst, err := NewInstruction(i/2, Opcode(code[i]), code[i+1])
		if err != nil {
			return nil, fmt.Errorf("offset %d: %w", i, err)
		}
		p.Instructions = append(p.Instructions, inst)
	}
	return p, nil
}

// NewInstruction validates a single (opcode, operand) pair.
func NewInstruction(index int, op Opcode, operand uint8) (Instruction, error) {
	if !op.Valid() {
		return Instruction{}, fmt.Errorf("opcode byte %d: %w", uint8(op), chronoerrors.ErrPUnknownOpcode)
	}
	if operand > 7 {
		return Instruction{}, fmt.Errorf("operand %d: %w", operand, chronoerrors.ErrPInvalidOperand)
	}
	return Instruction{
		Index:   index,
		Opcode:  op,
		Operand: operand,
		Combo:   ResolveCombo(operand),
	}, nil
}

// MustDecode is Decode for static programs in tests and tools.
func MustDecode(code []byte) *Program {
	p, err := Decode(code)
	if err != nil {
		panic(err)
	}
	return p
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.Instructions)
}

func (p *Program) String() string {
	s := ""
	for _, inst := range p.Instructions {
		s += fmt.Sprintf("%02d: %s\n", inst.Index, inst)
	}
	return s
}
