package program

import (
	"strings"
	"testing"

	"github.com/colorfulnotion/chronospatial/chronoerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	p, err := Decode([]byte{0, 1, 5, 4, 3, 0})
	require.NoError(t, err)
	require.Equal(t, 3, p.Len())

	assert.Equal(t, Instruction{Index: 0, Opcode: ADV, Operand: 1, Combo: Combo{ComboLiteral, 1}}, p.Instructions[0])
	assert.Equal(t, Instruction{Index: 1, Opcode: OUT, Operand: 4, Combo: Combo{ComboRegister, 0}}, p.Instructions[1])
	assert.Equal(t, JNZ, p.Instructions[2].Opcode)
	assert.Equal(t, "00: ADV 1\n01: OUT A\n02: JNZ 0\n", p.String())
}

func TestDecodeErrors(t *testing.T) {
	testCases := []struct {
		name string
		code []byte
		want error
	}{
		{"odd length", []byte{0, 1, 5}, chronoerrors.ErrPOddLength},
		{"unknown opcode", []byte{5, 0, 8, 1}, chronoerrors.ErrPUnknownOpcode},
		{"operand out of range", []byte{1, 9}, chronoerrors.ErrPInvalidOperand},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Decode(tc.code)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestDecodeCopiesCode(t *testing.T) {
	code := []byte{5, 0}
	p := MustDecode(code)
	code[1] = 3
	assert.Equal(t, []byte{5, 0}, p.Code)
}

func TestResolveCombo(t *testing.T) {
	for v := uint8(0); v < 4; v++ {
		assert.Equal(t, Combo{ComboLiteral, v}, ResolveCombo(v))
	}
	assert.Equal(t, Combo{ComboRegister, 0}, ResolveCombo(4))
	assert.Equal(t, Combo{ComboRegister, 1}, ResolveCombo(5))
	assert.Equal(t, Combo{ComboRegister, 2}, ResolveCombo(6))
	assert.Equal(t, ComboReserved, ResolveCombo(7).Kind)
}

func TestInstructionString(t *testing.T) {
	p := MustDecode([]byte{1, 7, 4, 3, 2, 6, 6, 5, 7, 0})
	want := []string{"BXL 7", "BXC", "BST C", "BDV B", "CDV 0"}
	for i, inst := range p.Instructions {
		assert.Equal(t, want[i], inst.String())
	}
	assert.Equal(t, "OP(9)", Opcode(9).String())
}

func TestUsesCombo(t *testing.T) {
	combo := map[Opcode]bool{ADV: true, BST: true, OUT: true, BDV: true, CDV: true}
	for op := Opcode(0); op < NumOpcodes; op++ {
		assert.Equal(t, combo[op], op.UsesCombo(), op.String())
	}
}

func TestParseInput(t *testing.T) {
	in, err := ParseInput(strings.NewReader(`Register A: 729
Register B: 0
Register C: 0

Program: 0,1,5,4,3,0
`))
	require.NoError(t, err)
	assert.Equal(t, uint64(729), in.Registers.A())
	assert.Equal(t, []byte{0, 1, 5, 4, 3, 0}, in.Code)
}

func TestParseInputOptionalRegisters(t *testing.T) {
	in, err := ParseInput(strings.NewReader("Register A: 117440\nRegister C: 9\nProgram: 0,3,5,4,3,0\n"))
	require.NoError(t, err)
	assert.Equal(t, uint64(117440), in.Registers.A())
	assert.Equal(t, uint64(0), in.Registers.B())
	assert.Equal(t, uint64(9), in.Registers.C())
}

func TestParseInputErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  error
	}{
		{"no program", "Register A: 1\n", chronoerrors.ErrPMalformedInput},
		{"no register A", "Program: 5,0\n", chronoerrors.ErrPMalformedInput},
		{"garbage line", "Register A: 1\nHello\nProgram: 5,0\n", chronoerrors.ErrPMalformedInput},
		{"bad value", "Register A: 1\nProgram: 5,x\n", chronoerrors.ErrPMalformedInput},
		{"empty program", "Register A: 1\nProgram:\n", chronoerrors.ErrPEmptyProgram},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseInput(strings.NewReader(tc.input))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
