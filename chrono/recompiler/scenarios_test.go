package recompiler

import (
	"math"

	"github.com/colorfulnotion/chronospatial/chrono/program"
	"golang.org/x/exp/rand"
)

type scenario struct {
	name    string
	code    []byte
	a, b, c uint64
	want    []byte
}

var scenarios = []scenario{
	{"sample", []byte{0, 1, 5, 4, 3, 0}, 729, 0, 0, []byte{4, 6, 3, 5, 6, 3, 5, 2, 1, 0}},
	{"sample 2024", []byte{0, 1, 5, 4, 3, 0}, 2024, 0, 0, []byte{4, 2, 5, 6, 7, 7, 7, 7, 3, 1, 0}},
	{"quine", []byte{0, 3, 5, 4, 3, 0}, 117440, 0, 0, []byte{0, 3, 5, 4, 3, 0}},
	{"out literals", []byte{5, 0, 5, 1, 5, 4}, 10, 0, 0, []byte{0, 1, 2}},
	{"bxl", []byte{1, 7, 5, 5}, 0, 29, 0, []byte{2}},
	{"bxl small B", []byte{1, 7, 5, 5}, 0, 3, 0, []byte{4}},
	{"bxc", []byte{4, 0, 5, 5}, 0, 2024, 43690, []byte{2}},
	{"bst C", []byte{2, 6, 5, 5}, 0, 0, 9, []byte{1}},
	{"bst literal", []byte{2, 3, 5, 5}, 0, 99, 0, []byte{3}},
	{"forward jump taken", []byte{3, 2, 5, 5, 5, 6}, 1, 3, 4, []byte{4}},
	{"forward jump not taken", []byte{3, 2, 5, 5, 5, 6}, 0, 3, 4, []byte{3, 4}},
	{"jump past end", []byte{3, 7, 5, 4}, 1, 0, 0, nil},
	{"empty", nil, 5, 6, 7, nil},
	{"adv by B 63", []byte{0, 5, 5, 4}, math.MaxUint64, 63, 0, []byte{1}},
	{"adv by B 64", []byte{0, 5, 5, 4}, math.MaxUint64, 64, 0, []byte{0}},
	{"adv by C huge", []byte{0, 6, 5, 4}, math.MaxUint64, 0, 1 << 40, []byte{0}},
	{"bdv by C 64", []byte{6, 6, 5, 5}, math.MaxUint64, 7, 64, []byte{0}},
	{"bdv by B 65", []byte{6, 5, 5, 5}, math.MaxUint64, 65, 0, []byte{0}},
	{"cdv by B", []byte{7, 5, 5, 6}, 1 << 10, 7, 0, []byte{0}},
	{"cdv by A", []byte{7, 4, 5, 6}, 5, 0, 9, []byte{0}},
	{"cdv by literal", []byte{7, 3, 5, 6}, 24, 0, 0, []byte{3}},
	{"adv by A", []byte{0, 4, 5, 4}, 3, 0, 0, []byte{0}},
	{"adv by A 64", []byte{0, 4, 5, 4}, 64, 0, 0, []byte{0}},
	{"adv by A 100", []byte{0, 4, 5, 4}, 100, 0, 0, []byte{0}},
	{"backward jump to 1", []byte{5, 4, 0, 1, 3, 1}, 5, 0, 0, []byte{5}},
	{"loop from 1", []byte{2, 4, 0, 1, 5, 4, 3, 1}, 13, 0, 0, []byte{6, 3, 1, 0}},
	{"registers mod 8", []byte{5, 4, 5, 5, 5, 6}, 14, 15, 16, []byte{6, 7, 0}},
}

// randomHaltingProgram builds a program that always halts. A single ADV by a
// non-zero literal and a closing JNZ back to or before it bound the loop
// count. Other JNZs only appear after the ADV and only jump forward.
func randomHaltingProgram(r *rand.Rand) []byte {
	n := 1 + r.Intn(8)
	advAt := r.Intn(n)
	var code []byte
	for i := 0; i < n; i++ {
		if i == advAt {
			code = append(code, byte(program.ADV), byte(1+r.Intn(3)))
			continue
		}
		ops := []program.Opcode{program.BXL, program.BST, program.BXC, program.OUT, program.BDV, program.CDV}
		if i > advAt {
			ops = append(ops, program.JNZ)
		}
		op := ops[r.Intn(len(ops))]
		operand := byte(r.Intn(7))
		if op == program.JNZ {
			operand = byte(i + 1 + r.Intn(3))
			if operand > 7 {
				operand = 7
			}
		}
		code = append(code, byte(op), operand)
	}
	return append(code, byte(program.JNZ), byte(r.Intn(advAt+1)))
}

func randomRegister(r *rand.Rand) uint64 {
	switch r.Intn(3) {
	case 0:
		return uint64(r.Intn(70))
	case 1:
		return uint64(r.Intn(1 << 16))
	default:
		return r.Uint64()
	}
}
