package recompiler

import (
	"fmt"

	"github.com/colorfulnotion/chronospatial/chronoerrors"
)

type jumpPatch struct {
	at     int // offset of the rel8 byte
	source int // instruction index of the JNZ
	target int // instruction index it jumps to
}

// jumpResolver records where each bytecode instruction starts and back-patches
// JNZ displacements once every start offset is known.
type jumpResolver struct {
	offsets []int
	halt    int
	patches []jumpPatch
}

func newJumpResolver(n int) *jumpResolver {
	return &jumpResolver{offsets: make([]int, n), halt: -1}
}

func (j *jumpResolver) mark(index, offset int) { j.offsets[index] = offset }

func (j *jumpResolver) markHalt(offset int) { j.halt = offset }

func (j *jumpResolver) addPatch(at, source, target int) {
	j.patches = append(j.patches, jumpPatch{at: at, source: source, target: target})
}

// targetOffset returns the code offset for an instruction index. Indices past
// the end of the program land on the epilogue.
func (j *jumpResolver) targetOffset(index int) int {
	if index >= len(j.offsets) {
		return j.halt
	}
	return j.offsets[index]
}

func (j *jumpResolver) resolve(cb *CodeBuffer) error {
	for _, p := range j.patches {
		disp := j.targetOffset(p.target) - (p.at + 1)
		if disp < -128 || disp > 127 {
			return fmt.Errorf("JNZ %d at instruction %d needs displacement %d: %w", p.target, p.source, disp, chronoerrors.ErrGJumpOutOfRange)
		}
		cb.patchByte(p.at, byte(int8(disp)))
	}
	return nil
}
