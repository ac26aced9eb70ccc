package recompiler

import (
	"fmt"

	"github.com/colorfulnotion/chronospatial/chronoerrors"
)

// CodeBuffer is a fixed-capacity byte sink for generated machine code. It
// never grows: the backing slice is usually the writable view of an
// ExecMemory region. The first overflow sticks and every later emit is a
// no-op, so generators check Err once at the end.
type CodeBuffer struct {
	buf []byte
	pos int
	err error
}

func NewCodeBuffer(buf []byte) *CodeBuffer {
	return &CodeBuffer{buf: buf}
}

func (cb *CodeBuffer) emit(b ...byte) {
	if cb.err != nil {
		return
	}
	if cb.pos+len(b) > len(cb.buf) {
		cb.err = fmt.Errorf("emit %d bytes at offset %d, capacity %d: %w", len(b), cb.pos, len(cb.buf), chronoerrors.ErrGCodeBufferFull)
		return
	}
	copy(cb.buf[cb.pos:], b)
	cb.pos += len(b)
}

// patchByte overwrites a previously emitted byte.
func (cb *CodeBuffer) patchByte(pos int, v byte) {
	if pos < 0 || pos >= cb.pos {
		panic(fmt.Sprintf("recompiler: patch offset %d outside emitted range [0,%d)", pos, cb.pos))
	}
	cb.buf[pos] = v
}

// Offset is the position the next byte will be written at.
func (cb *CodeBuffer) Offset() int { return cb.pos }

func (cb *CodeBuffer) Cap() int { return len(cb.buf) }

// Bytes returns the emitted code. It aliases the backing slice.
func (cb *CodeBuffer) Bytes() []byte { return cb.buf[:cb.pos] }

func (cb *CodeBuffer) Err() error { return cb.err }
