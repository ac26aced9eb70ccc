package recompiler

import (
	"fmt"
	"sync/atomic"

	"github.com/colorfulnotion/chronospatial/chronoerrors"
)

// Func is the native entry point of a compiled program: it takes the initial
// A, B and C and returns the packed output.
type Func func(a, b, c uint64) uint64

type memPhase uint8

const (
	phaseWritable memPhase = iota
	phaseExecutable
	phaseReleased
)

func (p memPhase) String() string {
	switch p {
	case phaseWritable:
		return "writable"
	case phaseExecutable:
		return "executable"
	case phaseReleased:
		return "released"
	default:
		return "unknown"
	}
}

// liveRegions counts mappings made by NewExecMemory and not yet released.
var liveRegions atomic.Int64

// LiveRegions reports how many ExecMemory mappings are currently held.
func LiveRegions() int64 { return liveRegions.Load() }

// ExecMemory owns one anonymous mapping. It is writable until Seal, and
// executable (never writable) after it. The mapping is never writable and
// executable at the same time.
type ExecMemory struct {
	mem   []byte
	phase memPhase
	entry uintptr // address of mem[0]; Func values point here
	fn    Func
}

// NewExecMemory maps at least size bytes of read/write memory.
func NewExecMemory(size int) (*ExecMemory, error) {
	mem, err := mmapWritable(size)
	if err != nil {
		return nil, err
	}
	liveRegions.Add(1)
	return &ExecMemory{mem: mem, phase: phaseWritable}, nil
}

// Bytes returns the writable view. It fails once the region is sealed.
func (m *ExecMemory) Bytes() ([]byte, error) {
	switch m.phase {
	case phaseWritable:
		return m.mem, nil
	case phaseExecutable:
		return nil, chronoerrors.ErrMSealed
	default:
		return nil, chronoerrors.ErrMReleased
	}
}

// Size is the mapped length, a whole number of pages.
func (m *ExecMemory) Size() int { return len(m.mem) }

// Seal drops write permission and adds execute permission.
func (m *ExecMemory) Seal() error {
	switch m.phase {
	case phaseExecutable:
		return chronoerrors.ErrMSealed
	case phaseReleased:
		return chronoerrors.ErrMReleased
	}
	if err := protectExecutable(m.mem); err != nil {
		return err
	}
	m.phase = phaseExecutable
	m.entry = entryAddress(m.mem)
	m.fn = makeFunc(&m.entry)
	return nil
}

// Entry returns the callable view of a sealed region. The Func must not be
// called after Release.
func (m *ExecMemory) Entry() (Func, error) {
	switch m.phase {
	case phaseWritable:
		return nil, chronoerrors.ErrMNotSealed
	case phaseReleased:
		return nil, chronoerrors.ErrMReleased
	}
	return m.fn, nil
}

// Release unmaps the region. Calling it twice is an error.
func (m *ExecMemory) Release() error {
	if m.phase == phaseReleased {
		return chronoerrors.ErrMReleased
	}
	if err := unmap(m.mem); err != nil {
		return fmt.Errorf("release %d bytes in %s phase: %w", len(m.mem), m.phase, err)
	}
	m.mem, m.fn, m.entry = nil, nil, 0
	m.phase = phaseReleased
	liveRegions.Add(-1)
	return nil
}
