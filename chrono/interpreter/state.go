package interpreter

import "github.com/colorfulnotion/chronospatial/chrono/chronotypes"

const (
	HALT    = 0 // instruction pointer ran past the last instruction
	RUNNING = 1
	LIMIT   = 2 // step limit reached before halting
)

// State is the machine state after (or during) a run.
type State struct {
	Registers    chronotypes.Registers
	Output       uint64 // packed output, see chronotypes.Encode3Bit
	PC           int    // instruction index
	Steps        uint64
	MachineState uint8
}

// Digits returns the decoded output digits.
func (s *State) Digits() []byte {
	return chronotypes.Decode3Bit(s.Output)
}
