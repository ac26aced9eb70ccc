// Package chronotypes consolidates shared types, interfaces, and constants for the 3-bit computer.
package chronotypes

import (
	"strconv"
	"strings"
)

// ============================================================================
// Register File
// ============================================================================

const (
	RegA = 0
	RegB = 1
	RegC = 2

	NumRegisters = 3
)

var RegisterNames = [NumRegisters]string{"A", "B", "C"}

// Registers is the three-register machine state handed to one invocation.
type Registers [NumRegisters]uint64

func (r Registers) A() uint64 { return r[RegA] }
func (r Registers) B() uint64 { return r[RegB] }
func (r Registers) C() uint64 { return r[RegC] }

// ============================================================================
// Executor Interface
// ============================================================================

// Executor runs a loaded program from the given register state and returns
// the packed output value (see Encode3Bit). Execute has no way to report a
// failed run; backends that can fail also implement CheckedExecutor.
type Executor interface {
	Execute(a, b, c uint64) uint64
}

// CheckedExecutor is an Executor whose runs can fail, for example an
// emulator that hits its instruction limit.
type CheckedExecutor interface {
	Executor
	TryExecute(a, b, c uint64) (uint64, error)
}

// ============================================================================
// Output Encoding
// ============================================================================

const (
	DigitBits = 3
	DigitMask = 0x7

	// Sentinel is the leading 1 bit of every packed output value.
	Sentinel uint64 = 1

	// MaxDigits is the number of digits a packed value holds besides the sentinel.
	MaxDigits = (64 - 1) / DigitBits
)

// Encode3Bit packs digits most-significant first behind the sentinel bit.
func Encode3Bit(digits []byte) uint64 {
	value := Sentinel
	for _, d := range digits {
		value <<= DigitBits
		value |= uint64(d & DigitMask)
	}
	return value
}

// Decode3Bit unpacks a value produced by Encode3Bit or by a compiled program.
func Decode3Bit(value uint64) []byte {
	var rev []byte
	for value > Sentinel {
		rev = append(rev, byte(value&DigitMask))
		value >>= DigitBits
	}
	out := make([]byte, len(rev))
	for i, d := range rev {
		out[len(rev)-1-i] = d
	}
	return out
}

// FormatDigits joins digits with commas, e.g. "4,6,3".
func FormatDigits(digits []byte) string {
	parts := make([]string, len(digits))
	for i, d := range digits {
		parts[i] = strconv.Itoa(int(d))
	}
	return strings.Join(parts, ",")
}
