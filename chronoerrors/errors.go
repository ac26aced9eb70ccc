package chronoerrors

import (
	"errors"
	"strings"
)

// Program (P) Errors
var (
	ErrPOddLength      = errors.New("P1|OddLength: Instruction stream has an odd number of bytes.")
	ErrPUnknownOpcode  = errors.New("P2|UnknownOpcode: Byte does not name one of the 8 opcodes.")
	ErrPInvalidOperand = errors.New("P3|InvalidOperand: Operand byte is outside the 3-bit range.")
	ErrPMalformedInput = errors.New("P4|MalformedInput: Input text does not describe registers and a program.")
	ErrPEmptyProgram   = errors.New("P5|EmptyProgram: Program has no instructions.")
)

// Code generation (G) Errors
var (
	ErrGUnsupportedOperand = errors.New("G1|UnsupportedOperand: Opcode has no lowering for this operand.")
	ErrGJumpOutOfRange     = errors.New("G2|JumpOutOfRange: Jump displacement does not fit a signed byte.")
	ErrGCodeBufferFull     = errors.New("G3|CodeBufferFull: Generated code exceeds the code buffer capacity.")
)

// Executable memory (M) Errors
var (
	ErrMMmap      = errors.New("M1|Mmap: Unable to allocate writable memory.")
	ErrMMprotect  = errors.New("M2|Mprotect: Unable to make memory executable.")
	ErrMSealed    = errors.New("M3|Sealed: Code memory is executable and can no longer be written.")
	ErrMNotSealed = errors.New("M4|NotSealed: Code memory has not been made executable yet.")
	ErrMReleased  = errors.New("M5|Released: Code memory has already been released.")
)

// Execution (E) Errors
var (
	ErrEUnsupportedPlatform = errors.New("E1|UnsupportedPlatform: Native execution requires linux/amd64.")
	ErrEUnknownBackend      = errors.New("E2|UnknownBackend: Backend name is not recognised.")
	ErrEStepLimit           = errors.New("E3|StepLimit: Program did not halt within the step limit.")
	ErrEEmulator            = errors.New("E4|Emulator: Emulated execution failed.")
)

// Quine search (Q) Errors
var (
	ErrQProgramTooLong = errors.New("Q1|ProgramTooLong: Program encoding does not fit in 64 bits.")
)

var known = []error{
	ErrPOddLength, ErrPUnknownOpcode, ErrPInvalidOperand, ErrPMalformedInput, ErrPEmptyProgram,
	ErrGUnsupportedOperand, ErrGJumpOutOfRange, ErrGCodeBufferFull,
	ErrMMmap, ErrMMprotect, ErrMSealed, ErrMNotSealed, ErrMReleased,
	ErrEUnsupportedPlatform, ErrEUnknownBackend, ErrEStepLimit, ErrEEmulator,
	ErrQProgramTooLong,
}

// sentinel returns the known error wrapped by err, or err itself.
func sentinel(err error) error {
	for _, k := range known {
		if errors.Is(err, k) {
			return k
		}
	}
	return err
}

// GetErrorName extracts the error name from the error message.
func GetErrorName(err error) string {
	if err == nil {
		return "No Error"
	}
	errStr := sentinel(err).Error()
	if !strings.Contains(errStr, "|") || !strings.Contains(errStr, ":") {
		return errStr
	}
	parts := strings.SplitN(errStr, "|", 2)
	nameParts := strings.SplitN(parts[1], ":", 2)
	return strings.TrimSpace(nameParts[0])
}

func GetErrorNames(errs []error) []string {
	errStrs := make([]string, len(errs))
	for i, err := range errs {
		errStrs[i] = GetErrorName(err)
	}
	return errStrs
}

// GetErrorCode extracts the error code from the error message.
func GetErrorCode(err error) string {
	if err == nil {
		return ""
	}
	errStr := sentinel(err).Error()
	if !strings.Contains(errStr, "|") {
		return ""
	}
	parts := strings.SplitN(errStr, "|", 2)
	return strings.TrimSpace(parts[0])
}

// GetErrorCodeWithName returns the error code and name in the format "Code_ErrorName".
func GetErrorCodeWithName(err error) string {
	code := GetErrorCode(err)
	name := GetErrorName(err)
	if code == "" || name == "" {
		return ""
	}
	return code + "_" + name
}

// GetErrorDesc extracts the error description from the error message.
func GetErrorDesc(err error) string {
	if err == nil {
		return ""
	}
	parts := strings.SplitN(sentinel(err).Error(), ":", 2)
	if len(parts) < 2 {
		return "DESC NOT SET"
	}
	return strings.TrimSpace(parts[1])
}
