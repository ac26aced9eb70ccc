package chrono

import (
	"fmt"

	"github.com/colorfulnotion/chronospatial/chrono/chronotypes"
	"github.com/colorfulnotion/chronospatial/chrono/interpreter"
	"github.com/colorfulnotion/chronospatial/chrono/program"
	"github.com/colorfulnotion/chronospatial/chrono/recompiler"
	"github.com/colorfulnotion/chronospatial/chronoerrors"
	"github.com/colorfulnotion/chronospatial/log"
)

const (
	BackendCompiler    = "compiler"    // native x86-64 code
	BackendInterpreter = "interpreter" // Go interpreter
	BackendSandbox     = "sandbox"     // generated code under unicorn
)

type Program = program.Program

// Backends lists the backends usable in this build.
func Backends() []string {
	var out []string
	if recompiler.NativeSupported {
		out = append(out, BackendCompiler)
	}
	out = append(out, BackendInterpreter)
	if recompiler.SandboxSupported {
		out = append(out, BackendSandbox)
	}
	return out
}

// DefaultBackend is the compiler where native code can run, else the interpreter.
func DefaultBackend() string {
	if recompiler.NativeSupported {
		return BackendCompiler
	}
	return BackendInterpreter
}

// Machine is a program prepared once for a backend and run many times.
type Machine struct {
	prog    *Program
	backend string
	exec    chronotypes.Executor
	release func() error
}

// NewMachine decodes code and prepares it for backend.
func NewMachine(code []byte, backend string) (*Machine, error) {
	p, err := program.Decode(code)
	if err != nil {
		return nil, err
	}
	return NewMachineFromProgram(p, backend)
}

func NewMachineFromProgram(p *Program, backend string) (*Machine, error) {
	m := &Machine{prog: p, backend: backend, release: func() error { return nil }}
	switch backend {
	case BackendCompiler:
		c, err := recompiler.Compile(p)
		if err != nil {
			return nil, err
		}
		m.exec, m.release = c, c.Close
	case BackendInterpreter:
		vm, err := interpreter.New(p)
		if err != nil {
			return nil, err
		}
		m.exec = vm
	case BackendSandbox:
		s, err := recompiler.NewSandbox(p)
		if err != nil {
			return nil, err
		}
		m.exec, m.release = s, s.Close
	default:
		return nil, fmt.Errorf("backend %q: %w", backend, chronoerrors.ErrEUnknownBackend)
	}
	log.Debug(log.JitMonitoring, "machine ready", "backend", backend, "instructions", p.Len())
	return m, nil
}

// Execute runs once from (a, b, c) and returns the packed output.
func (m *Machine) Execute(a, b, c uint64) uint64 {
	return m.exec.Execute(a, b, c)
}

// TryExecute is Execute with backend failures returned. Backends that cannot
// fail always return a nil error.
func (m *Machine) TryExecute(a, b, c uint64) (uint64, error) {
	if ce, ok := m.exec.(chronotypes.CheckedExecutor); ok {
		return ce.TryExecute(a, b, c)
	}
	return m.exec.Execute(a, b, c), nil
}

// Run executes from regs and returns the output digits.
func (m *Machine) Run(regs chronotypes.Registers) []byte {
	return chronotypes.Decode3Bit(m.exec.Execute(regs.A(), regs.B(), regs.C()))
}

// RunLimited is Run with failures surfaced: the interpreter stops after
// maxSteps instructions and the sandbox reports emulator errors. Native code
// has no step bound.
func (m *Machine) RunLimited(regs chronotypes.Registers, maxSteps uint64) ([]byte, error) {
	switch exec := m.exec.(type) {
	case *interpreter.Interpreter:
		vm := *exec
		vm.MaxSteps = maxSteps
		s, err := vm.Run(regs)
		if err != nil {
			return nil, err
		}
		return s.Digits(), nil
	case chronotypes.CheckedExecutor:
		out, err := exec.TryExecute(regs.A(), regs.B(), regs.C())
		if err != nil {
			return nil, err
		}
		return chronotypes.Decode3Bit(out), nil
	}
	return m.Run(regs), nil
}

func (m *Machine) Program() *Program { return m.prog }

func (m *Machine) Backend() string { return m.backend }

// Executor exposes the backend for callers such as FindQuine.
func (m *Machine) Executor() chronotypes.Executor { return m.exec }

// Close releases backend resources. The machine must not be used afterwards.
func (m *Machine) Close() error {
	return m.release()
}

// Run compiles code with the default backend, runs it from A=a, B=C=0 and
// returns the output as comma-joined digits.
func Run(code []byte, a uint64) (string, error) {
	m, err := NewMachine(code, DefaultBackend())
	if err != nil {
		return "", err
	}
	defer m.Close()
	return chronotypes.FormatDigits(m.Run(chronotypes.Registers{a, 0, 0})), nil
}
