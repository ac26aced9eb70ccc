//go:build unicorn
// +build unicorn

package recompiler

import (
	"fmt"

	"github.com/colorfulnotion/chronospatial/chrono/program"
	"github.com/colorfulnotion/chronospatial/chronoerrors"
	"github.com/colorfulnotion/chronospatial/log"
	uc "github.com/unicorn-engine/unicorn/bindings/go/unicorn"
)

const (
	pageSize = uint64(0x1000)
	codeBase = uint64(0x10000)

	// DefaultSandboxInstructions caps emulated instructions per run.
	DefaultSandboxInstructions = uint64(1) << 26
)

const SandboxSupported = true

// Sandbox runs generated code under the unicorn x86-64 emulator instead of
// natively. It needs no executable memory and works on any host.
type Sandbox struct {
	mu              uc.Unicorn
	code            []byte
	layout          *Layout
	haltAddr        uint64
	MaxInstructions uint64
}

// NewSandbox assembles p and maps the code into a fresh emulator.
func NewSandbox(p *program.Program) (*Sandbox, error) {
	code, layout, err := Assemble(p)
	if err != nil {
		return nil, err
	}
	mu, err := uc.NewUnicorn(uc.ARCH_X86, uc.MODE_64)
	if err != nil {
		return nil, fmt.Errorf("create emulator: %v: %w", err, chronoerrors.ErrEEmulator)
	}
	codeLenAligned := (uint64(len(code)) + pageSize - 1) & ^(pageSize - 1)
	if err := mu.MemMap(codeBase, codeLenAligned); err != nil {
		mu.Close()
		return nil, fmt.Errorf("MemMap failed: %v: %w", err, chronoerrors.ErrEEmulator)
	}
	if err := mu.MemProtect(codeBase, codeLenAligned, uc.PROT_READ|uc.PROT_EXEC); err != nil {
		mu.Close()
		return nil, fmt.Errorf("MemProtect failed: %v: %w", err, chronoerrors.ErrEEmulator)
	}
	if err := mu.MemWrite(codeBase, code); err != nil {
		mu.Close()
		return nil, fmt.Errorf("write code: %v: %w", err, chronoerrors.ErrEEmulator)
	}
	return &Sandbox{
		mu:              mu,
		code:            code,
		layout:          layout,
		haltAddr:        codeBase + uint64(layout.Halt),
		MaxInstructions: DefaultSandboxInstructions,
	}, nil
}

// Run emulates one call. Emulation stops on the epilogue, so the packed
// output is read from RAX before the RET.
func (s *Sandbox) Run(a, b, c uint64) (uint64, error) {
	for reg, v := range map[int]uint64{uc.X86_REG_RAX: a, uc.X86_REG_RBX: b, uc.X86_REG_RCX: c} {
		if err := s.mu.RegWrite(reg, v); err != nil {
			return 0, fmt.Errorf("set register %d: %v: %w", reg, err, chronoerrors.ErrEEmulator)
		}
	}
	opts := &uc.UcOptions{Count: s.MaxInstructions}
	if err := s.mu.StartWithOptions(codeBase, s.haltAddr, opts); err != nil {
		return 0, fmt.Errorf("emulation failed: %v: %w", err, chronoerrors.ErrEEmulator)
	}
	rip, err := s.mu.RegRead(uc.X86_REG_RIP)
	if err != nil {
		return 0, fmt.Errorf("read RIP: %v: %w", err, chronoerrors.ErrEEmulator)
	}
	if rip != s.haltAddr {
		return 0, fmt.Errorf("stopped at 0x%x after %d instructions: %w", rip-codeBase, s.MaxInstructions, chronoerrors.ErrEStepLimit)
	}
	out, err := s.mu.RegRead(uc.X86_REG_RAX)
	if err != nil {
		return 0, fmt.Errorf("read RAX: %v: %w", err, chronoerrors.ErrEEmulator)
	}
	return out, nil
}

// TryExecute is Run under the CheckedExecutor name.
func (s *Sandbox) TryExecute(a, b, c uint64) (uint64, error) {
	return s.Run(a, b, c)
}

// Execute is Run for callers that only want the packed value. Failures are
// logged and yield an empty output; use TryExecute to see them.
func (s *Sandbox) Execute(a, b, c uint64) uint64 {
	out, err := s.Run(a, b, c)
	if err != nil {
		log.Error(log.JitMonitoring, "sandbox run", "a", a, "err", err)
		return 1
	}
	return out
}

func (s *Sandbox) Code() []byte { return s.code }

func (s *Sandbox) Layout() *Layout { return s.layout }

func (s *Sandbox) Close() error {
	return s.mu.Close()
}
