//go:build !unicorn
// +build !unicorn

package recompiler

import (
	"fmt"

	"github.com/colorfulnotion/chronospatial/chrono/program"
	"github.com/colorfulnotion/chronospatial/chronoerrors"
)

const SandboxSupported = false

// Sandbox is only available in builds tagged unicorn.
type Sandbox struct{}

func NewSandbox(p *program.Program) (*Sandbox, error) {
	return nil, fmt.Errorf("built without the unicorn tag: %w", chronoerrors.ErrEEmulator)
}

func (s *Sandbox) Run(a, b, c uint64) (uint64, error) {
	return 0, chronoerrors.ErrEEmulator
}

func (s *Sandbox) TryExecute(a, b, c uint64) (uint64, error) { return s.Run(a, b, c) }

func (s *Sandbox) Execute(a, b, c uint64) uint64 { return 1 }

func (s *Sandbox) Code() []byte { return nil }

func (s *Sandbox) Layout() *Layout { return nil }

func (s *Sandbox) Close() error { return nil }
