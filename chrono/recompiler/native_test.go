//go:build linux && amd64

package recompiler

import (
	"sync"
	"testing"

	"github.com/colorfulnotion/chronospatial/chrono/chronotypes"
	"github.com/colorfulnotion/chronospatial/chrono/interpreter"
	"github.com/colorfulnotion/chronospatial/chrono/program"
	"github.com/colorfulnotion/chronospatial/chronoerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func compile(t *testing.T, code []byte) *Compiled {
	t.Helper()
	c, err := Compile(program.MustDecode(code))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCompiledScenarios(t *testing.T) {
	for _, tc := range scenarios {
		t.Run(tc.name, func(t *testing.T) {
			c := compile(t, tc.code)
			got := c.Execute(tc.a, tc.b, tc.c)
			assert.Equal(t, chronotypes.Encode3Bit(tc.want), got)
		})
	}
}

func TestCompiledMatchesInterpreter(t *testing.T) {
	r := rand.New(rand.NewSource(17))
	for i := 0; i < 300; i++ {
		code := randomHaltingProgram(r)
		p := program.MustDecode(code)
		vm, err := interpreter.New(p)
		require.NoError(t, err)
		c := compile(t, code)

		for j := 0; j < 8; j++ {
			a, b, cr := randomRegister(r), randomRegister(r), randomRegister(r)
			require.Equal(t, vm.Execute(a, b, cr), c.Execute(a, b, cr),
				"program %v with A=%d B=%d C=%d\n%s", code, a, b, cr, Disassemble(c.Code()))
		}
	}
}

func TestCompiledRepeatedCalls(t *testing.T) {
	c := compile(t, []byte{0, 3, 5, 4, 3, 0})
	want := chronotypes.Encode3Bit([]byte{0, 3, 5, 4, 3, 0})
	for i := 0; i < 1000; i++ {
		require.Equal(t, want, c.Execute(117440, 0, 0))
	}
}

func TestCompiledConcurrentCalls(t *testing.T) {
	c := compile(t, []byte{0, 1, 5, 4, 3, 0})
	vm, err := interpreter.New(program.MustDecode([]byte{0, 1, 5, 4, 3, 0}))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan uint64, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()
			for a := seed; a < seed+2000; a++ {
				if c.Execute(a, 0, 0) != vm.Execute(a, 0, 0) {
					errs <- a
					return
				}
			}
		}(uint64(g) * 100000)
	}
	wg.Wait()
	close(errs)
	for a := range errs {
		t.Errorf("mismatch for A=%d", a)
	}
}

func TestCompiledCodeMatchesAssemble(t *testing.T) {
	p := program.MustDecode([]byte{2, 4, 1, 1, 7, 5, 1, 5, 4, 0, 0, 3, 5, 5, 3, 0})
	code, layout, err := Assemble(p)
	require.NoError(t, err)

	c, err := Compile(p)
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, code, c.Code())
	assert.Equal(t, layout, c.Layout())
}

func TestCompileErrorsReleaseMemory(t *testing.T) {
	var far []byte
	for i := 0; i < 10; i++ {
		far = append(far, 5, 4)
	}
	far = append(far, 3, 0)

	before := LiveRegions()
	for i := 0; i < 100; i++ {
		_, err := Compile(program.MustDecode([]byte{0, 7}))
		assert.ErrorIs(t, err, chronoerrors.ErrGUnsupportedOperand)
		_, err = Compile(program.MustDecode(far))
		assert.ErrorIs(t, err, chronoerrors.ErrGJumpOutOfRange)
	}
	assert.Equal(t, before, LiveRegions())

	c, err := Compile(program.MustDecode([]byte{5, 4}))
	require.NoError(t, err)
	assert.Equal(t, before+1, LiveRegions())
	require.NoError(t, c.Close())
	assert.Equal(t, before, LiveRegions())
}

func TestExecMemoryPhases(t *testing.T) {
	m, err := NewExecMemory(100)
	require.NoError(t, err)
	assert.Zero(t, m.Size()%4096)

	_, err = m.Entry()
	assert.ErrorIs(t, err, chronoerrors.ErrMNotSealed)

	buf, err := m.Bytes()
	require.NoError(t, err)
	g := &x86Gen{cb: NewCodeBuffer(buf), jumps: newJumpResolver(0)}
	g.prologue()
	g.cb.movRegReg(regOut, regC) // return C
	g.epilogue()
	require.NoError(t, g.cb.Err())

	require.NoError(t, m.Seal())
	_, err = m.Bytes()
	assert.ErrorIs(t, err, chronoerrors.ErrMSealed)
	assert.ErrorIs(t, m.Seal(), chronoerrors.ErrMSealed)

	fn, err := m.Entry()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), fn(1, 2, 42))

	require.NoError(t, m.Release())
	assert.ErrorIs(t, m.Release(), chronoerrors.ErrMReleased)
	_, err = m.Bytes()
	assert.ErrorIs(t, err, chronoerrors.ErrMReleased)
	_, err = m.Entry()
	assert.ErrorIs(t, err, chronoerrors.ErrMReleased)
	assert.ErrorIs(t, m.Seal(), chronoerrors.ErrMReleased)
}
