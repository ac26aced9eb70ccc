package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/colorfulnotion/chronospatial/chrono"
	"github.com/colorfulnotion/chronospatial/chrono/chronotypes"
	"github.com/colorfulnotion/chronospatial/chrono/recompiler"
	"github.com/dop251/goja"
	"github.com/spf13/cobra"
)

// console evaluates REPL lines. A bare number runs the program with that A;
// anything else is JavaScript with run, quine, disasm and program bound.
type console struct {
	m        *chrono.Machine
	vm       *goja.Runtime
	maxSteps uint64
	opts     chrono.QuineOptions
}

func newConsole(m *chrono.Machine, maxSteps uint64, opts chrono.QuineOptions) (*console, error) {
	c := &console{m: m, vm: goja.New(), maxSteps: maxSteps, opts: opts}

	bindings := map[string]interface{}{
		// run(a[, b[, c]]) returns the output digits.
		"run": func(args ...goja.Value) (string, error) {
			var regs chronotypes.Registers
			if len(args) > len(regs) {
				return "", fmt.Errorf("run takes at most %d registers", len(regs))
			}
			for i, v := range args {
				r, err := toUint64(v)
				if err != nil {
					return "", err
				}
				regs[i] = r
			}
			return c.run(regs)
		},
		"quine": func() (string, error) {
			res, err := chrono.FindQuine(c.m, c.m.Program().Code, c.opts)
			if err != nil {
				return "", err
			}
			return strconv.FormatUint(res.Seed, 10), nil
		},
		"disasm": func() (string, error) {
			code, layout, err := recompiler.Assemble(c.m.Program())
			if err != nil {
				return "", err
			}
			return recompiler.LayoutTree(c.m.Program(), code, layout).String(), nil
		},
		"program": func() string {
			return c.m.Program().String()
		},
	}
	for name, fn := range bindings {
		if err := c.vm.Set(name, fn); err != nil {
			return nil, fmt.Errorf("bind %s: %w", name, err)
		}
	}
	return c, nil
}

func toUint64(v goja.Value) (uint64, error) {
	s := v.String()
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return n, nil
	}
	f := v.ToFloat()
	if f < 0 || f != float64(uint64(f)) {
		return 0, fmt.Errorf("register value %s is not an unsigned integer", s)
	}
	return uint64(f), nil
}

func (c *console) run(regs chronotypes.Registers) (string, error) {
	out, err := c.m.RunLimited(regs, c.maxSteps)
	if err != nil {
		return "", err
	}
	return chronotypes.FormatDigits(out), nil
}

// eval handles one line of input.
func (c *console) eval(line string) (string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil
	}
	if a, err := strconv.ParseUint(line, 10, 64); err == nil {
		return c.run(chronotypes.Registers{a, 0, 0})
	}
	v, err := c.vm.RunString(line)
	if err != nil {
		return "", err
	}
	if goja.IsUndefined(v) || goja.IsNull(v) {
		return "", nil
	}
	return fmt.Sprint(v.Export()), nil
}

func newReplCmd(opts *options) *cobra.Command {
	var history string
	cmd := &cobra.Command{
		Use:   "repl <file>",
		Short: "Interactive console: enter A values or JavaScript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			m, err := opts.newMachine(in)
			if err != nil {
				return err
			}
			defer m.Close()

			c, err := newConsole(m, opts.cfg.Execution.MaxSteps, chrono.QuineOptions{MaxIterations: opts.cfg.Quine.MaxIterations})
			if err != nil {
				return err
			}
			rl, err := readline.NewEx(&readline.Config{
				Prompt:      "A> ",
				HistoryFile: history,
				Stdin:       io.NopCloser(cmd.InOrStdin()),
				Stdout:      cmd.OutOrStdout(),
			})
			if err != nil {
				return fmt.Errorf("failed to start readline: %w", err)
			}
			defer rl.Close()
			return c.loop(rl, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&history, "history", "/tmp/chrono_console_history.txt", "readline history file")
	return cmd
}

func (c *console) loop(rl *readline.Instance, w io.Writer) error {
	fmt.Fprintf(w, "backend %s, %d instructions. Type a value for A, run(a,b,c), quine(), disasm() or exit.\n", c.m.Backend(), c.m.Program().Len())
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			return nil
		}
		if strings.TrimSpace(line) == "exit" {
			return nil
		}
		out, err := c.eval(line)
		if err != nil {
			fmt.Fprintln(w, "error:", err)
			continue
		}
		if out != "" {
			fmt.Fprintln(w, out)
		}
	}
}
