package main

import (
	"fmt"

	"github.com/colorfulnotion/chronospatial/chrono"
	"github.com/colorfulnotion/chronospatial/chrono/chronotypes"
	"github.com/colorfulnotion/chronospatial/chrono/program"
	"github.com/colorfulnotion/chronospatial/chrono/recompiler"
	"github.com/colorfulnotion/chronospatial/common"
	log "github.com/colorfulnotion/chronospatial/log"
	"github.com/colorfulnotion/chronospatial/storage"
	"github.com/spf13/cobra"
)

func newRunCmd(opts *options) *cobra.Command {
	var a uint64
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Run a program and print its output digits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("a") {
				in.Registers[chronotypes.RegA] = a
			}
			m, err := opts.newMachine(in)
			if err != nil {
				return err
			}
			defer m.Close()

			out, err := m.RunLimited(in.Registers, opts.cfg.Execution.MaxSteps)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), chronotypes.FormatDigits(out))
			return nil
		},
	}
	cmd.Flags().Uint64Var(&a, "a", 0, "initial value of register A (overrides the file)")
	return cmd
}

func newQuineCmd(opts *options) *cobra.Command {
	var (
		maxIterations uint64
		cacheDir      string
	)
	cmd := &cobra.Command{
		Use:   "quine <file>",
		Short: "Search for the A that makes a program output itself (0 = none found)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("max-iterations") {
				opts.cfg.Quine.MaxIterations = maxIterations
			}
			if cmd.Flags().Changed("cache") {
				opts.cfg.Quine.CacheDir = cacheDir
			}

			m, err := opts.newMachine(in)
			if err != nil {
				return err
			}
			defer m.Close()

			qopts := chrono.QuineOptions{MaxIterations: opts.cfg.Quine.MaxIterations}
			if dir := opts.cfg.Quine.CacheDir; dir != "" {
				cache, err := storage.NewQuineCache(dir)
				if err != nil {
					return err
				}
				defer cache.Close()
				qopts.Cache = cache
			}

			res, err := chrono.FindQuineContext(cmd.Context(), m, in.Code, qopts)
			if err != nil {
				return err
			}
			log.Info(log.CliMonitoring, "quine", "backend", m.Backend(), "found", res.Found, "iterations", res.Iterations, "cached", res.Cached, "elapsed", res.Elapsed)
			fmt.Fprintln(cmd.OutOrStdout(), res.Seed)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&maxIterations, "max-iterations", 0, "stop after this many trials (0 = unlimited)")
	cmd.Flags().StringVar(&cacheDir, "cache", "", "LevelDB directory for remembered results")
	return cmd
}

func newDisasmCmd(opts *options) *cobra.Command {
	var flat bool
	cmd := &cobra.Command{
		Use:   "disasm <file>",
		Short: "Show the generated x86-64 code per instruction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			p, err := program.Decode(in.Code)
			if err != nil {
				return err
			}
			code, layout, err := recompiler.Assemble(p)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if flat {
				fmt.Fprint(w, recompiler.Disassemble(code))
				return nil
			}
			fmt.Fprint(w, p.String())
			fmt.Fprintln(w)
			fmt.Fprint(w, recompiler.LayoutTree(p, code, layout).String())
			return nil
		},
	}
	cmd.Flags().BoolVar(&flat, "flat", false, "plain listing without the per-instruction tree")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			commit := Commit
			if commit == "none" {
				commit = common.GetCommitHash()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "chrono %s (commit %s, built %s)\n", Version, commit, BuildTime)
			fmt.Fprintf(cmd.OutOrStdout(), "backends: %v\n", chrono.Backends())
		},
	}
}
