// chrono - compiles 3-bit computer programs to x86-64 and runs them.
// It can also search for a register value that makes a program print itself.
package main

import (
	"fmt"
	"os"

	"github.com/colorfulnotion/chronospatial/chrono"
	"github.com/colorfulnotion/chronospatial/chrono/program"
	"github.com/colorfulnotion/chronospatial/chrono/recompiler"
	"github.com/colorfulnotion/chronospatial/chronoerrors"
	"github.com/colorfulnotion/chronospatial/config"
	log "github.com/colorfulnotion/chronospatial/log"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

type options struct {
	configPath string
	logLevel   string
	debug      string
	backend    string

	cfg *config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if code := chronoerrors.GetErrorCodeWithName(err); code != "" {
			fmt.Fprintf(os.Stderr, "Error [%s]: %v\n", code, err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	var rootCmd = &cobra.Command{
		Use:           "chrono",
		Short:         "3-bit computer JIT",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "TOML config file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "trace, debug, info, warn, error or crit")
	rootCmd.PersistentFlags().StringVar(&opts.debug, "debug", "", "comma separated log modules, or all")
	rootCmd.PersistentFlags().StringVar(&opts.backend, "backend", chrono.BackendCompiler, "compiler, interpreter or sandbox")

	rootCmd.AddCommand(
		newRunCmd(opts),
		newQuineCmd(opts),
		newDisasmCmd(opts),
		newReplCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

// load reads the config file, applies flag overrides and sets up logging.
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed("debug") {
		cfg.Log.Modules = o.debug
	}
	if err := log.InitLoggerTo(cmd.ErrOrStderr(), cfg.Log.Level); err != nil {
		return err
	}
	log.EnableModules(cfg.Log.Modules)

	if flags.Changed("backend") {
		cfg.Execution.Backend = o.backend
	} else if cfg.Execution.Backend == chrono.BackendCompiler && !recompiler.NativeSupported {
		log.Warn(log.CliMonitoring, "native execution unavailable, using interpreter")
		cfg.Execution.Backend = chrono.BackendInterpreter
	}
	o.cfg = cfg
	return nil
}

// readInput parses a puzzle file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) (*program.Input, error) {
	if path == "-" {
		return program.ParseInput(cmd.InOrStdin())
	}
	return program.ParseFile(path)
}

func (o *options) newMachine(in *program.Input) (*chrono.Machine, error) {
	m, err := chrono.NewMachine(in.Code, o.cfg.Execution.Backend)
	if err != nil {
		return nil, fmt.Errorf("prepare program: %w", err)
	}
	return m, nil
}
