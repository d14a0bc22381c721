// Package internal implements the iotaa command-line surface: it loads a
// task module, invokes (or merely inspects) one of its tasks, and renders
// the engine's diagnostics and graph output (spec.md §6).
package internal

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/maddenp/iotaa-go"
	"github.com/maddenp/iotaa-go/internal/argcoerce"
	"github.com/maddenp/iotaa-go/internal/cliconfig"
	"github.com/maddenp/iotaa-go/internal/cliversion"
	"github.com/maddenp/iotaa-go/internal/invoke"
	"github.com/maddenp/iotaa-go/internal/modloader"
)

var cfgFile string

// NewRootCmd builds the iotaa command.
func NewRootCmd() *cobra.Command {
	var dryRun bool
	var graph bool
	var show bool
	var threads int
	var verbose bool
	var format string

	cmd := &cobra.Command{
		Use:   "iotaa <module> [task] [arg ...]",
		Short: "Run an asset-driven task workflow",
		Long: `iotaa loads a task module and runs the workflow rooted at one of its
tasks, executing only the tasks whose assets are not already ready.`,
		Version:      cliversion.Version,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, runFlags{
				dryRun:  dryRun,
				graph:   graph,
				show:    show,
				threads: threads,
				verbose: verbose,
				format:  format,
			})
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "CLI defaults config file (default: iotaa.yaml)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "suppress all action execution")
	cmd.Flags().BoolVarP(&graph, "graph", "g", false, "emit a DOT rendering of the graph after execution")
	cmd.Flags().BoolVarP(&show, "show", "s", false, "list the module's tasks and exit without executing")
	cmd.Flags().IntVarP(&threads, "threads", "t", 0, "concurrency level W (default from config, else 1)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level diagnostics")
	cmd.Flags().StringVar(&format, "format", "", "output format for --show (text or yaml)")

	return cmd
}

// Execute runs the iotaa command and exits the process with the
// appropriate exit code (spec.md §6 "Exit codes").
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type runFlags struct {
	dryRun  bool
	graph   bool
	show    bool
	threads int
	verbose bool
	format  string
}

func run(cmd *cobra.Command, args []string, flags runFlags) error {
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("iotaa: get working directory: %w", err)
	}

	cfg, err := cliconfig.LoadConfigWithFile(workDir, cfgFile)
	if err != nil {
		return fmt.Errorf("iotaa: load config: %w", err)
	}
	applyDefaults(cmd, &flags, cfg)

	invocationID := uuid.New().String()[:8]

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	colorize := term.IsTerminal(int(os.Stderr.Fd()))
	minLevel := iotaa.LevelInfo
	if flags.verbose {
		minLevel = iotaa.LevelDebug
		fmt.Fprintf(errOut, "iotaa[%s]: verbose diagnostics enabled\n", invocationID)
	}
	logger := newCLILogger(errOut, minLevel, colorize)

	modID := args[0]
	rest := args[1:]

	if dir := filepath.Dir(modID); dir != "." {
		modloader.AddSearchDir(dir)
	}
	modloader.AddSearchDir(workDir)

	mod, err := modloader.Load(modID)
	if err != nil {
		return err
	}

	if flags.show {
		return showTasks(out, mod, flags.format)
	}

	taskName := ""
	var jsonArgs []string
	if len(rest) > 0 {
		taskName = rest[0]
		jsonArgs = rest[1:]
	} else {
		taskName, err = invoke.FirstTask(mod)
		if err != nil {
			return err
		}
	}

	parsedArgs, err := argcoerce.Parse(jsonArgs)
	if err != nil {
		return err
	}

	root, err := invoke.Root(mod, taskName, parsedArgs)
	if err != nil {
		return err
	}
	if err := root.ProtocolError(); err != nil {
		return fmt.Errorf("iotaa: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, err := iotaa.Run(ctx, root, iotaa.Options{
		DryRun:  flags.dryRun,
		Log:     logger,
		Workers: flags.threads,
	})
	if err != nil {
		return err
	}

	if flags.graph {
		fmt.Fprint(out, result.Graph.DOT())
	}

	return nil
}

// applyDefaults fills in any flag the user did not pass explicitly from
// the loaded CLI config (spec.md §4.7, ADDED).
func applyDefaults(cmd *cobra.Command, flags *runFlags, cfg *cliconfig.Config) {
	if !cmd.Flags().Changed("threads") {
		flags.threads = cfg.Workers
	}
	if !cmd.Flags().Changed("verbose") {
		flags.verbose = cfg.Verbose
	}
	if !cmd.Flags().Changed("dry-run") {
		flags.dryRun = cfg.DryRun
	}
	if !cmd.Flags().Changed("format") {
		flags.format = cfg.Format
	}
	if flags.format == "" {
		flags.format = "text"
	}
}

// signalContext returns a context cancelled on SIGINT/SIGTERM, so that an
// in-flight invocation stops dispatching new work but lets running actions
// finish (spec.md §5 "Cancellation and timeouts").
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}
