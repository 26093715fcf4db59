package arbor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/arborbuild/arbor/internal/buildlog"
)

// CLIOptions is the CLI's flag surface: -f/--file, -l/--log-level,
// -v/--verbose, --no-color.
type CLIOptions struct {
	// File documents the package path containing the BuildFunc passed
	// to NewCLI. Go has no runtime script loader, so this flag is
	// accepted but no command reads it: it does not select which
	// BuildFunc runs and does not appear in `list --json` output.
	File     string
	LogLevel string
	Verbose  bool
	NoColor  bool
}

// NewCLI builds the `arbor` root command for a single BuildFunc, using
// github.com/spf13/cobra and github.com/spf13/pflag.
func NewCLI(build BuildFunc) *cobra.Command {
	opts := &CLIOptions{File: "build.go", LogLevel: "info"}
	jsonOut := false

	root := &cobra.Command{
		Use:           "arbor",
		Short:         "arbor runs declarative project/target/task builds",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addPersistentFlags(root.PersistentFlags(), opts)

	runCmd := &cobra.Command{
		Use:   "run [targets...]",
		Short: "execute one or more target specs (target or project:target)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRunCommand(cmd.Context(), build, args, opts)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "print every (project, target) pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListCommand(build, jsonOut)
		},
	}
	listCmd.Flags().BoolVar(&jsonOut, "json", false, "machine-readable introspection output")

	root.AddCommand(runCmd, listCmd)
	return root
}

// addPersistentFlags registers the shared flag surface onto fs, taking a
// *pflag.FlagSet directly so it can be exercised independently of any
// particular cobra.Command.
func addPersistentFlags(fs *pflag.FlagSet, opts *CLIOptions) {
	fs.StringVarP(&opts.File, "file", "f", opts.File, "build-file package path")
	fs.StringVarP(&opts.LogLevel, "log-level", "l", opts.LogLevel, "error|warn|info|debug")
	fs.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (raises log level to debug)")
	fs.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
}

func levelFor(opts *CLIOptions) buildlog.Level {
	if opts.Verbose {
		return buildlog.LevelDebug
	}
	switch opts.LogLevel {
	case "error":
		return buildlog.LevelError
	case "warn":
		return buildlog.LevelWarn
	case "debug":
		return buildlog.LevelDebug
	default:
		return buildlog.LevelInfo
	}
}

func runRunCommand(ctx context.Context, build BuildFunc, specs []string, opts *CLIOptions) error {
	if len(specs) == 0 {
		return newErr(KindInvalidTaskConfig, "run requires at least one target spec")
	}
	logger := buildlog.New(buildlog.Config{Level: levelFor(opts), NoColor: opts.NoColor})

	err := Run(ctx, build, specs, WithLogger(logger))
	if err != nil {
		// A single "Build failed" line with the underlying cause and no
		// partial-success summary. The core's errors record no stack
		// trace, so %+v under -v prints the same text as %v.
		if opts.Verbose {
			fmt.Fprintf(os.Stderr, "Build failed: %+v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Build failed: %v\n", err)
		}
		return err
	}
	return nil
}

func runListCommand(build BuildFunc, jsonOut bool) error {
	registry := NewRegistry()
	if err := build(registry); err != nil {
		return wrapErr(KindInvalidTaskConfig, err, "build configuration failed")
	}
	registry.Freeze()

	if jsonOut {
		return printListJSON(registry)
	}
	for _, pair := range registry.ListTargets() {
		fmt.Println(pair)
	}
	return nil
}

// listEntry is one row of `arbor list --json`'s introspection output.
type listEntry struct {
	Project      string   `json:"project"`
	Target       string   `json:"target"`
	Dependencies []string `json:"dependencies"`
	Tasks        []string `json:"tasks"`
}

func printListJSON(registry *Registry) error {
	var entries []listEntry
	for _, p := range registry.Projects() {
		for _, t := range p.Targets() {
			e := listEntry{Project: p.Name(), Target: t.Name()}
			for _, d := range t.Dependencies() {
				e.Dependencies = append(e.Dependencies, d.String())
			}
			for _, task := range t.Tasks() {
				e.Tasks = append(e.Tasks, taskLabel(task))
			}
			entries = append(entries, e)
		}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}
