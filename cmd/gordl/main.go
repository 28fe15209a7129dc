// Command gordl elaborates register descriptions and prints, exports or
// generates code from the result.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/golangrdl/gordl"
	"github.com/golangrdl/gordl/cmd/internal/cliutil"
)

// Exit codes.
const (
	exitOK       = 0 // success
	exitError    = 1 // user error or elaboration failure
	exitWarnings = 2 // --strict and the model has diagnostics
)

type cli struct {
	verbose     int
	parallel    int
	coerce      bool
	noHeuristic bool
	strict      bool

	stdout io.Writer
	stderr io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	c := &cli{stdout: stdout, stderr: stderr}
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(context.Background()); err != nil {
		if code, ok := err.(exitCode); ok {
			return int(code)
		}
		cliutil.PrintError(stderr, "%v", err)
		return exitError
	}
	return exitOK
}

// exitCode ends a command with a non-zero status after its output has
// already been written.
type exitCode int

func (e exitCode) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gordl",
		Short: "Elaborate SystemRDL register descriptions",
		Long: `gordl reads register descriptions from YAML documents, elaborates them
into an address-resolved register model and prints, exports or generates
code from the result.

Arguments are documents or directories; directories are searched
recursively for .yaml and .yml files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.CountVarP(&c.verbose, "verbose", "v", "enable debug logging (-vv for trace)")
	flags.IntVar(&c.parallel, "parallel", runtime.NumCPU(), "top-level descriptions elaborated concurrently")
	flags.BoolVar(&c.coerce, "coerce-ranges", false, "turn reversed field ranges into single bits with a warning")
	flags.BoolVar(&c.noHeuristic, "no-heuristic", false, "decode every document, even ones that do not look like descriptions")
	flags.BoolVar(&c.strict, "strict", false, "exit with status 2 when the model has diagnostics")

	root.AddCommand(
		c.elaborateCmd(),
		c.dumpCmd(),
		c.treeCmd(),
		c.vhdlCmd(),
		c.codesCmd(),
		c.versionCmd(),
	)
	return root
}

// load elaborates the documents named by args.
func (c *cli) load(cmd *cobra.Command, args []string) (*gordl.Root, error) {
	src, err := cliutil.Sources(args)
	if err != nil {
		return nil, err
	}
	opts := []gordl.Option{gordl.WithParallelism(c.parallel)}
	if logger := cliutil.Logger(c.verbose, c.stderr); logger != nil {
		opts = append(opts, gordl.WithLogger(logger))
	}
	if c.coerce {
		opts = append(opts, gordl.WithRangePolicy(gordl.RangeCoerce))
	}
	if c.noHeuristic {
		opts = append(opts, gordl.WithNoHeuristic())
	}
	return gordl.Load(cmd.Context(), src, opts...)
}

// finish reports diagnostics on stderr and applies --strict.
func (c *cli) finish(root *gordl.Root) error {
	diags := root.Diagnostics()
	for _, d := range diags {
		cliutil.PrintDiagnostic(c.stderr, d)
	}
	if c.strict && len(diags) > 0 {
		return exitCode(exitWarnings)
	}
	return nil
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			version := "(devel)"
			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
				version = info.Main.Version
			}
			fmt.Fprintf(cmd.OutOrStdout(), "gordl %s\n", version)
		},
	}
}
