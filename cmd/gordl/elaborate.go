package main

import (
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/golangrdl/gordl"
)

var summaryKinds = []gordl.Kind{
	gordl.KindAddrMap,
	gordl.KindRegFile,
	gordl.KindReg,
	gordl.KindField,
	gordl.KindMem,
	gordl.KindSignal,
}

func (c *cli) elaborateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "elaborate <doc>...",
		Short: "Elaborate descriptions and print a summary",
		Long: `The elaborate command loads and elaborates the given documents and
prints the number of nodes of each kind and the size of every top-level
instance.

Example:
  gordl elaborate uart.yaml
  gordl elaborate -v --coerce-ranges regs/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := c.load(cmd, args)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), root)
			return c.finish(root)
		},
	}
}

func printSummary(w io.Writer, root *gordl.Root) {
	p := message.NewPrinter(language.English)
	counts := root.Count()
	total := 0
	for _, n := range counts {
		total += n
	}

	p.Fprintf(w, "Elaborated %d top-level nodes (%d nodes in total)\n", root.Len(), total)
	for _, k := range summaryKinds {
		p.Fprintf(w, "  %-8s %8d\n", k, counts[k])
	}

	nodes := root.Nodes()
	if len(nodes) == 0 {
		return
	}
	p.Fprintln(w)
	for _, n := range nodes {
		if a, ok := n.(gordl.Addressable); ok {
			p.Fprintf(w, "  %s (%s): %d bytes\n", n.Name(), n.Kind(), a.Size())
		} else {
			p.Fprintf(w, "  %s (%s)\n", n.Name(), n.Kind())
		}
	}
	if diags := root.Diagnostics(); len(diags) > 0 {
		p.Fprintf(w, "\n%d diagnostics\n", len(diags))
	}
}
