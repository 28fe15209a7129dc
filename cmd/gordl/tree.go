package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/golangrdl/gordl"
)

func (c *cli) treeCmd() *cobra.Command {
	var (
		depth int
		props bool
	)
	cmd := &cobra.Command{
		Use:   "tree <doc>...",
		Short: "Print the instance hierarchy",
		Long: `The tree command prints every elaborated instance with its absolute
address and size, or its bit range for fields.

Example:
  gordl tree uart.yaml
  gordl tree --depth 2 uart.yaml
  gordl tree --props uart.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := c.load(cmd, args)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, n := range root.Nodes() {
				printTree(w, n, 0, depth, props)
			}
			return c.finish(root)
		},
	}
	cmd.Flags().IntVar(&depth, "depth", 0, "maximum depth to print (0 = unlimited)")
	cmd.Flags().BoolVar(&props, "props", false, "show local properties")
	return cmd
}

func printTree(w io.Writer, n gordl.Node, level, maxDepth int, props bool) {
	indent := strings.Repeat("  ", level)
	fmt.Fprintf(w, "%s%s %s%s\n", indent, n.Kind(), n.Name(), placement(n))
	if props {
		for name, v := range n.Properties().All() {
			fmt.Fprintf(w, "%s    %s = %s\n", indent, name, v)
		}
		for name, v := range n.DefaultProperties().All() {
			fmt.Fprintf(w, "%s    default %s = %s\n", indent, name, v)
		}
	}
	if maxDepth > 0 && level+1 >= maxDepth {
		return
	}
	for _, child := range n.Children() {
		printTree(w, child, level+1, maxDepth, props)
	}
}

func placement(n gordl.Node) string {
	var s string
	switch n := n.(type) {
	case *gordl.Field:
		s = fmt.Sprintf(" [%d:%d] sw=%s hw=%s", n.Msb(), n.Lsb(), n.SWAccess(), n.HWAccess())
	case *gordl.Signal:
		s = fmt.Sprintf(" width=%d", n.Width())
	case gordl.Addressable:
		s = fmt.Sprintf(" @0x%x size=0x%x", n.AbsoluteAddress(), n.Size())
	}
	if n.External() {
		s += " external"
	}
	return s
}
