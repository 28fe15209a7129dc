package main

import (
	"github.com/spf13/cobra"

	"github.com/golangrdl/gordl/cmd/internal/cliutil"
	"github.com/golangrdl/gordl/internal/vhdl"
)

func (c *cli) vhdlCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "vhdl <doc>...",
		Short: "Generate VHDL entities for top-level address maps",
		Long: `The vhdl command writes one VHDL entity per top-level addrmap, with a
bus interface and ports for every field whose hw access is not na.

Example:
  gordl vhdl uart.yaml
  gordl vhdl -o uart.vhd uart.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := c.load(cmd, args)
			if err != nil {
				return err
			}
			w, closeOut, err := cliutil.GetOutput(output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := vhdl.Generate(w, root); err != nil {
				_ = closeOut()
				return err
			}
			if err := closeOut(); err != nil {
				return err
			}
			return c.finish(root)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}
