package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/golangrdl/gordl/cmd/internal/cliutil"
	"github.com/golangrdl/gordl/internal/export"
)

func (c *cli) dumpCmd() *cobra.Command {
	var (
		output   string
		validate bool
	)
	cmd := &cobra.Command{
		Use:   "dump <doc>...",
		Short: "Write the elaborated model as JSON",
		Long: `The dump command writes the elaborated model as a JSON document.
With --validate the document is first checked against the embedded
schema.

Example:
  gordl dump uart.yaml
  gordl dump --validate -o uart.json uart.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := c.load(cmd, args)
			if err != nil {
				return err
			}
			doc := export.FromRoot(root)
			if validate {
				if err := export.Validate(doc); err != nil {
					return fmt.Errorf("export does not match schema: %w", err)
				}
			}

			w, closeOut, err := cliutil.GetOutput(output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := export.Write(w, doc); err != nil {
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
	cmd.Flags().BoolVar(&validate, "validate", false, "validate the document against the schema")
	return cmd
}
