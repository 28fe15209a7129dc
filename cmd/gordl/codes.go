package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/golangrdl/gordl/internal/types"
)

func (c *cli) codesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "codes",
		Short: "List error and diagnostic codes",
		Long: `The codes command lists every error and diagnostic code with the
elaboration phase that reports it. Codes appear in parentheses after
diagnostics and in the "code" field of the JSON export.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, info := range types.AllCodes() {
				fmt.Fprintf(w, "%-24s %s\n", info.Code, info.Phase)
			}
			return nil
		},
	}
}
