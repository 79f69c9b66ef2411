package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/elmstronaut/internal/ui/output"
)

func (c *CLI) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <component>...",
		Short: "Report whether the Elm renderer owns component references",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := c.app.Check(cmd.Context(), args)
			if err != nil {
				return err
			}

			out := output.New(cmd.OutOrStdout())
			for _, r := range results {
				_, _ = fmt.Fprintf(out, "%s %s\n", output.Mark(out, r.Owned), r.Ref)
			}
			return nil
		},
	}
}
