package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *CLI) newAssetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assets [name]",
		Short: "List embedded assets or print one of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				_, err := fmt.Fprintln(out, strings.Join(c.app.AssetNames(), "\n"))
				return err
			}

			content, err := c.app.Asset(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, content)
			return err
		},
	}
}
