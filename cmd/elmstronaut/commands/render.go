package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/elmstronaut/internal/app"
)

func (c *CLI) newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <component>",
		Short: "Print the server markup of a component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fallback, _ := cmd.Flags().GetString("fallback")

			html, err := c.app.Render(cmd.Context(), app.RenderOptions{
				Component:   args[0],
				Fallback:    fallback,
				HasFallback: cmd.Flags().Changed("fallback"),
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), html)
			return err
		},
	}
	cmd.Flags().String("fallback", "", "Markup of the fallback slot")
	return cmd
}
