package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/elmstronaut/internal/app"
)

func (c *CLI) newDevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Build all Elm sources and rebuild them on change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, _ := cmd.Flags().GetString("out")
			return c.app.Dev(cmd.Context(), app.DevOptions{OutDir: out})
		},
	}
	cmd.Flags().StringP("out", "o", "dist/elm", "Directory receiving one <Module>.js per source file")
	return cmd
}
