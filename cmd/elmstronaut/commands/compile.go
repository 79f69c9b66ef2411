package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/elmstronaut/internal/app"
)

func (c *CLI) newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [files...]",
		Short: "Compile Elm source files into ES modules",
		Long: "Compile Elm source files into ES modules.\n\n" +
			"A single file is written to stdout unless --out is set.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return nil
			}
			dev, _ := cmd.Flags().GetBool("dev")
			ssr, _ := cmd.Flags().GetBool("ssr")
			out, _ := cmd.Flags().GetString("out")

			return c.app.Compile(cmd.Context(), args, app.CompileOptions{
				Dev:    dev,
				SSR:    ssr,
				OutDir: out,
				Out:    cmd.OutOrStdout(),
			})
		},
	}
	cmd.Flags().Bool("dev", false, "Build for the dev server (never optimized)")
	cmd.Flags().Bool("ssr", false, "Only record identity tokens, like the server pass of a build")
	cmd.Flags().StringP("out", "o", "", "Directory receiving one <Module>.js per file")
	return cmd
}
