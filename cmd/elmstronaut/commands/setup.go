package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const yamlIndent = 2

func (c *CLI) newSetupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Show what the integration contributes to the host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			command, _ := cmd.Flags().GetString("command")

			report, err := c.app.Setup(cmd.Context(), command)
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(yamlIndent)
			if err := enc.Encode(report); err != nil {
				return zerr.Wrap(err, "failed to encode setup report")
			}
			return enc.Close()
		},
	}
	cmd.Flags().String("command", "build", "Host command: dev, build or preview")
	return cmd
}
