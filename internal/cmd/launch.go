package cmd

import (
	"github.com/spf13/cobra"
)

// launchCmd represents the launch command
var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Launch the configured terminals now",
	Long: `Resolve the configuration and launch its terminals.

The configuration is read again on every run, so edits to the workspace
file or the settings take effect immediately. With closeExisting enabled
the terminals of the previous launch are closed first, which makes the
command safe to repeat.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		return rt.launch(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(launchCmd)
}
