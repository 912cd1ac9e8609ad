package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inercia/autorun/internal/logging"
)

// toggleCmd represents the toggle command
var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Turn launch-on-start on or off",
	Long: `Flip the launchOnStart setting and save it to the settings file.

A workspace file that sets launchOnStart itself still takes precedence
for that workspace.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		enabled, err := rt.store.ToggleLaunchOnStart()
		if err != nil {
			return err
		}

		if err := rt.indicator.SetLaunchOnStart(cmd.Context(), enabled); err != nil {
			logging.Tmux().Warn("Failed to update status indicator", "error", err)
		}

		state := "disabled"
		if enabled {
			state = "enabled"
		}
		rt.notifier.Info(fmt.Sprintf("Autorun launch on start %s", state))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toggleCmd)
}
