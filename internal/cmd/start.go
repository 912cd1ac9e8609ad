package cmd

import (
	"github.com/spf13/cobra"

	"github.com/inercia/autorun/internal/logging"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Startup hook: launch terminals when launch-on-start is enabled",
	Long: `Run this from a shell rc file or a tmux hook.

It updates the tmux status indicator and launches the configured terminals
only when launchOnStart is true.

Example (tmux.conf):
  set-hook -g session-created 'run-shell "autorun start -d #{pane_current_path}"'
  set -g status-right '#{@autorun_status}'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		cfg, err := rt.resolver.Resolve()
		if err != nil {
			return err
		}

		if err := rt.indicator.SetLaunchOnStart(cmd.Context(), cfg.LaunchOnStart); err != nil {
			logging.Tmux().Warn("Failed to update status indicator", "error", err)
		}

		if !cfg.LaunchOnStart {
			logging.Launch().Debug("Launch on start disabled", "source", cfg.Source)
			return nil
		}
		return rt.launchConfig(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
