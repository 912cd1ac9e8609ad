package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/inercia/autorun/internal/config"
	"github.com/inercia/autorun/internal/logging"
)

var watchInterval time.Duration

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Launch, then relaunch whenever the workspace file changes",
	Long: `Launch the configured terminals, then watch the workspace file and
relaunch every time it is created, saved or removed. Relaunches never
overlap and happen at most once per --interval.

Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		path, err := rt.resolver.WorkspaceFilePath()
		if err != nil {
			return err
		}
		if path == "" {
			return errors.New("no workspace open")
		}

		fw, err := config.NewFileWatcher(path, logging.Watch())
		if err != nil {
			return fmt.Errorf("failed to create watcher: %w", err)
		}
		defer fw.Close()
		if err := fw.Start(); err != nil {
			return err
		}

		ctx := cmd.Context()
		if err := rt.launch(ctx); err != nil {
			logging.Watch().Warn("Initial launch incomplete", "error", err)
		}
		return watchLoop(ctx, fw.Events(), rate.NewLimiter(rate.Every(watchInterval), 1), rt.launch, logging.Watch())
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchInterval, "interval", time.Second, "Minimum time between relaunches")
}

// watchLoop relaunches once per change event until ctx is done. Launches
// run on this goroutine, one at a time; events arriving meanwhile coalesce
// in the watcher.
func watchLoop(ctx context.Context, events <-chan config.FileChangeEvent, limiter *rate.Limiter,
	relaunch func(context.Context) error, logger *slog.Logger) error {
	logger.Info("Watching workspace file")
	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopped watching")
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := limiter.Wait(ctx); err != nil {
				// Context canceled while throttled.
				return nil
			}
			logger.Info("Workspace file changed, relaunching",
				"path", ev.Path,
				"removed", ev.Removed)
			if err := relaunch(ctx); err != nil {
				logger.Warn("Relaunch incomplete", "error", err)
			}
		}
	}
}
