// Package cmd provides the CLI commands for Autorun.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/inercia/autorun/internal/appdir"
	"github.com/inercia/autorun/internal/logging"
)

var (
	// Global flags
	dirFlags      []string // --dir flags: workspace roots, first one wins
	settingsPath  string   // --settings: settings.json override
	debug         bool
	logLevel      string // --log-level flag (debug, info, warn, error)
	logFile       string
	logComponents string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "autorun",
	Short: "Autorun - launch a workspace's terminals in tmux",
	Long: `Autorun opens a predefined set of named terminals for a workspace and
types a startup command into each one.

Terminals come from the workspace file (autorun.config.json by default) or,
when there is no valid workspace file, from the Autorun settings file. They
are laid out as tmux windows ("tabs") or as a row of panes ("split").`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip logging setup for help and completion commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		// Priority: --log-level flag > --debug flag > default (info)
		effectiveLogLevel := "info"
		if logLevel != "" {
			effectiveLogLevel = logLevel
		} else if debug {
			effectiveLogLevel = "debug"
		}
		var components []string
		if logComponents != "" {
			for _, c := range strings.Split(logComponents, ",") {
				c = strings.TrimSpace(c)
				if c != "" {
					components = append(components, c)
				}
			}
		}

		logCfg := logging.Config{
			Level:      effectiveLogLevel,
			Components: components,
			Console:    cmd.ErrOrStderr(),
		}
		path, err := logFilePath(logFile)
		if err != nil {
			return err
		}
		if path != "" {
			logCfg.FileLog = &logging.FileLogConfig{Path: path}
		}
		if err := logging.Initialize(logCfg); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Close()
	},
}

// Execute adds all child commands to the root command and runs it.
// SIGINT and SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringArrayVarP(&dirFlags, "dir", "d", nil, "Workspace root. Can be specified multiple times; only the first is used for the workspace file (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "Settings file path (default: settings.json in the Autorun data directory)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging (shorthand for --log-level=debug)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: info)")
	rootCmd.PersistentFlags().StringVarP(&logFile, "logfile", "l", "", "Log file path, or 'auto' for autorun.log in the data directory (logs are also written to console)")
	rootCmd.PersistentFlags().StringVar(&logComponents, "log-components", "", "Comma-separated list of components to log (e.g., 'config,launch'). Empty means all components.")
}

// autoLogFile selects the default log file in the Autorun data directory.
const autoLogFile = "auto"

func logFilePath(flag string) (string, error) {
	if flag != autoLogFile {
		return flag, nil
	}
	if err := appdir.EnsureDir(); err != nil {
		return "", err
	}
	return appdir.LogPath()
}

// workspaceRoots returns the absolute workspace roots from the --dir flags,
// or the current directory when none were given.
func workspaceRoots() ([]string, error) {
	if len(dirFlags) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		return []string{wd}, nil
	}

	roots := make([]string, 0, len(dirFlags))
	for _, dir := range dirFlags {
		absPath, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path %q: %w", dir, err)
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("directory does not exist: %s", absPath)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("path is not a directory: %s", absPath)
		}
		roots = append(roots, absPath)
	}
	return roots, nil
}
