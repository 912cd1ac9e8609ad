package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inercia/autorun/internal/config"
	"github.com/inercia/autorun/internal/launch"
	"github.com/inercia/autorun/internal/logging"
	"github.com/inercia/autorun/internal/notify"
	"github.com/inercia/autorun/internal/tmux"
)

// runtime holds the collaborators shared by the commands.
type runtime struct {
	store    *config.SettingsStore
	settings *config.Settings
	roots    []string
	notifier notify.Notifier
	resolver *config.Resolver

	host      launch.Host
	indicator launch.Indicator
}

// terminalHost builds the host and status indicator for the given settings
// and workspace root. Tests replace it with a fake.
var terminalHost = func(ctx context.Context, settings *config.Settings, root string) (launch.Host, launch.Indicator, error) {
	runner, err := tmux.NewExecRunner(settings.TmuxCommand())
	if err != nil {
		return nil, nil, err
	}
	client := tmux.NewClient(runner, logging.Tmux())
	session, err := tmux.SessionName(ctx, client, settings.TmuxSession(), root)
	if err != nil {
		return nil, nil, err
	}
	logging.Tmux().Debug("Using tmux session", "session", session)
	return tmux.NewHost(client, session, logging.Tmux()), tmux.NewIndicator(client, logging.Tmux()), nil
}

// newRuntime loads settings and wires the resolver and terminal host.
func newRuntime(cmd *cobra.Command) (*runtime, error) {
	rt, err := newConfigRuntime(cmd)
	if err != nil {
		return nil, err
	}
	rt.host, rt.indicator, err = terminalHost(cmd.Context(), rt.settings, rt.roots[0])
	if err != nil {
		return nil, fmt.Errorf("failed to set up tmux: %w", err)
	}
	return rt, nil
}

// newConfigRuntime loads settings and wires the resolver only.
func newConfigRuntime(cmd *cobra.Command) (*runtime, error) {
	roots, err := workspaceRoots()
	if err != nil {
		return nil, err
	}
	store := config.NewSettingsStore(settingsPath)
	settings, err := store.Load()
	if err != nil {
		return nil, err
	}

	notifier := notify.NewConsole(cmd.OutOrStdout(), nil)
	return &runtime{
		store:    store,
		settings: settings,
		roots:    roots,
		notifier: notifier,
		resolver: config.NewResolver(store, roots, notifier, logging.Resolver()),
	}, nil
}

// launch resolves a fresh configuration and launches it.
func (rt *runtime) launch(ctx context.Context) error {
	cfg, err := rt.resolver.Resolve()
	if err != nil {
		return err
	}
	return rt.launchConfig(ctx, cfg)
}

func (rt *runtime) launchConfig(ctx context.Context, cfg config.AutorunConfig) error {
	orch := launch.NewOrchestrator(rt.host, rt.notifier, logging.Launch())
	if _, err := orch.Launch(ctx, cfg); err != nil {
		if errors.Is(err, launch.ErrNoTerminals) {
			return nil
		}
		return fmt.Errorf("launch incomplete: %w", err)
	}
	return nil
}
